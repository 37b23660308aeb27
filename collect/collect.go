// Package collect turns a path into the ordered list of analysis jobs.
package collect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/analyzer"
)

// Options filters the files collected under a directory.
type Options struct {
	// Recursive descends into subdirectories.
	Recursive bool
	// Include keeps only files matching at least one glob. Empty keeps all.
	Include []string
	// Exclude drops files, and prunes directories, matching any glob.
	Exclude []string
	// MaxDepth limits recursion; 0 means unlimited.
	MaxDepth int
}

// Selector builds the file selector for o, rooted at root.
func (o Options) Selector(root string) (magickit.FileSelector, error) {
	var parts []magickit.FileSelector

	if len(o.Include) > 0 {
		includes := make([]magickit.FileSelector, 0, len(o.Include))
		for _, pattern := range o.Include {
			sel, err := magickit.Glob(pattern)
			if err != nil {
				return nil, err
			}
			includes = append(includes, sel)
		}
		parts = append(parts, magickit.Or(includes...))
	}

	for _, pattern := range o.Exclude {
		sel, err := magickit.ExcludeGlob(pattern)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sel)
	}

	if o.MaxDepth > 0 {
		parts = append(parts, magickit.Depth(o.MaxDepth, root))
	}

	switch len(parts) {
	case 0:
		return magickit.All(), nil
	case 1:
		return parts[0], nil
	}
	return magickit.And(parts...), nil
}

// Collect lists the files under root as jobs in lexical path order, with Seq
// numbered from zero. A root naming a single file yields one job regardless
// of the filters.
func Collect(ctx context.Context, fs magickit.FileReader, root string, opts Options) ([]analyzer.Job, error) {
	info, err := fs.Stat(ctx, root)
	if err != nil {
		return nil, err
	}

	if !info.IsDir {
		return []analyzer.Job{{Seq: 0, Path: info.Path, Size: info.Size}}, nil
	}

	selector, err := opts.Selector(root)
	if err != nil {
		return nil, err
	}

	files, err := magickit.ListWithSelector(ctx, fs, root, selector, opts.Recursive)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	jobs := make([]analyzer.Job, 0, len(files))
	for i, f := range files {
		jobs = append(jobs, analyzer.Job{Seq: i, Path: f.Path, Size: f.Size})
	}
	return jobs, nil
}

// Watch calls fn once for every change matching pattern until ctx ends or fn
// returns an error. The next watch is armed before fn runs so changes made
// while fn is busy trigger another call.
func Watch(ctx context.Context, fs magickit.FileReader, pattern string, fn func(context.Context) error) error {
	watcher, ok := fs.(magickit.CanWatch)
	if !ok {
		return fmt.Errorf("watch %s: %w", pattern, magickit.ErrNotSupported)
	}

	arm := func() (magickit.ChangeToken, context.CancelFunc, error) {
		wctx, cancel := context.WithCancel(ctx)
		token, err := watcher.Watch(wctx, pattern)
		if err != nil {
			cancel()
			return nil, nil, err
		}
		return token, cancel, nil
	}

	token, stop, err := arm()
	if err != nil {
		return err
	}

	for {
		err := waitForChange(ctx, token)
		stop()
		if err != nil {
			return err
		}

		token, stop, err = arm()
		if err != nil {
			return err
		}

		slog.Debug("change detected", "pattern", pattern)
		if err := fn(ctx); err != nil {
			stop()
			return err
		}
	}
}

func waitForChange(ctx context.Context, token magickit.ChangeToken) error {
	changed := make(chan struct{}, 1)
	unregister := token.RegisterChangeCallback(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unregister()

	if token.HasChanged() {
		return nil
	}

	select {
	case <-changed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

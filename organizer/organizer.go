// Package organizer copies analyzed files into per-type destination groups
// using names resolved up front by package naming.
package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/gobeaver/magickit"
	"github.com/gobeaver/magickit/analyzer"
	"github.com/gobeaver/magickit/naming"
	"github.com/gobeaver/magickit/scheduler"
)

// Placement is a file written to the destination.
type Placement struct {
	Index  int
	Source string
	Group  string
	Name   string
	// Path is Group/Name, relative to the destination root.
	Path string
	Size int64
}

// Result summarizes an organize run.
type Result struct {
	Written []Placement
	// Failed counts writes that errored; they are logged and not retried.
	Failed int
	// Skipped counts records that were not eligible for organizing.
	Skipped int
	// Cancelled counts placements never dispatched because ctx ended.
	Cancelled int
	Plan      naming.Plan
	Duration  time.Duration
}

// Organizer writes copies of source files into dst/<Group>/<Name>.
type Organizer struct {
	src      magickit.FileReader
	dst      magickit.FileSystem
	limit    int
	logger   *slog.Logger
	group    func(analyzer.FileRecord) string
	progress func(scheduler.Stats)
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithLimit sets how many writes may be in flight.
func WithLimit(limit int) Option {
	return func(o *Organizer) {
		if limit > 0 {
			o.limit = limit
		}
	}
}

// WithLogger sets the organizer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Organizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithGroupFunc overrides how a record maps to a group directory. The result
// is passed through naming.SanitizeGroup.
func WithGroupFunc(fn func(analyzer.FileRecord) string) Option {
	return func(o *Organizer) {
		if fn != nil {
			o.group = fn
		}
	}
}

// WithProgress receives scheduler stats after every settled write.
func WithProgress(fn func(scheduler.Stats)) Option {
	return func(o *Organizer) {
		o.progress = fn
	}
}

// New creates an organizer reading from src and writing to dst.
func New(src magickit.FileReader, dst magickit.FileSystem, opts ...Option) *Organizer {
	o := &Organizer{
		src:    src,
		dst:    dst,
		limit:  scheduler.WriteLimit,
		logger: slog.Default(),
		group:  func(rec analyzer.FileRecord) string { return rec.Type },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Eligible reports whether a record is organized. Unknown, unreadable,
// failed and corrupt files stay where they are.
func Eligible(rec analyzer.FileRecord) bool {
	return rec.Identified()
}

// Organize resolves the whole naming plan, then writes every eligible record
// concurrently. A failed write never aborts the batch.
func (o *Organizer) Organize(ctx context.Context, records []analyzer.FileRecord) (*Result, error) {
	started := time.Now()
	res := &Result{}

	var (
		eligible []analyzer.FileRecord
		entries  []naming.Entry
	)
	for _, rec := range records {
		if !Eligible(rec) {
			res.Skipped++
			continue
		}
		eligible = append(eligible, rec)
		entries = append(entries, naming.Entry{
			Group: naming.SanitizeGroup(o.group(rec)),
			Name:  rec.Name,
		})
	}

	resolver := naming.NewResolver()
	if err := o.claimExisting(ctx, resolver, entries); err != nil {
		return nil, err
	}
	res.Plan = resolver.Resolve(entries)

	placements := make([]Placement, len(res.Plan.Assignments))
	for i, a := range res.Plan.Assignments {
		rec := eligible[a.Index]
		placements[i] = Placement{
			Index:  i,
			Source: rec.Path,
			Group:  a.Group,
			Name:   a.Final,
			Path:   path.Join(a.Group, a.Final),
			Size:   rec.Size,
		}
	}

	o.logger.Info("organize started", "files", len(placements), "skipped", res.Skipped, "concurrency", o.limit)

	// Group directories created by this batch.
	var dirs sync.Map

	handler := func(ctx context.Context, p Placement) (Placement, error) {
		if err := o.write(context.WithoutCancel(ctx), &dirs, p); err != nil {
			return p, err
		}
		return p, nil
	}

	written, stats, err := scheduler.Run(ctx, placements, handler,
		scheduler.WithLimit(o.limit),
		scheduler.WithLogger(o.logger),
		scheduler.WithProgress(o.progress),
	)
	if err != nil {
		return nil, err
	}

	sort.Slice(written, func(i, j int) bool { return written[i].Index < written[j].Index })
	res.Written = written
	res.Failed = stats.Failed
	res.Cancelled = stats.Skipped
	res.Duration = time.Since(started)

	o.logger.Info("organize finished",
		"written", len(res.Written),
		"failed", res.Failed,
		"cancelled", res.Cancelled,
		"elapsed", res.Duration)

	return res, nil
}

// claimExisting seeds the resolver with names already present in the
// destination groups so writes never collide with earlier runs.
func (o *Organizer) claimExisting(ctx context.Context, r *naming.Resolver, entries []naming.Entry) error {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if _, ok := seen[e.Group]; ok {
			continue
		}
		seen[e.Group] = struct{}{}

		exists, err := o.dst.DirExists(ctx, e.Group)
		if err != nil {
			return fmt.Errorf("check group %s: %w", e.Group, err)
		}
		if !exists {
			continue
		}

		files, err := o.dst.ListContents(ctx, e.Group, false)
		if err != nil {
			return fmt.Errorf("list group %s: %w", e.Group, err)
		}
		for _, f := range files {
			r.Claim(e.Group, f.Name)
		}
	}
	return nil
}

// ensureGroup creates the group directory once per batch. Concurrent first
// writers may both call CreateDir, which is idempotent.
func (o *Organizer) ensureGroup(ctx context.Context, dirs *sync.Map, group string) error {
	if _, ok := dirs.Load(group); ok {
		return nil
	}
	if err := o.dst.CreateDir(ctx, group); err != nil {
		return err
	}
	dirs.Store(group, struct{}{})
	return nil
}

func (o *Organizer) write(ctx context.Context, dirs *sync.Map, p Placement) error {
	if err := o.ensureGroup(ctx, dirs, p.Group); err != nil {
		o.logger.Warn("create group failed", "group", p.Group, "err", err)
		return err
	}

	rc, err := o.src.Read(ctx, p.Source)
	if err != nil {
		o.logger.Warn("open source failed", "path", p.Source, "err", err)
		return err
	}
	defer rc.Close()

	if err := o.dst.Write(ctx, p.Path, rc); err != nil {
		o.logger.Warn("write failed", "path", p.Source, "dest", p.Path, "err", err)
		return err
	}

	o.logger.Debug("organized", "path", p.Source, "dest", p.Path)
	return nil
}

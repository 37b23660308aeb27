package local

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/gobeaver/magickit"
)

// Adapter provides a local filesystem implementation of magickit.FileSystem
// rooted at a directory. Paths are slash separated and relative to the root.
type Adapter struct {
	root string
}

// New creates a new local filesystem adapter
func New(root string) (*Adapter, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	// Ensure the root directory exists
	if err := os.MkdirAll(absRoot, 0755); err != nil {
		return nil, err
	}

	return &Adapter{
		root: absRoot,
	}, nil
}

// Root returns the absolute root directory.
func (a *Adapter) Root() string {
	return a.root
}

// resolve maps a driver path to an absolute path under the root.
func (a *Adapter) resolve(op, path string) (string, error) {
	fullPath := filepath.Join(a.root, filepath.Clean("/"+filepath.FromSlash(path)))
	if hasParentRef(path) || !isPathUnderRoot(a.root, fullPath) {
		return "", &magickit.PathError{Op: op, Path: path, Err: magickit.ErrNotAllowed}
	}
	return fullPath, nil
}

func (a *Adapter) rel(fullPath string) string {
	rel, err := filepath.Rel(a.root, fullPath)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

// Write implements magickit.FileWriter. The file is created, filled and
// closed; an existing file is only replaced with WithOverwrite(true).
func (a *Adapter) Write(ctx context.Context, path string, content io.Reader, options ...magickit.Option) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("write", path)
	if err != nil {
		return err
	}

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return &magickit.PathError{Op: "write", Path: path, Err: err}
	}

	opts := magickit.ApplyOptions(options...)

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(fullPath, flags, 0644)
	if err != nil {
		return &magickit.PathError{Op: "write", Path: path, Err: mapError(err)}
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		return &magickit.PathError{Op: "write", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &magickit.PathError{Op: "write", Path: path, Err: err}
	}

	return nil
}

// Read implements magickit.FileReader
func (a *Adapter) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("read", path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, &magickit.PathError{Op: "read", Path: path, Err: mapError(err)}
	}
	if info.IsDir() {
		return nil, &magickit.PathError{Op: "read", Path: path, Err: magickit.ErrIsDir}
	}

	f, err := os.Open(fullPath)
	if err != nil {
		return nil, &magickit.PathError{Op: "read", Path: path, Err: mapError(err)}
	}

	return f, nil
}

// ReadAll implements magickit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, path string) ([]byte, error) {
	rc, err := a.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Delete implements magickit.FileWriter
func (a *Adapter) Delete(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("delete", path)
	if err != nil {
		return err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return &magickit.PathError{Op: "delete", Path: path, Err: mapError(err)}
	}
	if info.IsDir() {
		return &magickit.PathError{Op: "delete", Path: path, Err: magickit.ErrIsDir}
	}

	if err := os.Remove(fullPath); err != nil {
		return &magickit.PathError{Op: "delete", Path: path, Err: mapError(err)}
	}

	return nil
}

// FileExists implements magickit.FileReader
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	return a.exists(ctx, "fileexists", path, false)
}

// DirExists implements magickit.FileReader
func (a *Adapter) DirExists(ctx context.Context, path string) (bool, error) {
	return a.exists(ctx, "direxists", path, true)
}

func (a *Adapter) exists(ctx context.Context, op, path string, wantDir bool) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve(op, path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &magickit.PathError{Op: op, Path: path, Err: err}
	}

	return info.IsDir() == wantDir, nil
}

// Stat implements magickit.FileReader
func (a *Adapter) Stat(ctx context.Context, path string) (*magickit.FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("stat", path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, &magickit.PathError{Op: "stat", Path: path, Err: mapError(err)}
	}

	return &magickit.FileInfo{
		Name:    info.Name(),
		Path:    a.rel(fullPath),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}, nil
}

// ListContents implements magickit.FileReader. Entries are sorted by path.
func (a *Adapter) ListContents(ctx context.Context, path string, recursive bool) ([]magickit.FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("listcontents", path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, &magickit.PathError{Op: "listcontents", Path: path, Err: mapError(err)}
	}
	if !info.IsDir() {
		return nil, &magickit.PathError{Op: "listcontents", Path: path, Err: magickit.ErrNotDir}
	}

	var files []magickit.FileInfo

	if recursive {
		err = filepath.WalkDir(fullPath, func(walkPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			// Skip the root directory itself
			if walkPath == fullPath {
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			files = append(files, magickit.FileInfo{
				Name:    d.Name(),
				Path:    a.rel(walkPath),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				IsDir:   d.IsDir(),
			})
			return nil
		})
		if err != nil {
			return nil, &magickit.PathError{Op: "listcontents", Path: path, Err: err}
		}
	} else {
		entries, err := os.ReadDir(fullPath)
		if err != nil {
			return nil, &magickit.PathError{Op: "listcontents", Path: path, Err: err}
		}

		files = make([]magickit.FileInfo, 0, len(entries))
		for _, entry := range entries {
			info, err := entry.Info()
			if err != nil {
				continue
			}

			files = append(files, magickit.FileInfo{
				Name:    entry.Name(),
				Path:    a.rel(filepath.Join(fullPath, entry.Name())),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				IsDir:   info.IsDir(),
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// CreateDir implements magickit.FileWriter
func (a *Adapter) CreateDir(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Continue
	}

	fullPath, err := a.resolve("createdir", path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return &magickit.PathError{Op: "createdir", Path: path, Err: mapError(err)}
	}

	return nil
}

// Checksum implements magickit.CanChecksum for local files.
func (a *Adapter) Checksum(ctx context.Context, path string, algorithm magickit.ChecksumAlgorithm) (string, error) {
	rc, err := a.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	checksum, err := magickit.CalculateChecksum(rc, algorithm)
	if err != nil {
		return "", &magickit.PathError{Op: "checksum", Path: path, Err: err}
	}

	return checksum, nil
}

// Watch implements magickit.CanWatch using fsnotify for native file system
// events. filter is a gobwas/glob pattern matched against the root-relative
// path and the file name. The token is spent after the first matching event.
func (a *Adapter) Watch(ctx context.Context, filter string) (magickit.ChangeToken, error) {
	g, err := glob.Compile(filter, '/')
	if err != nil {
		return nil, &magickit.PathError{Op: "watch", Path: filter, Err: err}
	}

	token := magickit.NewCallbackChangeToken()

	// Watch the longest literal directory prefix of the filter
	watchPath := a.root
	if idx := strings.IndexAny(filter, "*?[{"); idx != 0 {
		literal := filter
		if idx > 0 {
			literal = filter[:idx]
		}
		if lastSlash := strings.LastIndex(literal, "/"); lastSlash > 0 {
			if dir, err := a.resolve("watch", literal[:lastSlash]); err == nil {
				watchPath = dir
			}
		}
	}

	watcher, err := newFSWatcher()
	if err != nil {
		return nil, &magickit.PathError{Op: "watch", Path: filter, Err: err}
	}

	if err := watcher.Add(watchPath); err != nil {
		watcher.Close()
		return nil, &magickit.PathError{Op: "watch", Path: filter, Err: err}
	}

	// For recursive patterns (**), add all subdirectories
	if strings.Contains(filter, "**") {
		_ = filepath.WalkDir(watchPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() && path != watchPath {
				_ = watcher.Add(path)
			}
			return nil
		})
	}

	go func() {
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events():
				if !ok {
					return
				}

				rel := a.rel(event.Name)
				if g.Match(rel) || g.Match(filepath.Base(event.Name)) {
					token.SignalChange()
					return // Token is spent after first change
				}
			case _, ok := <-watcher.Errors():
				if !ok {
					return
				}
			}
		}
	}()

	return token, nil
}

// isPathUnderRoot checks if a path is under a given root directory
func isPathUnderRoot(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return !filepath.IsAbs(rel) && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hasParentRef reports whether path contains a ".." segment.
func hasParentRef(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// mapError translates os errors to magickit sentinels.
func mapError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return magickit.ErrNotExist
	case errors.Is(err, fs.ErrExist):
		return magickit.ErrExist
	case errors.Is(err, fs.ErrPermission):
		return magickit.ErrPermission
	}
	return err
}

// Ensure Adapter implements interfaces
var (
	_ magickit.FileSystem  = (*Adapter)(nil)
	_ magickit.CanChecksum = (*Adapter)(nil)
	_ magickit.CanWatch    = (*Adapter)(nil)
)

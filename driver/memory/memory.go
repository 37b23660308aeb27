package memory

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/gobeaver/magickit"
)

// memoryFile represents a file stored in memory
type memoryFile struct {
	content []byte
	modTime time.Time
}

// memoryDir represents a directory in memory
type memoryDir struct {
	modTime time.Time
}

// watchEntry represents a single watch subscription
type watchEntry struct {
	filter glob.Glob
	token  *magickit.CallbackChangeToken
}

// Adapter provides an in-memory implementation of magickit.FileSystem.
// Used as a test fixture and as a dry-run destination for organize.
type Adapter struct {
	mu    sync.RWMutex
	files map[string]*memoryFile
	dirs  map[string]*memoryDir
	size  int64 // Current total size

	// Watch support
	watchMu sync.RWMutex
	watches []*watchEntry
}

// New creates a new in-memory filesystem adapter
func New() *Adapter {
	a := &Adapter{
		files: make(map[string]*memoryFile),
		dirs:  make(map[string]*memoryDir),
	}

	// Create root directory
	a.dirs[""] = &memoryDir{modTime: time.Now()}

	return a
}

// Write implements magickit.FileWriter
func (a *Adapter) Write(ctx context.Context, p string, content io.Reader, options ...magickit.Option) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p = normalizePath(p)

	if !isValidPath(p) || p == "" {
		return &magickit.PathError{Op: "write", Path: p, Err: magickit.ErrNotAllowed}
	}

	// Read content into memory
	data, err := io.ReadAll(content)
	if err != nil {
		return &magickit.PathError{Op: "write", Path: p, Err: err}
	}

	opts := magickit.ApplyOptions(options...)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, isDir := a.dirs[p]; isDir {
		return &magickit.PathError{Op: "write", Path: p, Err: magickit.ErrIsDir}
	}

	// Check if file exists and overwrite is not allowed
	if existing, exists := a.files[p]; exists {
		if !opts.Overwrite {
			return &magickit.PathError{Op: "write", Path: p, Err: magickit.ErrExist}
		}
		a.size -= int64(len(existing.content))
	}

	a.ensureParentDirs(p)

	a.files[p] = &memoryFile{content: data, modTime: time.Now()}
	a.size += int64(len(data))

	// Notify watchers of the change
	go a.notifyWatchers(p)

	return nil
}

// Read implements magickit.FileReader
func (a *Adapter) Read(ctx context.Context, p string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	defer a.mu.RUnlock()

	file, exists := a.files[p]
	if !exists {
		if _, isDir := a.dirs[p]; isDir {
			return nil, &magickit.PathError{Op: "read", Path: p, Err: magickit.ErrIsDir}
		}
		return nil, &magickit.PathError{Op: "read", Path: p, Err: magickit.ErrNotExist}
	}

	// Content is never mutated in place; Write replaces the slice.
	return io.NopCloser(bytes.NewReader(file.content)), nil
}

// ReadAll implements magickit.FileReader
func (a *Adapter) ReadAll(ctx context.Context, p string) ([]byte, error) {
	rc, err := a.Read(ctx, p)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Delete implements magickit.FileWriter
func (a *Adapter) Delete(ctx context.Context, p string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.Lock()
	defer a.mu.Unlock()

	file, exists := a.files[p]
	if !exists {
		return &magickit.PathError{Op: "delete", Path: p, Err: magickit.ErrNotExist}
	}

	a.size -= int64(len(file.content))
	delete(a.files, p)

	go a.notifyWatchers(p)

	return nil
}

// FileExists implements magickit.FileReader
func (a *Adapter) FileExists(ctx context.Context, p string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	defer a.mu.RUnlock()

	_, exists := a.files[p]
	return exists, nil
}

// DirExists implements magickit.FileReader
func (a *Adapter) DirExists(ctx context.Context, p string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	defer a.mu.RUnlock()

	_, exists := a.dirs[p]
	return exists, nil
}

// Stat implements magickit.FileReader
func (a *Adapter) Stat(ctx context.Context, p string) (*magickit.FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	defer a.mu.RUnlock()

	if file, exists := a.files[p]; exists {
		return &magickit.FileInfo{
			Name:    path.Base(p),
			Path:    p,
			Size:    int64(len(file.content)),
			ModTime: file.modTime,
		}, nil
	}

	if dir, exists := a.dirs[p]; exists {
		return &magickit.FileInfo{
			Name:    path.Base(p),
			Path:    p,
			ModTime: dir.modTime,
			IsDir:   true,
		}, nil
	}

	return nil, &magickit.PathError{Op: "stat", Path: p, Err: magickit.ErrNotExist}
}

// ListContents implements magickit.FileReader. Entries are sorted by path.
func (a *Adapter) ListContents(ctx context.Context, p string, recursive bool) ([]magickit.FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, exists := a.dirs[p]; !exists {
		if _, isFile := a.files[p]; isFile {
			return nil, &magickit.PathError{Op: "listcontents", Path: p, Err: magickit.ErrNotDir}
		}
		return nil, &magickit.PathError{Op: "listcontents", Path: p, Err: magickit.ErrNotExist}
	}

	prefix := ""
	if p != "" {
		prefix = p + "/"
	}

	// include reports whether candidate is listed under p.
	include := func(candidate string) bool {
		if candidate == "" || candidate == p || !strings.HasPrefix(candidate, prefix) {
			return false
		}
		return recursive || !strings.Contains(strings.TrimPrefix(candidate, prefix), "/")
	}

	var files []magickit.FileInfo
	for filePath, file := range a.files {
		if include(filePath) {
			files = append(files, magickit.FileInfo{
				Name:    path.Base(filePath),
				Path:    filePath,
				Size:    int64(len(file.content)),
				ModTime: file.modTime,
			})
		}
	}
	for dirPath, dir := range a.dirs {
		if include(dirPath) {
			files = append(files, magickit.FileInfo{
				Name:    path.Base(dirPath),
				Path:    dirPath,
				ModTime: dir.modTime,
				IsDir:   true,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// CreateDir implements magickit.FileWriter. Creating an existing directory
// is not an error.
func (a *Adapter) CreateDir(ctx context.Context, p string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p = normalizePath(p)

	if !isValidPath(p) {
		return &magickit.PathError{Op: "createdir", Path: p, Err: magickit.ErrNotAllowed}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.files[p]; exists {
		return &magickit.PathError{Op: "createdir", Path: p, Err: magickit.ErrExist}
	}
	if _, exists := a.dirs[p]; exists {
		return nil
	}

	a.ensureParentDirs(p)
	a.dirs[p] = &memoryDir{modTime: time.Now()}

	return nil
}

// Clear removes all files and directories from the memory filesystem
func (a *Adapter) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.files = make(map[string]*memoryFile)
	a.dirs = map[string]*memoryDir{"": {modTime: time.Now()}}
	a.size = 0
}

// Size returns the current total size of all stored files
func (a *Adapter) Size() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.size
}

// FileCount returns the number of files stored
func (a *Adapter) FileCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.files)
}

// ensureParentDirs creates all parent directories for a given path
// Must be called with lock held
func (a *Adapter) ensureParentDirs(p string) {
	dir := path.Dir(p)
	for dir != "" && dir != "." && dir != "/" {
		if _, exists := a.dirs[dir]; !exists {
			a.dirs[dir] = &memoryDir{modTime: time.Now()}
		}
		dir = path.Dir(dir)
	}
}

// normalizePath converts to a slash separated path without a leading slash.
// ".." segments are kept so isValidPath can reject them.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return ""
	}
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return strings.Join(out, "/")
}

// isValidPath checks if a path is valid (no directory traversal)
func isValidPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// ============================================================================
// Optional Capability Interfaces
// ============================================================================

// Checksum implements magickit.CanChecksum for in-memory files.
func (a *Adapter) Checksum(ctx context.Context, p string, algorithm magickit.ChecksumAlgorithm) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	p = normalizePath(p)

	a.mu.RLock()
	file, exists := a.files[p]
	a.mu.RUnlock()
	if !exists {
		return "", &magickit.PathError{Op: "checksum", Path: p, Err: magickit.ErrNotExist}
	}

	checksum, err := magickit.CalculateChecksum(bytes.NewReader(file.content), algorithm)
	if err != nil {
		return "", &magickit.PathError{Op: "checksum", Path: p, Err: err}
	}

	return checksum, nil
}

// ============================================================================
// Watcher Implementation
// ============================================================================

// Watch implements magickit.CanWatch for in-memory file change detection.
// Supports glob patterns like "**/*.txt", "*.json", "config/*"
func (a *Adapter) Watch(ctx context.Context, filter string) (magickit.ChangeToken, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	g, err := glob.Compile(filter, '/')
	if err != nil {
		return nil, &magickit.PathError{Op: "watch", Path: filter, Err: err}
	}

	token := magickit.NewCallbackChangeToken()

	a.watchMu.Lock()
	a.watches = append(a.watches, &watchEntry{filter: g, token: token})
	a.watchMu.Unlock()

	// Clean up when context is cancelled
	go func() {
		<-ctx.Done()
		a.removeWatch(token)
	}()

	return token, nil
}

// notifyWatchers signals all watchers whose filter matches the given path or
// its base name
func (a *Adapter) notifyWatchers(p string) {
	a.watchMu.RLock()
	defer a.watchMu.RUnlock()

	for _, entry := range a.watches {
		if entry.filter.Match(p) || entry.filter.Match(path.Base(p)) {
			entry.token.SignalChange()
		}
	}
}

// removeWatch removes a watch entry by token
func (a *Adapter) removeWatch(token *magickit.CallbackChangeToken) {
	a.watchMu.Lock()
	defer a.watchMu.Unlock()

	for i, entry := range a.watches {
		if entry.token == token {
			a.watches[i] = a.watches[len(a.watches)-1]
			a.watches = a.watches[:len(a.watches)-1]
			return
		}
	}
}

// Ensure Adapter implements interfaces
var (
	_ magickit.FileSystem  = (*Adapter)(nil)
	_ magickit.CanChecksum = (*Adapter)(nil)
	_ magickit.CanWatch    = (*Adapter)(nil)
)

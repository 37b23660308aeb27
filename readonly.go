package magickit

import (
	"context"
	"errors"
	"io"
)

// ErrReadOnly is returned when a write operation is attempted on a read-only filesystem.
var ErrReadOnly = errors.New("filesystem is read-only")

// ReadOnlyFileSystem wraps a FileSystem to prevent all write operations.
// Analysis sources are opened through it so a run can never modify the
// files it inspects.
//
//	fs, _ := magickit.CreateDriver("local", "/data")
//	src := magickit.NewReadOnlyFileSystem(fs)
//
//	err := src.Write(ctx, "file.txt", r)
//	// err wraps ErrReadOnly
type ReadOnlyFileSystem struct {
	fs             FileSystem
	onWriteAttempt func(op, path string)
}

// ReadOnlyOption is a functional option for configuring ReadOnlyFileSystem.
type ReadOnlyOption func(*ReadOnlyFileSystem)

// WithWriteAttemptHandler sets a function called for every rejected write.
func WithWriteAttemptHandler(handler func(op, path string)) ReadOnlyOption {
	return func(r *ReadOnlyFileSystem) {
		r.onWriteAttempt = handler
	}
}

// NewReadOnlyFileSystem creates a read-only wrapper around a FileSystem.
// Write, Delete and CreateDir fail with ErrReadOnly.
func NewReadOnlyFileSystem(fs FileSystem, opts ...ReadOnlyOption) *ReadOnlyFileSystem {
	r := &ReadOnlyFileSystem{fs: fs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Unwrap returns the underlying FileSystem.
func (r *ReadOnlyFileSystem) Unwrap() FileSystem {
	return r.fs
}

func (r *ReadOnlyFileSystem) readOnlyError(op, path string) error {
	if r.onWriteAttempt != nil {
		r.onWriteAttempt(op, path)
	}
	return &PathError{Op: op, Path: path, Err: ErrReadOnly}
}

// ============================================================================
// Read Operations (Delegated)
// ============================================================================

func (r *ReadOnlyFileSystem) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	return r.fs.Read(ctx, path)
}

func (r *ReadOnlyFileSystem) ReadAll(ctx context.Context, path string) ([]byte, error) {
	return r.fs.ReadAll(ctx, path)
}

func (r *ReadOnlyFileSystem) FileExists(ctx context.Context, path string) (bool, error) {
	return r.fs.FileExists(ctx, path)
}

func (r *ReadOnlyFileSystem) DirExists(ctx context.Context, path string) (bool, error) {
	return r.fs.DirExists(ctx, path)
}

func (r *ReadOnlyFileSystem) Stat(ctx context.Context, path string) (*FileInfo, error) {
	return r.fs.Stat(ctx, path)
}

func (r *ReadOnlyFileSystem) ListContents(ctx context.Context, path string, recursive bool) ([]FileInfo, error) {
	return r.fs.ListContents(ctx, path, recursive)
}

// ============================================================================
// Write Operations (Blocked)
// ============================================================================

// Write returns ErrReadOnly.
func (r *ReadOnlyFileSystem) Write(ctx context.Context, path string, content io.Reader, options ...Option) error {
	return r.readOnlyError("write", path)
}

// Delete returns ErrReadOnly.
func (r *ReadOnlyFileSystem) Delete(ctx context.Context, path string) error {
	return r.readOnlyError("delete", path)
}

// CreateDir returns ErrReadOnly.
func (r *ReadOnlyFileSystem) CreateDir(ctx context.Context, path string) error {
	return r.readOnlyError("createdir", path)
}

// ============================================================================
// Optional Interface Delegation
// ============================================================================

// Checksum delegates to the underlying filesystem, or hashes the content
// read through it when the driver has no native support.
func (r *ReadOnlyFileSystem) Checksum(ctx context.Context, path string, algorithm ChecksumAlgorithm) (string, error) {
	if checksummer, ok := r.fs.(CanChecksum); ok {
		return checksummer.Checksum(ctx, path, algorithm)
	}
	rc, err := r.fs.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return CalculateChecksum(rc, algorithm)
}

// Watch delegates to the underlying filesystem if supported.
func (r *ReadOnlyFileSystem) Watch(ctx context.Context, filter string) (ChangeToken, error) {
	if watcher, ok := r.fs.(CanWatch); ok {
		return watcher.Watch(ctx, filter)
	}
	return nil, &PathError{Op: "watch", Path: filter, Err: ErrNotSupported}
}

var (
	_ FileSystem  = (*ReadOnlyFileSystem)(nil)
	_ CanChecksum = (*ReadOnlyFileSystem)(nil)
	_ CanWatch    = (*ReadOnlyFileSystem)(nil)
)

// IsReadOnlyError checks if an error is due to read-only restrictions.
func IsReadOnlyError(err error) bool {
	return errors.Is(err, ErrReadOnly)
}

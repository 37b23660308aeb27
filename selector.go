package magickit

import (
	"context"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// ============================================================================
// FileSelector Interface
// ============================================================================

// FileSelector defines the interface for filtering files during listing operations.
//
// Selectors are composable with And, Or and Not:
//
//	include, _ := magickit.Glob("**/*.{jpg,png}")
//	exclude, _ := magickit.ExcludeGlob("OrganizedFiles")
//	files, err := magickit.ListWithSelector(ctx, fs, "/", magickit.And(include, exclude), true)
type FileSelector interface {
	// Match returns true if the file should be included in results.
	Match(file *FileInfo) bool

	// TraverseDescendants returns true if directory descendants should be traversed.
	// If false, the directory and all its contents are skipped.
	// Only called for directories (file.IsDir == true).
	TraverseDescendants(file *FileInfo) bool
}

// ListWithSelector lists files matching the given selector.
// Set recursive to true for deep traversal.
func ListWithSelector(ctx context.Context, fs FileReader, path string, selector FileSelector, recursive bool) ([]FileInfo, error) {
	if selector == nil {
		selector = All()
	}

	var results []FileInfo
	if err := listRecursive(ctx, fs, path, selector, recursive, &results); err != nil {
		return nil, err
	}

	return results, nil
}

func listRecursive(ctx context.Context, fs FileReader, path string, selector FileSelector, recursive bool, results *[]FileInfo) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	files, err := fs.ListContents(ctx, path, false)
	if err != nil {
		return err
	}

	for i := range files {
		file := &files[i]

		if file.IsDir {
			if recursive && selector.TraverseDescendants(file) {
				if err := listRecursive(ctx, fs, file.Path, selector, recursive, results); err != nil {
					return err
				}
			}
		} else if selector.Match(file) {
			*results = append(*results, *file)
		}
	}

	return nil
}

// ============================================================================
// Built-in Selectors
// ============================================================================

// AllSelector matches all files and traverses all directories.
type AllSelector struct{}

func (s AllSelector) Match(file *FileInfo) bool               { return true }
func (s AllSelector) TraverseDescendants(file *FileInfo) bool { return true }

// All returns a selector that matches all files.
func All() FileSelector {
	return AllSelector{}
}

// ============================================================================
// Glob - Pattern matching backed by gobwas/glob
// ============================================================================

type globSelector struct {
	pattern string
	g       glob.Glob
}

// Glob creates a selector using glob patterns.
// Supports: *, **, ?, [abc], [a-z], {a,b}. A pattern matches when it matches
// either the file name or its path relative to the driver root.
//
// Examples:
//
//	Glob("*.txt")             // All .txt files
//	Glob("**/*.{jpg,png}")    // Images at any depth
//	Glob("logs/*.log")        // Logs directly under logs/
func Glob(pattern string) (FileSelector, error) {
	g, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &globSelector{pattern: pattern, g: g}, nil
}

func (s *globSelector) Match(file *FileInfo) bool {
	return s.g.Match(file.Name) || s.g.Match(cleanSelectorPath(file.Path))
}

func (s *globSelector) TraverseDescendants(file *FileInfo) bool {
	return true
}

type excludeSelector struct {
	g glob.Glob
}

// ExcludeGlob rejects files whose name or path matches pattern and prunes
// matching directories from traversal.
func ExcludeGlob(pattern string) (FileSelector, error) {
	g, err := compileGlob(pattern)
	if err != nil {
		return nil, err
	}
	return &excludeSelector{g: g}, nil
}

func (s *excludeSelector) matches(file *FileInfo) bool {
	return s.g.Match(file.Name) || s.g.Match(cleanSelectorPath(file.Path))
}

func (s *excludeSelector) Match(file *FileInfo) bool {
	return !s.matches(file)
}

func (s *excludeSelector) TraverseDescendants(file *FileInfo) bool {
	return !s.matches(file)
}

func compileGlob(pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidName, pattern, err)
	}
	return g, nil
}

func cleanSelectorPath(path string) string {
	return strings.TrimPrefix(strings.ReplaceAll(path, "\\", "/"), "/")
}

// ============================================================================
// Depth - Depth limiting
// ============================================================================

type depthSelector struct {
	maxDepth int
	basePath string
}

// Depth limits traversal to maxDepth levels.
// Depth 1 = immediate children only.
func Depth(maxDepth int, basePath string) FileSelector {
	return &depthSelector{
		maxDepth: maxDepth,
		basePath: strings.Trim(cleanSelectorPath(basePath), "/"),
	}
}

func (s *depthSelector) getDepth(path string) int {
	rel := strings.Trim(cleanSelectorPath(path), "/")
	if s.basePath != "" && s.basePath != "." {
		rel = strings.Trim(strings.TrimPrefix(rel, s.basePath), "/")
	}
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + 1
}

func (s *depthSelector) Match(file *FileInfo) bool {
	return s.getDepth(file.Path) <= s.maxDepth
}

func (s *depthSelector) TraverseDescendants(file *FileInfo) bool {
	return s.getDepth(file.Path) < s.maxDepth
}

// ============================================================================
// Composable Selectors (And, Or, Not)
// ============================================================================

type andSelector struct {
	selectors []FileSelector
}

// And matches only if ALL selectors match, and traverses a directory only
// when every selector allows it.
func And(selectors ...FileSelector) FileSelector {
	return &andSelector{selectors: selectors}
}

func (s *andSelector) Match(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if !sel.Match(file) {
			return false
		}
	}
	return true
}

func (s *andSelector) TraverseDescendants(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if !sel.TraverseDescendants(file) {
			return false
		}
	}
	return true
}

type orSelector struct {
	selectors []FileSelector
}

// Or matches if ANY selector matches.
func Or(selectors ...FileSelector) FileSelector {
	return &orSelector{selectors: selectors}
}

func (s *orSelector) Match(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if sel.Match(file) {
			return true
		}
	}
	return false
}

func (s *orSelector) TraverseDescendants(file *FileInfo) bool {
	for _, sel := range s.selectors {
		if sel.TraverseDescendants(file) {
			return true
		}
	}
	return false
}

type notSelector struct {
	selector FileSelector
}

// Not inverts a selector's match result.
func Not(selector FileSelector) FileSelector {
	return &notSelector{selector: selector}
}

func (s *notSelector) Match(file *FileInfo) bool {
	return !s.selector.Match(file)
}

func (s *notSelector) TraverseDescendants(file *FileInfo) bool {
	return true
}

// ============================================================================
// FuncSelector - Custom logic
// ============================================================================

type funcSelector struct {
	matchFn func(*FileInfo) bool
}

// FuncSelector creates a selector from a custom function.
//
//	FuncSelector(func(f *magickit.FileInfo) bool {
//	    return f.Size > 0
//	})
func FuncSelector(fn func(*FileInfo) bool) FileSelector {
	return &funcSelector{matchFn: fn}
}

func (s *funcSelector) Match(file *FileInfo) bool               { return s.matchFn(file) }
func (s *funcSelector) TraverseDescendants(file *FileInfo) bool { return true }

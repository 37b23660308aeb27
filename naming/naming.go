// Package naming computes collision-free destination names before any file
// is written.
//
// A Resolver keeps, per destination group, the set of names already claimed
// (compared case-insensitively). Names are resolved in input order, so the
// same input always yields the same plan.
package naming

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameBytes caps a sanitized file name.
const MaxNameBytes = 200

// Unnamed replaces names that sanitize to nothing.
const Unnamed = "unnamed"

const illegalChars = `<>:"/\|?*`

// Entry is one file to place into a destination group.
type Entry struct {
	Group string
	Name  string
}

// Assignment is the resolved name for the entry at Index.
type Assignment struct {
	Index    int
	Group    string
	Original string
	Final    string
}

// Plan is the complete, collision-free naming for a batch.
type Plan struct {
	Assignments []Assignment
}

// Groups returns the distinct groups in the plan, sorted.
func (p Plan) Groups() []string {
	seen := make(map[string]struct{})
	var groups []string
	for _, a := range p.Assignments {
		if _, ok := seen[a.Group]; ok {
			continue
		}
		seen[a.Group] = struct{}{}
		groups = append(groups, a.Group)
	}
	sort.Strings(groups)
	return groups
}

// Renamed returns assignments whose final name differs from the sanitized
// original.
func (p Plan) Renamed() []Assignment {
	var out []Assignment
	for _, a := range p.Assignments {
		if a.Final != Sanitize(a.Original) {
			out = append(out, a)
		}
	}
	return out
}

// Resolver assigns unique names per group. It is not safe for concurrent use;
// resolution happens before any concurrent phase.
type Resolver struct {
	claimed map[string]map[string]struct{}
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{claimed: make(map[string]map[string]struct{})}
}

// Claim marks name as taken in group, e.g. a file already present at the
// destination. Groups differing only in case share one set.
func (r *Resolver) Claim(group, name string) {
	key := strings.ToLower(group)
	set, ok := r.claimed[key]
	if !ok {
		set = make(map[string]struct{})
		r.claimed[key] = set
	}
	set[strings.ToLower(name)] = struct{}{}
}

// Claimed reports whether name is taken in group.
func (r *Resolver) Claimed(group, name string) bool {
	_, ok := r.claimed[strings.ToLower(group)][strings.ToLower(name)]
	return ok
}

// Unique sanitizes name, finds the first free candidate in group and claims it.
// Suffixed candidates stay within MaxNameBytes by shortening the base.
func (r *Resolver) Unique(group, name string) string {
	name = Sanitize(name)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if base == "" || len(ext) >= MaxNameBytes/2 {
		base, ext = name, ""
	}

	candidate := name
	for n := 1; r.Claimed(group, candidate); n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate = truncate(base, MaxNameBytes-len(suffix)-len(ext)) + suffix + ext
	}
	r.Claim(group, candidate)
	return candidate
}

// Resolve assigns a final name to every entry, in order.
func (r *Resolver) Resolve(entries []Entry) Plan {
	plan := Plan{Assignments: make([]Assignment, 0, len(entries))}
	for i, e := range entries {
		plan.Assignments = append(plan.Assignments, Assignment{
			Index:    i,
			Group:    e.Group,
			Original: e.Name,
			Final:    r.Unique(e.Group, e.Name),
		})
	}
	return plan
}

// Resolve is a convenience for NewResolver().Resolve(entries).
func Resolve(entries []Entry) Plan {
	return NewResolver().Resolve(entries)
}

// Sanitize makes name safe as a single path element: characters illegal on
// common filesystems and control characters are dropped, leading dots and
// surrounding spaces are stripped and the result is capped at MaxNameBytes
// keeping the extension.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r == utf8.RuneError || unicode.IsControl(r) || strings.ContainsRune(illegalChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	s := strings.TrimSpace(b.String())
	s = strings.TrimLeft(s, ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return Unnamed
	}

	if len(s) > MaxNameBytes {
		ext := path.Ext(s)
		if len(ext) >= MaxNameBytes/2 {
			ext = ""
		}
		s = truncate(strings.TrimSuffix(s, ext), MaxNameBytes-len(ext)) + ext
	}
	return s
}

// SanitizeGroup turns a type label into a directory name. Illegal characters
// become underscores, e.g. "ZIP/DOCX/XLSX" becomes "ZIP_DOCX_XLSX".
func SanitizeGroup(group string) string {
	s := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(illegalChars, r) {
			return '_'
		}
		return r
	}, group)

	s = strings.TrimSpace(strings.TrimLeft(s, "."))
	if s == "" {
		return Unnamed
	}
	return truncate(s, MaxNameBytes)
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

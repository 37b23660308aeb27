// Package signature identifies file formats from their leading bytes.
//
// Signatures are matched against the uppercase hex encoding of a file header
// in table order; the first signature whose pattern is a prefix of the header
// wins. Generic patterns (for example the two byte ZIP marker) therefore sit
// after their more specific variants.
package signature

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// HeaderSize is the number of leading bytes inspected by the matcher.
const HeaderSize = 64

// Unknown is the type and category reported when nothing matches.
const Unknown = "Unknown"

// ErrInvalidPattern is returned for patterns that are not even-length hex.
var ErrInvalidPattern = errors.New("invalid signature pattern")

// Signature defines a file type signature
type Signature struct {
	// Hex is the uppercase hex prefix. '.' and '?' match any single hex digit.
	Hex         string   `json:"hex"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Extensions  []string `json:"extensions,omitempty"`
}

// HasExtension reports whether ext (with leading dot, any case) is declared
// by the signature.
func (s Signature) HasExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range s.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Table is an ordered signature list. Order is significant.
type Table []Signature

// Default returns a fresh copy of the built-in table.
func Default() Table {
	t := make(Table, len(builtin))
	copy(t, builtin)
	return t
}

// Append returns a new table with sigs added after the existing entries.
func (t Table) Append(sigs ...Signature) Table {
	out := make(Table, 0, len(t)+len(sigs))
	out = append(out, t...)
	return append(out, sigs...)
}

// HeaderHex returns the uppercase hex encoding of at most the first
// HeaderSize bytes of data.
func HeaderHex(data []byte) string {
	if len(data) > HeaderSize {
		data = data[:HeaderSize]
	}
	return strings.ToUpper(hex.EncodeToString(data))
}

// Match returns the first signature whose pattern prefixes header.
func (t Table) Match(header string) (Signature, bool) {
	for _, sig := range t {
		if matchPattern(sig.Hex, header) {
			return sig, true
		}
	}
	return Signature{Type: Unknown, Category: Unknown}, false
}

// MatchBytes matches the header of data.
func (t Table) MatchBytes(data []byte) (Signature, bool) {
	return t.Match(HeaderHex(data))
}

func matchPattern(pattern, header string) bool {
	if pattern == "" || len(header) < len(pattern) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		p := pattern[i]
		if p == '.' || p == '?' {
			continue
		}
		if p != header[i] {
			return false
		}
	}
	return true
}

// Validate checks a pattern and returns its normalized (uppercase) form.
func Validate(pattern string) (string, error) {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if p == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPattern)
	}
	if len(p)%2 != 0 {
		return "", fmt.Errorf("%w: %q has odd length", ErrInvalidPattern, pattern)
	}
	for _, c := range p {
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F', c == '.', c == '?':
		default:
			return "", fmt.Errorf("%w: %q contains %q", ErrInvalidPattern, pattern, c)
		}
	}
	return p, nil
}

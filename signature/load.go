package signature

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load decodes a JSON array of signatures:
//
//	[{"hex": "CAFED00D", "type": "PACK", "category": "Archive",
//	  "description": "Pack200", "extensions": [".pack"]}]
//
// Patterns are validated and normalized; extensions are lower-cased and
// given a leading dot.
func Load(r io.Reader) ([]Signature, error) {
	var sigs []Signature
	if err := json.NewDecoder(r).Decode(&sigs); err != nil {
		return nil, fmt.Errorf("failed to decode signatures: %w", err)
	}

	for i := range sigs {
		p, err := Validate(sigs[i].Hex)
		if err != nil {
			return nil, fmt.Errorf("signature %d: %w", i, err)
		}
		sigs[i].Hex = p
		if sigs[i].Type == "" {
			return nil, fmt.Errorf("signature %d: %w: missing type", i, ErrInvalidPattern)
		}
		if sigs[i].Category == "" {
			sigs[i].Category = "Custom"
		}
		for j, ext := range sigs[i].Extensions {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			sigs[i].Extensions[j] = ext
		}
	}

	return sigs, nil
}

// LoadFile reads custom signatures from a JSON file.
func LoadFile(path string) ([]Signature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

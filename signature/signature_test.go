package signature

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatchBytes(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
		category string
	}{
		{
			name:     "PNG",
			data:     []byte{0x89, 0x50, 0x4E, 0x47},
			expected: "PNG",
			category: "Image",
		},
		{
			name:     "JPEG JFIF",
			data:     []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'},
			expected: "JPEG",
			category: "Image",
		},
		{
			name:     "PDF",
			data:     []byte("%PDF-1.4"),
			expected: "PDF",
			category: "Document",
		},
		{
			name:     "ZIP local header",
			data:     []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00},
			expected: "ZIP/DOCX/XLSX",
			category: "Archive",
		},
		{
			name:     "ZIP generic marker",
			data:     []byte{0x50, 0x4B, 0x01, 0x02},
			expected: "ZIP",
			category: "Archive",
		},
		{
			name:     "GZIP",
			data:     []byte{0x1F, 0x8B, 0x08, 0x00},
			expected: "GZIP",
			category: "Archive",
		},
		{
			name:     "WAV",
			data:     []byte{'R', 'I', 'F', 'F', 0x24, 0x08, 0, 0, 'W', 'A', 'V', 'E'},
			expected: "WAV",
			category: "Audio",
		},
		{
			name:     "WebP",
			data:     []byte{'R', 'I', 'F', 'F', 0x10, 0, 0, 0, 'W', 'E', 'B', 'P'},
			expected: "WEBP",
			category: "Image",
		},
		{
			name:     "MP4",
			data:     []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'},
			expected: "MP4",
			category: "Video",
		},
		{
			name:     "ELF",
			data:     []byte{0x7F, 'E', 'L', 'F', 0x02, 0x01},
			expected: "ELF",
			category: "Executable",
		},
		{
			name:     "DEX",
			data:     []byte("dex\n035\x00"),
			expected: "DEX",
			category: "Executable",
		},
		{
			name:     "SQLite",
			data:     []byte("SQLite format 3\x00"),
			expected: "SQLITE",
			category: "Database",
		},
		{
			name:     "RTF before JSON",
			data:     []byte(`{\rtf1\ansi`),
			expected: "RTF",
			category: "Document",
		},
		{
			name:     "JSON",
			data:     []byte(`{"a": 1}`),
			expected: "JSON",
			category: "Data",
		},
		{
			name:     "plain text",
			data:     []byte("hello world"),
			expected: Unknown,
			category: Unknown,
		},
		{
			name:     "empty",
			data:     nil,
			expected: Unknown,
			category: Unknown,
		},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, _ := table.MatchBytes(tt.data)
			if sig.Type != tt.expected {
				t.Errorf("MatchBytes() type = %q, want %q", sig.Type, tt.expected)
			}
			if sig.Category != tt.category {
				t.Errorf("MatchBytes() category = %q, want %q", sig.Category, tt.category)
			}
		})
	}
}

func TestMatchFirstWins(t *testing.T) {
	specific := Signature{Hex: "504B0304", Type: "SPECIFIC"}
	generic := Signature{Hex: "504B", Type: "GENERIC"}
	header := HeaderHex([]byte{0x50, 0x4B, 0x03, 0x04, 0xAA})

	tests := []struct {
		name  string
		table Table
		want  string
	}{
		{name: "specific first", table: Table{specific, generic}, want: "SPECIFIC"},
		{name: "generic first", table: Table{generic, specific}, want: "GENERIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := tt.table.Match(header)
			if !ok {
				t.Fatal("Match() found nothing")
			}
			if sig.Type != tt.want {
				t.Errorf("Match() = %q, want %q", sig.Type, tt.want)
			}
		})
	}
}

func TestMatchWildcards(t *testing.T) {
	table := Table{{Hex: "FF....FF", Type: "GAP"}, {Hex: "FF??", Type: "Q"}}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{name: "gap matches any middle bytes", data: []byte{0xFF, 0x12, 0x34, 0xFF}, want: "GAP"},
		{name: "gap still checks literal tail", data: []byte{0xFF, 0x12, 0x34, 0x00}, want: "Q"},
		{name: "header shorter than pattern", data: []byte{0xFF}, want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, _ := table.MatchBytes(tt.data)
			if sig.Type != tt.want {
				t.Errorf("MatchBytes() = %q, want %q", sig.Type, tt.want)
			}
		})
	}
}

func TestHeaderHex(t *testing.T) {
	if got := HeaderHex([]byte{0xab, 0x01}); got != "AB01" {
		t.Errorf("HeaderHex() = %q, want %q", got, "AB01")
	}

	long := bytes.Repeat([]byte{0x0f}, 100)
	if got := HeaderHex(long); len(got) != HeaderSize*2 {
		t.Errorf("HeaderHex() length = %d, want %d", len(got), HeaderSize*2)
	}
}

func TestHasExtension(t *testing.T) {
	sig := Signature{Extensions: []string{".jpg", ".jpeg"}}
	if !sig.HasExtension(".JPG") {
		t.Error("HasExtension(.JPG) = false, want true")
	}
	if sig.HasExtension(".png") {
		t.Error("HasExtension(.png) = true, want false")
	}
}

func TestDefaultIsCopy(t *testing.T) {
	a := Default()
	a[0].Type = "CHANGED"
	if b := Default(); b[0].Type == "CHANGED" {
		t.Error("Default() shares backing array between calls")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
		wantErr bool
	}{
		{pattern: "cafebabe", want: "CAFEBABE"},
		{pattern: " 50 ", want: "50"},
		{pattern: "52494646....", want: "52494646...."},
		{pattern: "FF??", want: "FF??"},
		{pattern: "ABC", wantErr: true},
		{pattern: "ZZ", wantErr: true},
		{pattern: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := Validate(tt.pattern)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPattern) {
					t.Errorf("Validate(%q) error = %v, want ErrInvalidPattern", tt.pattern, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate(%q) error = %v", tt.pattern, err)
			}
			if got != tt.want {
				t.Errorf("Validate(%q) = %q, want %q", tt.pattern, got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	input := `[
		{"hex": "cafed00d", "type": "PACK", "description": "Pack200", "extensions": ["pack", ".PACK"]},
		{"hex": "89504E47", "type": "SHADOWED", "category": "Image", "description": "never wins"}
	]`

	sigs, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sigs) != 2 {
		t.Fatalf("Load() returned %d signatures, want 2", len(sigs))
	}
	if sigs[0].Hex != "CAFED00D" {
		t.Errorf("Hex = %q, want CAFED00D", sigs[0].Hex)
	}
	if sigs[0].Category != "Custom" {
		t.Errorf("Category = %q, want Custom", sigs[0].Category)
	}
	if sigs[0].Extensions[0] != ".pack" || sigs[0].Extensions[1] != ".pack" {
		t.Errorf("Extensions = %v, want [.pack .pack]", sigs[0].Extensions)
	}

	table := Default().Append(sigs...)

	if sig, _ := table.MatchBytes([]byte{0xCA, 0xFE, 0xD0, 0x0D}); sig.Type != "PACK" {
		t.Errorf("custom signature type = %q, want PACK", sig.Type)
	}
	// Built-ins keep precedence over appended signatures.
	if sig, _ := table.MatchBytes([]byte{0x89, 0x50, 0x4E, 0x47}); sig.Type != "PNG" {
		t.Errorf("PNG type = %q, want PNG", sig.Type)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "hex: FF"},
		{name: "bad pattern", input: `[{"hex": "XYZ0", "type": "BAD"}]`},
		{name: "missing type", input: `[{"hex": "FFFF"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.input)); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigs.json")
	if err := os.WriteFile(path, []byte(`[{"hex":"0102","type":"T"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	sigs, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(sigs) != 1 || sigs[0].Type != "T" {
		t.Errorf("LoadFile() = %+v", sigs)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile(missing) error = nil, want error")
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{ext: ".txt", want: "Text", ok: true},
		{ext: ".PY", want: "Python", ok: true},
		{ext: ".hpp", want: "Source Code", ok: true},
		{ext: ".htm", want: "HTML", ok: true},
		{ext: ".bin", ok: false},
		{ext: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			sig, ok := Fallback(tt.ext)
			if ok != tt.ok {
				t.Fatalf("Fallback(%q) ok = %v, want %v", tt.ext, ok, tt.ok)
			}
			if sig.Type != tt.want {
				t.Errorf("Fallback(%q) = %q, want %q", tt.ext, sig.Type, tt.want)
			}
			if len(sig.Extensions) != 0 {
				t.Errorf("Fallback(%q) declares extensions %v", tt.ext, sig.Extensions)
			}
		})
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gobeaver/magickit"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd("test")
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func sampleDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string][]byte{
		"image.png":     {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A},
		"fake.txt":      {0x25, 0x50, 0x44, 0x46, 0x2D},
		"sub/notes.txt": []byte("hello there"),
	}
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestAnalyzeJSON(t *testing.T) {
	dir := sampleDir(t)

	stdout, _, err := execute(t, "analyze", dir, "-r", "--json", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var report struct {
		TotalFiles      int `json:"totalFiles"`
		MismatchedFiles int `json:"mismatchedFiles"`
		Files           []struct {
			Path string `json:"path"`
			Type string `json:"type"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, stdout)
	}
	if report.TotalFiles != 3 || report.MismatchedFiles != 1 {
		t.Errorf("totals: files=%d mismatched=%d", report.TotalFiles, report.MismatchedFiles)
	}
	if len(report.Files) != 3 || report.Files[0].Path != "fake.txt" || report.Files[0].Type != "PDF" {
		t.Errorf("unexpected files %+v", report.Files)
	}
}

func TestAnalyzeTableAndOrganize(t *testing.T) {
	dir := sampleDir(t)
	out := filepath.Join(t.TempDir(), "sorted")

	stdout, _, err := execute(t, "analyze", dir, "--recursive", "--no-progress", "--organize", "--output", out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"image.png", "PNG", "mismatch:.pdf", "organized 3 files"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	for _, p := range []string{"PNG/image.png", "PDF/fake.txt", "Text/notes.txt"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(p))); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
}

func TestAnalyzeJSONFile(t *testing.T) {
	dir := sampleDir(t)
	report := filepath.Join(t.TempDir(), "report.json")

	if _, _, err := execute(t, "analyze", dir, "--no-progress", "--json", report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Error("report file is not valid JSON")
	}
}

func TestAnalyzeErrors(t *testing.T) {
	dir := sampleDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"watch with organize", []string{"analyze", dir, "--watch", "--organize"}, "--watch"},
		{"bad checksum", []string{"analyze", dir, "--checksum", "whirlpool"}, "unsupported checksum"},
		{"missing path", []string{"analyze", filepath.Join(dir, "missing")}, "does not exist"},
		{"too many args", []string{"analyze", dir, dir}, "accepts at most 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := NewAnalyzeCmd()
	if err := cmd.ParseFlags([]string{"-r", "--include", "*.png,*.jpg", "--checksum", "xxhash", "-v"}); err != nil {
		t.Fatal(err)
	}

	cfg := &magickit.Config{Concurrency: 7, ChecksumAlgorithm: "sha256", LogLevel: "info"}
	var fl analyzeFlags
	fl.recursive = true
	fl.include = []string{"*.png", "*.jpg"}
	fl.checksum = "xxhash"
	fl.verbose = true
	fl.concurrency = 99
	fl.apply(cmd, cfg)

	if !cfg.Recursive || cfg.Include != "*.png,*.jpg" || cfg.ChecksumAlgorithm != "xxhash" || cfg.LogLevel != "debug" {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Concurrency != 7 {
		t.Errorf("unset flag overrode config: concurrency=%d", cfg.Concurrency)
	}
}

func TestSignaturesCmd(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "sigs.json")
	if err := os.WriteFile(custom, []byte(`[{"hex":"ABCD","type":"Thing"}]`), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "signatures", "--signatures", custom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if !strings.HasPrefix(lines[0], "HEX") {
		t.Errorf("missing header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "89504E47") {
		t.Errorf("expected PNG first, got %q", lines[1])
	}
	if !strings.Contains(lines[len(lines)-1], "Thing") {
		t.Errorf("expected custom signature last, got %q", lines[len(lines)-1])
	}
}

package magickit_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gobeaver/magickit"
	_ "github.com/gobeaver/magickit/driver/local"
	"github.com/gobeaver/magickit/driver/memory"
)

func TestDriverRegistry(t *testing.T) {
	names := magickit.Drivers()
	if !slices.IsSorted(names) {
		t.Errorf("drivers not sorted: %v", names)
	}
	for _, want := range []string{"local", "memory"} {
		if !slices.Contains(names, want) {
			t.Errorf("driver %q not registered: %v", want, names)
		}
	}

	fs, err := magickit.CreateDriver("local", t.TempDir())
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if _, ok := fs.(magickit.CanChecksum); !ok {
		t.Error("local driver should support checksums")
	}

	if _, err := magickit.CreateDriver("ftp", "/"); !errors.Is(err, magickit.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported, got %v", err)
	}
}

func TestRegisterDriver(t *testing.T) {
	shared := memory.New()
	var roots []string
	magickit.RegisterDriver("test-shared", func(root string) (magickit.FileSystem, error) {
		roots = append(roots, root)
		return shared, nil
	})

	fs, err := magickit.CreateDriver("test-shared", "out")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs != magickit.FileSystem(shared) {
		t.Error("factory result not returned")
	}
	if len(roots) != 1 || roots[0] != "out" {
		t.Errorf("factory called with %v", roots)
	}
	if !slices.Contains(magickit.Drivers(), "test-shared") {
		t.Error("registered driver not listed")
	}
}

package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gobeaver/magickit"
)

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("writes file successfully", func(t *testing.T) {
		a := New()
		content := "hello world"

		if err := a.Write(ctx, "test.txt", strings.NewReader(content)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		exists, err := a.FileExists(ctx, "test.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !exists {
			t.Error("expected file to exist")
		}
		if a.Size() != int64(len(content)) {
			t.Errorf("expected size=%d, got %d", len(content), a.Size())
		}
	})

	t.Run("fails on path traversal", func(t *testing.T) {
		a := New()

		err := a.Write(ctx, "../etc/passwd", strings.NewReader("malicious"))
		if !magickit.IsNotAllowed(err) {
			t.Errorf("expected not allowed error, got: %v", err)
		}
	})

	t.Run("allows dots inside names", func(t *testing.T) {
		a := New()

		if err := a.Write(ctx, "a..b.txt", strings.NewReader("x")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("prevents overwrite by default", func(t *testing.T) {
		a := New()

		if err := a.Write(ctx, "test.txt", strings.NewReader("first")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := a.Write(ctx, "test.txt", strings.NewReader("second"))
		if !magickit.IsExist(err) {
			t.Fatalf("expected exist error, got: %v", err)
		}
	})

	t.Run("allows overwrite with option", func(t *testing.T) {
		a := New()

		if err := a.Write(ctx, "test.txt", strings.NewReader("first")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := a.Write(ctx, "test.txt", strings.NewReader("second"), magickit.WithOverwrite(true)); err != nil {
			t.Fatalf("unexpected error with overwrite: %v", err)
		}

		data, err := a.ReadAll(ctx, "test.txt")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "second" {
			t.Errorf("expected content='second', got '%s'", string(data))
		}
		if a.Size() != int64(len("second")) {
			t.Errorf("expected size=%d, got %d", len("second"), a.Size())
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		a := New()

		if err := a.Write(ctx, "a/b/c.txt", strings.NewReader("x")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, dir := range []string{"a", "a/b"} {
			if ok, _ := a.DirExists(ctx, dir); !ok {
				t.Errorf("expected directory %q to exist", dir)
			}
		}
	})

	t.Run("respects cancelled context", func(t *testing.T) {
		a := New()
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		if err := a.Write(cctx, "x.txt", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got: %v", err)
		}
	})
}

func TestRead(t *testing.T) {
	ctx := context.Background()
	a := New()
	if err := a.Write(ctx, "docs/readme.md", strings.NewReader("# hi")); err != nil {
		t.Fatal(err)
	}

	t.Run("reads file", func(t *testing.T) {
		rc, err := a.Read(ctx, "/docs/readme.md")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		if string(data) != "# hi" {
			t.Errorf("expected '# hi', got %q", data)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := a.Read(ctx, "nope.txt")
		if !magickit.IsNotExist(err) {
			t.Errorf("expected not exist error, got: %v", err)
		}
		var pathErr *magickit.PathError
		if !errors.As(err, &pathErr) || pathErr.Op != "read" {
			t.Errorf("expected PathError with Op=read, got: %v", err)
		}
	})

	t.Run("directory", func(t *testing.T) {
		_, err := a.Read(ctx, "docs")
		if !errors.Is(err, magickit.ErrIsDir) {
			t.Errorf("expected ErrIsDir, got: %v", err)
		}
	})
}

func TestStat(t *testing.T) {
	ctx := context.Background()
	a := New()
	if err := a.Write(ctx, "dir/file.bin", strings.NewReader("12345")); err != nil {
		t.Fatal(err)
	}

	info, err := a.Stat(ctx, "dir/file.bin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "file.bin" || info.Size != 5 || info.IsDir {
		t.Errorf("unexpected file info: %+v", info)
	}

	info, err = a.Stat(ctx, "dir")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.IsDir {
		t.Error("expected directory")
	}

	if _, err := a.Stat(ctx, "missing"); !magickit.IsNotExist(err) {
		t.Errorf("expected not exist error, got: %v", err)
	}
}

func TestListContents(t *testing.T) {
	ctx := context.Background()
	a := New()
	for _, p := range []string{"b.txt", "a.txt", "sub/c.txt", "sub/deep/d.txt"} {
		if err := a.Write(ctx, p, strings.NewReader(p)); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name      string
		path      string
		recursive bool
		want      []string
	}{
		{name: "root shallow", path: "/", want: []string{"a.txt", "b.txt", "sub"}},
		{name: "root recursive", path: "", recursive: true, want: []string{"a.txt", "b.txt", "sub", "sub/c.txt", "sub/deep", "sub/deep/d.txt"}},
		{name: "subdir shallow", path: "sub", want: []string{"sub/c.txt", "sub/deep"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := a.ListContents(ctx, tt.path, tt.recursive)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var got []string
			for _, f := range files {
				got = append(got, f.Path)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("file is not a dir", func(t *testing.T) {
		_, err := a.ListContents(ctx, "a.txt", false)
		if !errors.Is(err, magickit.ErrNotDir) {
			t.Errorf("expected ErrNotDir, got: %v", err)
		}
	})
}

func TestCreateDir(t *testing.T) {
	ctx := context.Background()
	a := New()

	if err := a.CreateDir(ctx, "x/y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.CreateDir(ctx, "x/y"); err != nil {
		t.Errorf("expected idempotent CreateDir, got: %v", err)
	}
	if ok, _ := a.DirExists(ctx, "x"); !ok {
		t.Error("expected parent directory to exist")
	}

	if err := a.Write(ctx, "f", strings.NewReader("")); err != nil {
		t.Fatal(err)
	}
	if err := a.CreateDir(ctx, "f"); !magickit.IsExist(err) {
		t.Errorf("expected exist error for file path, got: %v", err)
	}
}

func TestDeleteAndClear(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.Write(ctx, "one.txt", strings.NewReader("1"))
	_ = a.Write(ctx, "two.txt", strings.NewReader("22"))

	if err := a.Delete(ctx, "one.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.FileCount() != 1 || a.Size() != 2 {
		t.Errorf("after delete: count=%d size=%d", a.FileCount(), a.Size())
	}
	if err := a.Delete(ctx, "one.txt"); !magickit.IsNotExist(err) {
		t.Errorf("expected not exist error, got: %v", err)
	}

	a.Clear()
	if a.FileCount() != 0 || a.Size() != 0 {
		t.Errorf("after clear: count=%d size=%d", a.FileCount(), a.Size())
	}
}

func TestChecksum(t *testing.T) {
	ctx := context.Background()
	a := New()
	_ = a.Write(ctx, "hello.txt", strings.NewReader("hello"))

	got, err := a.Checksum(ctx, "hello.txt", magickit.ChecksumSHA256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("checksum = %s, want %s", got, want)
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := New()
	token, err := a.Watch(ctx, "**/*.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changed := make(chan struct{})
	token.RegisterChangeCallback(func() { close(changed) })

	_ = a.Write(ctx, "notes.txt", strings.NewReader("x"))
	_ = a.Write(ctx, "photos/cat.jpg", strings.NewReader("x"))

	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("expected change notification")
	}
	if !token.HasChanged() {
		t.Error("expected HasChanged to be true")
	}

	if _, err := a.Watch(ctx, "[unclosed"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestDir_ReadWrite(t *testing.T) {
	dir, err := NewDir(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := dir.Read(ctx, "table1.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file error = %v, want fs.ErrNotExist", err)
	}

	if err := dir.Write(ctx, "table1.csv", []byte("A\n1\n")); err != nil {
		t.Fatal(err)
	}
	if err := dir.Write(ctx, "table1.csv", []byte("A\n2\n")); err != nil {
		t.Fatal(err)
	}
	got, err := dir.Read(ctx, "table1.csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "A\n2\n" {
		t.Errorf("Read = %q", got)
	}

	entries, err := os.ReadDir(dir.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestDir_WriteFailureKeepsOldFile(t *testing.T) {
	root := t.TempDir()
	dir, err := NewDir(root)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := dir.Write(ctx, "t.csv", []byte("old")); err != nil {
		t.Fatal(err)
	}

	// A directory in place of the target makes the rename fail.
	if err := os.Mkdir(filepath.Join(root, "blocked.csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "blocked.csv", "x"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := dir.Write(ctx, "blocked.csv", []byte("new")); err == nil {
		t.Error("expected rename over a non-empty directory to fail")
	}

	got, _ := dir.Read(ctx, "t.csv")
	if string(got) != "old" {
		t.Errorf("unrelated file changed: %q", got)
	}
}

func TestInvalidNames(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	backends := map[string]Backend{"dir": dir, "memory": NewMemory()}

	for bname, b := range backends {
		for _, name := range []string{"", "  ", "../x.csv", "a/b.csv", `a\b.csv`, ".."} {
			if _, err := b.Read(context.Background(), name); !errors.Is(err, ErrInvalidName) {
				t.Errorf("%s Read(%q) error = %v, want ErrInvalidName", bname, name, err)
			}
			if err := b.Write(context.Background(), name, nil); !errors.Is(err, ErrInvalidName) {
				t.Errorf("%s Write(%q) error = %v, want ErrInvalidName", bname, name, err)
			}
		}
	}
}

func TestDir_CancelledContext(t *testing.T) {
	dir, err := NewDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := dir.Write(ctx, "t.csv", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

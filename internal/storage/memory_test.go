package storage

import (
	"context"
	"errors"
	"io/fs"
	"testing"
)

func TestMemory_ReadWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.Read(ctx, "table1.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("error = %v, want fs.ErrNotExist", err)
	}

	data := []byte("A\n1\n")
	if err := m.Write(ctx, "table1.csv", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'Z'

	got, err := m.Read(ctx, "table1.csv")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "A\n1\n" {
		t.Errorf("Read = %q; caller's buffer should not be retained", got)
	}
	got[0] = 'Q'
	again, _ := m.Read(ctx, "table1.csv")
	if string(again) != "A\n1\n" {
		t.Errorf("Read returned shared storage: %q", again)
	}
}

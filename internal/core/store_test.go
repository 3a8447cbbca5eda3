package core

import (
	"context"
	"errors"
	"testing"
)

func newTestStore(st Storage, slots int) *Store {
	return NewStore(st, Options{Slots: slots, Logger: quietLogger()})
}

func TestStore_SessionBounds(t *testing.T) {
	store := newTestStore(newFakeStorage(), 3)
	ctx := context.Background()

	for _, slot := range []int{0, 4, -1} {
		if _, err := store.Session(ctx, slot); !errors.Is(err, ErrUnknownTable) {
			t.Errorf("Session(%d) error = %v, want ErrUnknownTable", slot, err)
		}
	}
	if got := store.Slots(); !(len(got) == 3 && got[0] == 1 && got[2] == 3) {
		t.Errorf("Slots = %v", got)
	}
}

func TestStore_SessionIsLazyAndShared(t *testing.T) {
	st := newFakeStorage()
	st.files["table2.csv"] = []byte("X\n1\n")
	store := newTestStore(st, 3)
	ctx := context.Background()

	if n := len(store.Loaded()); n != 0 {
		t.Fatalf("Loaded before access = %d", n)
	}

	a, err := store.Session(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := store.Session(ctx, 2)
	if a != b {
		t.Error("Session should return the same instance per slot")
	}
	if tbl := currentTable(t, a); !equalStrings(tbl.Columns(), []string{"X"}) {
		t.Errorf("slot 2 columns = %v", tbl.Columns())
	}
	if n := len(store.Loaded()); n != 1 {
		t.Errorf("Loaded = %d, want 1", n)
	}
}

func TestStore_SaveAll(t *testing.T) {
	st := newFakeStorage()
	store := newTestStore(st, 3)
	ctx := context.Background()

	for _, slot := range []int{3, 1} {
		s, err := store.Session(ctx, slot)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.AddColumn(ctx, "Notes", Null()); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SaveAll(ctx); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"table1.csv", "table3.csv"} {
		if got := st.file(name); got != "Column1,Column2,Column3,Notes\n" {
			t.Errorf("%s = %q", name, got)
		}
	}
	if st.file("table2.csv") != "" {
		t.Error("unloaded slot should not be saved")
	}

	st.failWrite = errors.New("no space left on device")
	err := store.SaveAll(ctx)
	if !errors.Is(err, ErrIO) {
		t.Errorf("SaveAll error = %v, want ErrIO", err)
	}
}

func TestStore_UndoAll(t *testing.T) {
	store := newTestStore(newFakeStorage(), 3)
	ctx := context.Background()

	s1, _ := store.Session(ctx, 1)
	s2, _ := store.Session(ctx, 2)
	if err := s1.AddColumn(ctx, "A", Null()); err != nil {
		t.Fatal(err)
	}
	if err := s1.AddColumn(ctx, "B", Null()); err != nil {
		t.Fatal(err)
	}

	undone, err := store.UndoAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(undone) != 1 || undone[0] != 1 {
		t.Errorf("undone = %v, want [1]", undone)
	}
	if s1.UndoDepth() != 1 || s2.UndoDepth() != 0 {
		t.Errorf("depths = %d, %d", s1.UndoDepth(), s2.UndoDepth())
	}

	if _, err := store.UndoAll(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := store.UndoAll(ctx); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("error = %v, want ErrNothingToUndo", err)
	}
}

func TestNewStore_Defaults(t *testing.T) {
	store := NewStore(newFakeStorage(), Options{})
	if len(store.Slots()) != DefaultSlots {
		t.Errorf("Slots = %v", store.Slots())
	}
}

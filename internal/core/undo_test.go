package core

import (
	"errors"
	"testing"
)

func TestLedger_LIFO(t *testing.T) {
	s0 := mustTable(t, []string{"A"}, []any{0})
	s1 := mustTable(t, []string{"A"}, []any{1})
	s2 := mustTable(t, []string{"A"}, []any{2})

	var l Ledger
	for _, s := range []Table{s0, s1, s2} {
		l.Push(s)
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}

	for _, want := range []Table{s2, s1, s0} {
		got, err := l.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(want) {
			t.Errorf("Pop = %v, want %v", got.Records(), want.Records())
		}
	}
	if _, err := l.Pop(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("error = %v, want ErrNothingToUndo", err)
	}
}

func TestLedger_SnapshotsAreCopies(t *testing.T) {
	tbl := mustTable(t, []string{"A"}, []any{1})
	l := NewLedger(0)
	l.Push(tbl)

	tbl.rows[0].values["A"] = Int(42)

	got, _ := l.Pop()
	if v, _ := got.Value(0, "A"); !v.Equal(Int(1)) {
		t.Errorf("snapshot changed to %v", v)
	}
}

func TestLedger_LimitEvictsOldest(t *testing.T) {
	l := NewLedger(2)
	for i := 0; i < 5; i++ {
		l.Push(mustTable(t, []string{"A"}, []any{i}))
	}
	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	for _, want := range []int64{4, 3} {
		got, err := l.Pop()
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := got.Value(0, "A"); !v.Equal(Int(want)) {
			t.Errorf("Pop = %v, want %d", v, want)
		}
	}
}

func TestNewLedger_NegativeLimit(t *testing.T) {
	if l := NewLedger(-3); l.Limit() != 0 {
		t.Errorf("Limit = %d, want 0", l.Limit())
	}
}

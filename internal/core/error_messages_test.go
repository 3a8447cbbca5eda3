package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{name: "nil error returns empty", err: nil, wantCode: ""},
		{name: "unknown table", err: fmt.Errorf("%w: 9", ErrUnknownTable), wantCode: "TBL001"},
		{name: "row out of range", err: ErrRowOutOfRange, wantCode: "TBL002"},
		{name: "duplicate column wrapped", err: fmt.Errorf("add: %w", ErrDuplicateColumn), wantCode: "COL001"},
		{name: "last column", err: ErrNoColumnsRemaining, wantCode: "COL002"},
		{name: "unknown column", err: unknownColumn("x"), wantCode: "COL003"},
		{name: "blank column name", err: ValidateColumnName(" "), wantCode: "COL004"},
		{name: "file too large", err: ErrFileTooLarge, wantCode: "FILE001"},
		{name: "unsupported format", err: fmt.Errorf("%w: .pdf", ErrUnsupportedFormat), wantCode: "FILE002"},
		{name: "parse error", err: fmt.Errorf("%w: header", ErrParse), wantCode: "FILE003"},
		{name: "mismatch error", err: &MismatchError{Current: []string{"A"}, Incoming: []string{"B"}}, wantCode: "REC001"},
		{name: "append cancelled", err: ErrAppendCancelled, wantCode: "REC002"},
		{name: "predicate error", err: &PredicateError{Column: "A", Reason: "x"}, wantCode: "REC003"},
		{name: "nothing to undo", err: ErrNothingToUndo, wantCode: "UNDO001"},
		{name: "too many imports", err: ErrTooManyImports, wantCode: "UPL001"},
		{name: "storage io", err: fmt.Errorf("%w: disk full", ErrIO), wantCode: "IO001"},
		{name: "connection refused pattern", err: errors.New("dial tcp: connection refused"), wantCode: "IO002"},
		{name: "context canceled", err: context.Canceled, wantCode: "UPL002"},
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: "UPL003"},
		{name: "case insensitive pattern", err: errors.New("RATE LIMIT exceeded"), wantCode: "RATE001"},
		{name: "malformed body", err: errors.New("invalid request body: unexpected EOF"), wantCode: "REQ001"},
		{name: "unknown error returns default", err: errors.New("some random internal error"), wantCode: "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Errorf("MapError(%v).Message is empty", tt.err)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
	got := FormatUserError(ErrNothingToUndo)
	want := "Nothing to undo (Code: UNDO001). Make a change first"
	if got != want {
		t.Errorf("FormatUserError = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrParse) {
		t.Error("ErrParse should be user facing")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("unmatched error should not be user facing")
	}
}

func TestUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Fatal("NewUserError(nil) should be nil")
	}

	ue := NewUserError(fmt.Errorf("save: %w", ErrIO))
	if ue.User.Code != "IO001" {
		t.Errorf("Code = %q, want IO001", ue.User.Code)
	}
	if ue.Error() != ue.User.Message {
		t.Errorf("Error() = %q, want user message", ue.Error())
	}
	if !errors.Is(ue, ErrIO) {
		t.Error("UserError should unwrap to the technical error")
	}
	if got := MapError(fmt.Errorf("wrapped: %w", ue)); got != ue.User {
		t.Errorf("MapError of wrapped UserError = %+v, want %+v", got, ue.User)
	}
}

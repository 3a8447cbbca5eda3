package core

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors returned by the table engine. Every operation either returns a
// new Table or one of these (possibly wrapped); none of them are fatal.
var (
	ErrDuplicateColumn        = errors.New("duplicate column")
	ErrNoColumnsRemaining     = errors.New("no columns remaining")
	ErrUnknownColumn          = errors.New("unknown column")
	ErrInvalidColumnName      = errors.New("invalid column name")
	ErrRowOutOfRange          = errors.New("row out of range")
	ErrUnsupportedFormat      = errors.New("unsupported format")
	ErrParse                  = errors.New("parse error")
	ErrIO                     = errors.New("storage io error")
	ErrNothingToUndo          = errors.New("nothing to undo")
	ErrReconciliationRequired = errors.New("reconciliation required")
	ErrAppendCancelled        = errors.New("append cancelled")
	ErrInvalidPredicate       = errors.New("invalid predicate")
	ErrUnknownTable           = errors.New("unknown table")
	ErrFileTooLarge           = errors.New("file too large")
)

// MismatchError reports an append whose column sets differ from the current
// table when no reconciliation policy was supplied. The shell re-invokes the
// append with a policy after showing both column lists.
type MismatchError struct {
	Current  []string
	Incoming []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("column mismatch: current [%s], incoming [%s]",
		strings.Join(e.Current, ", "), strings.Join(e.Incoming, ", "))
}

// Is makes errors.Is(err, ErrReconciliationRequired) match.
func (e *MismatchError) Is(target error) bool {
	return target == ErrReconciliationRequired
}

// PredicateError describes a filter predicate that cannot apply to its column.
type PredicateError struct {
	Column string
	Reason string
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("invalid predicate for %q: %s", e.Column, e.Reason)
}

func (e *PredicateError) Is(target error) bool {
	return target == ErrInvalidPredicate
}

func unknownColumn(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

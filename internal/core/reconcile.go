package core

import (
	"fmt"
	"strings"
)

// Policy selects how an append resolves differing column sets.
type Policy int

const (
	// PolicyNone asks the caller to choose; a mismatch returns *MismatchError.
	PolicyNone Policy = iota
	// PolicyAlign keeps the current columns. Incoming rows are projected onto
	// them and incoming-only columns are dropped.
	PolicyAlign
	// PolicyUnion keeps every column: current ones first, then incoming-only
	// columns in incoming order.
	PolicyUnion
	// PolicyCancel abandons the append.
	PolicyCancel
)

func (p Policy) String() string {
	switch p {
	case PolicyAlign:
		return "align"
	case PolicyUnion:
		return "union"
	case PolicyCancel:
		return "cancel"
	default:
		return "none"
	}
}

// ParsePolicy reads a policy name. The empty string means PolicyNone.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PolicyNone, nil
	case "align":
		return PolicyAlign, nil
	case "union", "new", "add":
		return PolicyUnion, nil
	case "cancel":
		return PolicyCancel, nil
	default:
		return PolicyNone, fmt.Errorf("unknown reconciliation policy %q", s)
	}
}

// Reconcile appends incoming to current.
//
// An empty current table is replaced by incoming outright, so the first
// upload into a fresh slot adopts the file's schema. Identical column lists
// concatenate directly. Any other difference needs a policy.
func Reconcile(current, incoming Table, policy Policy) (Table, error) {
	if current.IsEmpty() {
		return incoming, nil
	}
	if sameColumns(current.columns, incoming.columns) {
		return current.Concat(incoming)
	}

	switch policy {
	case PolicyAlign:
		return appendProjected(current, incoming, current.Columns()), nil
	case PolicyUnion:
		columns := current.Columns()
		for _, c := range incoming.columns {
			if !containsColumn(columns, c) {
				columns = append(columns, c)
			}
		}
		return appendProjected(current, incoming, columns), nil
	case PolicyCancel:
		return current, ErrAppendCancelled
	default:
		return current, &MismatchError{Current: current.Columns(), Incoming: incoming.Columns()}
	}
}

// appendProjected projects the rows of both tables onto columns and
// concatenates them. Row ids are preserved.
func appendProjected(current, incoming Table, columns []string) Table {
	out := Table{columns: columns, rows: make([]Row, 0, len(current.rows)+len(incoming.rows))}
	for _, r := range current.rows {
		if len(columns) == len(current.columns) {
			out.rows = append(out.rows, r)
			continue
		}
		out.rows = append(out.rows, r.project(columns))
	}
	for _, r := range incoming.rows {
		out.rows = append(out.rows, r.project(columns))
	}
	return out
}

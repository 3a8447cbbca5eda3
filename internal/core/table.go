package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Row is one record of a Table. It holds a value for every column of the
// table it belongs to and carries a stable id that survives sorting,
// filtering, reconciliation and undo. The id is not part of equality.
type Row struct {
	id     string
	values map[string]Value
}

// ID returns the row's stable identifier.
func (r Row) ID() string { return r.id }

// Get returns the value of column, or null if the row has no such column.
func (r Row) Get(column string) Value { return r.values[column] }

func (r Row) clone() Row {
	values := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Row{id: r.id, values: values}
}

func newRowID() string { return uuid.NewString() }

// Table is an ordered set of uniquely named columns and an ordered sequence of
// rows. Tables are values: no method modifies its receiver, every operation
// returns a new Table. Row maps are never written after construction, which
// lets derived tables share unchanged rows safely.
type Table struct {
	columns []string
	rows    []Row
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) (Table, error) {
	if err := ValidateHeader(columns); err != nil {
		return Table{}, err
	}
	return Table{columns: append([]string(nil), columns...)}, nil
}

// FromRecords builds a table from positional records. Every record must have
// exactly one value per column.
func FromRecords(columns []string, records [][]Value) (Table, error) {
	t, err := NewTable(columns...)
	if err != nil {
		return Table{}, err
	}
	t.rows = make([]Row, 0, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return Table{}, fmt.Errorf("record %d has %d values, want %d", i+1, len(rec), len(columns))
		}
		values := make(map[string]Value, len(columns))
		for j, col := range columns {
			values[col] = rec[j]
		}
		t.rows = append(t.rows, Row{id: newRowID(), values: values})
	}
	return t, nil
}

// WithRowIDs returns a copy of t whose rows take ids positionally. Blank or
// repeated ids keep the row's existing id, as do rows past the end of ids.
func (t Table) WithRowIDs(ids []string) Table {
	out := t.Clone()
	seen := make(map[string]bool, len(ids))
	for i := range out.rows {
		if i >= len(ids) {
			break
		}
		id := ids[i]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out.rows[i].id = id
	}
	return out
}

// Columns returns a copy of the column names in table order.
func (t Table) Columns() []string { return append([]string(nil), t.columns...) }

// Len returns the number of rows.
func (t Table) Len() int { return len(t.rows) }

// Width returns the number of columns.
func (t Table) Width() int { return len(t.columns) }

// IsEmpty reports whether the table has no rows.
func (t Table) IsEmpty() bool { return len(t.rows) == 0 }

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool { return containsColumn(t.columns, name) }

// Rows returns the rows in table order. Rows are read-only views.
func (t Table) Rows() []Row { return append([]Row(nil), t.rows...) }

// Value returns the cell at row (0-based) and column.
func (t Table) Value(row int, column string) (Value, error) {
	if row < 0 || row >= len(t.rows) {
		return Null(), fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(t.rows))
	}
	if !t.HasColumn(column) {
		return Null(), unknownColumn(column)
	}
	return t.rows[row].values[column], nil
}

// Column returns every value of one column in row order.
func (t Table) Column(name string) ([]Value, error) {
	if !t.HasColumn(name) {
		return nil, unknownColumn(name)
	}
	out := make([]Value, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.values[name]
	}
	return out, nil
}

// Records returns the rows as positional slices in column order.
func (t Table) Records() [][]Value {
	out := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		rec := make([]Value, len(t.columns))
		for j, col := range t.columns {
			rec[j] = r.values[col]
		}
		out[i] = rec
	}
	return out
}

// Clone returns a deep copy of t, row ids included.
func (t Table) Clone() Table {
	out := Table{columns: t.Columns(), rows: make([]Row, len(t.rows))}
	for i, r := range t.rows {
		out.rows[i] = r.clone()
	}
	return out
}

// Equal reports whether both tables have the same columns in the same order
// and the same values row by row. Row ids are ignored.
func (t Table) Equal(o Table) bool {
	if !sameColumns(t.columns, o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.rows {
		for _, col := range t.columns {
			if !t.rows[i].values[col].Equal(o.rows[i].values[col]) {
				return false
			}
		}
	}
	return true
}

// AddColumn appends a column, setting def on every existing row.
func (t Table) AddColumn(name string, def Value) (Table, error) {
	if err := ValidateColumnName(name); err != nil {
		return t, err
	}
	if t.HasColumn(name) {
		return t, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}

	out := Table{columns: append(t.Columns(), name), rows: make([]Row, len(t.rows))}
	for i, r := range t.rows {
		nr := r.clone()
		nr.values[name] = def
		out.rows[i] = nr
	}
	return out, nil
}

// DropColumns removes the named columns from the table and every row.
// Dropping every column fails with ErrNoColumnsRemaining and leaves t as is.
func (t Table) DropColumns(names ...string) (Table, error) {
	if len(names) == 0 {
		return t, nil
	}

	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			return t, unknownColumn(n)
		}
		drop[n] = true
	}
	if len(drop) >= len(t.columns) {
		return t, ErrNoColumnsRemaining
	}

	out := Table{rows: make([]Row, len(t.rows))}
	for _, c := range t.columns {
		if !drop[c] {
			out.columns = append(out.columns, c)
		}
	}
	for i, r := range t.rows {
		nr := r.clone()
		for n := range drop {
			delete(nr.values, n)
		}
		out.rows[i] = nr
	}
	return out, nil
}

// DropRows removes the rows at the given 0-based positions. Positions refer to
// the current row order; out-of-range and repeated positions are ignored.
func (t Table) DropRows(indices ...int) Table {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(t.rows) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return t
	}

	out := Table{columns: t.Columns(), rows: make([]Row, 0, len(t.rows)-len(drop))}
	for i, r := range t.rows {
		if !drop[i] {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// DropRowIDs removes rows by stable id. Unknown ids are ignored.
func (t Table) DropRowIDs(ids ...string) Table {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	var positions []int
	for i, r := range t.rows {
		if drop[r.id] {
			positions = append(positions, i)
		}
	}
	return t.DropRows(positions...)
}

// RowIndex returns the position of the row with the given id, or -1.
func (t Table) RowIndex(id string) int {
	for i, r := range t.rows {
		if r.id == id {
			return i
		}
	}
	return -1
}

// SetCell replaces one cell.
func (t Table) SetCell(row int, column string, v Value) (Table, error) {
	if row < 0 || row >= len(t.rows) {
		return t, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, row, len(t.rows))
	}
	if !t.HasColumn(column) {
		return t, unknownColumn(column)
	}

	out := Table{columns: t.Columns(), rows: append([]Row(nil), t.rows...)}
	nr := t.rows[row].clone()
	nr.values[column] = v
	out.rows[row] = nr
	return out, nil
}

// AppendRow adds a row at the end. Columns absent from values are null;
// keys that are not columns of t are rejected.
func (t Table) AppendRow(values map[string]Value) (Table, error) {
	for k := range values {
		if !t.HasColumn(k) {
			return t, unknownColumn(k)
		}
	}

	nr := Row{id: newRowID(), values: make(map[string]Value, len(t.columns))}
	for _, c := range t.columns {
		nr.values[c] = values[c]
	}
	out := Table{columns: t.Columns(), rows: append(append([]Row(nil), t.rows...), nr)}
	return out, nil
}

// Reorder returns t with its columns in the given order, which must be a
// permutation of the table's columns.
func (t Table) Reorder(order []string) (Table, error) {
	if len(order) != len(t.columns) {
		return t, fmt.Errorf("reorder: got %d columns, table has %d", len(order), len(t.columns))
	}
	seen := make(map[string]bool, len(order))
	for _, c := range order {
		if !t.HasColumn(c) {
			return t, unknownColumn(c)
		}
		if seen[c] {
			return t, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = true
	}
	return Table{columns: append([]string(nil), order...), rows: append([]Row(nil), t.rows...)}, nil
}

// Concat appends o's rows to t. Both tables must have identical columns in
// identical order; use Reconcile otherwise.
func (t Table) Concat(o Table) (Table, error) {
	if !sameColumns(t.columns, o.columns) {
		return t, &MismatchError{Current: t.Columns(), Incoming: o.Columns()}
	}
	rows := make([]Row, 0, len(t.rows)+len(o.rows))
	rows = append(rows, t.rows...)
	rows = append(rows, o.rows...)
	return Table{columns: t.Columns(), rows: rows}, nil
}

// project rebuilds a row over columns, filling absent columns with null.
func (r Row) project(columns []string) Row {
	nr := Row{id: r.id, values: make(map[string]Value, len(columns))}
	for _, c := range columns {
		nr.values[c] = r.values[c]
	}
	return nr
}

// ReconcileColumnOrder merges a preferred order with the live columns: entries
// of order that are still live keep their relative order, live columns missing
// from order are appended in live order.
func ReconcileColumnOrder(order, live []string) []string {
	out := make([]string, 0, len(live))
	used := make(map[string]bool, len(live))
	for _, c := range order {
		if containsColumn(live, c) && !used[c] {
			out = append(out, c)
			used[c] = true
		}
	}
	for _, c := range live {
		if !used[c] {
			out = append(out, c)
			used[c] = true
		}
	}
	return out
}

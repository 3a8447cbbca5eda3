package core

import (
	"fmt"
	"sort"
)

// ColumnKind is how the filter engine treats a column.
type ColumnKind string

const (
	// Numeric columns hold at least one number and nothing but numbers and nulls.
	Numeric ColumnKind = "numeric"
	// Categorical is every other column, including boolean and all-null ones.
	Categorical ColumnKind = "categorical"
)

// Predicate restricts the rows of one column.
type Predicate struct {
	in       []Value
	ranged   bool
	min, max float64
}

// In keeps rows whose value equals one of values. An empty set keeps every row.
func In(values ...Value) Predicate {
	return Predicate{in: append([]Value(nil), values...)}
}

// Between keeps rows whose numeric value lies in [min, max]. Nulls never match.
func Between(min, max float64) Predicate {
	return Predicate{ranged: true, min: min, max: max}
}

// IsRange reports whether p is a numeric range.
func (p Predicate) IsRange() bool { return p.ranged }

func (p Predicate) String() string {
	if p.ranged {
		return fmt.Sprintf("between %v and %v", p.min, p.max)
	}
	return fmt.Sprintf("in %v", p.in)
}

func (p Predicate) match(v Value) bool {
	if p.ranged {
		f, ok := v.Float64()
		return ok && f >= p.min && f <= p.max
	}
	if len(p.in) == 0 {
		return true
	}
	for _, want := range p.in {
		if v.Equal(want) {
			return true
		}
	}
	return false
}

// ClassifyColumn reports whether the named column is numeric or categorical.
func ClassifyColumn(t Table, column string) (ColumnKind, error) {
	values, err := t.Column(column)
	if err != nil {
		return "", err
	}
	return classify(values), nil
}

func classify(values []Value) ColumnKind {
	numbers := 0
	for _, v := range values {
		switch {
		case v.IsNull():
		case v.IsNumber():
			numbers++
		default:
			return Categorical
		}
	}
	if numbers == 0 {
		return Categorical
	}
	return Numeric
}

// Filter returns the rows of t that satisfy every predicate, in their original
// order. t is not modified. Predicates are validated before any row is read.
func Filter(t Table, predicates map[string]Predicate) (Table, error) {
	columns := make([]string, 0, len(predicates))
	for c := range predicates {
		columns = append(columns, c)
	}
	sort.Strings(columns)

	for _, c := range columns {
		p := predicates[c]
		values, err := t.Column(c)
		if err != nil {
			return t, err
		}
		if !p.ranged {
			continue
		}
		if p.min > p.max {
			return t, &PredicateError{Column: c, Reason: fmt.Sprintf("minimum %v exceeds maximum %v", p.min, p.max)}
		}
		if classify(values) != Numeric {
			return t, &PredicateError{Column: c, Reason: "range filter on a categorical column"}
		}
	}

	out := Table{columns: t.Columns(), rows: make([]Row, 0, len(t.rows))}
	for _, r := range t.rows {
		keep := true
		for _, c := range columns {
			if !predicates[c].match(r.values[c]) {
				keep = false
				break
			}
		}
		if keep {
			out.rows = append(out.rows, r)
		}
	}
	return out, nil
}

// ColumnOptions is the filter choice available for one column: distinct
// values for categorical columns, bounds for numeric ones.
type ColumnOptions struct {
	Column string     `json:"column"`
	Kind   ColumnKind `json:"kind"`
	Values []Value    `json:"values,omitempty"`
	Min    *float64   `json:"min,omitempty"`
	Max    *float64   `json:"max,omitempty"`
}

// FilterOptions lists per column, in table order, what a filter form offers.
// Distinct values keep first-seen order and exclude null.
func FilterOptions(t Table) []ColumnOptions {
	out := make([]ColumnOptions, 0, len(t.columns))
	for _, c := range t.columns {
		values, _ := t.Column(c)
		opt := ColumnOptions{Column: c, Kind: classify(values)}

		if opt.Kind == Numeric {
			lo, hi := numericBounds(values)
			opt.Min, opt.Max = &lo, &hi
		} else {
			opt.Values = distinct(values)
		}
		out = append(out, opt)
	}
	return out
}

func numericBounds(values []Value) (lo, hi float64) {
	first := true
	for _, v := range values {
		f, ok := v.Float64()
		if !ok {
			continue
		}
		if first || f < lo {
			lo = f
		}
		if first || f > hi {
			hi = f
		}
		first = false
	}
	return lo, hi
}

func distinct(values []Value) []Value {
	var out []Value
	seen := make(map[string]bool)
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		k := v.key()
		if !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

package core

import (
	"sort"
	"strings"
)

// Sort returns t ordered by one column. The sort is stable in both
// directions: equal keys keep their original relative order. Numeric columns
// compare numerically, all others by their text. Nulls sort first when
// ascending and last when descending.
func Sort(t Table, column string, ascending bool) (Table, error) {
	values, err := t.Column(column)
	if err != nil {
		return t, err
	}
	numeric := classify(values) == Numeric

	idx := make([]int, len(t.rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		c := compareValues(values[idx[a]], values[idx[b]], numeric)
		if ascending {
			return c < 0
		}
		return c > 0
	})

	out := Table{columns: t.Columns(), rows: make([]Row, len(t.rows))}
	for i, j := range idx {
		out.rows[i] = t.rows[j]
	}
	return out, nil
}

// compareValues orders a before b. Null is the smallest value.
func compareValues(a, b Value, numeric bool) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	if numeric {
		fa, _ := a.Float64()
		fb, _ := b.Float64()
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}

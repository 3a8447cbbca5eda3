package core

import (
	"fmt"
	"strings"
)

// ValidateColumnName rejects names a table cannot hold.
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is blank", ErrInvalidColumnName)
	}
	return nil
}

// ValidateHeader checks a full column list: every name valid, no duplicates.
// Comparison is exact; "Amount" and "amount" are different columns.
func ValidateHeader(columns []string) error {
	seen := make(map[string]int, len(columns))
	for i, name := range columns {
		if err := ValidateColumnName(name); err != nil {
			return fmt.Errorf("column %d: %w", i+1, err)
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q at positions %d and %d", ErrDuplicateColumn, name, prev+1, i+1)
		}
		seen[name] = i
	}
	return nil
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}

func containsColumn(columns []string, name string) bool {
	return indexOf(columns, name) >= 0
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

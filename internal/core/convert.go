package core

// convert.go turns raw cell text from delimited files and spreadsheets into
// typed Values.
//
// Inference is column-wise, mirroring how the editor treats a column as
// either numeric or categorical:
//   - every non-empty cell is true/false (any case) -> boolean column
//   - every non-empty cell is a plain number -> numeric column
//   - otherwise -> string column, cells kept verbatim
//
// Empty cells are null in every column type.
//
// Encode followed by Decode is therefore lossy for columns that do not match
// their text: numeric-looking strings become numbers, "true"/"false" strings
// become booleans, and a column mixing booleans with numbers becomes strings.

import (
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals and scientific notation with an
// optional sign. Currency symbols and thousands separators are deliberately
// not accepted: "1,234" stays a string so it round-trips unchanged.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParseNumber converts s into a numeric Value.
// Integers that fit in int64 stay integral.
func ParseNumber(s string) (Value, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return Null(), false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Null(), false
	}
	return Float(f), true
}

// ParseBool accepts true/false in any letter case. Spreadsheet engines write
// TRUE/FALSE, CSV writers usually write true/false or True/False.
func ParseBool(s string) (Value, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return Bool(true), true
	case "false":
		return Bool(false), true
	default:
		return Null(), false
	}
}

// InferColumn converts one column of raw cells into Values using the rules
// described at the top of this file.
func InferColumn(cells []string) []Value {
	out := make([]Value, len(cells))

	allBool, allNumber, seen := true, true, false
	for _, c := range cells {
		if c == "" {
			continue
		}
		seen = true
		if _, ok := ParseBool(c); !ok {
			allBool = false
		}
		if _, ok := ParseNumber(c); !ok {
			allNumber = false
		}
		if !allBool && !allNumber {
			break
		}
	}

	for i, c := range cells {
		switch {
		case c == "":
			out[i] = Null()
		case seen && allBool:
			out[i], _ = ParseBool(c)
		case seen && allNumber:
			out[i], _ = ParseNumber(c)
		default:
			out[i] = Text(c)
		}
	}
	return out
}

// ParseCell interprets a single user-entered cell without column context:
// booleans and numbers are recognized, anything else is text.
func ParseCell(s string) Value {
	if v, ok := ParseBool(s); ok {
		return v
	}
	if v, ok := ParseNumber(s); ok {
		return v
	}
	return Text(s)
}

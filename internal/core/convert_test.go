package core

import "testing"

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input   string
		wantOK  bool
		wantStr string
	}{
		{"123", true, "123"},
		{"-456", true, "-456"},
		{"+7", true, "7"},
		{"0", true, "0"},
		{"123.45", true, "123.45"},
		{".99", true, "0.99"},
		{"99.", true, "99"},
		{"1e3", true, "1000"},
		{"  42  ", true, "42"},
		{"99999999999999999999", true, "100000000000000000000"},
		{"", false, ""},
		{"abc", false, ""},
		{"1,234", false, ""},
		{"$5", false, ""},
		{"1.2.3", false, ""},
		{"NaN", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.String() != tt.wantStr {
				t.Errorf("ParseNumber(%q) = %q, want %q", tt.input, got.String(), tt.wantStr)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "True", " false "} {
		if _, ok := ParseBool(s); !ok {
			t.Errorf("ParseBool(%q) should succeed", s)
		}
	}
	for _, s := range []string{"", "yes", "1", "t"} {
		if _, ok := ParseBool(s); ok {
			t.Errorf("ParseBool(%q) should fail", s)
		}
	}
}

// ----------------------------------------------------------------------------
// InferColumn Tests
// ----------------------------------------------------------------------------

func TestInferColumn(t *testing.T) {
	tests := []struct {
		name     string
		cells    []string
		wantKind []Kind
	}{
		{
			name:     "all numbers",
			cells:    []string{"1", "2.5", ""},
			wantKind: []Kind{KindNumber, KindNumber, KindNull},
		},
		{
			name:     "all booleans",
			cells:    []string{"true", "FALSE", ""},
			wantKind: []Kind{KindBool, KindBool, KindNull},
		},
		{
			name:     "mixed falls back to strings",
			cells:    []string{"1", "x"},
			wantKind: []Kind{KindString, KindString},
		},
		{
			name:     "numbers and booleans mixed are strings",
			cells:    []string{"1", "true"},
			wantKind: []Kind{KindString, KindString},
		},
		{
			name:     "all empty",
			cells:    []string{"", ""},
			wantKind: []Kind{KindNull, KindNull},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferColumn(tt.cells)
			for i, v := range got {
				if v.Kind() != tt.wantKind[i] {
					t.Errorf("cell %d (%q) kind = %v, want %v", i, tt.cells[i], v.Kind(), tt.wantKind[i])
				}
			}
		})
	}
}

func TestInferColumn_StringsKeptVerbatim(t *testing.T) {
	got := InferColumn([]string{"007", "abc"})
	if got[0].String() != "007" {
		t.Errorf("got %q, want 007 kept as text", got[0].String())
	}
}

func TestParseCell(t *testing.T) {
	if v := ParseCell("12"); !v.Equal(Int(12)) {
		t.Errorf("ParseCell(12) = %v", v)
	}
	if v := ParseCell("True"); !v.Equal(Bool(true)) {
		t.Errorf("ParseCell(True) = %v", v)
	}
	if v := ParseCell("hi"); !v.Equal(Text("hi")) {
		t.Errorf("ParseCell(hi) = %v", v)
	}
	if v := ParseCell(""); !v.IsNull() {
		t.Errorf("ParseCell(\"\") = %v, want null", v)
	}
}

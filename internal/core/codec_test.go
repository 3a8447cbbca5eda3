package core

import (
	"errors"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"table1.csv", FormatCSV, false},
		{"DATA.CSV", FormatCSV, false},
		{"export.tsv", FormatTSV, false},
		{"export.tab", FormatTSV, false},
		{"book.xlsx", FormatXLSX, false},
		{"book.xlsm", FormatXLSX, false},
		{"legacy.xls", FormatXLSX, false},
		{"notes.txt", 0, true},
		{"noextension", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
			}
		})
	}
}

func TestDecode_CSV(t *testing.T) {
	data := "\xEF\xBB\xBFName,Amount,Active,Zip\n" +
		"alice,10,true,02134\n" +
		"bob,2.5,FALSE,\n" +
		",,,90210\n"

	tbl, err := Decode([]byte(data), FormatCSV)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !equalStrings(tbl.Columns(), []string{"Name", "Amount", "Active", "Zip"}) {
		t.Fatalf("columns = %v (BOM not stripped?)", tbl.Columns())
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}

	checks := []struct {
		row  int
		col  string
		want Value
	}{
		{0, "Name", Text("alice")},
		{0, "Amount", Int(10)},
		{1, "Amount", Float(2.5)},
		{0, "Active", Bool(true)},
		{1, "Active", Bool(false)},
		{2, "Name", Null()},
		{1, "Zip", Null()},
		{0, "Zip", Int(2134)},
	}
	for _, c := range checks {
		got, err := tbl.Value(c.row, c.col)
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(c.want) || got.Kind() != c.want.Kind() {
			t.Errorf("(%d,%s) = %v (%v), want %v (%v)", c.row, c.col, got, got.Kind(), c.want, c.want.Kind())
		}
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty input", ""},
		{"duplicate header", "A,A\n1,2\n"},
		{"blank header", "A,,C\n1,2,3\n"},
		{"row longer than header", "A,B\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatCSV)
			if !errors.Is(err, ErrParse) {
				t.Errorf("error = %v, want ErrParse", err)
			}
		})
	}
}

func TestDecode_ShortRowsPadded(t *testing.T) {
	tbl, err := Decode([]byte("A,B,C\n1\n1,2,3\n"), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tbl.Value(0, "C"); !v.IsNull() {
		t.Errorf("padded cell = %v, want null", v)
	}
}

func TestDecode_TrailingEmptyFieldsTolerated(t *testing.T) {
	tbl, err := Decode([]byte("A,B\n1,2,,\n"), FormatCSV)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tbl.Width() != 2 {
		t.Errorf("width = %d, want 2", tbl.Width())
	}
}

func TestDecode_InvalidUTF8Replaced(t *testing.T) {
	tbl, err := Decode([]byte("A\nab\xffc\n"), FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tbl.Value(0, "A")
	if !strings.Contains(v.String(), "�") {
		t.Errorf("value = %q, want replacement character", v.String())
	}
}

func TestDecode_TSV(t *testing.T) {
	tbl, err := Decode([]byte("A\tB\nx,y\t3\n"), FormatTSV)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tbl.Value(0, "A"); v.String() != "x,y" {
		t.Errorf("A = %q, want x,y", v.String())
	}
}

func TestEncode_CSV(t *testing.T) {
	tbl := mustTable(t, []string{"Name", "N", "F", "Ok"},
		[]any{"a, b", 3, 1.5, true},
		[]any{nil, nil, nil, false},
	)
	data, err := Encode(tbl, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	want := "Name,N,F,Ok\n\"a, b\",3,1.5,true\n,,,false\n"
	if string(data) != want {
		t.Errorf("Encode =\n%q\nwant\n%q", data, want)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	tbl := mustTable(t, []string{"Name", "Count", "Ratio", "Flag"},
		[]any{"apple", 1, 0.25, true},
		[]any{"pear", nil, 0.001, false},
		[]any{nil, -40, 12345.678, nil},
	)

	for _, format := range []Format{FormatCSV, FormatTSV, FormatXLSX} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := Encode(tbl, format)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(data, format)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !got.Equal(tbl) {
				t.Errorf("round trip mismatch:\n got %v\nwant %v", got.Records(), tbl.Records())
			}
		})
	}
}

func TestCodecRoundTrip_NumericLookingStrings(t *testing.T) {
	tbl := mustTable(t, []string{"Zip"}, []any{"02134"})
	data, err := Encode(tbl, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	got, err := Decode(data, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}
	// Zip codes come back as numbers; leading zeros are lost.
	if v, _ := got.Value(0, "Zip"); !v.Equal(Int(2134)) {
		t.Errorf("Zip = %v, want 2134", v)
	}
}

func TestCodecRoundTrip_InferenceEdges(t *testing.T) {
	tests := []struct {
		name  string
		cells []any
		want  []Value
	}{
		{"bool-looking strings", []any{"true", "False"}, []Value{Bool(true), Bool(false)}},
		{"bools mixed with numbers", []any{true, 1}, []Value{Text("true"), Text("1")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([][]any, len(tt.cells))
			for i, c := range tt.cells {
				rows[i] = []any{c}
			}
			data, err := Encode(mustTable(t, []string{"V"}, rows...), FormatCSV)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Decode(data, FormatCSV)
			if err != nil {
				t.Fatal(err)
			}
			values, _ := got.Column("V")
			for i, want := range tt.want {
				if values[i].Kind() != want.Kind() || !values[i].Equal(want) {
					t.Errorf("row %d = %v (%v), want %v (%v)", i, values[i], values[i].Kind(), want, want.Kind())
				}
			}
		})
	}
}

func TestDecodeReader_Limit(t *testing.T) {
	_, err := DecodeReader(strings.NewReader("A\n1\n2\n3\n"), FormatCSV, 4)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("error = %v, want ErrFileTooLarge", err)
	}
	tbl, err := DecodeReader(strings.NewReader("A\n1\n"), FormatCSV, 0)
	if err != nil || tbl.Len() != 1 {
		t.Errorf("DecodeReader = %v rows, %v", tbl.Len(), err)
	}
}

func TestDecode_CorruptWorkbook(t *testing.T) {
	if _, err := Decode([]byte("not a zip"), FormatXLSX); !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

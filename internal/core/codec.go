package core

// codec.go converts between stored bytes and Tables.
//
// Delimited files (CSV, TSV) go through encoding/csv; spreadsheets go through
// excelize and only ever touch the first sheet. Both paths share the same
// header validation and column-wise type inference from convert.go.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Format is a file encoding the codec understands.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatTSV
	FormatXLSX
)

// DefaultSheet is the sheet name written to new workbooks.
const DefaultSheet = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "unknown"
	}
}

// Extension returns the file extension written for f, with the leading dot.
func (f Format) Extension() string { return "." + f.String() }

// ContentType returns the MIME type used when serving files of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Delimited reports whether f belongs to the delimited-text family.
func (f Format) Delimited() bool { return f == FormatCSV || f == FormatTSV }

func (f Format) delimiter() rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

// ParseFormat maps a short format name ("csv", "tsv", "xlsx") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "tsv", "tab":
		return FormatTSV, nil
	case "xlsx", "xlsm", "xls":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat picks a format from a file name's extension.
func DetectFormat(fileName string) (Format, error) {
	ext := filepath.Ext(fileName)
	if ext == "" {
		return 0, fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, fileName)
	}
	return ParseFormat(ext)
}

// Decode parses data into a Table. The first row is the header.
func Decode(data []byte, format Format) (Table, error) {
	var (
		records [][]string
		err     error
	)
	switch {
	case format.Delimited():
		records, err = readDelimited(data, format.delimiter())
	case format == FormatXLSX:
		records, err = readSpreadsheet(data)
	default:
		return Table{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Table{}, err
	}
	return tableFromStrings(records)
}

// Encode writes t in the given format: a header row, then one row per record.
func Encode(t Table, format Format) ([]byte, error) {
	switch {
	case format.Delimited():
		return writeDelimited(t, format.delimiter())
	case format == FormatXLSX:
		return writeSpreadsheet(t)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

func sanitizeText(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}
	return bytes.ToValidUTF8(data, []byte("�"))
}

func readDelimited(data []byte, delim rune) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(sanitizeText(data)))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return records, nil
}

func readSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrParse, sheets[0], err)
	}
	for i, row := range rows {
		for j, cell := range row {
			rows[i][j] = strings.ToValidUTF8(cell, "�")
		}
	}
	return rows, nil
}

// tableFromStrings validates the header, pads short rows and infers column
// types.
func tableFromStrings(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%w: no header row", ErrParse)
	}
	header := records[0]
	if err := ValidateHeader(header); err != nil {
		return Table{}, fmt.Errorf("%w: header: %v", ErrParse, err)
	}

	body := records[1:]
	cells := make([][]string, len(header))
	for c := range cells {
		cells[c] = make([]string, len(body))
	}
	for i, row := range body {
		if len(row) > len(header) {
			if isEmptyTail(row[len(header):]) {
				row = row[:len(header)]
			} else {
				return Table{}, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrParse, i+2, len(row), len(header))
			}
		}
		for c := range row {
			cells[c][i] = row[c]
		}
	}

	typed := make([][]Value, len(header))
	for c := range header {
		typed[c] = InferColumn(cells[c])
	}

	recs := make([][]Value, len(body))
	for i := range body {
		rec := make([]Value, len(header))
		for c := range header {
			rec[c] = typed[c][i]
		}
		recs[i] = rec
	}
	return FromRecords(header, recs)
}

// isEmptyTail tolerates trailing delimiters that spreadsheet exports leave
// behind ("a,b,c,,").
func isEmptyTail(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func writeDelimited(t Table, delim rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim

	if err := w.Write(t.columns); err != nil {
		return nil, err
	}
	row := make([]string, len(t.columns))
	for _, r := range t.rows {
		for i, col := range t.columns {
			row[i] = r.values[col].String()
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSpreadsheet(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(t.columns))
	for i, c := range t.columns {
		header[i] = c
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range t.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := make([]any, len(t.columns))
		for j, col := range t.columns {
			row[j] = r.values[col].Interface()
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeReader is Decode for streamed input such as multipart uploads.
// At most limit bytes are read when limit > 0.
func DecodeReader(r io.Reader, format Format, limit int64) (Table, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return Table{}, ErrFileTooLarge
	}
	return Decode(data, format)
}

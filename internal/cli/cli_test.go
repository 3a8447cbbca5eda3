package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/tableman/internal/core"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRoot()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

const people = "Name,Amount\nalice,10\nbob,250\ncarol,40\ndave,\n"

// ---- show ----

func TestShow_Table(t *testing.T) {
	path := writeFile(t, t.TempDir(), "people.csv", people)

	out, err := run(t, "show", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"Name", "Amount", "alice", "250", "4 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShow_FilterSortCSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "people.csv", people)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"range", []string{"--where", "Amount=20..300"}, "Name,Amount\nbob,250\ncarol,40\n"},
		{"value set", []string{"--where", "Name=alice,dave"}, "Name,Amount\nalice,10\ndave,\n"},
		{"sort desc", []string{"--sort", "Amount", "--desc"}, "Name,Amount\nbob,250\ncarol,40\nalice,10\ndave,\n"},
		{"filter then sort", []string{"--where", "Amount=0..100", "--sort", "Amount", "--desc"}, "Name,Amount\ncarol,40\nalice,10\n"},
		{"tsv", []string{"--where", "Name=bob", "-o", "tsv"}, "Name\tAmount\nbob\t250\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"show", path, "-o", "csv"}, tt.args...)
			out, err := run(t, args...)
			if err != nil {
				t.Fatalf("show: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestShow_JSONAndYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "people.csv", people)

	out, err := run(t, "show", path, "-o", "json", "--where", "Name=bob")
	if err != nil {
		t.Fatalf("show json: %v", err)
	}
	var js struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &js); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if len(js.Rows) != 1 || js.Rows[0][0] != "bob" || js.Rows[0][1] != float64(250) {
		t.Errorf("json = %+v", js)
	}

	out, err = run(t, "show", path, "-o", "yaml", "--where", "Name=dave")
	if err != nil {
		t.Fatalf("show yaml: %v", err)
	}
	var ys []map[string]any
	if err := yaml.Unmarshal([]byte(out), &ys); err != nil {
		t.Fatalf("yaml output: %v", err)
	}
	if len(ys) != 1 || ys[0]["Name"] != "dave" || ys[0]["Amount"] != nil {
		t.Errorf("yaml = %v", ys)
	}
	if strings.Index(out, "Name") > strings.Index(out, "Amount") {
		t.Errorf("yaml keys out of column order:\n%s", out)
	}
}

func TestShow_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "people.csv", people)

	tests := []struct {
		name string
		args []string
		is   error
	}{
		{"range on text", []string{"show", path, "--where", "Name=1..2"}, core.ErrInvalidPredicate},
		{"unknown sort column", []string{"show", path, "--sort", "Nope"}, core.ErrUnknownColumn},
		{"unsupported file", []string{"show", writeFile(t, dir, "x.json", "{}")}, core.ErrUnsupportedFormat},
		{"missing file", []string{"show", filepath.Join(dir, "missing.csv")}, core.ErrIO},
		{"xlsx to stdout", []string{"show", path, "-o", "xlsx"}, core.ErrUnsupportedFormat},
		{"bad clause", []string{"show", path, "--where", "Amount"}, nil},
		{"bad range", []string{"show", path, "--where", "Amount=a..b"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("error = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestParseWhere(t *testing.T) {
	preds, err := parseWhere([]string{"Amount=1..5", "Name=a, b"})
	if err != nil {
		t.Fatal(err)
	}
	if !preds["Amount"].IsRange() || preds["Name"].IsRange() {
		t.Errorf("predicates = %v", preds)
	}

	if _, err := parseWhere([]string{"A=1", "A=2"}); err == nil {
		t.Error("duplicate column should fail")
	}
}

// ---- convert ----

func TestConvert_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "people.csv", people)
	xlsx := filepath.Join(dir, "out", "people.xlsx")
	if err := os.MkdirAll(filepath.Dir(xlsx), 0o755); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "convert", src, xlsx)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !strings.Contains(out, "4 rows, 2 columns") {
		t.Errorf("output = %q", out)
	}

	back := filepath.Join(dir, "back.csv")
	if _, err := run(t, "convert", xlsx, back); err != nil {
		t.Fatalf("convert back: %v", err)
	}
	data, err := os.ReadFile(back)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != people {
		t.Errorf("round trip = %q, want %q", data, people)
	}
}

// ---- merge ----

func TestMerge(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.csv", "A,B\n1,2\n")
	incoming := writeFile(t, dir, "in.tsv", "B\tA\tC\n3\t4\t5\n")

	tests := []struct {
		policy string
		want   string
	}{
		{"align", "A,B\n1,2\n4,3\n"},
		{"union", "A,B,C\n1,2,\n4,3,5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			out, err := run(t, "merge", base, incoming, "--policy", tt.policy)
			if err != nil {
				t.Fatalf("merge: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestMerge_NeedsPolicy(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.csv", "A,B\n1,2\n")
	incoming := writeFile(t, dir, "in.csv", "B,C\n3,4\n")

	_, err := run(t, "merge", base, incoming)
	if !errors.Is(err, core.ErrReconciliationRequired) {
		t.Fatalf("error = %v, want ErrReconciliationRequired", err)
	}
	for _, want := range []string{"only in base:     A", "only in incoming: C", "--policy union"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q:\n%v", want, err)
		}
	}
}

func TestMerge_ToFile(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.csv", "A\n1\n")
	incoming := writeFile(t, dir, "in.csv", "A\n2\n")
	dest := filepath.Join(dir, "merged.csv")

	if _, err := run(t, "merge", base, incoming, "-o", dest); err != nil {
		t.Fatalf("merge: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "A\n1\n2\n" {
		t.Errorf("merged = %q", data)
	}
}

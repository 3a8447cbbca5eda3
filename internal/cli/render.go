package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	nullStyle   = cellStyle.Foreground(lipgloss.Color("#565f89"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a9b1d6"))
)

// render writes t to w in the named output format.
func render(w io.Writer, t core.Table, output string) error {
	switch output {
	case "table", "":
		return renderTerminal(w, t)
	case "json":
		return renderJSON(w, t)
	case "yaml":
		return renderYAML(w, t)
	}

	format, err := core.ParseFormat(output)
	if err != nil {
		return err
	}
	if !format.Delimited() {
		return fmt.Errorf("%w: -o %s cannot be printed, use convert", core.ErrUnsupportedFormat, output)
	}
	data, err := core.Encode(t, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func renderTerminal(w io.Writer, t core.Table) error {
	records := t.Records()
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = make([]string, len(rec))
		for j, v := range rec {
			rows[i][j] = v.String()
		}
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(t.Columns()...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(records) || col >= len(records[row]) {
				return cellStyle
			}
			switch v := records[row][col]; {
			case v.IsNull():
				return nullStyle
			case v.IsNumber():
				return numberStyle
			default:
				return cellStyle
			}
		})

	_, err := fmt.Fprintf(w, "%s\n%s\n", tbl.Render(), footerStyle.Render(rowCount(t)))
	return err
}

func rowCount(t core.Table) string {
	if t.Len() == 1 {
		return "1 row"
	}
	return strconv.Itoa(t.Len()) + " rows"
}

type jsonTable struct {
	Columns []string       `json:"columns"`
	Rows    [][]core.Value `json:"rows"`
}

func renderJSON(w io.Writer, t core.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonTable{Columns: t.Columns(), Rows: t.Records()})
}

// renderYAML writes one mapping per row, keys in column order.
func renderYAML(w io.Writer, t core.Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	cols := t.Columns()
	for _, rec := range t.Records() {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, v := range rec {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: cols[i]},
				yamlScalar(v),
			)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func yamlScalar(v core.Value) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: v.String()}
	switch v.Kind() {
	case core.KindNull:
		n.Tag, n.Value = "!!null", "null"
	case core.KindBool:
		n.Tag = "!!bool"
	case core.KindNumber:
		if _, err := strconv.ParseInt(n.Value, 10, 64); err == nil {
			n.Tag = "!!int"
		} else {
			n.Tag = "!!float"
		}
	default:
		n.Tag = "!!str"
	}
	return n
}

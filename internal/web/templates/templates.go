// Package templates renders the editor's HTML pages as templ components.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// TableCard summarizes one slot on the dashboard.
type TableCard struct {
	Slot      int
	FileName  string
	Rows      int
	Columns   []string
	UndoDepth int
	LastSaved string
}

// TablePage is everything the table view shows.
type TablePage struct {
	Slot      int
	FileName  string
	Slots     []int
	Columns   []string
	RowIDs    []string
	Cells     [][]string
	UndoDepth int
	LastSaved string
}

// page collects markup and remembers the first write error.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) { p.raw(templ.EscapeString(s)) }

func (p *page) rawf(format string, args ...any) { p.raw(fmt.Sprintf(format, args...)) }

func layout(title string, body func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		p.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		p.text(title)
		p.raw(`</title></head><body><header><a href="/">Tables</a></header><main>`)
		body(p)
		p.raw(`</main></body></html>`)
		return p.err
	})
}

// Dashboard lists every table slot.
func Dashboard(cards []TableCard) templ.Component {
	return layout("Tables", func(p *page) {
		p.raw(`<h1>Tables</h1><div class="cards">`)
		for _, c := range cards {
			p.rawf(`<a class="card" href="/table/%d"><h2>Table %d</h2>`, c.Slot, c.Slot)
			p.raw(`<p class="file">`)
			p.text(c.FileName)
			p.rawf(`</p><p>%d rows, %d columns</p>`, c.Rows, len(c.Columns))
			if len(c.Columns) > 0 {
				p.raw(`<p class="columns">`)
				p.text(strings.Join(c.Columns, ", "))
				p.raw(`</p>`)
			}
			if c.UndoDepth > 0 {
				p.rawf(`<p class="pending">%d undoable changes</p>`, c.UndoDepth)
			}
			p.raw(`<p class="saved">`)
			if c.LastSaved == "" {
				p.raw(`Not saved yet`)
			} else {
				p.text("Saved " + c.LastSaved)
			}
			p.raw(`</p></a>`)
		}
		p.raw(`</div>`)
	})
}

// TableView renders the full page for one slot.
func TableView(t TablePage) templ.Component {
	return layout(fmt.Sprintf("Table %d", t.Slot), func(p *page) {
		p.raw(`<nav class="tabs">`)
		for _, slot := range t.Slots {
			class := ""
			if slot == t.Slot {
				class = ` class="active"`
			}
			p.rawf(`<a href="/table/%d"%s>Table %d</a>`, slot, class, slot)
		}
		p.raw(`</nav><div id="table-content">`)
		writeTable(p, t)
		p.raw(`</div>`)
	})
}

// TablePartial renders only the table body, for HTMX swaps.
func TablePartial(t TablePage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		writeTable(p, t)
		return p.err
	})
}

func writeTable(p *page, t TablePage) {
	p.rawf(`<section class="table" data-slot="%d"><h1>Table %d</h1><p class="meta">`, t.Slot, t.Slot)
	p.text(t.FileName)
	p.rawf(` &middot; %d rows`, len(t.Cells))
	if t.LastSaved != "" {
		p.text(" · saved " + t.LastSaved)
	}
	if t.UndoDepth > 0 {
		p.rawf(` &middot; %d undoable changes`, t.UndoDepth)
	}
	p.raw(`</p><p class="actions">`)
	for _, ext := range []string{"csv", "tsv", "xlsx"} {
		p.rawf(`<a href="/api/tables/%d/export?format=%s">Download %s</a> `, t.Slot, ext, ext)
	}
	p.raw(`</p><table><thead><tr><th>#</th>`)
	for _, c := range t.Columns {
		p.raw(`<th>`)
		p.text(c)
		p.raw(`</th>`)
	}
	p.raw(`</tr></thead><tbody>`)
	if len(t.Cells) == 0 {
		p.rawf(`<tr><td colspan="%d" class="empty">No rows</td></tr>`, len(t.Columns)+1)
	}
	for i, row := range t.Cells {
		id := ""
		if i < len(t.RowIDs) {
			id = t.RowIDs[i]
		}
		p.raw(`<tr data-row-id="`)
		p.text(id)
		p.rawf(`"><td>%d</td>`, i+1)
		for _, cell := range row {
			p.raw(`<td>`)
			p.text(cell)
			p.raw(`</td>`)
		}
		p.raw(`</tr>`)
	}
	p.raw(`</tbody></table></section>`)
}

// ErrorAlert is the error fragment swapped in by HTMX requests.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := &page{w: w}
		p.raw(`<div class="alert alert-error" role="alert"><p class="message">`)
		p.text(message)
		p.raw(`</p>`)
		if action != "" {
			p.raw(`<p class="action">`)
			p.text(action)
			p.raw(`</p>`)
		}
		p.raw(`<p class="code">Code: `)
		p.text(code)
		p.raw(`</p></div>`)
		return p.err
	})
}

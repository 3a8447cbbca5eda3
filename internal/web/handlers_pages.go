package web

import (
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/JonMunkholm/tableman/internal/web/templates"
)

// handleDashboard renders a card per table slot.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r)

	cards := make([]templates.TableCard, 0, len(s.store.Slots()))
	for _, slot := range s.store.Slots() {
		sess, err := s.store.Session(ctx, slot)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		view, err := sess.View(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		cards = append(cards, templates.TableCard{
			Slot:      view.Slot,
			FileName:  view.FileName,
			Rows:      view.Table.Len(),
			Columns:   view.Table.Columns(),
			UndoDepth: view.UndoDepth,
			LastSaved: formatSaved(view.LastSavedAt),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(cards).Render(ctx, w); err != nil {
		slog.Error("render dashboard", "error", err)
	}
}

// handleTableView renders one table. HTMX requests get only the table.
func (s *Server) handleTableView(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	view, err := sess.View(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	page := tablePage(view)
	page.Slots = s.store.Slots()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if isHTMX(r) {
		err = templates.TablePartial(page).Render(ctx, w)
	} else {
		err = templates.TableView(page).Render(ctx, w)
	}
	if err != nil {
		slog.Error("render table", "slot", view.Slot, "error", err)
	}
}

func tablePage(v core.SessionView) templates.TablePage {
	cols := v.Table.Columns()
	page := templates.TablePage{
		Slot:      v.Slot,
		FileName:  v.FileName,
		Columns:   cols,
		UndoDepth: v.UndoDepth,
		LastSaved: formatSaved(v.LastSavedAt),
	}
	for _, row := range v.Table.Rows() {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = row.Get(c).String()
		}
		page.RowIDs = append(page.RowIDs, row.ID())
		page.Cells = append(page.Cells, cells)
	}
	return page
}

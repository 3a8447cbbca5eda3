package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
)

// tableSummary is a slot in the table listing.
type tableSummary struct {
	Slot      int      `json:"slot"`
	FileName  string   `json:"fileName"`
	Columns   []string `json:"columns"`
	RowCount  int      `json:"rowCount"`
	UndoDepth int      `json:"undoDepth"`
	LastSaved string   `json:"lastSaved,omitempty"`
}

// handleListTables returns a summary of every slot.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r)

	out := make([]tableSummary, 0, len(s.store.Slots()))
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
		out = append(out, tableSummary{
			Slot:      view.Slot,
			FileName:  view.FileName,
			Columns:   view.Table.Columns(),
			RowCount:  view.Table.Len(),
			UndoDepth: view.UndoDepth,
			LastSaved: formatSaved(view.LastSavedAt),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetTable returns a slot's full table.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleCommitEdit replaces the table with an edited copy from the grid.
// Rows keep the ids sent alongside them; rows without one get a new id.
func (s *Server) handleCommitEdit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Columns []string       `json:"columns"`
		Rows    [][]core.Value `json:"rows"`
		IDs     []string       `json:"ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	edited, err := core.FromRecords(req.Columns, req.Rows)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	edited = edited.WithRowIDs(req.IDs)
	if err := sess.CommitEdit(ctx, edited); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleSetCell updates one cell. The row is addressed by rowId or by
// position; the value is either typed JSON or raw user input to parse.
func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row    *int       `json:"row"`
		RowID  string     `json:"rowId"`
		Column string     `json:"column"`
		Value  core.Value `json:"value"`
		Input  *string    `json:"input"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	row := -1
	switch {
	case req.RowID != "":
		t, err := sess.Table(ctx)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if row = t.RowIndex(req.RowID); row < 0 {
			s.fail(w, r, fmt.Errorf("%w: id %s", core.ErrRowOutOfRange, req.RowID))
			return
		}
	case req.Row != nil:
		row = *req.Row
	default:
		s.fail(w, r, errors.Join(errBadRequest, errors.New("row or rowId is required")))
		return
	}

	value := req.Value
	if req.Input != nil {
		value = core.ParseCell(*req.Input)
	}
	if err := sess.SetCell(ctx, row, req.Column, value); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleAppendRow adds a row; unnamed columns are null.
func (s *Server) handleAppendRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values map[string]core.Value `json:"values"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.AppendRow(ctx, req.Values); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleDeleteRows removes rows by id or by position, not both at once.
func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Indices []int    `json:"indices"`
		IDs     []string `json:"ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if len(req.Indices) > 0 && len(req.IDs) > 0 {
		s.fail(w, r, errors.Join(errBadRequest, errors.New("send indices or ids, not both")))
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if len(req.IDs) > 0 {
		err = sess.DeleteRowIDs(ctx, req.IDs...)
	} else {
		err = sess.DeleteRows(ctx, req.Indices...)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleAddColumn appends a column filled with an optional default.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string     `json:"name"`
		Default core.Value `json:"default"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.AddColumn(ctx, req.Name, req.Default); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleDeleteColumns drops the named columns.
func (s *Server) handleDeleteColumns(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Names []string `json:"names"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.DeleteColumns(ctx, req.Names...); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

package web

// This file holds request parsing and response shapes shared by handlers.

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps JSON request bodies. Uploads have their own limit.
const maxBodyBytes = 8 << 20

const timeLayout = "2006-01-02 15:04:05"

// session resolves the {slot} URL parameter. The returned context carries
// the client metadata used by session history.
func (s *Server) session(r *http.Request) (context.Context, *core.Session, error) {
	ctx := withRequestMetadata(r)
	raw := chi.URLParam(r, "slot")
	slot, err := strconv.Atoi(raw)
	if err != nil {
		return ctx, nil, fmt.Errorf("%w: %q", core.ErrUnknownTable, raw)
	}
	sess, err := s.store.Session(ctx, slot)
	return ctx, sess, err
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// rowResponse is one row in API output. Values follow the column order.
type rowResponse struct {
	ID     string       `json:"id"`
	Values []core.Value `json:"values"`
}

// tableResponse is a table as returned by the API. Preview marks a derived
// table that has not been committed.
type tableResponse struct {
	Slot        int           `json:"slot"`
	FileName    string        `json:"fileName,omitempty"`
	Columns     []string      `json:"columns"`
	Rows        []rowResponse `json:"rows"`
	RowCount    int           `json:"rowCount"`
	ColumnOrder []string      `json:"columnOrder,omitempty"`
	LastSavedAt *time.Time    `json:"lastSavedAt,omitempty"`
	UndoDepth   int           `json:"undoDepth"`
	Preview     bool          `json:"preview,omitempty"`
}

func newTableResponse(slot int, t core.Table) tableResponse {
	cols := t.Columns()
	rows := make([]rowResponse, 0, t.Len())
	for _, row := range t.Rows() {
		values := make([]core.Value, len(cols))
		for i, c := range cols {
			values[i] = row.Get(c)
		}
		rows = append(rows, rowResponse{ID: row.ID(), Values: values})
	}
	return tableResponse{Slot: slot, Columns: cols, Rows: rows, RowCount: t.Len()}
}

func viewResponse(v core.SessionView) tableResponse {
	resp := newTableResponse(v.Slot, v.Table)
	resp.FileName = v.FileName
	resp.ColumnOrder = v.ColumnOrder
	resp.LastSavedAt = v.LastSavedAt
	resp.UndoDepth = v.UndoDepth
	return resp
}

// respondView writes the session's current state after a successful change.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request, ctx context.Context, sess *core.Session) {
	view, err := sess.View(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewResponse(view))
}

func formatSaved(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(timeLayout)
}

package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
	"github.com/JonMunkholm/tableman/internal/logging"
)

const defaultHistoryLimit = 50

// handleUndo reverts the slot's most recent change.
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.Undo(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleUndoAll reverts the last change of every table that has one.
func (s *Server) handleUndoAll(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r)
	undone, err := s.store.UndoAll(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone})
}

// handleSave writes the slot's table to storage.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.Save(ctx); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, ctx, sess)
}

// handleSaveAll saves every loaded table. One failing table does not stop
// the others from being saved.
func (s *Server) handleSaveAll(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r)
	if err := s.store.SaveAll(ctx); err != nil {
		s.fail(w, r, err)
		return
	}

	saved := make([]int, 0)
	for _, sess := range s.store.Loaded() {
		saved = append(saved, sess.Slot())
	}
	logging.FromContext(ctx).Info("all tables saved", "slots", saved)
	writeJSON(w, http.StatusOK, map[string]any{"saved": saved})
}

// handleExport downloads the table in the requested format, defaulting to
// the configured storage format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	name := r.URL.Query().Get("format")
	if name == "" {
		name = s.cfg.Tables.Format
	}
	format, err := core.ParseFormat(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	fileName, data, err := sess.Export(ctx, format)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))
	w.Write(data)
}

// handleHistory returns the slot's recent activity, newest first.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.History(parseIntParam(r, "limit", defaultHistoryLimit)))
}

package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tableman/internal/core"
)

// predicateRequest is either a value set or a numeric range.
type predicateRequest struct {
	Values []core.Value `json:"values,omitempty"`
	Min    *float64     `json:"min,omitempty"`
	Max    *float64     `json:"max,omitempty"`
}

func (p predicateRequest) predicate(column string) (core.Predicate, error) {
	switch {
	case p.Min != nil && p.Max != nil:
		if len(p.Values) > 0 {
			return core.Predicate{}, errors.Join(errBadRequest, fmt.Errorf("column %q: values and range are exclusive", column))
		}
		return core.Between(*p.Min, *p.Max), nil
	case p.Min != nil || p.Max != nil:
		return core.Predicate{}, errors.Join(errBadRequest, fmt.Errorf("column %q: range needs min and max", column))
	default:
		return core.In(p.Values...), nil
	}
}

// handleFilterOptions lists the values or bounds each column can be filtered by.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t, err := sess.Table(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, core.FilterOptions(t))
}

// handleFilter previews a filter, or commits it when apply is set.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Predicates map[string]predicateRequest `json:"predicates"`
		Apply      bool                        `json:"apply"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	predicates := make(map[string]core.Predicate, len(req.Predicates))
	for col, p := range req.Predicates {
		pred, err := p.predicate(col)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		predicates[col] = pred
	}

	ctx, sess, err := s.session(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if req.Apply {
		if err := sess.ApplyFilter(ctx, predicates); err != nil {
			s.fail(w, r, err)
			return
		}
		s.respondView(w, r, ctx, sess)
		return
	}

	filtered, err := sess.PreviewFilter(ctx, predicates)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := newTableResponse(sess.Slot(), filtered)
	resp.Preview = true
	writeJSON(w, http.StatusOK, resp)
}

// handleSort previews a sort, or commits it when apply is set.
func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column     string `json:"column"`
		Descending bool   `json:"descending"`
		Apply      bool   `json:"apply"`
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

	if req.Apply {
		if err := sess.ApplySort(ctx, req.Column, !req.Descending); err != nil {
			s.fail(w, r, err)
			return
		}
		s.respondView(w, r, ctx, sess)
		return
	}

	sorted, err := sess.PreviewSort(ctx, req.Column, !req.Descending)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := newTableResponse(sess.Slot(), sorted)
	resp.Preview = true
	writeJSON(w, http.StatusOK, resp)
}

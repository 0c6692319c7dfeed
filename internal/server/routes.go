package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/orbit/internal/engine"
	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

// parseQuery reads a view query from URL parameters.
func parseQuery(r *http.Request) (engine.Query, error) {
	v := r.URL.Query()
	contact, err := optionalID(v.Get("contact"))
	if err != nil {
		return engine.Query{}, err
	}
	q := engine.Query{
		Contact: contact,
		Tags:    splitList(v.Get("tags")),
		Search:  v.Get("q"),
	}
	if raw := v.Get("completed"); raw != "" {
		if q.Completed, err = strconv.ParseBool(raw); err != nil {
			return engine.Query{}, &model.ValidationError{Field: "completed", Msg: "must be a boolean"}
		}
	}
	if q.Sort, err = engine.ParseSortMode(v.Get("sort")); err != nil {
		return engine.Query{}, &model.ValidationError{Field: "sort", Msg: err.Error()}
	}
	return q, nil
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.View(s.records.Snapshot(), q))
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	snap := s.records.Snapshot()
	row, ok := s.engine.Describe(snap, id)
	if !ok {
		writeError(w, http.StatusNotFound, "item "+id.String()+" not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"row":      row,
		"children": len(snap.Children(id)),
	})
}

func (s *Server) handleUpsertItem(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if !decodeJSON(w, r, &d) {
		return
	}
	creating := d.ID == nil
	it, err := s.records.Upsert(d)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if creating {
		s.metrics.mutated("create")
		writeJSON(w, http.StatusCreated, it)
		return
	}
	s.metrics.mutated("edit")
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleQuickLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var entry records.LogEntry
	if !decodeJSON(w, r, &entry) {
		return
	}
	it, err := s.records.QuickLog(id, entry)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("log")
	writeJSON(w, http.StatusCreated, it)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	it, err := s.records.Toggle(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("toggle")
	writeJSON(w, http.StatusOK, it)
}

func (s *Server) handleTrashItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.records.Trash(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if res.Archived {
		s.metrics.mutated("archive")
	} else {
		s.metrics.mutated("delete")
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	n, err := s.records.Undo(chi.URLParam(r, "token"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("undo")
	writeJSON(w, http.StatusOK, map[string]int{"restored": n})
}

func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		engine.Query
		IDs []model.ID `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	mode, err := engine.ParseSortMode(string(req.Sort))
	if err != nil {
		s.fail(w, r, &model.ValidationError{Field: "sort", Msg: err.Error()})
		return
	}
	req.Sort = mode
	if err := s.engine.Reorder(s.records, req.Query, req.IDs); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("reorder")
	writeJSON(w, http.StatusOK, s.engine.View(s.records.Snapshot(), req.Query))
}

func (s *Server) handleDrifting(w http.ResponseWriter, r *http.Request) {
	reports := s.engine.Drifting(s.records.Snapshot())
	if reports == nil {
		reports = []engine.DriftReport{}
	}
	writeJSON(w, http.StatusOK, reports)
}

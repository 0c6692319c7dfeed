package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/orbit/internal/model"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	contact, err := optionalID(r.URL.Query().Get("contact"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cats, err := s.records.ActiveCategories(contact)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": cats,
		"counts":     s.records.Snapshot().CategoryCounts(contact),
	})
}

type categoryRequest struct {
	Contact *model.ID `json:"contact,omitempty"`
	Name    string    `json:"name"`
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := s.records.AddCategory(req.Contact, req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("add_category")
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.records.RenameCategory(req.Contact, id, req.Name); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("rename_category")
	writeJSON(w, http.StatusOK, model.Category{ID: id, Name: req.Name})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	contact, err := optionalID(r.URL.Query().Get("contact"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.records.DeleteCategory(contact, chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("delete_category")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contact *model.ID `json:"contact,omitempty"`
		IDs     []string  `json:"ids"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.records.ReorderCategories(req.Contact, req.IDs); err != nil {
		s.fail(w, r, err)
		return
	}
	s.metrics.mutated("reorder_categories")
	cats, err := s.records.ActiveCategories(req.Contact)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

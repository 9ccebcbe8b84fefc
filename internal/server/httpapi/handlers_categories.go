package httpapi

import (
	"net/http"

	"github.com/and161185/notekeeper/internal/authz"
	"github.com/and161185/notekeeper/internal/model"
)

type categoryRequest struct {
	Title string `json:"title"`
}

type categoryShowResponse struct {
	Category categoryView       `json:"category"`
	Notes    pageView[noteView] `json:"notes"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := s.svc.Categories.List(r.Context(), pageParam(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageView(page, toCategoryView))
}

// handleShowCategory lists only the caller's own notes in the category.
func (s *Server) handleShowCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.svc.Categories.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := PrincipalFromCtx(r.Context())
	notes, err := s.svc.Categories.Notes(r.Context(), pageParam(r), c.ID, p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categoryShowResponse{
		Category: toCategoryView(*c),
		Notes:    toPageView(notes, toNoteView),
	})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.RequireRole(p, model.RoleAdmin); err != nil {
		s.fail(w, r, err)
		return
	}
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	c := model.Category{Title: req.Title}
	if err := s.svc.Categories.Save(r.Context(), &c); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryView(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.RequireRole(p, model.RoleAdmin); err != nil {
		s.fail(w, r, err)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	c, err := s.svc.Categories.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req categoryRequest
	if !decode(w, r, &req) {
		return
	}
	c.Title = req.Title
	if err := s.svc.Categories.Save(r.Context(), c); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCategoryView(*c))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.RequireRole(p, model.RoleAdmin); err != nil {
		s.fail(w, r, err)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := s.svc.Categories.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	free, err := s.svc.Categories.CanBeDeleted(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !free {
		respondError(w, http.StatusConflict, "has_dependents", "category contains notes", "")
		return
	}
	if err := s.svc.Categories.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"net/http"

	"github.com/and161185/notekeeper/internal/authz"
	"github.com/and161185/notekeeper/internal/model"
)

type noteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID int64  `json:"category_id"`
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	page, err := s.svc.Notes.List(r.Context(), pageParam(r), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageView(page, toNoteView))
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	n := model.Note{Title: req.Title, Content: req.Content, CategoryID: req.CategoryID, UserID: p.UserID}
	if err := s.svc.Notes.Save(r.Context(), &n); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toNoteView(n))
}

// loadNote fetches the note in the path and checks c on it.
func (s *Server) loadNote(w http.ResponseWriter, r *http.Request, c authz.Capability) (*model.Note, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	n, err := s.svc.Notes.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.Check(p, c, authz.NoteResource(n)); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return n, true
}

func (s *Server) handleShowNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNote(w, r, authz.View)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toNoteView(*n))
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNote(w, r, authz.Edit)
	if !ok {
		return
	}
	var req noteRequest
	if !decode(w, r, &req) {
		return
	}
	n.Title, n.Content = req.Title, req.Content
	if req.CategoryID != 0 {
		n.CategoryID = req.CategoryID
	}
	if err := s.svc.Notes.Save(r.Context(), n); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toNoteView(*n))
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	n, ok := s.loadNote(w, r, authz.Delete)
	if !ok {
		return
	}
	if err := s.svc.Notes.Delete(r.Context(), n.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

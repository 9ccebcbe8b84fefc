package httpapi

import (
	"net/http"

	"github.com/and161185/notekeeper/internal/authz"
	"github.com/and161185/notekeeper/internal/model"
)

type todoRequest struct {
	Title string `json:"title"`
}

type todoItemRequest struct {
	Title  string `json:"title"`
	IsDone *bool  `json:"is_done,omitempty"`
}

type todoShowResponse struct {
	Todo  todoView               `json:"todo"`
	Items pageView[todoItemView] `json:"items"`
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	page, err := s.svc.Todos.List(r.Context(), pageParam(r), p.UserID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toPageView(page, toTodoView))
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	p, _ := PrincipalFromCtx(r.Context())
	var req todoRequest
	if !decode(w, r, &req) {
		return
	}
	t := model.Todo{Title: req.Title, UserID: p.UserID}
	if err := s.svc.Todos.Save(r.Context(), &t); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTodoView(t))
}

func (s *Server) loadTodo(w http.ResponseWriter, r *http.Request, c authz.Capability) (*model.Todo, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	t, err := s.svc.Todos.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.Check(p, c, authz.TodoResource(t)); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return t, true
}

func (s *Server) handleShowTodo(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTodo(w, r, authz.View)
	if !ok {
		return
	}
	items, err := s.svc.Todos.Items(r.Context(), pageParam(r), t.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, todoShowResponse{
		Todo:  toTodoView(*t),
		Items: toPageView(items, toTodoItemView),
	})
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTodo(w, r, authz.Edit)
	if !ok {
		return
	}
	var req todoRequest
	if !decode(w, r, &req) {
		return
	}
	t.Title = req.Title
	if err := s.svc.Todos.Save(r.Context(), t); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTodoView(*t))
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTodo(w, r, authz.Delete)
	if !ok {
		return
	}
	free, err := s.svc.Todos.CanBeDeleted(r.Context(), t.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !free {
		respondError(w, http.StatusConflict, "has_dependents", "todo contains items", "")
		return
	}
	if err := s.svc.Todos.Delete(r.Context(), t.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateTodoItem adds an item to a todo the caller may edit.
func (s *Server) handleCreateTodoItem(w http.ResponseWriter, r *http.Request) {
	t, ok := s.loadTodo(w, r, authz.Edit)
	if !ok {
		return
	}
	var req todoItemRequest
	if !decode(w, r, &req) {
		return
	}
	it := model.TodoItem{Title: req.Title}
	if req.IsDone != nil {
		it.IsDone = *req.IsDone
	}
	if err := s.svc.TodoItems.Create(r.Context(), &it, t.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTodoItemView(it))
}

// loadTodoItem authorizes through the owning todo.
func (s *Server) loadTodoItem(w http.ResponseWriter, r *http.Request, c authz.Capability) (*model.TodoItem, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	it, err := s.svc.TodoItems.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	parent, err := s.svc.TodoItems.Parent(r.Context(), it)
	if err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.Check(p, c, authz.TodoItemResource(it, parent)); err != nil {
		s.fail(w, r, err)
		return nil, false
	}
	return it, true
}

func (s *Server) handleShowTodoItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.loadTodoItem(w, r, authz.View)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toTodoItemView(*it))
}

func (s *Server) handleUpdateTodoItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.loadTodoItem(w, r, authz.Edit)
	if !ok {
		return
	}
	var req todoItemRequest
	if !decode(w, r, &req) {
		return
	}
	it.Title = req.Title
	if req.IsDone != nil {
		it.IsDone = *req.IsDone
	}
	if err := s.svc.TodoItems.Save(r.Context(), it); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTodoItemView(*it))
}

func (s *Server) handleDeleteTodoItem(w http.ResponseWriter, r *http.Request) {
	it, ok := s.loadTodoItem(w, r, authz.Delete)
	if !ok {
		return
	}
	if err := s.svc.TodoItems.Delete(r.Context(), it.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

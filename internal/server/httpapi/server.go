// Package httpapi exposes the services as a JSON API over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/notekeeper/internal/service"
)

// Services groups the application services the API dispatches to.
type Services struct {
	Auth       service.AuthService
	Categories service.CategoryService
	Notes      service.NoteService
	Todos      service.TodoService
	TodoItems  service.TodoItemService
}

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds handler dependencies.
type Server struct {
	svc    Services
	checks map[string]Pinger
	log    *zap.Logger
}

// New constructs the API server. checks are probed by /api/ready.
func New(svc Services, checks map[string]Pinger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, checks: checks, log: log}
}

const idPattern = "{id:[1-9][0-9]*}"

// Handler builds the router with middleware applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(RequestID, Recover(s.log), Logging(s.log))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "not found", "")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
	})

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)

	api.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/logout", s.requireAuth(s.handleLogout)).Methods(http.MethodPost)

	api.HandleFunc("/users/"+idPattern, s.requireAuth(s.handleGetUser)).Methods(http.MethodGet)
	api.HandleFunc("/users/"+idPattern, s.requireAuth(s.handleUpdateUser)).Methods(http.MethodPut)

	api.HandleFunc("/categories", s.requireAuth(s.handleListCategories)).Methods(http.MethodGet)
	api.HandleFunc("/categories", s.requireAuth(s.handleCreateCategory)).Methods(http.MethodPost)
	api.HandleFunc("/categories/"+idPattern, s.requireAuth(s.handleShowCategory)).Methods(http.MethodGet)
	api.HandleFunc("/categories/"+idPattern, s.requireAuth(s.handleUpdateCategory)).Methods(http.MethodPut)
	api.HandleFunc("/categories/"+idPattern, s.requireAuth(s.handleDeleteCategory)).Methods(http.MethodDelete)

	api.HandleFunc("/notes", s.requireAuth(s.handleListNotes)).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.requireAuth(s.handleCreateNote)).Methods(http.MethodPost)
	api.HandleFunc("/notes/"+idPattern, s.requireAuth(s.handleShowNote)).Methods(http.MethodGet)
	api.HandleFunc("/notes/"+idPattern, s.requireAuth(s.handleUpdateNote)).Methods(http.MethodPut)
	api.HandleFunc("/notes/"+idPattern, s.requireAuth(s.handleDeleteNote)).Methods(http.MethodDelete)

	api.HandleFunc("/todos", s.requireAuth(s.handleListTodos)).Methods(http.MethodGet)
	api.HandleFunc("/todos", s.requireAuth(s.handleCreateTodo)).Methods(http.MethodPost)
	api.HandleFunc("/todos/"+idPattern, s.requireAuth(s.handleShowTodo)).Methods(http.MethodGet)
	api.HandleFunc("/todos/"+idPattern, s.requireAuth(s.handleUpdateTodo)).Methods(http.MethodPut)
	api.HandleFunc("/todos/"+idPattern, s.requireAuth(s.handleDeleteTodo)).Methods(http.MethodDelete)
	api.HandleFunc("/todos/"+idPattern+"/items", s.requireAuth(s.handleCreateTodoItem)).Methods(http.MethodPost)

	api.HandleFunc("/todo-items/"+idPattern, s.requireAuth(s.handleShowTodoItem)).Methods(http.MethodGet)
	api.HandleFunc("/todo-items/"+idPattern, s.requireAuth(s.handleUpdateTodoItem)).Methods(http.MethodPut)
	api.HandleFunc("/todo-items/"+idPattern, s.requireAuth(s.handleDeleteTodoItem)).Methods(http.MethodDelete)

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady pings every dependency and reports each failing one by name.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	failed := map[string]string{}
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			failed[name] = "unavailable"
		}
	}
	if len(failed) > 0 {
		respondJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "checks": failed})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

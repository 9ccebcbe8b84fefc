package httpapi

import (
	"net/http"
	"time"

	"github.com/and161185/notekeeper/internal/authz"
	"github.com/and161185/notekeeper/internal/service"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        userView  `json:"user"`
}

type profileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := s.svc.Auth.Register(r.Context(), service.Registration{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toUserView(u))
}

// handleLogin rate-limits by the connection's address only; forwarding headers are not trusted.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	tok, u, err := s.svc.Auth.LoginWithIP(r.Context(), req.Email, req.Password, r.RemoteAddr)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{
		AccessToken: tok.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
		User:        toUserView(&u),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromCtx(r.Context())
	if err := s.svc.Auth.Logout(r.Context(), claims); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := s.svc.Auth.Profile(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.Check(p, authz.View, authz.UserResource(u)); err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(u))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := s.svc.Auth.Profile(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, _ := PrincipalFromCtx(r.Context())
	if err := authz.Check(p, authz.Edit, authz.UserResource(u)); err != nil {
		s.fail(w, r, err)
		return
	}
	var req profileRequest
	if !decode(w, r, &req) {
		return
	}
	u, err = s.svc.Auth.UpdateProfile(r.Context(), id, req.FirstName, req.LastName)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserView(u))
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/and161185/notekeeper/internal/errs"
)

const maxBodyBytes = 1 << 20

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, code, message, field string) {
	respondJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message, Field: field}})
}

// fail maps a service error onto the error envelope. Unexpected errors are
// logged and hidden from the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var field string
	var fe *errs.FieldError
	if errors.As(err, &fe) {
		field = fe.Field
	}

	switch {
	case errors.Is(err, errs.ErrValidation):
		respondError(w, http.StatusBadRequest, "validation", err.Error(), field)
	case errors.Is(err, errs.ErrAlreadyExists):
		respondError(w, http.StatusUnprocessableEntity, "already_exists", "value is already used", field)
	case errors.Is(err, errs.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "not found", field)
	case errors.Is(err, errs.ErrHasDependents):
		respondError(w, http.StatusConflict, "has_dependents", "entity still has dependent records", "")
	case errors.Is(err, errs.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required", "")
	case errors.Is(err, errs.ErrForbidden):
		respondError(w, http.StatusForbidden, "forbidden", "access denied", "")
	case errors.Is(err, errs.ErrRateLimited):
		respondError(w, http.StatusTooManyRequests, "rate_limited", "too many attempts, try again later", "")
	default:
		s.log.Error("request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromCtx(r.Context())),
		)
		respondError(w, http.StatusInternalServerError, "internal", "internal error", "")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid request payload", "")
		return false
	}
	return true
}

// pathID reads the {id} route variable. Routes only match [1-9][0-9]*, so the
// only failure left is overflow, which cannot name an existing row.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", "not found", "")
		return 0, false
	}
	return id, true
}

// pageParam reads ?page=, defaulting to 1 for missing or malformed values.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

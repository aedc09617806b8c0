package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solverhub/apiserver/internal/services"
	"github.com/solverhub/apiserver/internal/storage"
	"github.com/solverhub/apiserver/internal/store"
	"github.com/solverhub/apiserver/types"
)

type contextKey string

const contextSubjectKey contextKey = "sub"

const (
	defaultSkip  = 0
	defaultLimit = 10
	maxLimit     = 100
)

// ErrorResponse is a simple error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

func subjectFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(contextSubjectKey).(string)
	if !ok {
		return uuid.UUID{}, errors.New("missing subject")
	}
	uid, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.UUID{}, errors.New("invalid subject")
	}
	return uid, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps service and store errors to HTTP statuses.
// Unrecognized errors become a 500 with the fallback message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var transition *services.InvalidTransitionError
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &transition):
		writeError(w, http.StatusUnprocessableEntity, transition.Error())
	case errors.Is(err, services.ErrRoleMismatch):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, storage.ErrObjectNotFound):
		writeError(w, http.StatusNotFound, "deliverable not found")
	case errors.Is(err, storage.ErrNoBackend):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func parsePagination(r *http.Request) (skip, limit int, err error) {
	skip = defaultSkip
	limit = defaultLimit

	if raw := strings.TrimSpace(r.URL.Query().Get("skip")); raw != "" {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, errors.New("invalid skip")
		}
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, errors.New("invalid limit")
		}
	}

	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit, nil
}

func parseIdentifierParam(r *http.Request, param string) (types.Identifier, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return types.Identifier{}, errors.New("missing identifier")
	}
	return types.ParseIdentifier(raw)
}

func parseQueryInt64(r *http.Request, param string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return 0, errors.New(param + " is required")
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, errors.New("invalid " + param)
	}
	return value, nil
}

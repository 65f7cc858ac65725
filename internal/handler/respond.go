// Package handler exposes the REST API over chi.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tmarques/backplan/internal/auth"
	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps the service error taxonomy onto HTTP status codes:
// the "unauthorized" kind (create-flow parent missing, bad credentials,
// bad token) becomes 401, the "bad request" kind (entity not owned,
// validation, duplicate sign-up) becomes 400, everything else 500.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrMissingField),
		errors.Is(err, auth.ErrEmailExists),
		errors.Is(err, auth.ErrUsernameExists),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, models.ErrInvalidField),
		errors.Is(err, models.ErrInvalidStatus):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})

	default:
		slog.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// decodeBody decodes a JSON request body into dst, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

// pathID parses the {id} route parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// patchRequest is the wire shape of every PATCH body. The field name is
// parsed into a typed per-entity constant before it reaches a service.
type patchRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

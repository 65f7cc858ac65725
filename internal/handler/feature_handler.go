package handler

import (
	"net/http"

	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/service"
)

// FeatureHandler serves the feature endpoints.
type FeatureHandler struct {
	service   *service.FeatureService
	collector *metrics.Collector
}

// NewFeatureHandler creates a new FeatureHandler.
func NewFeatureHandler(service *service.FeatureService, collector *metrics.Collector) *FeatureHandler {
	return &FeatureHandler{service: service, collector: collector}
}

type createFeatureRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectID   int64  `json:"projectId"`
}

// Create handles POST /api/features. Returns the owning project, aggregated.
func (h *FeatureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFeatureRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req.ProjectID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("feature", "create")
	respondJSON(w, http.StatusCreated, project)
}

// Update handles PATCH /api/features/{id}. Returns the owning project,
// aggregated.
func (h *FeatureHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := models.ParseFeatureField(req.Field)
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("feature", "update")
	respondJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /api/features/{id}. Returns the owning project,
// aggregated.
func (h *FeatureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("feature", "delete")
	respondJSON(w, http.StatusOK, project)
}

package handler

import (
	"net/http"

	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/service"
)

// StoryHandler serves the user story endpoints.
type StoryHandler struct {
	service   *service.StoryService
	collector *metrics.Collector
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(service *service.StoryService, collector *metrics.Collector) *StoryHandler {
	return &StoryHandler{service: service, collector: collector}
}

type createStoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectID   int64  `json:"projectId"`
	FeatureID   int64  `json:"featureId"`
}

// Create handles POST /api/user-stories. Returns the owning project,
// aggregated.
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req.ProjectID, req.FeatureID, req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("user_story", "create")
	respondJSON(w, http.StatusCreated, project)
}

// Update handles PATCH /api/user-stories/{id}. Returns the owning project,
// aggregated.
func (h *StoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := models.ParseStoryField(req.Field)
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("user_story", "update")
	respondJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /api/user-stories/{id}. Returns the owning project,
// aggregated.
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("user_story", "delete")
	respondJSON(w, http.StatusOK, project)
}

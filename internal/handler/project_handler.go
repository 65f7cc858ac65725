package handler

import (
	"net/http"

	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/service"
)

// ProjectHandler serves the project endpoints.
type ProjectHandler struct {
	service   *service.ProjectService
	collector *metrics.Collector
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service *service.ProjectService, collector *metrics.Collector) *ProjectHandler {
	return &ProjectHandler{service: service, collector: collector}
}

// List handles GET /api/projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

// Get handles GET /api/projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/projects. Returns all of the user's projects,
// aggregated.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	projects, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("project", "create")
	respondJSON(w, http.StatusCreated, projects)
}

// Update handles PATCH /api/projects/{id}. Returns the aggregated project.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := models.ParseProjectField(req.Field)
	if err != nil {
		respondError(w, err)
		return
	}

	project, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("project", "update")
	respondJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /api/projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("project", "delete")
	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

package handler

import (
	"net/http"

	"github.com/tmarques/backplan/internal/metrics"
	"github.com/tmarques/backplan/internal/middleware"
	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/service"
)

// TaskHandler serves the task endpoints.
type TaskHandler struct {
	service   *service.TaskService
	collector *metrics.Collector
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *service.TaskService, collector *metrics.Collector) *TaskHandler {
	return &TaskHandler{service: service, collector: collector}
}

type createTaskRequest struct {
	Name        string `json:"name"`
	ProjectID   int64  `json:"projectId"`
	FeatureID   int64  `json:"featureId"`
	UserStoryID int64  `json:"userStoryId"`
}

// Create handles POST /api/tasks. Returns the owning project, aggregated.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	project, err := h.service.Create(r.Context(), middleware.GetUserID(r.Context()),
		req.ProjectID, req.FeatureID, req.UserStoryID, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("task", "create")
	respondJSON(w, http.StatusCreated, project)
}

// Update handles PATCH /api/tasks/{id}. Returns only the containing story's
// fresh "<completed>/<total>" progress string.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decodeBody(w, r, &req) {
		return
	}
	field, err := models.ParseTaskField(req.Field)
	if err != nil {
		respondError(w, err)
		return
	}

	progress, err := h.service.Update(r.Context(), middleware.GetUserID(r.Context()), id, field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("task", "update")
	respondJSON(w, http.StatusOK, map[string]string{"status": progress})
}

// Delete handles DELETE /api/tasks/{id}. Returns the containing story's
// snapshot: progress string plus remaining tasks.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.Delete(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}

	h.collector.RecordMutation("task", "delete")
	respondJSON(w, http.StatusOK, snapshot)
}

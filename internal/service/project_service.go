package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/status"
	"github.com/tmarques/backplan/internal/storage"
)

// ProjectService orchestrates project mutations. Every call that succeeds
// returns freshly aggregated state, so callers never see stale derived
// status.
type ProjectService struct {
	store storage.Store
}

// NewProjectService creates a new ProjectService with the given storage backend.
func NewProjectService(store storage.Store) *ProjectService {
	return &ProjectService{store: store}
}

// List returns all of the user's projects, aggregated.
func (s *ProjectService) List(ctx context.Context, userID int64) ([]*models.Project, error) {
	projects, err := s.store.ProjectTrees(ctx, userID)
	if err != nil {
		return nil, err
	}
	status.AggregateAll(projects)
	return projects, nil
}

// Get returns one owned project, aggregated. A project owned by somebody
// else reports ErrNotOwned.
func (s *ProjectService) Get(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.store.ProjectTree(ctx, projectID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}
	status.Aggregate(project)
	return project, nil
}

// Create adds a project and returns all of the user's projects, aggregated.
func (s *ProjectService) Create(ctx context.Context, userID int64, name, description string) ([]*models.Project, error) {
	if name == "" {
		return nil, ErrMissingField
	}

	id, err := s.store.CreateProject(ctx, userID, name, description)
	if err != nil {
		slog.Error("failed to create project", "user_id", userID, "error", err)
		return nil, err
	}

	slog.Info("project created", "project_id", id, "user_id", userID)
	return s.List(ctx, userID)
}

// Update patches one field of an owned project and returns it aggregated.
func (s *ProjectService) Update(ctx context.Context, userID, projectID int64, field models.ProjectField, value string) (*models.Project, error) {
	err := s.store.UpdateProject(ctx, projectID, userID, field, value)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("update rejected, project not owned", "project_id", projectID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, projectID)
}

// Delete removes an owned project and everything beneath it.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID int64) error {
	err := s.store.DeleteProject(ctx, projectID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("delete rejected, project not owned", "project_id", projectID, "user_id", userID)
		return ErrNotOwned
	}
	if err != nil {
		return err
	}

	slog.Info("project deleted", "project_id", projectID, "user_id", userID)
	return nil
}

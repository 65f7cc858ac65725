package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/status"
	"github.com/tmarques/backplan/internal/storage"
)

// FeatureService orchestrates feature mutations.
type FeatureService struct {
	store storage.Store
}

// NewFeatureService creates a new FeatureService with the given storage backend.
func NewFeatureService(store storage.Store) *FeatureService {
	return &FeatureService{store: store}
}

// Create adds a feature to one of the user's projects and returns that
// project aggregated. The parent is validated by locating it inside the
// user's own project list; a project ID outside it reports ErrUnauthorized
// before anything is written.
func (s *FeatureService) Create(ctx context.Context, userID, projectID int64, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, ErrMissingField
	}

	projects, err := s.store.ProjectTrees(ctx, userID)
	if err != nil {
		return nil, err
	}
	if findProject(projects, projectID) == nil {
		slog.Warn("feature create rejected, project not owned", "project_id", projectID, "user_id", userID)
		return nil, ErrUnauthorized
	}

	id, err := s.store.CreateFeature(ctx, projectID, name, description)
	if err != nil {
		return nil, err
	}
	slog.Info("feature created", "feature_id", id, "project_id", projectID, "user_id", userID)

	return s.refreshProject(ctx, userID, projectID)
}

// Update patches one field of an owned feature and returns the owning
// project aggregated.
func (s *FeatureService) Update(ctx context.Context, userID, featureID int64, field models.FeatureField, value string) (*models.Project, error) {
	projectID, err := s.store.FeatureOwner(ctx, featureID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("update rejected, feature not owned", "feature_id", featureID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateFeature(ctx, featureID, userID, field, value); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}

	return s.refreshProject(ctx, userID, projectID)
}

// Delete removes an owned feature, cascading to its stories and tasks, and
// returns the owning project aggregated.
func (s *FeatureService) Delete(ctx context.Context, userID, featureID int64) (*models.Project, error) {
	projectID, err := s.store.FeatureOwner(ctx, featureID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("delete rejected, feature not owned", "feature_id", featureID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteFeature(ctx, featureID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	slog.Info("feature deleted", "feature_id", featureID, "project_id", projectID, "user_id", userID)

	return s.refreshProject(ctx, userID, projectID)
}

// refreshProject re-fetches and re-aggregates the owning project after a
// mutation so callers always see consistent derived state.
func (s *FeatureService) refreshProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.store.ProjectTree(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	status.Aggregate(project)
	return project, nil
}

// findProject locates a project by ID within an owned tree list. Returns nil
// when absent.
func findProject(projects []*models.Project, projectID int64) *models.Project {
	for _, p := range projects {
		if p.ID == projectID {
			return p
		}
	}
	return nil
}

// findFeature locates a feature by ID within a project tree.
func findFeature(p *models.Project, featureID int64) *models.Feature {
	for i := range p.Features {
		if p.Features[i].ID == featureID {
			return &p.Features[i]
		}
	}
	return nil
}

// findStory locates a user story by ID within a feature.
func findStory(f *models.Feature, storyID int64) *models.UserStory {
	for i := range f.UserStories {
		if f.UserStories[i].ID == storyID {
			return &f.UserStories[i]
		}
	}
	return nil
}

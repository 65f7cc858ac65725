package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/status"
	"github.com/tmarques/backplan/internal/storage"
)

// StoryService orchestrates user story mutations.
type StoryService struct {
	store storage.Store
}

// NewStoryService creates a new StoryService with the given storage backend.
func NewStoryService(store storage.Store) *StoryService {
	return &StoryService{store: store}
}

// Create adds a user story under one of the user's features and returns the
// owning project aggregated. Both parent IDs are located inside the user's
// own project tree; either one missing reports ErrUnauthorized.
func (s *StoryService) Create(ctx context.Context, userID, projectID, featureID int64, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, ErrMissingField
	}

	projects, err := s.store.ProjectTrees(ctx, userID)
	if err != nil {
		return nil, err
	}
	project := findProject(projects, projectID)
	if project == nil || findFeature(project, featureID) == nil {
		slog.Warn("story create rejected, parent chain not owned",
			"project_id", projectID, "feature_id", featureID, "user_id", userID)
		return nil, ErrUnauthorized
	}

	id, err := s.store.CreateStory(ctx, featureID, name, description)
	if err != nil {
		return nil, err
	}
	slog.Info("user story created", "story_id", id, "feature_id", featureID, "user_id", userID)

	return s.refreshProject(ctx, userID, projectID)
}

// Update patches one field of an owned user story and returns the owning
// project aggregated.
func (s *StoryService) Update(ctx context.Context, userID, storyID int64, field models.StoryField, value string) (*models.Project, error) {
	projectID, err := s.store.StoryOwner(ctx, storyID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("update rejected, story not owned", "story_id", storyID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateStory(ctx, storyID, userID, field, value); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}

	return s.refreshProject(ctx, userID, projectID)
}

// Delete removes an owned user story, cascading to its tasks, and returns
// the owning project aggregated.
func (s *StoryService) Delete(ctx context.Context, userID, storyID int64) (*models.Project, error) {
	projectID, err := s.store.StoryOwner(ctx, storyID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("delete rejected, story not owned", "story_id", storyID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteStory(ctx, storyID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	slog.Info("user story deleted", "story_id", storyID, "project_id", projectID, "user_id", userID)

	return s.refreshProject(ctx, userID, projectID)
}

func (s *StoryService) refreshProject(ctx context.Context, userID, projectID int64) (*models.Project, error) {
	project, err := s.store.ProjectTree(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	status.Aggregate(project)
	return project, nil
}

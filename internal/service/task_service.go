package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/status"
	"github.com/tmarques/backplan/internal/storage"
)

// StorySnapshot is the narrow slice of state returned after task mutations:
// the story's fresh progress string and its remaining tasks. The UI updates
// a single story card from it instead of re-rendering the whole project.
type StorySnapshot struct {
	StoryStatus string        `json:"storyStatus"`
	TaskList    []models.Task `json:"taskList"`
}

// TaskService orchestrates task mutations.
type TaskService struct {
	store storage.Store
}

// NewTaskService creates a new TaskService with the given storage backend.
func NewTaskService(store storage.Store) *TaskService {
	return &TaskService{store: store}
}

// Create adds a task under one of the user's stories and returns the owning
// project aggregated. The whole parent chain is located inside the user's
// own project tree; any link missing reports ErrUnauthorized.
func (s *TaskService) Create(ctx context.Context, userID, projectID, featureID, storyID int64, name string) (*models.Project, error) {
	if name == "" {
		return nil, ErrMissingField
	}

	projects, err := s.store.ProjectTrees(ctx, userID)
	if err != nil {
		return nil, err
	}
	project := findProject(projects, projectID)
	var feature *models.Feature
	if project != nil {
		feature = findFeature(project, featureID)
	}
	if feature == nil || findStory(feature, storyID) == nil {
		slog.Warn("task create rejected, parent chain not owned",
			"project_id", projectID, "feature_id", featureID, "story_id", storyID, "user_id", userID)
		return nil, ErrUnauthorized
	}

	id, err := s.store.CreateTask(ctx, storyID, name)
	if err != nil {
		return nil, err
	}
	slog.Info("task created", "task_id", id, "story_id", storyID, "user_id", userID)

	project, err = s.store.ProjectTree(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	status.Aggregate(project)
	return project, nil
}

// Update patches one field of an owned task and returns the containing
// story's fresh "<completed>/<total>" progress string.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, field models.TaskField, value string) (string, error) {
	if field == models.TaskStatus && !models.ValidStatus(value) {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidStatus, value)
	}

	_, storyID, err := s.store.TaskOwner(ctx, taskID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("update rejected, task not owned", "task_id", taskID, "user_id", userID)
		return "", ErrNotOwned
	}
	if err != nil {
		return "", err
	}

	if err := s.store.UpdateTask(ctx, taskID, userID, field, value); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotOwned
		}
		return "", err
	}

	return s.storyProgress(ctx, storyID)
}

// Delete removes an owned task and returns a snapshot of the containing
// story: its fresh progress string and remaining task list.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) (*StorySnapshot, error) {
	_, storyID, err := s.store.TaskOwner(ctx, taskID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Warn("delete rejected, task not owned", "task_id", taskID, "user_id", userID)
		return nil, ErrNotOwned
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.DeleteTask(ctx, taskID, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	slog.Info("task deleted", "task_id", taskID, "story_id", storyID, "user_id", userID)

	tasks, err := s.store.StoryTasks(ctx, storyID)
	if err != nil {
		return nil, err
	}
	completed, total := status.TaskProgress(tasks)
	return &StorySnapshot{
		StoryStatus: status.Progress(completed, total),
		TaskList:    tasks,
	}, nil
}

func (s *TaskService) storyProgress(ctx context.Context, storyID int64) (string, error) {
	tasks, err := s.store.StoryTasks(ctx, storyID)
	if err != nil {
		return "", err
	}
	completed, total := status.TaskProgress(tasks)
	return status.Progress(completed, total), nil
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

// CreateTask inserts a task under the given user story with the default
// "To Do" status and returns its ID.
func (s *SQLiteStore) CreateTask(ctx context.Context, storyID int64, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO tasks (user_story_id, name, status, created_at) VALUES (?, ?, ?, ?)",
		storyID, name, models.StatusToDo, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read task id: %w", err)
	}
	return id, nil
}

// TaskOwner resolves the story containing a task and the project owning it,
// filtered by the requesting user in the same query.
func (s *SQLiteStore) TaskOwner(ctx context.Context, taskID, userID int64) (projectID, storyID int64, err error) {
	err = s.db.QueryRowContext(ctx, taskOwnerQuery, taskID, userID).Scan(&storyID, &projectID)
	if err == sql.ErrNoRows {
		return 0, 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to resolve task owner: %w", err)
	}
	return projectID, storyID, nil
}

// UpdateTask patches one column of an owned task.
func (s *SQLiteStore) UpdateTask(ctx context.Context, taskID, userID int64, field models.TaskField, value string) error {
	col, err := taskColumn(field)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET "+col+" = ? WHERE "+ownedFilter("tasks"),
		value, taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(res)
}

// DeleteTask removes an owned task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, taskID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE "+ownedFilter("tasks"),
		taskID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(res)
}

// StoryTasks lists a story's tasks ordered by ascending ID.
func (s *SQLiteStore) StoryTasks(ctx context.Context, storyID int64) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_story_id, name, status, created_at FROM tasks WHERE user_story_id = ? ORDER BY id",
		storyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserStoryID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

func taskColumn(field models.TaskField) (string, error) {
	switch field {
	case models.TaskName:
		return "name", nil
	case models.TaskStatus:
		return "status", nil
	}
	return "", fmt.Errorf("%w: task.%s", models.ErrInvalidField, field)
}

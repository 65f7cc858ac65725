package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

// CreateStory inserts a user story under the given feature and returns its ID.
func (s *SQLiteStore) CreateStory(ctx context.Context, featureID int64, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO user_stories (feature_id, name, description, created_at) VALUES (?, ?, ?, ?)",
		featureID, name, description, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create user story: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read user story id: %w", err)
	}
	return id, nil
}

// StoryOwner resolves the project owning a user story, filtered by the
// requesting user in the same query.
func (s *SQLiteStore) StoryOwner(ctx context.Context, storyID, userID int64) (int64, error) {
	var projectID int64
	err := s.db.QueryRowContext(ctx, storyOwnerQuery, storyID, userID).Scan(&projectID)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve story owner: %w", err)
	}
	return projectID, nil
}

// UpdateStory patches one column of an owned user story.
func (s *SQLiteStore) UpdateStory(ctx context.Context, storyID, userID int64, field models.StoryField, value string) error {
	col, err := storyColumn(field)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE user_stories SET "+col+" = ? WHERE "+ownedFilter("user_stories"),
		value, storyID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user story: %w", err)
	}
	return requireRow(res)
}

// DeleteStory removes an owned user story, cascading to its tasks.
func (s *SQLiteStore) DeleteStory(ctx context.Context, storyID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM user_stories WHERE "+ownedFilter("user_stories"),
		storyID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user story: %w", err)
	}
	return requireRow(res)
}

func storyColumn(field models.StoryField) (string, error) {
	switch field {
	case models.StoryName:
		return "name", nil
	case models.StoryDescription:
		return "description", nil
	}
	return "", fmt.Errorf("%w: userStory.%s", models.ErrInvalidField, field)
}

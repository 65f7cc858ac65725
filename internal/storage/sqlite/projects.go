package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

// CreateProject inserts a project for the given user and returns its ID.
func (s *SQLiteStore) CreateProject(ctx context.Context, userID int64, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO projects (user_id, name, description, created_at) VALUES (?, ?, ?, ?)",
		userID, name, description, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create project: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read project id: %w", err)
	}
	return id, nil
}

// UpdateProject patches one column of an owned project. Ownership is direct:
// the UPDATE matches on both the project ID and the owning user ID, so a
// non-owned project affects zero rows and reports storage.ErrNotFound.
func (s *SQLiteStore) UpdateProject(ctx context.Context, projectID, userID int64, field models.ProjectField, value string) error {
	col, err := projectColumn(field)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET "+col+" = ? WHERE id = ? AND user_id = ?",
		value, projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	return requireRow(res)
}

// DeleteProject removes an owned project. The schema cascades the delete to
// every feature, user story and task beneath it.
func (s *SQLiteStore) DeleteProject(ctx context.Context, projectID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND user_id = ?",
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRow(res)
}

func projectColumn(field models.ProjectField) (string, error) {
	switch field {
	case models.ProjectName:
		return "name", nil
	case models.ProjectDescription:
		return "description", nil
	}
	return "", fmt.Errorf("%w: project.%s", models.ErrInvalidField, field)
}

// requireRow converts a zero-row mutation into storage.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

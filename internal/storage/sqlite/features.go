package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

// CreateFeature inserts a feature under the given project and returns its ID.
// Parent validation happens in the service layer before this is called.
func (s *SQLiteStore) CreateFeature(ctx context.Context, projectID int64, name, description string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO features (project_id, name, description, created_at) VALUES (?, ?, ?, ?)",
		projectID, name, description, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create feature: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read feature id: %w", err)
	}
	return id, nil
}

// FeatureOwner resolves the project owning a feature, filtered by the
// requesting user in the same query. storage.ErrNotFound covers both a
// missing feature and one owned by somebody else.
func (s *SQLiteStore) FeatureOwner(ctx context.Context, featureID, userID int64) (int64, error) {
	var projectID int64
	err := s.db.QueryRowContext(ctx, featureOwnerQuery, featureID, userID).Scan(&projectID)
	if err == sql.ErrNoRows {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve feature owner: %w", err)
	}
	return projectID, nil
}

// UpdateFeature patches one column of an owned feature. The ownership chain
// is embedded in the statement, so a non-owned feature affects zero rows.
func (s *SQLiteStore) UpdateFeature(ctx context.Context, featureID, userID int64, field models.FeatureField, value string) error {
	col, err := featureColumn(field)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE features SET "+col+" = ? WHERE "+ownedFilter("features"),
		value, featureID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feature: %w", err)
	}
	return requireRow(res)
}

// DeleteFeature removes an owned feature, cascading to its stories and tasks.
func (s *SQLiteStore) DeleteFeature(ctx context.Context, featureID, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM features WHERE "+ownedFilter("features"),
		featureID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete feature: %w", err)
	}
	return requireRow(res)
}

func featureColumn(field models.FeatureField) (string, error) {
	switch field {
	case models.FeatureName:
		return "name", nil
	case models.FeatureDescription:
		return "description", nil
	}
	return "", fmt.Errorf("%w: feature.%s", models.ErrInvalidField, field)
}

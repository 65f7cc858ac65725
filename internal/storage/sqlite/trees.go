package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

// Tree reads load a project with everything beneath it in four queries, one
// per level, each ordered by ascending id so children appear in creation
// order. Derived status fields stay zero; the status package fills them.

// ProjectTrees returns all of the user's projects with full subtrees.
func (s *SQLiteStore) ProjectTrees(ctx context.Context, userID int64) ([]*models.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, description, created_at FROM projects WHERE user_id = ? ORDER BY id",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		p := &models.Project{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	if err := s.loadSubtrees(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// ProjectTree returns one project with its full subtree, only if it belongs
// to the given user. Returns storage.ErrNotFound otherwise.
func (s *SQLiteStore) ProjectTree(ctx context.Context, projectID, userID int64) (*models.Project, error) {
	p := &models.Project{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, name, description, created_at FROM projects WHERE id = ? AND user_id = ?",
		projectID, userID,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.loadSubtrees(ctx, []*models.Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// loadSubtrees attaches features, user stories and tasks to the given
// projects, level by level.
func (s *SQLiteStore) loadSubtrees(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}

	byProject := make(map[int64]*models.Project, len(projects))
	projectIDs := make([]any, 0, len(projects))
	for _, p := range projects {
		p.Features = []models.Feature{}
		byProject[p.ID] = p
		projectIDs = append(projectIDs, p.ID)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, project_id, name, description, created_at FROM features WHERE project_id IN ("+
			placeholders(len(projectIDs))+") ORDER BY id",
		projectIDs...,
	)
	if err != nil {
		return fmt.Errorf("failed to load features: %w", err)
	}
	defer rows.Close()

	featureIDs := []any{}
	for rows.Next() {
		f := models.Feature{UserStories: []models.UserStory{}}
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Name, &f.Description, &f.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan feature: %w", err)
		}
		p := byProject[f.ProjectID]
		p.Features = append(p.Features, f)
		featureIDs = append(featureIDs, f.ID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate features: %w", err)
	}

	// Index features by ID for attaching stories. Pointers stay valid
	// because no more features are appended below this point.
	byFeature := make(map[int64]*models.Feature, len(featureIDs))
	for _, p := range projects {
		for i := range p.Features {
			byFeature[p.Features[i].ID] = &p.Features[i]
		}
	}
	if len(featureIDs) == 0 {
		return nil
	}

	storyRows, err := s.db.QueryContext(ctx,
		"SELECT id, feature_id, name, description, created_at FROM user_stories WHERE feature_id IN ("+
			placeholders(len(featureIDs))+") ORDER BY id",
		featureIDs...,
	)
	if err != nil {
		return fmt.Errorf("failed to load user stories: %w", err)
	}
	defer storyRows.Close()

	storyIDs := []any{}
	for storyRows.Next() {
		st := models.UserStory{Tasks: []models.Task{}}
		if err := storyRows.Scan(&st.ID, &st.FeatureID, &st.Name, &st.Description, &st.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan user story: %w", err)
		}
		f := byFeature[st.FeatureID]
		f.UserStories = append(f.UserStories, st)
		storyIDs = append(storyIDs, st.ID)
	}
	if err := storyRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate user stories: %w", err)
	}

	byStory := make(map[int64]*models.UserStory, len(storyIDs))
	for _, f := range byFeature {
		for i := range f.UserStories {
			byStory[f.UserStories[i].ID] = &f.UserStories[i]
		}
	}
	if len(storyIDs) == 0 {
		return nil
	}

	taskRows, err := s.db.QueryContext(ctx,
		"SELECT id, user_story_id, name, status, created_at FROM tasks WHERE user_story_id IN ("+
			placeholders(len(storyIDs))+") ORDER BY id",
		storyIDs...,
	)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t models.Task
		if err := taskRows.Scan(&t.ID, &t.UserStoryID, &t.Name, &t.Status, &t.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan task: %w", err)
		}
		st := byStory[t.UserStoryID]
		st.Tasks = append(st.Tasks, t)
	}
	if err := taskRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return nil
}

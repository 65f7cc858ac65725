// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tmarques/backplan/internal/models"
)

// ErrNotFound is returned when a lookup matches no row. For ownership-scoped
// lookups this covers both "does not exist" and "not owned by the requesting
// user" — the two are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the services depend on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Every read or write that targets an existing row below the user level is
// scoped by the requesting user's ID: the implementation must resolve the
// full ownership chain (task -> user story -> feature -> project -> user) in
// a single filtered statement and return ErrNotFound when the chain does not
// end at that user.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Projects. Tree reads return the full subtree with children ordered by
	// ascending ID at every depth; derived status fields are left zero for
	// the aggregator to fill.
	CreateProject(ctx context.Context, userID int64, name, description string) (int64, error)
	ProjectTrees(ctx context.Context, userID int64) ([]*models.Project, error)
	ProjectTree(ctx context.Context, projectID, userID int64) (*models.Project, error)
	UpdateProject(ctx context.Context, projectID, userID int64, field models.ProjectField, value string) error
	DeleteProject(ctx context.Context, projectID, userID int64) error

	// Features. Owner lookups resolve the owning project ID through the
	// ownership chain.
	CreateFeature(ctx context.Context, projectID int64, name, description string) (int64, error)
	FeatureOwner(ctx context.Context, featureID, userID int64) (projectID int64, err error)
	UpdateFeature(ctx context.Context, featureID, userID int64, field models.FeatureField, value string) error
	DeleteFeature(ctx context.Context, featureID, userID int64) error

	// User stories.
	CreateStory(ctx context.Context, featureID int64, name, description string) (int64, error)
	StoryOwner(ctx context.Context, storyID, userID int64) (projectID int64, err error)
	UpdateStory(ctx context.Context, storyID, userID int64, field models.StoryField, value string) error
	DeleteStory(ctx context.Context, storyID, userID int64) error

	// Tasks. TaskOwner additionally resolves the containing story so task
	// mutations can report the story's fresh progress.
	CreateTask(ctx context.Context, storyID int64, name string) (int64, error)
	TaskOwner(ctx context.Context, taskID, userID int64) (projectID, storyID int64, err error)
	UpdateTask(ctx context.Context, taskID, userID int64, field models.TaskField, value string) error
	DeleteTask(ctx context.Context, taskID, userID int64) error
	StoryTasks(ctx context.Context, storyID int64) ([]models.Task, error)

	// Close releases any resources held by the store.
	Close() error
}

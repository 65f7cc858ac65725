package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createTestUser(t *testing.T, store *SQLiteStore, username string) int64 {
	t.Helper()

	user := &models.User{
		Name:         "Test " + username,
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user.ID
}

// seedTree creates project -> feature -> story -> task for a user and
// returns the four IDs.
func seedTree(t *testing.T, store *SQLiteStore, userID int64) (projectID, featureID, storyID, taskID int64) {
	t.Helper()
	ctx := context.Background()

	var err error
	projectID, err = store.CreateProject(ctx, userID, "project", "")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	featureID, err = store.CreateFeature(ctx, projectID, "feature", "")
	if err != nil {
		t.Fatalf("CreateFeature failed: %v", err)
	}
	storyID, err = store.CreateStory(ctx, featureID, "story", "")
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	taskID, err = store.CreateTask(ctx, storyID, "task")
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return
}

func TestUserUniqueness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, store, "alice")

	dupEmail := &models.User{Name: "A", Email: "alice@example.com", Username: "other", PasswordHash: "x"}
	if err := store.CreateUser(ctx, dupEmail); err == nil {
		t.Error("expected error for duplicate email")
	}

	dupUsername := &models.User{Name: "A", Email: "other@example.com", Username: "alice", PasswordHash: "x"}
	if err := store.CreateUser(ctx, dupUsername); err == nil {
		t.Error("expected error for duplicate username")
	}
}

func TestGetUserLookups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id := createTestUser(t, store, "bob")

	byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
	if err != nil || byEmail == nil || byEmail.ID != id {
		t.Fatalf("GetUserByEmail = %+v, %v; want user %d", byEmail, err, id)
	}
	byUsername, err := store.GetUserByUsername(ctx, "bob")
	if err != nil || byUsername == nil || byUsername.ID != id {
		t.Fatalf("GetUserByUsername = %+v, %v; want user %d", byUsername, err, id)
	}

	missing, err := store.GetUserByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing user, got %+v, %v", missing, err)
	}
}

func TestProjectTreeLoadsFullSubtreeInOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store, "carol")

	projectID, featureID, storyID, _ := seedTree(t, store, userID)

	// Add siblings to verify creation-order listing.
	secondStory, err := store.CreateStory(ctx, featureID, "second story", "")
	if err != nil {
		t.Fatalf("CreateStory failed: %v", err)
	}
	if _, err := store.CreateTask(ctx, storyID, "second task"); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	project, err := store.ProjectTree(ctx, projectID, userID)
	if err != nil {
		t.Fatalf("ProjectTree failed: %v", err)
	}

	if len(project.Features) != 1 {
		t.Fatalf("features = %d, want 1", len(project.Features))
	}
	stories := project.Features[0].UserStories
	if len(stories) != 2 {
		t.Fatalf("stories = %d, want 2", len(stories))
	}
	if stories[0].ID != storyID || stories[1].ID != secondStory {
		t.Errorf("stories out of creation order: %d, %d", stories[0].ID, stories[1].ID)
	}
	if len(stories[0].Tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(stories[0].Tasks))
	}
	if stories[0].Tasks[0].ID > stories[0].Tasks[1].ID {
		t.Error("tasks out of creation order")
	}
	if stories[0].Tasks[0].Status != models.StatusToDo {
		t.Errorf("new task status = %q, want %q", stories[0].Tasks[0].Status, models.StatusToDo)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	owner := createTestUser(t, store, "owner")
	intruder := createTestUser(t, store, "intruder")

	projectID, featureID, storyID, taskID := seedTree(t, store, owner)

	t.Run("reads resolve only for the owner", func(t *testing.T) {
		if _, err := store.ProjectTree(ctx, projectID, intruder); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("ProjectTree error = %v, want ErrNotFound", err)
		}
		if _, err := store.FeatureOwner(ctx, featureID, intruder); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("FeatureOwner error = %v, want ErrNotFound", err)
		}
		if _, err := store.StoryOwner(ctx, storyID, intruder); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("StoryOwner error = %v, want ErrNotFound", err)
		}
		if _, _, err := store.TaskOwner(ctx, taskID, intruder); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("TaskOwner error = %v, want ErrNotFound", err)
		}
	})

	t.Run("mutations affect zero rows for non-owners", func(t *testing.T) {
		if err := store.UpdateTask(ctx, taskID, intruder, models.TaskStatus, models.StatusDone); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTask error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteFeature(ctx, featureID, intruder); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteFeature error = %v, want ErrNotFound", err)
		}

		// Nothing changed for the owner.
		tasks, err := store.StoryTasks(ctx, storyID)
		if err != nil {
			t.Fatalf("StoryTasks failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].Status != models.StatusToDo {
			t.Errorf("task state changed by rejected mutation: %+v", tasks)
		}
	})

	t.Run("owner chain resolves for the owner", func(t *testing.T) {
		gotProject, gotStory, err := store.TaskOwner(ctx, taskID, owner)
		if err != nil {
			t.Fatalf("TaskOwner failed: %v", err)
		}
		if gotProject != projectID || gotStory != storyID {
			t.Errorf("TaskOwner = (%d, %d), want (%d, %d)", gotProject, gotStory, projectID, storyID)
		}
	})
}

func TestDeleteProjectCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store, "dave")

	projectID, featureID, storyID, taskID := seedTree(t, store, userID)

	if err := store.DeleteProject(ctx, projectID, userID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}

	// No orphans at any level: every descendant row is gone.
	var n int
	for _, q := range []struct {
		table string
		id    int64
	}{
		{"features", featureID},
		{"user_stories", storyID},
		{"tasks", taskID},
	} {
		err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+q.table+" WHERE id = ?", q.id).Scan(&n)
		if err != nil {
			t.Fatalf("count %s failed: %v", q.table, err)
		}
		if n != 0 {
			t.Errorf("%s row %d survived project delete", q.table, q.id)
		}
	}
}

func TestUpdateRejectsUnknownColumn(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	userID := createTestUser(t, store, "erin")
	projectID, _, _, _ := seedTree(t, store, userID)

	err := store.UpdateProject(ctx, projectID, userID, models.ProjectField("user_id"), "1")
	if !errors.Is(err, models.ErrInvalidField) {
		t.Errorf("UpdateProject error = %v, want ErrInvalidField", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("first open failed: %v", err)
	}
	store.Close()

	// Reopening must not re-apply the schema.
	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("second open failed: %v", err)
	}
	store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/tmarques/backplan/internal/models"
	"github.com/tmarques/backplan/internal/storage/sqlite"
)

type testEnv struct {
	projects *ProjectService
	features *FeatureService
	stories  *StoryService
	tasks    *TaskService

	userID  int64
	otherID int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{
		projects: NewProjectService(store),
		features: NewFeatureService(store),
		stories:  NewStoryService(store),
		tasks:    NewTaskService(store),
	}

	ctx := context.Background()
	for _, u := range []struct {
		id       *int64
		username string
	}{
		{&env.userID, "owner"},
		{&env.otherID, "other"},
	} {
		user := &models.User{Name: u.username, Email: u.username + "@example.com", Username: u.username, PasswordHash: "x"}
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		*u.id = user.ID
	}
	return env
}

// seedChain builds project -> feature -> story for the owner through the
// services and returns the three IDs.
func (e *testEnv) seedChain(t *testing.T) (projectID, featureID, storyID int64) {
	t.Helper()
	ctx := context.Background()

	projects, err := e.projects.Create(ctx, e.userID, "project", "")
	if err != nil {
		t.Fatalf("project create failed: %v", err)
	}
	projectID = projects[len(projects)-1].ID

	project, err := e.features.Create(ctx, e.userID, projectID, "feature", "")
	if err != nil {
		t.Fatalf("feature create failed: %v", err)
	}
	featureID = project.Features[len(project.Features)-1].ID

	project, err = e.stories.Create(ctx, e.userID, projectID, featureID, "story", "")
	if err != nil {
		t.Fatalf("story create failed: %v", err)
	}
	stories := project.Features[0].UserStories
	storyID = stories[len(stories)-1].ID
	return
}

func (e *testEnv) addTask(t *testing.T, projectID, featureID, storyID int64, name string) int64 {
	t.Helper()

	project, err := e.tasks.Create(context.Background(), e.userID, projectID, featureID, storyID, name)
	if err != nil {
		t.Fatalf("task create failed: %v", err)
	}
	for i := range project.Features {
		for j := range project.Features[i].UserStories {
			if project.Features[i].UserStories[j].ID == storyID {
				tasks := project.Features[i].UserStories[j].Tasks
				return tasks[len(tasks)-1].ID
			}
		}
	}
	t.Fatalf("created task not found in returned project")
	return 0
}

func TestProjectCreateReturnsAllProjects(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.projects.Create(ctx, env.userID, "first", ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	projects, err := env.projects.Create(ctx, env.userID, "second", "with description")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(projects))
	}
	if projects[0].Name != "first" || projects[1].Name != "second" {
		t.Errorf("unexpected order: %q, %q", projects[0].Name, projects[1].Name)
	}
	for _, p := range projects {
		if p.Status != models.StatusToDo {
			t.Errorf("empty project %q status = %q, want %q", p.Name, p.Status, models.StatusToDo)
		}
		if p.Features == nil {
			t.Errorf("project %q features is nil, want empty slice", p.Name)
		}
	}
}

func TestProjectCreateRequiresName(t *testing.T) {
	env := newTestEnv(t)

	if _, err := env.projects.Create(context.Background(), env.userID, "", ""); !errors.Is(err, ErrMissingField) {
		t.Errorf("error = %v, want ErrMissingField", err)
	}
}

func TestTaskUpdateReturnsStoryProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)

	first := env.addTask(t, projectID, featureID, storyID, "one")
	second := env.addTask(t, projectID, featureID, storyID, "two")
	env.addTask(t, projectID, featureID, storyID, "three")

	progress, err := env.tasks.Update(ctx, env.userID, first, models.TaskStatus, models.StatusDone)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if progress != "1/3" {
		t.Errorf("progress = %q, want %q", progress, "1/3")
	}

	progress, err = env.tasks.Update(ctx, env.userID, second, models.TaskStatus, models.StatusDone)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if progress != "2/3" {
		t.Errorf("progress = %q, want %q", progress, "2/3")
	}
}

func TestTaskUpdateRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	projectID, featureID, storyID := env.seedChain(t)
	taskID := env.addTask(t, projectID, featureID, storyID, "one")

	_, err := env.tasks.Update(context.Background(), env.userID, taskID, models.TaskStatus, "Finished")
	if !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("error = %v, want ErrInvalidStatus", err)
	}
}

func TestTaskDeleteReturnsStorySnapshot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)

	first := env.addTask(t, projectID, featureID, storyID, "one")
	second := env.addTask(t, projectID, featureID, storyID, "two")
	third := env.addTask(t, projectID, featureID, storyID, "three")

	for _, id := range []int64{first, second} {
		if _, err := env.tasks.Update(ctx, env.userID, id, models.TaskStatus, models.StatusDone); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	// Deleting the only unfinished task leaves the story fully complete.
	snapshot, err := env.tasks.Delete(ctx, env.userID, third)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if snapshot.StoryStatus != "2/2" {
		t.Errorf("storyStatus = %q, want %q", snapshot.StoryStatus, "2/2")
	}
	if len(snapshot.TaskList) != 2 {
		t.Fatalf("taskList = %d tasks, want 2", len(snapshot.TaskList))
	}
	if snapshot.TaskList[0].ID != first || snapshot.TaskList[1].ID != second {
		t.Errorf("taskList order = %d, %d; want %d, %d",
			snapshot.TaskList[0].ID, snapshot.TaskList[1].ID, first, second)
	}
}

func TestStatusRollsUpThroughTree(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)
	taskID := env.addTask(t, projectID, featureID, storyID, "only")

	project, err := env.projects.Get(ctx, env.userID, projectID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if project.Status != models.StatusToDo {
		t.Errorf("untouched project status = %q, want %q", project.Status, models.StatusToDo)
	}

	if _, err := env.tasks.Update(ctx, env.userID, taskID, models.TaskStatus, models.StatusInProgress); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	project, err = env.projects.Get(ctx, env.userID, projectID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if project.Status != models.StatusInProgress {
		t.Errorf("started project status = %q, want %q", project.Status, models.StatusInProgress)
	}
	if project.Features[0].Status != models.StatusInProgress {
		t.Errorf("started feature status = %q", project.Features[0].Status)
	}

	if _, err := env.tasks.Update(ctx, env.userID, taskID, models.TaskStatus, models.StatusDone); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	project, err = env.projects.Get(ctx, env.userID, projectID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if project.Status != models.StatusDone {
		t.Errorf("finished project status = %q, want %q", project.Status, models.StatusDone)
	}
	story := project.Features[0].UserStories[0]
	if story.Status != "1/1" || story.CompletedTasks != 1 || story.TasksCount != 1 {
		t.Errorf("story = %q (%d/%d), want 1/1", story.Status, story.CompletedTasks, story.TasksCount)
	}
}

func TestCreateUnderForeignParentIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)

	t.Run("feature", func(t *testing.T) {
		if _, err := env.features.Create(ctx, env.otherID, projectID, "f", ""); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
	t.Run("story", func(t *testing.T) {
		if _, err := env.stories.Create(ctx, env.otherID, projectID, featureID, "s", ""); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
	t.Run("task", func(t *testing.T) {
		if _, err := env.tasks.Create(ctx, env.otherID, projectID, featureID, storyID, "t"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
	t.Run("mismatched chain", func(t *testing.T) {
		// Owner, but the story does not live under the named feature.
		otherProjects, err := env.projects.Create(ctx, env.userID, "second project", "")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		foreignProject := otherProjects[len(otherProjects)-1].ID
		if _, err := env.tasks.Create(ctx, env.userID, foreignProject, featureID, storyID, "t"); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestMutateForeignEntityIsNotOwned(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)
	taskID := env.addTask(t, projectID, featureID, storyID, "one")

	cases := []struct {
		name string
		call func() error
	}{
		{"update project", func() error {
			_, err := env.projects.Update(ctx, env.otherID, projectID, models.ProjectName, "x")
			return err
		}},
		{"delete project", func() error {
			return env.projects.Delete(ctx, env.otherID, projectID)
		}},
		{"update feature", func() error {
			_, err := env.features.Update(ctx, env.otherID, featureID, models.FeatureName, "x")
			return err
		}},
		{"delete story", func() error {
			_, err := env.stories.Delete(ctx, env.otherID, storyID)
			return err
		}},
		{"update task", func() error {
			_, err := env.tasks.Update(ctx, env.otherID, taskID, models.TaskStatus, models.StatusDone)
			return err
		}},
		{"delete task", func() error {
			_, err := env.tasks.Delete(ctx, env.otherID, taskID)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, ErrNotOwned) {
				t.Errorf("error = %v, want ErrNotOwned", err)
			}
		})
	}

	// The owner's data is untouched afterwards.
	project, err := env.projects.Get(ctx, env.userID, projectID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if project.Name != "project" || len(project.Features) != 1 {
		t.Errorf("owner data changed: %+v", project)
	}
}

func TestFeatureDeleteCascadesAndReaggregates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)
	taskID := env.addTask(t, projectID, featureID, storyID, "one")

	if _, err := env.tasks.Update(ctx, env.userID, taskID, models.TaskStatus, models.StatusDone); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	project, err := env.features.Delete(ctx, env.userID, featureID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(project.Features) != 0 {
		t.Fatalf("features = %d, want 0", len(project.Features))
	}
	if project.Status != models.StatusToDo {
		t.Errorf("featureless project status = %q, want %q", project.Status, models.StatusToDo)
	}
}

func TestStoryUpdateReturnsAggregatedProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	projectID, featureID, storyID := env.seedChain(t)
	env.addTask(t, projectID, featureID, storyID, "one")

	project, err := env.stories.Update(ctx, env.userID, storyID, models.StoryName, "renamed")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	story := project.Features[0].UserStories[0]
	if story.Name != "renamed" {
		t.Errorf("name = %q, want %q", story.Name, "renamed")
	}
	if story.Status != "0/1" {
		t.Errorf("status = %q, want %q", story.Status, "0/1")
	}
}

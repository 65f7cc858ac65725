// Package status computes derived status for the project hierarchy.
//
// All functions recompute purely from raw task statuses, so applying them to
// an already-annotated tree produces the same result. Nothing here touches
// the store.
package status

import (
	"fmt"

	"github.com/tmarques/backplan/internal/models"
)

// Progress formats the "<completed>/<total>" string clients render for a
// user story, e.g. "2/5".
func Progress(completed, total int) string {
	return fmt.Sprintf("%d/%d", completed, total)
}

// TaskProgress counts a story's tasks and how many of them are done.
func TaskProgress(tasks []models.Task) (completed, total int) {
	for _, t := range tasks {
		if t.Status == models.StatusDone {
			completed++
		}
	}
	return completed, len(tasks)
}

// started reports whether any task in the story has been picked up, i.e. is
// In Progress or Done.
func storyStarted(s *models.UserStory) bool {
	for _, t := range s.Tasks {
		if t.Status == models.StatusInProgress || t.Status == models.StatusDone {
			return true
		}
	}
	return false
}

// aggregateStory fills the story's derived fields from its raw tasks.
func aggregateStory(s *models.UserStory) {
	s.CompletedTasks, s.TasksCount = TaskProgress(s.Tasks)
	s.Status = Progress(s.CompletedTasks, s.TasksCount)
}

// storyComplete reports whether an aggregated story counts as complete.
// A story with zero tasks is never complete.
func storyComplete(s *models.UserStory) bool {
	return s.TasksCount > 0 && s.CompletedTasks == s.TasksCount
}

// aggregateFeature fills the feature's derived fields bottom-up.
//
// A feature is "To Do" until any task beneath it is In Progress or Done, so
// a feature with zero stories stays "To Do" and is never "Done!".
func aggregateFeature(f *models.Feature) {
	started := false
	completed := 0
	for i := range f.UserStories {
		s := &f.UserStories[i]
		aggregateStory(s)
		if storyStarted(s) {
			started = true
		}
		if storyComplete(s) {
			completed++
		}
	}

	f.UserStoryCount = len(f.UserStories)
	f.CompletedUserStories = completed

	switch {
	case !started:
		f.Status = models.StatusToDo
	case completed == f.UserStoryCount:
		f.Status = models.StatusDone
	default:
		f.Status = models.StatusInProgress
	}
}

// featureComplete reports whether a feature counts as complete when rolling
// up to the project. Note the asymmetry with the feature's own status: a
// feature with zero stories reports "To Do" but still counts as complete
// here. This matches the behavior clients were built against, so it is
// preserved rather than fixed.
func featureComplete(f *models.Feature) bool {
	return f.CompletedUserStories == f.UserStoryCount
}

// featureStarted reports whether any task anywhere under the feature is
// In Progress or Done. Only valid after the feature has been aggregated.
func featureStarted(f *models.Feature) bool {
	return f.Status != models.StatusToDo
}

// Aggregate recomputes every derived field on the project tree in place,
// bottom-up from raw task statuses. It is idempotent: the inputs are only
// task statuses and child counts, never previously derived values.
func Aggregate(p *models.Project) {
	started := false
	completed := 0
	for i := range p.Features {
		f := &p.Features[i]
		aggregateFeature(f)
		if featureStarted(f) {
			started = true
		}
		if featureComplete(f) {
			completed++
		}
	}

	switch {
	case !started:
		p.Status = models.StatusToDo
	case completed == len(p.Features):
		p.Status = models.StatusDone
	default:
		p.Status = models.StatusInProgress
	}
}

// AggregateAll recomputes derived fields for each project in the slice.
func AggregateAll(projects []*models.Project) {
	for _, p := range projects {
		Aggregate(p)
	}
}

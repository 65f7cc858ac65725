package models

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned when a patch names a field that cannot be
// updated on the target entity.
var ErrInvalidField = errors.New("field cannot be updated")

// ErrInvalidStatus is returned when a task status value is not one of the
// three allowed statuses.
var ErrInvalidStatus = errors.New("invalid task status")

// Patches arrive over the wire as a generic {field, value} pair. Each entity
// restricts the patchable fields to a fixed allow-list; parsing the field
// name into a typed constant up front means an unknown field is rejected at
// the boundary instead of being silently assigned.

// ProjectField identifies a patchable project column.
type ProjectField string

// FeatureField identifies a patchable feature column.
type FeatureField string

// StoryField identifies a patchable user story column.
type StoryField string

// TaskField identifies a patchable task column.
type TaskField string

const (
	ProjectName        ProjectField = "name"
	ProjectDescription ProjectField = "description"

	FeatureName        FeatureField = "name"
	FeatureDescription FeatureField = "description"

	StoryName        StoryField = "name"
	StoryDescription StoryField = "description"

	TaskName   TaskField = "name"
	TaskStatus TaskField = "status"
)

// ParseProjectField validates a wire field name against the project
// allow-list.
func ParseProjectField(s string) (ProjectField, error) {
	switch ProjectField(s) {
	case ProjectName, ProjectDescription:
		return ProjectField(s), nil
	}
	return "", fmt.Errorf("%w: project.%s", ErrInvalidField, s)
}

// ParseFeatureField validates a wire field name against the feature
// allow-list.
func ParseFeatureField(s string) (FeatureField, error) {
	switch FeatureField(s) {
	case FeatureName, FeatureDescription:
		return FeatureField(s), nil
	}
	return "", fmt.Errorf("%w: feature.%s", ErrInvalidField, s)
}

// ParseStoryField validates a wire field name against the user story
// allow-list.
func ParseStoryField(s string) (StoryField, error) {
	switch StoryField(s) {
	case StoryName, StoryDescription:
		return StoryField(s), nil
	}
	return "", fmt.Errorf("%w: userStory.%s", ErrInvalidField, s)
}

// ParseTaskField validates a wire field name against the task allow-list.
func ParseTaskField(s string) (TaskField, error) {
	switch TaskField(s) {
	case TaskName, TaskStatus:
		return TaskField(s), nil
	}
	return "", fmt.Errorf("%w: task.%s", ErrInvalidField, s)
}

// ValidStatus reports whether s is one of the three task statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

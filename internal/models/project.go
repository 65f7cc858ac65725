package models

// Task statuses. These are the only values a task may hold, and "Done!" is
// the exact spelling the aggregation rules and clients depend on.
const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done!"
)

// Project is the top-level work item owned directly by a user.
type Project struct {
	// ID is the store-allocated identifier.
	ID int64 `json:"id"`

	// UserID is the owning user.
	UserID int64 `json:"-"`

	// Name is the human-readable project name.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description string `json:"description,omitempty"`

	// Status is derived from the tasks beneath this project and is never
	// persisted. One of StatusToDo, StatusInProgress, StatusDone.
	Status string `json:"status"`

	// Features are the project's features, ordered by ascending ID.
	Features []Feature `json:"features"`

	// CreatedAt is the Unix timestamp when the project was created.
	CreatedAt int64 `json:"createdAt"`
}

// Feature groups related user stories within a project.
type Feature struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Derived fields, recomputed on every read.
	Status               string `json:"status"`
	UserStoryCount       int    `json:"userStoryCount"`
	CompletedUserStories int    `json:"completedUserStories"`

	// UserStories are ordered by ascending ID.
	UserStories []UserStory `json:"userStories"`

	CreatedAt int64 `json:"createdAt"`
}

// UserStory is a unit of user-visible work within a feature.
type UserStory struct {
	ID          int64  `json:"id"`
	FeatureID   int64  `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Derived fields. Status is the progress string "<completed>/<total>",
	// e.g. "2/5", which clients render verbatim.
	Status         string `json:"status"`
	TasksCount     int    `json:"tasksCount"`
	CompletedTasks int    `json:"completedTasks"`

	// Tasks are ordered by ascending ID.
	Tasks []Task `json:"tasks"`

	CreatedAt int64 `json:"createdAt"`
}

// Task is the leaf work item. Its status is the only persisted status in the
// hierarchy; everything above is derived from it.
type Task struct {
	ID          int64  `json:"id"`
	UserStoryID int64  `json:"-"`
	Name        string `json:"name"`

	// Status is one of StatusToDo, StatusInProgress, StatusDone.
	// New tasks default to StatusToDo.
	Status string `json:"status"`

	CreatedAt int64 `json:"createdAt"`
}

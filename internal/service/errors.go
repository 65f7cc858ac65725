package service

import "errors"

var (
	// ErrUnauthorized is returned when a create flow cannot locate the
	// target parent (project, feature or user story) inside the requesting
	// user's own project tree. Maps to 401 at the HTTP boundary.
	ErrUnauthorized = errors.New("parent not found among your projects")

	// ErrNotOwned is returned when an update or delete targets an entity
	// whose ownership chain does not resolve to the requesting user. A
	// missing entity reports the same way. Maps to 400 at the HTTP boundary.
	ErrNotOwned = errors.New("entity not found or not owned by you")

	// ErrMissingField is returned when a required request field is empty.
	ErrMissingField = errors.New("required field missing")
)

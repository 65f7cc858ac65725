// Package models defines the core domain models for backplan.
//
// # Hierarchy
//
// Work items form a strict four-level hierarchy, each level owned by the one
// above it:
//
//	User -> Project -> Feature -> UserStory -> Task
//
// Every Feature belongs to exactly one Project, every UserStory to exactly
// one Feature, and every Task to exactly one UserStory. The relationship is
// enforced by foreign keys in the store, and deleting an ancestor cascades
// to all of its descendants.
//
// # Derived fields
//
// Only Task carries a persisted status. Project, Feature and UserStory
// expose status and progress counts that are derived bottom-up from raw Task
// statuses on every read; they are never written to the store. See the
// status package for the aggregation rules.
//
// # Ordering
//
// Children at every level are ordered by ascending ID, which matches
// creation order since IDs are allocated by the store.
package models

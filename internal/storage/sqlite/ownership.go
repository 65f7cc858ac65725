package sqlite

import (
	"fmt"
	"strings"
)

// Ownership of every row resolves through the fixed foreign-key chain
//
//	tasks -> user_stories -> features -> projects -> user_id
//
// Each accessor expresses the whole chain in a single filtered statement, so
// the ownership check and the read (or write) cannot diverge: a row that is
// not transitively owned by the requesting user simply does not match.

// ownerChain lists the hierarchy bottom-up. parentFK is the column on the
// table referencing the next level up; projects terminate the chain and
// carry user_id directly.
var ownerChain = []struct {
	table    string
	parentFK string
}{
	{table: "tasks", parentFK: "user_story_id"},
	{table: "user_stories", parentFK: "feature_id"},
	{table: "features", parentFK: "project_id"},
	{table: "projects", parentFK: ""},
}

// ownershipQuery builds the SELECT resolving one row of table to the
// requesting user. The entity is aliased t0 and each ancestor t1, t2, ... up
// to projects; selectCols are written against those aliases. Bind order is
// (entityID, userID).
func ownershipQuery(table string, selectCols ...string) string {
	start := -1
	for i, link := range ownerChain {
		if link.table == table {
			start = i
			break
		}
	}
	if start == -1 {
		panic(fmt.Sprintf("sqlite: table %q is not part of the ownership chain", table))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s t0", strings.Join(selectCols, ", "), table)

	alias := 0
	for i := start; ownerChain[i].parentFK != ""; i++ {
		fmt.Fprintf(&b, " JOIN %s t%d ON t%d.id = t%d.%s",
			ownerChain[i+1].table, alias+1, alias+1, alias, ownerChain[i].parentFK)
		alias++
	}

	fmt.Fprintf(&b, " WHERE t0.id = ? AND t%d.user_id = ?", alias)
	return b.String()
}

// ownedFilter scopes an UPDATE or DELETE on table to rows the requesting
// user owns. Appended after WHERE; binds (entityID, userID).
func ownedFilter(table string) string {
	return "id IN (" + ownershipQuery(table, "t0.id") + ")"
}

// Precomputed accessor queries. The owner queries also pull the IDs the
// services need to re-aggregate after a mutation.
var (
	featureOwnerQuery = ownershipQuery("features", "t0.project_id")
	storyOwnerQuery   = ownershipQuery("user_stories", "t1.project_id")
	taskOwnerQuery    = ownershipQuery("tasks", "t0.user_story_id", "t2.project_id")
)

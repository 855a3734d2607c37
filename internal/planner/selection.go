package planner

import "github.com/danieljhkim/festplan/internal/catalog"

// Priority ranks a selection; lower is more important.
type Priority int

// Persisted priorities.
const (
	PriorityMustSee Priority = 1
	PriorityWant    Priority = 2
	PriorityMaybe   Priority = 3
)

// Sentinel ranks that exist only inside a single biased winner computation.
const (
	rankPromoted Priority = 0
	rankDemoted  Priority = 4
)

// Priorities lists the persisted priorities in rank order.
var Priorities = []Priority{PriorityMustSee, PriorityWant, PriorityMaybe}

// Valid reports whether p is a persisted priority.
func (p Priority) Valid() bool {
	return p >= PriorityMustSee && p <= PriorityMaybe
}

// ClampPriority forces p into the persisted range.
func ClampPriority(p int) Priority {
	switch {
	case p < int(PriorityMustSee):
		return PriorityMustSee
	case p > int(PriorityMaybe):
		return PriorityMaybe
	default:
		return Priority(p)
	}
}

// Selection is a concert the user picked, annotated with a priority.
type Selection struct {
	catalog.Item
	Priority Priority `json:"priority"`
}

// indexOf returns the position of id in sels, or -1.
func indexOf(sels []Selection, id string) int {
	for i := range sels {
		if sels[i].ID == id {
			return i
		}
	}
	return -1
}

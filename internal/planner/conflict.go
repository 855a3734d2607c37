package planner

import (
	"cmp"
	"slices"

	"github.com/danieljhkim/festplan/internal/catalog"
)

// ConflictTolerance is the overlap, in minutes, that two sets on the same day
// may share without conflicting.
const ConflictTolerance = 15

// Conflicts reports whether a and b overlap by more than ConflictTolerance.
// Items on different days never conflict. Callers must not compare an item
// with itself.
func Conflicts(a, b catalog.Item) bool {
	return Overlap(a, b) > ConflictTolerance
}

// Overlap returns the minutes a and b share, or 0 when they are on different
// days or do not intersect.
func Overlap(a, b catalog.Item) int {
	if a.Day != b.Day {
		return 0
	}
	return max(0, int(min(a.End, b.End)-max(a.Start, b.Start)))
}

// ConflictsWith returns the selections, other than target itself, that
// conflict with target. Input order is preserved.
func ConflictsWith(target catalog.Item, sels []Selection) []Selection {
	var out []Selection
	for _, s := range sels {
		if s.ID != target.ID && Conflicts(s.Item, target) {
			out = append(out, s)
		}
	}
	return out
}

// SortConflicts orders conflicts by start time, then priority, then id.
func SortConflicts(sels []Selection) {
	slices.SortStableFunc(sels, func(a, b Selection) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		if a.Priority != b.Priority {
			return int(a.Priority - b.Priority)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

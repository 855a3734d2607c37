package planner

import (
	"cmp"
	"slices"

	"github.com/danieljhkim/festplan/internal/catalog"
)

// AutoPriority picks the priority for a newly added item: the most important
// priority not already held by a selection it conflicts with, or
// PriorityMaybe when all are taken.
func AutoPriority(item catalog.Item, sels []Selection) Priority {
	held := make(map[Priority]bool)
	for _, s := range ConflictsWith(item, sels) {
		held[s.Priority] = true
	}
	for _, p := range Priorities {
		if !held[p] {
			return p
		}
	}
	return PriorityMaybe
}

// ForcePriorities applies user-forced priorities and returns the updated
// collection; sels is not modified.
//
// Each forced selection X takes its forced priority P. Every selection that
// directly conflicts with X, is not itself forced, and holds a priority of P or
// better is pushed down to min(P+1, PriorityMaybe). Propagation stops after
// that single hop. Forced priorities outside the persisted range and ids
// that are not selected are ignored.
func ForcePriorities(sels []Selection, forced map[string]Priority) []Selection {
	out := slices.Clone(sels)

	// Forced ids are processed in (priority, id) order.
	ids := make([]string, 0, len(forced))
	for id, p := range forced {
		if p.Valid() && indexOf(out, id) >= 0 {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b string) int {
		if forced[a] != forced[b] {
			return cmp.Compare(forced[a], forced[b])
		}
		return cmp.Compare(a, b)
	})

	for _, id := range ids {
		out[indexOf(out, id)].Priority = forced[id]
	}

	for _, id := range ids {
		x := out[indexOf(out, id)]
		p := forced[id]
		for i := range out {
			y := &out[i]
			if y.ID == x.ID || !Conflicts(y.Item, x.Item) {
				continue
			}
			if _, isForced := forced[y.ID]; isForced {
				continue
			}
			if y.Priority <= p {
				y.Priority = min(p+1, PriorityMaybe)
			}
		}
	}
	return out
}

// CompactAfterRemove promotes the selections that conflicted with a removed
// item so their priorities run 1, 2, 3 in their existing rank order. A
// selection is only ever promoted, never demoted. sels must no longer contain
// the removed item; it is not modified.
func CompactAfterRemove(removed catalog.Item, sels []Selection) []Selection {
	out := slices.Clone(sels)

	var idx []int
	for i := range out {
		if out[i].ID != removed.ID && Conflicts(out[i].Item, removed) {
			idx = append(idx, i)
		}
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(out[a].Priority, out[b].Priority)
	})

	for rank, i := range idx {
		if p := Priority(rank + 1); p < out[i].Priority {
			out[i].Priority = p
		}
	}
	return out
}

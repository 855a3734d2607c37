package planner

import (
	"cmp"
	"slices"
)

// WinnerSet is the set of selection ids chosen by SelectWinners.
type WinnerSet map[string]struct{}

// Has reports whether id is a winner.
func (w WinnerSet) Has(id string) bool {
	_, ok := w[id]
	return ok
}

// Bias temporarily re-ranks selections for one winner computation. The
// promoted selection ranks above everything, and every selection directly
// conflicting with it ranks below everything. Persisted priorities are not
// touched.
type Bias struct {
	PromotedID string
}

// ranked pairs a selection with the rank used for ordering.
type ranked struct {
	Selection
	rank Priority
}

// SelectWinners picks the winners among sels.
//
// Selections are stably ordered by (rank, start time) and then scanned
// greedily: a selection wins unless it conflicts with a winner accepted before
// it. Day order and id break remaining ties, so the result does not depend on
// the order of sels.
//
// If bias names a selection that is not present, it is ignored.
func SelectWinners(sels []Selection, bias *Bias) WinnerSet {
	order := rankSelections(sels, bias)

	slices.SortStableFunc(order, func(a, b ranked) int {
		if a.rank != b.rank {
			return cmp.Compare(a.rank, b.rank)
		}
		if a.Start != b.Start {
			return cmp.Compare(a.Start, b.Start)
		}
		if a.Day != b.Day {
			return cmp.Compare(a.Day.Index(), b.Day.Index())
		}
		return cmp.Compare(a.ID, b.ID)
	})

	winners := make(WinnerSet, len(order))
	accepted := make([]Selection, 0, len(order))
	for _, cand := range order {
		if conflictsWithAny(cand.Selection, accepted) {
			continue
		}
		accepted = append(accepted, cand.Selection)
		winners[cand.ID] = struct{}{}
	}
	return winners
}

func rankSelections(sels []Selection, bias *Bias) []ranked {
	order := make([]ranked, len(sels))
	for i, s := range sels {
		order[i] = ranked{Selection: s, rank: s.Priority}
	}
	if bias == nil {
		return order
	}

	p := indexOf(sels, bias.PromotedID)
	if p < 0 {
		return order
	}
	promoted := sels[p]
	for i := range order {
		switch {
		case order[i].ID == promoted.ID:
			order[i].rank = rankPromoted
		case Conflicts(order[i].Item, promoted.Item):
			order[i].rank = rankDemoted
		}
	}
	return order
}

func conflictsWithAny(s Selection, accepted []Selection) bool {
	for _, w := range accepted {
		if Conflicts(s.Item, w.Item) {
			return true
		}
	}
	return false
}

// WinnerIDs returns the winners in itinerary order: day, start time, id.
func WinnerIDs(sels []Selection, winners WinnerSet) []string {
	var won []Selection
	for _, s := range sels {
		if winners.Has(s.ID) {
			won = append(won, s)
		}
	}
	sortByDayAndStart(won)

	ids := make([]string, len(won))
	for i, s := range won {
		ids[i] = s.ID
	}
	return ids
}

func sortByDayAndStart(sels []Selection) {
	slices.SortStableFunc(sels, func(a, b Selection) int {
		if a.Day != b.Day {
			return cmp.Compare(a.Day.Index(), b.Day.Index())
		}
		if a.Start != b.Start {
			return cmp.Compare(a.Start, b.Start)
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

package selection

import (
	"slices"

	"github.com/danieljhkim/festplan/internal/planner"
)

// Snapshot is a consistent, immutable view of the plan after a mutation.
// Callers may keep it after the store has moved on.
type Snapshot struct {
	// Selections in the order they were added
	Selections []planner.Selection `json:"selections"`

	// WinnerIDs lists the attendable selections by day, start time and id
	WinnerIDs []string `json:"winnerIds"`

	// Itinerary groups the winners by day with their losing conflicts
	Itinerary planner.Itinerary `json:"itinerary"`

	PriorityCounts   planner.PriorityCounts `json:"priorityCounts"`
	NotSelectedCount int                    `json:"notSelectedCount"`

	// ConflictCount is the number of selections that lose to a winner
	ConflictCount int `json:"conflictCount"`

	// Days summarizes each day that has selections
	Days []planner.DayStatus `json:"days"`

	// LastSwappedID is the selection promoted by the swap that produced this
	// snapshot; empty after any other mutation
	LastSwappedID string `json:"lastSwappedId,omitempty"`

	winners planner.WinnerSet
}

func newSnapshot(sels []planner.Selection, total int, bias *planner.Bias) Snapshot {
	sels = slices.Clone(sels)
	winners := planner.SelectWinners(sels, bias)

	snap := Snapshot{
		Selections:       sels,
		WinnerIDs:        planner.WinnerIDs(sels, winners),
		Itinerary:        planner.BuildItinerary(sels, winners),
		PriorityCounts:   planner.CountPriorities(sels),
		NotSelectedCount: max(0, total-len(sels)),
		ConflictCount:    planner.ConflictingCount(sels, winners),
		Days:             planner.DayStatuses(sels, winners),
		winners:          winners,
	}
	if bias != nil {
		snap.LastSwappedID = bias.PromotedID
	}
	return snap
}

// IsSelected reports whether id is selected.
func (s Snapshot) IsSelected(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// IsWinner reports whether id is selected and attendable.
func (s Snapshot) IsWinner(id string) bool {
	return s.winners.Has(id)
}

// PriorityOf returns the priority of id, or false when id is not selected.
func (s Snapshot) PriorityOf(id string) (planner.Priority, bool) {
	sel, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return sel.Priority, true
}

// Get returns the selection for id.
func (s Snapshot) Get(id string) (planner.Selection, bool) {
	for _, sel := range s.Selections {
		if sel.ID == id {
			return sel, true
		}
	}
	return planner.Selection{}, false
}

// Conflicts returns the selections, other than id, that conflict with id,
// ordered by start time, priority and id.
func (s Snapshot) Conflicts(id string) []planner.Selection {
	target, ok := s.Get(id)
	if !ok {
		return []planner.Selection{}
	}
	out := planner.ConflictsWith(target.Item, s.Selections)
	planner.SortConflicts(out)
	if out == nil {
		out = []planner.Selection{}
	}
	return out
}

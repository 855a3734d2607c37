package planner

import (
	"cmp"
	"slices"

	"github.com/danieljhkim/festplan/internal/catalog"
)

// ItineraryEntry is one attended concert and the selections it beat.
type ItineraryEntry struct {
	Concert   Selection   `json:"concert"`
	Conflicts []Selection `json:"conflicts"`
}

// Itinerary maps each day to its winners in start-time order.
type Itinerary map[catalog.Day][]ItineraryEntry

// Days returns the days present in the itinerary in catalog.DayOrder.
func (it Itinerary) Days() []catalog.Day {
	var days []catalog.Day
	for _, day := range catalog.DayOrder {
		if len(it[day]) > 0 {
			days = append(days, day)
		}
	}
	return days
}

// Len returns the number of winners in the itinerary.
func (it Itinerary) Len() int {
	n := 0
	for _, entries := range it {
		n += len(entries)
	}
	return n
}

// BuildItinerary groups the winners among sels by day. Each winner carries the
// non-winning selections that conflict with it, ordered by start time and then
// priority.
func BuildItinerary(sels []Selection, winners WinnerSet) Itinerary {
	it := make(Itinerary)

	var won, lost []Selection
	for _, s := range sels {
		if winners.Has(s.ID) {
			won = append(won, s)
		} else {
			lost = append(lost, s)
		}
	}

	slices.SortStableFunc(won, func(a, b Selection) int {
		if a.Start != b.Start {
			return cmp.Compare(a.Start, b.Start)
		}
		return cmp.Compare(a.ID, b.ID)
	})

	for _, w := range won {
		conflicts := ConflictsWith(w.Item, lost)
		SortConflicts(conflicts)
		if conflicts == nil {
			conflicts = []Selection{}
		}
		it[w.Day] = append(it[w.Day], ItineraryEntry{Concert: w, Conflicts: conflicts})
	}
	return it
}

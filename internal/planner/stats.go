package planner

import "github.com/danieljhkim/festplan/internal/catalog"

// PriorityCounts tallies selections per persisted priority.
type PriorityCounts map[Priority]int

// Total returns the number of selections counted.
func (c PriorityCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// CountPriorities tallies sels by priority. Every persisted priority is
// present in the result, possibly with a zero count.
func CountPriorities(sels []Selection) PriorityCounts {
	counts := PriorityCounts{PriorityMustSee: 0, PriorityWant: 0, PriorityMaybe: 0}
	for _, s := range sels {
		if s.Priority.Valid() {
			counts[s.Priority]++
		}
	}
	return counts
}

// ConflictingCount returns how many non-winners overlap at least one winner.
func ConflictingCount(sels []Selection, winners WinnerSet) int {
	n := 0
	for _, s := range sels {
		if winners.Has(s.ID) {
			continue
		}
		for _, w := range sels {
			if winners.Has(w.ID) && Conflicts(s.Item, w.Item) {
				n++
				break
			}
		}
	}
	return n
}

// DayStatus summarizes one festival day of a plan.
type DayStatus struct {
	Day catalog.Day `json:"day"`

	// Selected is true when the day has at least one winner
	Selected bool `json:"selected"`

	// Conflicted is true when a selection on the day loses to a winner
	Conflicted bool `json:"conflicted"`

	// Winners and Selections count the day's winners and selections
	Winners    int `json:"winners"`
	Selections int `json:"selections"`
}

// DayStatuses returns a status for every day that has selections, in
// catalog.DayOrder.
func DayStatuses(sels []Selection, winners WinnerSet) []DayStatus {
	byDay := make(map[catalog.Day][]Selection)
	for _, s := range sels {
		byDay[s.Day] = append(byDay[s.Day], s)
	}

	var out []DayStatus
	for _, day := range catalog.DayOrder {
		daySels := byDay[day]
		if len(daySels) == 0 {
			continue
		}
		st := DayStatus{
			Day:        day,
			Selections: len(daySels),
			Conflicted: ConflictingCount(daySels, winners) > 0,
		}
		for _, s := range daySels {
			if winners.Has(s.ID) {
				st.Winners++
			}
		}
		st.Selected = st.Winners > 0
		out = append(out, st)
	}
	return out
}

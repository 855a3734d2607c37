package catalog

import (
	"slices"
	"strings"
)

// Filter narrows the lineup for browsing. Zero-valued fields do not filter.
type Filter struct {
	// Artist matches concerts whose artist contains this text, case-insensitively
	Artist string

	// Days keeps concerts on any of these days
	Days []Day

	// Stages keeps concerts on any of these stages
	Stages []string

	// Priorities keeps selected concerts whose priority is one of these values
	Priorities []int

	// NotSelected keeps concerts that are not selected
	NotSelected bool
}

// PriorityLookup reports the priority of a selected concert and whether it
// is selected at all.
type PriorityLookup func(id string) (priority int, selected bool)

// Apply returns the items matching f, preserving their order.
//
// Priorities and NotSelected combine with OR: a concert passes the selection
// criterion if it is unselected and NotSelected is set, or if it is selected
// with one of the listed priorities. When neither is set every concert passes.
func (f Filter) Apply(items []Item, lookup PriorityLookup) []Item {
	artist := strings.ToLower(f.Artist)

	var out []Item
	for _, item := range items {
		if artist != "" && !strings.Contains(strings.ToLower(item.Artist), artist) {
			continue
		}
		if len(f.Days) > 0 && !slices.Contains(f.Days, item.Day) {
			continue
		}
		if len(f.Stages) > 0 && !slices.Contains(f.Stages, item.Stage) {
			continue
		}
		if !f.matchesSelection(item.ID, lookup) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (f Filter) matchesSelection(id string, lookup PriorityLookup) bool {
	if len(f.Priorities) == 0 && !f.NotSelected {
		return true
	}
	priority, selected := 0, false
	if lookup != nil {
		priority, selected = lookup(id)
	}
	if !selected {
		return f.NotSelected
	}
	return slices.Contains(f.Priorities, priority)
}

// GroupByDay groups items by day. Within a day, items keep their input order.
func GroupByDay(items []Item) map[Day][]Item {
	byDay := make(map[Day][]Item)
	for _, item := range items {
		byDay[item.Day] = append(byDay[item.Day], item)
	}
	return byDay
}

package engine

import (
	"context"
	"fmt"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/planner"
)

// Plan returns the current plan.
func (e *Engine) Plan(ctx context.Context) (*PlanResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &PlanResult{
		Name:      e.plan.Name,
		PlanID:    e.plan.ID,
		UpdatedAt: e.plan.UpdatedAt,
		Snapshot:  e.store.Snapshot(),
	}, nil
}

// Conflicts returns the selections that overlap a selected concert.
func (e *Engine) Conflicts(ctx context.Context, req *ConflictsRequest) (*ConflictsResult, error) {
	snap := e.store.Snapshot()
	if _, err := e.requireSelected(req.ID, snap); err != nil {
		return nil, err
	}

	target, _ := snap.Get(req.ID)
	conflicts := snap.Conflicts(req.ID)

	result := &ConflictsResult{
		Concert:   target,
		Winner:    snap.IsWinner(req.ID),
		Conflicts: make([]ConflictInfo, len(conflicts)),
	}
	for i, c := range conflicts {
		result.Conflicts[i] = ConflictInfo{
			Selection: c,
			Winner:    snap.IsWinner(c.ID),
			Overlap:   planner.Overlap(target.Item, c.Item),
		}
	}
	return result, nil
}

// Itinerary returns the attended concerts grouped by day in festival order.
func (e *Engine) Itinerary(ctx context.Context, req *ItineraryRequest) (*ItineraryResult, error) {
	var only catalog.Day
	if req.Day != "" {
		day, err := catalog.ParseDay(req.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		only = day
	}

	it := e.store.Snapshot().Itinerary
	result := &ItineraryResult{Days: []DayItinerary{}}
	for _, day := range it.Days() {
		if only != "" && day != only {
			continue
		}
		result.Days = append(result.Days, DayItinerary{Day: day, Entries: it[day]})
	}
	return result, nil
}

// Status summarizes the plan and lists the plans in the state store.
func (e *Engine) Status(ctx context.Context) (*StatusResult, error) {
	plans, err := e.stateStore.ListPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	if plans == nil {
		plans = []string{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.store.Snapshot()
	return &StatusResult{
		Plan:           e.plan.Name,
		PlanID:         e.plan.ID,
		Festival:       e.catalog.Name(),
		CatalogPath:    e.catalogPath,
		CatalogChanged: e.catalogChanged,
		TotalConcerts:  e.catalog.Len(),
		Selected:       len(snap.Selections),
		NotSelected:    snap.NotSelectedCount,
		Attending:      len(snap.WinnerIDs),
		Conflicting:    snap.ConflictCount,
		PriorityCounts: snap.PriorityCounts,
		Days:           snap.Days,
		UpdatedAt:      e.plan.UpdatedAt,
		Plans:          plans,
	}, nil
}

// Browse returns the lineup filtered by req, annotated with plan state and
// grouped by day in festival order.
func (e *Engine) Browse(ctx context.Context, req *BrowseRequest) (*BrowseResult, error) {
	for _, p := range req.Filter.Priorities {
		if !planner.Priority(p).Valid() {
			return nil, fmt.Errorf("%w: priority filter must be 1-3, got %d", ErrValidation, p)
		}
	}

	snap := e.store.Snapshot()
	lookup := func(id string) (int, bool) {
		p, ok := snap.PriorityOf(id)
		return int(p), ok
	}

	matched := req.Filter.Apply(e.catalog.Items(), lookup)
	byDay := catalog.GroupByDay(matched)

	result := &BrowseResult{Days: []BrowseDay{}, Total: len(matched)}
	for _, day := range catalog.DayOrder {
		items := byDay[day]
		if len(items) == 0 {
			continue
		}
		bd := BrowseDay{Day: day, Concerts: make([]BrowseItem, len(items))}
		for i, item := range items {
			p, selected := snap.PriorityOf(item.ID)
			bd.Concerts[i] = BrowseItem{
				Item:     item,
				Selected: selected,
				Priority: p,
				Winner:   snap.IsWinner(item.ID),
			}
		}
		result.Days = append(result.Days, bd)
	}
	return result, nil
}

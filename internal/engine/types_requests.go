package engine

import "github.com/danieljhkim/festplan/internal/catalog"

// AddRequest toggles the selection of one or more concerts.
type AddRequest struct {
	// IDs are catalog ids; an id that is already selected is deselected
	IDs []string
}

// RemoveRequest deselects concerts.
type RemoveRequest struct {
	IDs []string
}

// SetPriorityRequest forces the priority of a selected concert.
type SetPriorityRequest struct {
	ID string

	// Priority must be 1 (must see), 2 (want) or 3 (maybe)
	Priority int
}

// SwapRequest promotes a losing conflict over the winner it loses to.
type SwapRequest struct {
	// MainID is the currently attended concert
	MainID string

	// ConflictID is the conflicting concert to promote
	ConflictID string
}

// ClearRequest empties the plan.
type ClearRequest struct{}

// ConflictsRequest asks for the conflicts of one selection.
type ConflictsRequest struct {
	ID string
}

// ItineraryRequest asks for the attended concerts by day.
type ItineraryRequest struct {
	// Day restricts the itinerary to one day; empty means every day
	Day string
}

// BrowseRequest filters the lineup.
type BrowseRequest struct {
	Filter catalog.Filter
}

// ExportRequest writes the plan to a portable file.
type ExportRequest struct {
	Path string
}

// ImportRequest replaces the plan with the contents of an export file.
type ImportRequest struct {
	Path string
}

// DeletePlanRequest deletes a stored plan.
type DeletePlanRequest struct {
	Name string

	// Force allows deleting the plan the engine is working on
	Force bool

	// DryRun reports what would be deleted without deleting
	DryRun bool
}

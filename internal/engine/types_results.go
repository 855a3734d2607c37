package engine

import (
	"time"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/planner"
	"github.com/danieljhkim/festplan/internal/selection"
)

// Change actions reported in MutationResult.
const (
	ActionAdded       = "added"
	ActionRemoved     = "removed"
	ActionPrioritized = "prioritized"
	ActionSwapped     = "swapped"
	ActionCleared     = "cleared"
)

// Change describes the effect of a request on one concert.
type Change struct {
	ID     string `json:"id"`
	Artist string `json:"artist,omitempty"`
	Action string `json:"action"`

	// Priority is the priority after the change; zero when removed
	Priority planner.Priority `json:"priority,omitempty"`

	// Winner reports whether the concert is attended after the change
	Winner bool `json:"winner"`
}

// MutationResult is returned by every request that changes the plan.
type MutationResult struct {
	Changes  []Change           `json:"changes"`
	Snapshot selection.Snapshot `json:"plan"`
}

// PlanResult is the current plan with its metadata.
type PlanResult struct {
	Name      string             `json:"name"`
	PlanID    string             `json:"planId"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Snapshot  selection.Snapshot `json:"plan"`
}

// ConflictsResult lists the selections overlapping one selection.
type ConflictsResult struct {
	Concert planner.Selection `json:"concert"`

	// Winner reports whether Concert is attended
	Winner bool `json:"winner"`

	// Conflicts are ordered by start time, priority and id
	Conflicts []ConflictInfo `json:"conflicts"`
}

// ConflictInfo is one conflicting selection.
type ConflictInfo struct {
	planner.Selection

	// Winner reports whether this conflict is the one attended
	Winner bool `json:"winner"`

	// Overlap is the shared time in minutes
	Overlap int `json:"overlapMinutes"`
}

// DayItinerary is the attended concerts of one day.
type DayItinerary struct {
	Day     catalog.Day              `json:"day"`
	Entries []planner.ItineraryEntry `json:"entries"`
}

// ItineraryResult lists days in festival order.
type ItineraryResult struct {
	Days []DayItinerary `json:"days"`
}

// StatusResult summarizes the plan.
type StatusResult struct {
	Plan        string `json:"plan"`
	PlanID      string `json:"planId"`
	Festival    string `json:"festival,omitempty"`
	CatalogPath string `json:"catalogPath"`

	// CatalogChanged is true when the plan was saved against a different lineup
	CatalogChanged bool `json:"catalogChanged"`

	TotalConcerts  int                    `json:"totalConcerts"`
	Selected       int                    `json:"selected"`
	NotSelected    int                    `json:"notSelected"`
	Attending      int                    `json:"attending"`
	Conflicting    int                    `json:"conflicting"`
	PriorityCounts planner.PriorityCounts `json:"priorityCounts"`
	Days           []planner.DayStatus    `json:"days"`
	UpdatedAt      time.Time              `json:"updatedAt"`

	// Plans lists every plan in the state store
	Plans []string `json:"plans"`
}

// BrowseItem is one lineup entry annotated with its plan state.
type BrowseItem struct {
	catalog.Item
	Selected bool             `json:"selected"`
	Priority planner.Priority `json:"priority,omitempty"`
	Winner   bool             `json:"winner"`
}

// BrowseDay groups browse results of one day.
type BrowseDay struct {
	Day      catalog.Day  `json:"day"`
	Concerts []BrowseItem `json:"concerts"`
}

// BrowseResult is the filtered lineup, grouped by day in festival order.
type BrowseResult struct {
	Days  []BrowseDay `json:"days"`
	Total int         `json:"total"`
}

// ExportResult describes a written export file.
type ExportResult struct {
	Path       string `json:"path"`
	Selections int    `json:"selections"`
	Checksum   string `json:"checksum"`
}

// ImportResult describes a restored export file.
type ImportResult struct {
	Path     string `json:"path"`
	Restored int    `json:"restored"`

	// Dropped are entries whose concert is not in the lineup, or repeats
	Dropped  []selection.Entry  `json:"dropped"`
	Snapshot selection.Snapshot `json:"plan"`
}

// PlanSummary describes one stored plan.
type PlanSummary struct {
	Name       string    `json:"name"`
	PlanID     string    `json:"planId"`
	Selections int       `json:"selections"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Active is true for the plan the engine is working on
	Active bool `json:"active"`
}

// PlansResult lists the stored plans by name.
type PlansResult struct {
	Plans []PlanSummary `json:"plans"`
}

// SavedEntry is one stored selection resolved against the lineup.
type SavedEntry struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`

	// Artist is empty when the concert is no longer in the lineup
	Artist string      `json:"artist,omitempty"`
	Day    catalog.Day `json:"day,omitempty"`
	Known  bool        `json:"known"`
}

// DescribePlanResult is the stored content of one plan.
type DescribePlanResult struct {
	PlanSummary
	CatalogChecksum string       `json:"catalogChecksum,omitempty"`
	CatalogChanged  bool         `json:"catalogChanged"`
	CreatedAt       time.Time    `json:"createdAt"`
	Entries         []SavedEntry `json:"entries"`
}

// DeletePlanResult reports a deleted plan.
type DeletePlanResult struct {
	Name       string `json:"name"`
	Selections int    `json:"selections"`
	DryRun     bool   `json:"dryRun"`
}

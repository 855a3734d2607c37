package state

import (
	"time"

	"github.com/google/uuid"
)

// SavedSelection is one persisted selection.
type SavedSelection struct {
	// ID is the catalog id of the concert
	ID string `json:"id"`

	// Priority is the persisted priority; out-of-range values are clamped
	// when the plan is restored
	Priority int `json:"priority"`
}

// Plan is the persisted state of one named plan.
type Plan struct {
	// ID uniquely identifies the plan across renames and exports
	ID string `json:"id"`

	// Name is the key the plan is stored under
	Name string `json:"name"`

	// CatalogChecksum fingerprints the lineup file the plan was saved against
	CatalogChecksum string `json:"catalogChecksum,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Selections in the order they were made
	Selections []SavedSelection `json:"selections"`

	// LastSwappedID is the concert promoted by the swap that produced this
	// plan; empty once any other change is saved
	LastSwappedID string `json:"lastSwappedId,omitempty"`
}

// NewPlan creates an empty plan with a fresh id.
func NewPlan(name string, now time.Time) *Plan {
	return &Plan{
		ID:         uuid.NewString(),
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
		Selections: []SavedSelection{},
	}
}

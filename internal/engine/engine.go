// Package engine provides the festplan operations used by the CLI and the
// HTTP API.
//
// The engine validates requests against the lineup, runs them through the
// selection store and persists the resulting (id, priority) pairs through the
// configured StateStore. Every mutation and its save happen under one lock, so
// concurrent API requests observe plans in a consistent order.
//
// Key components:
//   - Engine: owns the lineup, the selection store and the persisted plan
//   - Add/Remove/SetPriority/Swap/Clear: plan mutations
//   - Plan/Itinerary/Conflicts/Status/Browse: read-only views
//   - Export/Import: portable plan files
//   - ListPlans/DescribePlan/DeletePlan: stored plan management
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/clock"
	"github.com/danieljhkim/festplan/internal/fsops"
	"github.com/danieljhkim/festplan/internal/persist"
	"github.com/danieljhkim/festplan/internal/selection"
	"github.com/danieljhkim/festplan/internal/state"
)

// Engine orchestrates all festplan operations.
// It is the main API surface called by the CLI and the API server.
type Engine struct {
	catalog     *catalog.Catalog
	catalogPath string
	checksum    string

	store      *selection.Store
	stateStore state.StateStore
	exporter   *persist.Exporter
	clock      clock.Clock
	logger     *zap.Logger
	planName   string

	mu             sync.Mutex
	plan           *state.Plan
	catalogChanged bool
	unsubscribe    func()
}

// Lineup is the catalog an engine plans against, together with where it
// came from.
type Lineup struct {
	Catalog  *catalog.Catalog
	Path     string
	Checksum string
}

// New creates a new Engine with the given dependencies. The plan is empty
// until Load is called.
func New(
	lineup Lineup,
	stateStore state.StateStore,
	fs fsops.FS,
	clk clock.Clock,
	logger *zap.Logger,
	planName string,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		catalog:     lineup.Catalog,
		catalogPath: lineup.Path,
		checksum:    lineup.Checksum,
		store:       selection.New(lineup.Catalog),
		stateStore:  stateStore,
		exporter:    persist.NewExporter(fs),
		clock:       clk,
		logger:      logger.With(zap.String("plan", planName)),
		planName:    planName,
		plan:        state.NewPlan(planName, clk.Now()),
	}
	e.unsubscribe = e.store.Subscribe(e.logSnapshot)
	return e
}

func (e *Engine) logSnapshot(snap selection.Snapshot) {
	e.logger.Debug("plan recomputed",
		zap.Int("selections", len(snap.Selections)),
		zap.Int("winners", len(snap.WinnerIDs)),
		zap.Int("conflicts", snap.ConflictCount),
		zap.String("last_swapped", snap.LastSwappedID),
	)
}

// Load restores the persisted plan. A missing plan starts empty. Entries
// that no longer match the lineup are dropped with a warning.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.stateStore.LoadPlan(e.planName)
	if errors.Is(err, os.ErrNotExist) {
		e.logger.Debug("no saved plan, starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load plan %q: %w", e.planName, err)
	}

	if plan.CatalogChecksum != "" && e.checksum != "" && plan.CatalogChecksum != e.checksum {
		e.catalogChanged = true
		e.logger.Warn("lineup changed since the plan was saved",
			zap.String("saved_checksum", plan.CatalogChecksum),
			zap.String("checksum", e.checksum),
		)
	}

	entries := make([]selection.Entry, len(plan.Selections))
	for i, s := range plan.Selections {
		entries[i] = selection.Entry{ID: s.ID, Priority: s.Priority}
	}
	_, dropped := e.store.Restore(entries, plan.LastSwappedID)
	for _, d := range dropped {
		e.logger.Warn("dropped saved selection", zap.String("id", d.ID), zap.Int("priority", d.Priority))
	}

	e.plan = plan
	return nil
}

// Close releases the state store and flushes the logger.
func (e *Engine) Close() error {
	e.unsubscribe()
	_ = e.logger.Sync()
	if err := e.stateStore.Close(); err != nil {
		return fmt.Errorf("failed to close state store: %w", err)
	}
	return nil
}

// Festival returns the festival name from the lineup.
func (e *Engine) Festival() string {
	return e.catalog.Name()
}

// save persists snap as the current plan. If the write fails the store is
// rolled back to prev. Callers must hold e.mu.
func (e *Engine) save(prev, snap selection.Snapshot) error {
	entries := selection.EntriesOf(snap)
	saved := make([]state.SavedSelection, len(entries))
	for i, en := range entries {
		saved[i] = state.SavedSelection{ID: en.ID, Priority: en.Priority}
	}

	next := *e.plan
	next.Selections = saved
	next.LastSwappedID = snap.LastSwappedID
	next.CatalogChecksum = e.checksum
	next.UpdatedAt = e.clock.Now()

	if err := e.stateStore.SavePlan(&next); err != nil {
		e.logger.Error("failed to save plan", zap.Error(err))
		e.store.Restore(selection.EntriesOf(prev), prev.LastSwappedID)
		return fmt.Errorf("failed to save plan: %w", err)
	}
	e.plan = &next
	e.catalogChanged = false
	return nil
}

// lookup returns the catalog item for id or an ErrNotFound error that
// suggests close matches.
func (e *Engine) lookup(id string) (catalog.Item, error) {
	item, ok := e.catalog.Get(id)
	if ok {
		return item, nil
	}

	msg := fmt.Sprintf("concert %q", id)
	if suggestions := e.catalog.Suggest(id, 3); len(suggestions) > 0 {
		names := make([]string, len(suggestions))
		for i, s := range suggestions {
			names[i] = fmt.Sprintf("%s (%s)", s.ID, s.Artist)
		}
		msg += "; did you mean " + strings.Join(names, ", ") + "?"
	}
	return catalog.Item{}, fmt.Errorf("%w: %s", ErrNotFound, msg)
}

// requireSelected validates that id is a known, selected concert.
func (e *Engine) requireSelected(id string, snap selection.Snapshot) (catalog.Item, error) {
	item, err := e.lookup(id)
	if err != nil {
		return catalog.Item{}, err
	}
	if !snap.IsSelected(id) {
		return catalog.Item{}, fmt.Errorf("%w: concert %q is not in the plan", ErrNotSelected, id)
	}
	return item, nil
}

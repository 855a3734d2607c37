package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/planner"
	"github.com/danieljhkim/festplan/internal/selection"
)

// Add toggles the selection of each requested concert. All ids are validated
// before the plan changes; an unknown id fails the whole request.
func (e *Engine) Add(ctx context.Context, req *AddRequest) (*MutationResult, error) {
	if len(req.IDs) == 0 {
		return nil, fmt.Errorf("%w: at least one concert id is required", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	items := make([]catalog.Item, 0, len(req.IDs))
	for _, id := range req.IDs {
		item, err := e.lookup(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	before := e.store.Snapshot()
	snap := before
	actions := make([]string, len(items))
	for i, item := range items {
		if snap.IsSelected(item.ID) {
			actions[i] = ActionRemoved
		} else {
			actions[i] = ActionAdded
		}
		snap = e.store.Add(item)
		e.logger.Info("toggled selection", zap.String("id", item.ID), zap.String("action", actions[i]))
	}

	if err := e.save(before, snap); err != nil {
		return nil, err
	}

	changes := make([]Change, len(items))
	for i, item := range items {
		changes[i] = changeOf(item, actions[i], snap)
	}
	return &MutationResult{Changes: changes, Snapshot: snap}, nil
}

// Remove deselects each requested concert. Every id must be selected.
func (e *Engine) Remove(ctx context.Context, req *RemoveRequest) (*MutationResult, error) {
	if len(req.IDs) == 0 {
		return nil, fmt.Errorf("%w: at least one concert id is required", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.store.Snapshot()
	items := make([]catalog.Item, 0, len(req.IDs))
	for _, id := range req.IDs {
		item, err := e.requireSelected(id, current)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	snap := current
	for _, item := range items {
		snap = e.store.Remove(item.ID)
		e.logger.Info("removed selection", zap.String("id", item.ID))
	}

	if err := e.save(current, snap); err != nil {
		return nil, err
	}

	changes := make([]Change, len(items))
	for i, item := range items {
		changes[i] = changeOf(item, ActionRemoved, snap)
	}
	return &MutationResult{Changes: changes, Snapshot: snap}, nil
}

// SetPriority forces the priority of a selected concert. Direct conflicts at
// the same or a higher priority are pushed down one level.
func (e *Engine) SetPriority(ctx context.Context, req *SetPriorityRequest) (*MutationResult, error) {
	p := planner.Priority(req.Priority)
	if !p.Valid() {
		return nil, fmt.Errorf("%w: priority must be 1-3, got %d", ErrValidation, req.Priority)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.store.Snapshot()
	item, err := e.requireSelected(req.ID, before)
	if err != nil {
		return nil, err
	}

	snap := e.store.SetPriority(item.ID, p)
	e.logger.Info("set priority", zap.String("id", item.ID), zap.Int("priority", int(p)))

	if err := e.save(before, snap); err != nil {
		return nil, err
	}

	changes := []Change{changeOf(item, ActionPrioritized, snap)}
	for _, c := range snap.Conflicts(item.ID) {
		if old, _ := before.PriorityOf(c.ID); old != c.Priority {
			changes = append(changes, changeOf(c.Item, ActionPrioritized, snap))
		}
	}
	return &MutationResult{Changes: changes, Snapshot: snap}, nil
}

// Swap promotes req.ConflictID over req.MainID. Both must be selected and
// must conflict with each other.
func (e *Engine) Swap(ctx context.Context, req *SwapRequest) (*MutationResult, error) {
	if req.MainID == req.ConflictID {
		return nil, fmt.Errorf("%w: cannot swap concert %q with itself", ErrValidation, req.MainID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current := e.store.Snapshot()
	main, err := e.requireSelected(req.MainID, current)
	if err != nil {
		return nil, err
	}
	loser, err := e.requireSelected(req.ConflictID, current)
	if err != nil {
		return nil, err
	}
	if !planner.Conflicts(main, loser) {
		return nil, fmt.Errorf("%w: concerts %q and %q do not conflict", ErrValidation, main.ID, loser.ID)
	}

	snap := e.store.Swap(main.ID, loser.ID)
	e.logger.Info("swapped selections", zap.String("main", main.ID), zap.String("promoted", loser.ID))

	if err := e.save(current, snap); err != nil {
		return nil, err
	}

	return &MutationResult{
		Changes: []Change{
			changeOf(loser, ActionSwapped, snap),
			changeOf(main, ActionSwapped, snap),
		},
		Snapshot: snap,
	}, nil
}

// Clear removes every selection. Clearing an empty plan succeeds.
func (e *Engine) Clear(ctx context.Context, req *ClearRequest) (*MutationResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.store.Snapshot()
	snap := e.store.Clear()
	e.logger.Info("cleared plan", zap.Int("removed", len(before.Selections)))

	if err := e.save(before, snap); err != nil {
		return nil, err
	}

	changes := make([]Change, len(before.Selections))
	for i, s := range before.Selections {
		changes[i] = changeOf(s.Item, ActionCleared, snap)
	}
	return &MutationResult{Changes: changes, Snapshot: snap}, nil
}

func changeOf(item catalog.Item, action string, snap selection.Snapshot) Change {
	p, _ := snap.PriorityOf(item.ID)
	return Change{
		ID:       item.ID,
		Artist:   item.Artist,
		Action:   action,
		Priority: p,
		Winner:   snap.IsWinner(item.ID),
	}
}

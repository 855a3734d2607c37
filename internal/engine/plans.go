package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/state"
)

// ListPlans summarizes every plan in the state store.
func (e *Engine) ListPlans(ctx context.Context) (*PlansResult, error) {
	names, err := e.stateStore.ListPlans()
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := &PlansResult{Plans: make([]PlanSummary, 0, len(names))}
	for _, name := range names {
		plan, err := e.stateStore.LoadPlan(name)
		if err != nil {
			e.logger.Warn("skipping unreadable plan", zap.String("name", name), zap.Error(err))
			continue
		}
		result.Plans = append(result.Plans, e.summarize(plan))
	}
	return result, nil
}

// DescribePlan returns the stored content of the named plan, resolved against
// the current lineup.
func (e *Engine) DescribePlan(ctx context.Context, name string) (*DescribePlanResult, error) {
	plan, err := e.stateStore.LoadPlan(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: plan %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %q: %w", name, err)
	}

	result := &DescribePlanResult{
		PlanSummary:     e.summarize(plan),
		CatalogChecksum: plan.CatalogChecksum,
		CatalogChanged:  plan.CatalogChecksum != "" && e.checksum != "" && plan.CatalogChecksum != e.checksum,
		CreatedAt:       plan.CreatedAt,
		Entries:         make([]SavedEntry, len(plan.Selections)),
	}
	for i, s := range plan.Selections {
		entry := SavedEntry{ID: s.ID, Priority: s.Priority}
		if item, ok := e.catalog.Get(s.ID); ok {
			entry.Artist = item.Artist
			entry.Day = item.Day
			entry.Known = true
		}
		result.Entries[i] = entry
	}
	return result, nil
}

// DeletePlan removes a plan from the state store. Deleting the active plan
// requires req.Force and leaves the engine with an empty plan.
func (e *Engine) DeletePlan(ctx context.Context, req *DeletePlanRequest) (*DeletePlanResult, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: plan name is required", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	plan, err := e.stateStore.LoadPlan(req.Name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: plan %q", ErrNotFound, req.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plan %q: %w", req.Name, err)
	}

	active := req.Name == e.planName
	if active && !req.Force {
		return nil, fmt.Errorf("%w: plan %q is in use; use --force to delete it", ErrValidation, req.Name)
	}

	result := &DeletePlanResult{
		Name:       req.Name,
		Selections: len(plan.Selections),
		DryRun:     req.DryRun,
	}
	if req.DryRun {
		return result, nil
	}

	if err := e.stateStore.DeletePlan(req.Name); err != nil {
		return nil, fmt.Errorf("failed to delete plan %q: %w", req.Name, err)
	}
	e.logger.Info("deleted plan", zap.String("name", req.Name), zap.Bool("active", active))

	if active {
		e.store.Clear()
		e.plan = state.NewPlan(e.planName, e.clock.Now())
	}
	return result, nil
}

func (e *Engine) summarize(plan *state.Plan) PlanSummary {
	return PlanSummary{
		Name:       plan.Name,
		PlanID:     plan.ID,
		Selections: len(plan.Selections),
		UpdatedAt:  plan.UpdatedAt,
		Active:     plan.Name == e.planName,
	}
}

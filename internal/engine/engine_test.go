package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/clock"
	"github.com/danieljhkim/festplan/internal/fsops"
	"github.com/danieljhkim/festplan/internal/planner"
	"github.com/danieljhkim/festplan/internal/state"
)

// memStateStore is an in-memory StateStore for testing
type memStateStore struct {
	mu      sync.Mutex
	plans   map[string]state.Plan
	saves   int
	saveErr error
}

func newMemStateStore() *memStateStore {
	return &memStateStore{plans: make(map[string]state.Plan)}
}

func (m *memStateStore) LoadPlan(name string) (*state.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	p.Selections = append([]state.SavedSelection(nil), p.Selections...)
	return &p, nil
}

func (m *memStateStore) SavePlan(plan *state.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	p := *plan
	p.Selections = append([]state.SavedSelection(nil), plan.Selections...)
	m.plans[plan.Name] = p
	m.saves++
	return nil
}

func (m *memStateStore) DeletePlan(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.plans, name)
	return nil
}

func (m *memStateStore) ListPlans() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.plans {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memStateStore) Close() error { return nil }

func concert(id string, day catalog.Day, start, end string) catalog.Item {
	s, _ := catalog.ParseTimeOfDay(start)
	e, _ := catalog.ParseTimeOfDay(end)
	return catalog.Item{ID: id, Day: day, Stage: "Main", Artist: strings.ToUpper(id[:1]) + id[1:], Start: s, End: e}
}

var testItems = []catalog.Item{
	concert("arcade", catalog.Friday, "10:00", "11:00"),
	concert("beck", catalog.Friday, "10:30", "11:30"),
	concert("cure", catalog.Friday, "10:45", "11:15"),
	concert("daft", catalog.Saturday, "18:00", "19:00"),
}

var testNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	engine *Engine
	states *memStateStore
	clock  *clock.Fixed
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	states := newMemStateStore()
	return newTestEnvWith(t, states, "sum-1")
}

func newTestEnvWith(t *testing.T, states *memStateStore, checksum string) *testEnv {
	t.Helper()
	return newTestEnvItems(t, states, checksum, testItems)
}

func newTestEnvItems(t *testing.T, states *memStateStore, checksum string, items []catalog.Item) *testEnv {
	t.Helper()
	cat, err := catalog.New(items)
	if err != nil {
		t.Fatalf("catalog.New failed: %v", err)
	}
	clk := clock.NewFixed(testNow)
	e := New(
		Lineup{Catalog: cat, Path: "lineup.yaml", Checksum: checksum},
		states,
		fsops.NewRealFS(),
		clk,
		zap.NewNop(),
		"default",
	)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return &testEnv{engine: e, states: states, clock: clk}
}

func (env *testEnv) add(t *testing.T, ids ...string) *MutationResult {
	t.Helper()
	res, err := env.engine.Add(context.Background(), &AddRequest{IDs: ids})
	if err != nil {
		t.Fatalf("Add(%v) failed: %v", ids, err)
	}
	return res
}

func savedPriorities(t *testing.T, states *memStateStore) map[string]int {
	t.Helper()
	plan, err := states.LoadPlan("default")
	if err != nil {
		t.Fatalf("plan was not saved: %v", err)
	}
	out := make(map[string]int)
	for _, s := range plan.Selections {
		out[s.ID] = s.Priority
	}
	return out
}

func TestEngine_AddPersists(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Advance(time.Hour)
	res := env.add(t, "arcade", "beck")

	if len(res.Changes) != 2 || res.Changes[0].Action != ActionAdded || res.Changes[1].Action != ActionAdded {
		t.Fatalf("unexpected changes: %+v", res.Changes)
	}
	if !res.Changes[0].Winner || res.Changes[1].Winner {
		t.Errorf("expected arcade to win over beck, got %+v", res.Changes)
	}

	saved := savedPriorities(t, env.states)
	if saved["arcade"] != 1 || saved["beck"] != 2 {
		t.Errorf("unexpected saved priorities: %v", saved)
	}

	plan, _ := env.states.LoadPlan("default")
	if plan.CatalogChecksum != "sum-1" {
		t.Errorf("expected checksum sum-1, got %q", plan.CatalogChecksum)
	}
	if !plan.UpdatedAt.Equal(testNow.Add(time.Hour)) {
		t.Errorf("expected UpdatedAt from clock, got %v", plan.UpdatedAt)
	}
}

func TestEngine_AddToggles(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade")
	res := env.add(t, "arcade")

	if res.Changes[0].Action != ActionRemoved {
		t.Errorf("expected removed, got %s", res.Changes[0].Action)
	}
	if len(res.Snapshot.Selections) != 0 {
		t.Errorf("expected empty plan, got %v", res.Snapshot.Selections)
	}
}

func TestEngine_AddUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.engine.Add(context.Background(), &AddRequest{IDs: []string{"arcade", "bekc"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean beck") {
		t.Errorf("expected suggestion in %q", err.Error())
	}
	if env.states.saves != 0 {
		t.Error("expected nothing saved when validation fails")
	}
	if snap := env.engine.store.Snapshot(); snap.IsSelected("arcade") {
		t.Error("expected request to fail as a whole")
	}

	if _, err := env.engine.Add(context.Background(), &AddRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty request, got %v", err)
	}
}

func TestEngine_Remove(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck")

	res, err := env.engine.Remove(context.Background(), &RemoveRequest{IDs: []string{"arcade"}})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if res.Snapshot.IsSelected("arcade") {
		t.Error("expected arcade removed")
	}
	if !res.Snapshot.IsWinner("beck") {
		t.Error("expected beck to win once arcade is gone")
	}
	if saved := savedPriorities(t, env.states); saved["beck"] != 1 || len(saved) != 1 {
		t.Errorf("expected beck promoted to 1, got %v", saved)
	}

	_, err = env.engine.Remove(context.Background(), &RemoveRequest{IDs: []string{"arcade"}})
	if !errors.Is(err, ErrNotSelected) {
		t.Errorf("expected ErrNotSelected, got %v", err)
	}
}

func TestEngine_SetPriority(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck")

	res, err := env.engine.SetPriority(context.Background(), &SetPriorityRequest{ID: "beck", Priority: 1})
	if err != nil {
		t.Fatalf("SetPriority failed: %v", err)
	}
	if len(res.Changes) != 2 || res.Changes[1].ID != "arcade" || res.Changes[1].Priority != planner.PriorityWant {
		t.Errorf("expected arcade pushed down to 2, got %+v", res.Changes)
	}
	if saved := savedPriorities(t, env.states); saved["beck"] != 1 || saved["arcade"] != 2 {
		t.Errorf("unexpected saved priorities: %v", saved)
	}
}

func TestEngine_SetPriority_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade")

	tests := []struct {
		name    string
		req     SetPriorityRequest
		wantErr error
	}{
		{name: "zero", req: SetPriorityRequest{ID: "arcade", Priority: 0}, wantErr: ErrValidation},
		{name: "four", req: SetPriorityRequest{ID: "arcade", Priority: 4}, wantErr: ErrValidation},
		{name: "unknown", req: SetPriorityRequest{ID: "zzz", Priority: 1}, wantErr: ErrNotFound},
		{name: "unselected", req: SetPriorityRequest{ID: "daft", Priority: 1}, wantErr: ErrNotSelected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.engine.SetPriority(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEngine_Swap(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck")

	res, err := env.engine.Swap(context.Background(), &SwapRequest{MainID: "arcade", ConflictID: "beck"})
	if err != nil {
		t.Fatalf("Swap failed: %v", err)
	}
	if !res.Snapshot.IsWinner("beck") || res.Snapshot.IsWinner("arcade") {
		t.Errorf("expected beck to win, got %v", res.Snapshot.WinnerIDs)
	}
	if res.Snapshot.LastSwappedID != "beck" {
		t.Errorf("expected last swapped beck, got %q", res.Snapshot.LastSwappedID)
	}

	saved := savedPriorities(t, env.states)
	if saved["beck"] != 1 || (saved["arcade"] != 2 && saved["arcade"] != 3) {
		t.Errorf("unexpected saved priorities: %v", saved)
	}
}

func TestEngine_Swap_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck", "daft")

	tests := []struct {
		name    string
		req     SwapRequest
		wantErr error
	}{
		{name: "same id", req: SwapRequest{MainID: "arcade", ConflictID: "arcade"}, wantErr: ErrValidation},
		{name: "no conflict", req: SwapRequest{MainID: "arcade", ConflictID: "daft"}, wantErr: ErrValidation},
		{name: "unselected", req: SwapRequest{MainID: "arcade", ConflictID: "cure"}, wantErr: ErrNotSelected},
		{name: "unknown", req: SwapRequest{MainID: "nope", ConflictID: "beck"}, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.engine.Swap(context.Background(), &tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEngine_ClearTwice(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "daft")

	res, err := env.engine.Clear(context.Background(), &ClearRequest{})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if len(res.Changes) != 2 || len(res.Snapshot.Selections) != 0 {
		t.Errorf("unexpected clear result: %+v", res)
	}

	res, err = env.engine.Clear(context.Background(), &ClearRequest{})
	if err != nil {
		t.Fatalf("second Clear failed: %v", err)
	}
	if len(res.Changes) != 0 {
		t.Errorf("expected no changes, got %+v", res.Changes)
	}
	if saved := savedPriorities(t, env.states); len(saved) != 0 {
		t.Errorf("expected empty saved plan, got %v", saved)
	}
}

func TestEngine_SaveFailure(t *testing.T) {
	env := newTestEnv(t)
	env.states.saveErr = errors.New("disk full")

	_, err := env.engine.Add(context.Background(), &AddRequest{IDs: []string{"arcade"}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected save error, got %v", err)
	}
	if env.engine.store.Snapshot().IsSelected("arcade") {
		t.Error("expected the store to roll back after a failed save")
	}
}

func TestEngine_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck", "cure")

	res, err := env.engine.Conflicts(context.Background(), &ConflictsRequest{ID: "beck"})
	if err != nil {
		t.Fatalf("Conflicts failed: %v", err)
	}
	if res.Winner {
		t.Error("expected beck to lose")
	}
	if len(res.Conflicts) != 2 || res.Conflicts[0].ID != "arcade" || res.Conflicts[1].ID != "cure" {
		t.Fatalf("unexpected conflicts: %+v", res.Conflicts)
	}
	if res.Conflicts[0].Overlap != 30 || !res.Conflicts[0].Winner {
		t.Errorf("unexpected arcade conflict: %+v", res.Conflicts[0])
	}

	if _, err := env.engine.Conflicts(context.Background(), &ConflictsRequest{ID: "daft"}); !errors.Is(err, ErrNotSelected) {
		t.Errorf("expected ErrNotSelected, got %v", err)
	}
}

func TestEngine_Itinerary(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "daft", "arcade", "beck")

	res, err := env.engine.Itinerary(context.Background(), &ItineraryRequest{})
	if err != nil {
		t.Fatalf("Itinerary failed: %v", err)
	}
	if len(res.Days) != 2 || res.Days[0].Day != catalog.Friday || res.Days[1].Day != catalog.Saturday {
		t.Fatalf("expected Friday then Saturday, got %+v", res.Days)
	}
	fri := res.Days[0].Entries
	if len(fri) != 1 || fri[0].Concert.ID != "arcade" || len(fri[0].Conflicts) != 1 {
		t.Errorf("unexpected Friday entries: %+v", fri)
	}

	res, err = env.engine.Itinerary(context.Background(), &ItineraryRequest{Day: "sat"})
	if err != nil {
		t.Fatalf("Itinerary(sat) failed: %v", err)
	}
	if len(res.Days) != 1 || res.Days[0].Day != catalog.Saturday {
		t.Errorf("expected only Saturday, got %+v", res.Days)
	}

	if _, err := env.engine.Itinerary(context.Background(), &ItineraryRequest{Day: "monday"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestEngine_Status(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck")

	res, err := env.engine.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if res.TotalConcerts != 4 || res.Selected != 2 || res.NotSelected != 2 {
		t.Errorf("unexpected counts: %+v", res)
	}
	if res.Attending != 1 || res.Conflicting != 1 {
		t.Errorf("expected 1 attending and 1 conflicting, got %d/%d", res.Attending, res.Conflicting)
	}
	if res.PriorityCounts[planner.PriorityMustSee] != 1 || res.PriorityCounts[planner.PriorityWant] != 1 {
		t.Errorf("unexpected priority counts: %v", res.PriorityCounts)
	}
	if len(res.Plans) != 1 || res.Plans[0] != "default" {
		t.Errorf("expected plans [default], got %v", res.Plans)
	}
	if res.CatalogChanged {
		t.Error("expected catalog unchanged")
	}
}

func TestEngine_Browse(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade", "beck")

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{name: "all", filter: catalog.Filter{}, want: []string{"arcade", "beck", "cure", "daft"}},
		{name: "artist", filter: catalog.Filter{Artist: "CUR"}, want: []string{"cure"}},
		{name: "day", filter: catalog.Filter{Days: []catalog.Day{catalog.Saturday}}, want: []string{"daft"}},
		{name: "priority", filter: catalog.Filter{Priorities: []int{2}}, want: []string{"beck"}},
		{name: "not selected", filter: catalog.Filter{NotSelected: true}, want: []string{"cure", "daft"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := env.engine.Browse(context.Background(), &BrowseRequest{Filter: tt.filter})
			if err != nil {
				t.Fatalf("Browse failed: %v", err)
			}
			var got []string
			for _, day := range res.Days {
				for _, c := range day.Concerts {
					got = append(got, c.ID)
				}
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") || res.Total != len(tt.want) {
				t.Errorf("got %v (total %d), want %v", got, res.Total, tt.want)
			}
		})
	}

	res, _ := env.engine.Browse(context.Background(), &BrowseRequest{})
	first := res.Days[0].Concerts[0]
	if !first.Selected || !first.Winner || first.Priority != planner.PriorityMustSee {
		t.Errorf("expected arcade annotated as winning must-see, got %+v", first)
	}

	if _, err := env.engine.Browse(context.Background(), &BrowseRequest{Filter: catalog.Filter{Priorities: []int{5}}}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestEngine_LoadRestoresPlan(t *testing.T) {
	states := newMemStateStore()
	first := newTestEnvWith(t, states, "sum-1")
	first.add(t, "arcade", "beck")
	if _, err := first.engine.Swap(context.Background(), &SwapRequest{MainID: "arcade", ConflictID: "beck"}); err != nil {
		t.Fatal(err)
	}

	plan, _ := states.LoadPlan("default")
	plan.Selections = append(plan.Selections, state.SavedSelection{ID: "removed-from-lineup", Priority: 1})
	if err := states.SavePlan(plan); err != nil {
		t.Fatal(err)
	}

	second := newTestEnvWith(t, states, "sum-2")
	snap := second.engine.store.Snapshot()
	if !snap.IsWinner("beck") || snap.IsSelected("removed-from-lineup") {
		t.Errorf("unexpected restored plan: %+v", snap.Selections)
	}

	status, err := second.engine.Status(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !status.CatalogChanged {
		t.Error("expected lineup change to be reported")
	}
	if status.PlanID != plan.ID {
		t.Errorf("expected plan id %s, got %s", plan.ID, status.PlanID)
	}
}

func TestEngine_SwapSurvivesReload(t *testing.T) {
	items := []catalog.Item{
		concert("yeah", catalog.Friday, "09:00", "10:30"),
		concert("lorde", catalog.Friday, "10:10", "11:00"),
		concert("cure", catalog.Friday, "10:40", "11:30"),
		concert("daft", catalog.Saturday, "18:00", "19:00"),
	}
	ctx := context.Background()
	states := newMemStateStore()

	first := newTestEnvItems(t, states, "sum-1", items)
	first.add(t, "yeah", "lorde", "cure")
	for _, id := range []string{"yeah", "cure"} {
		if _, err := first.engine.SetPriority(ctx, &SetPriorityRequest{ID: id, Priority: 1}); err != nil {
			t.Fatalf("SetPriority(%s) failed: %v", id, err)
		}
	}
	res, err := first.engine.Swap(ctx, &SwapRequest{MainID: "cure", ConflictID: "lorde"})
	if err != nil {
		t.Fatalf("Swap failed: %v", err)
	}
	want := strings.Join(res.Snapshot.WinnerIDs, ",")
	if want != "lorde" {
		t.Fatalf("expected lorde to win the swap, got %s", want)
	}
	if plan, _ := states.LoadPlan("default"); plan.LastSwappedID != "lorde" {
		t.Errorf("expected saved last swapped lorde, got %q", plan.LastSwappedID)
	}

	second := newTestEnvItems(t, states, "sum-1", items)
	snap := second.engine.store.Snapshot()
	if got := strings.Join(snap.WinnerIDs, ","); got != want {
		t.Errorf("winners after reload = %s, want %s", got, want)
	}

	// A failed save rolls back to the swapped plan, bias included.
	second.states.saveErr = errors.New("disk full")
	if _, err := second.engine.Add(ctx, &AddRequest{IDs: []string{"daft"}}); err == nil {
		t.Fatal("expected save error")
	}
	if got := strings.Join(second.engine.store.Snapshot().WinnerIDs, ","); got != want {
		t.Errorf("winners after rollback = %s, want %s", got, want)
	}

	// The next saved change drops the bias.
	second.states.saveErr = nil
	second.add(t, "daft")
	plan, _ := states.LoadPlan("default")
	if plan.LastSwappedID != "" {
		t.Errorf("expected last swapped cleared, got %q", plan.LastSwappedID)
	}
	if second.engine.store.Snapshot().IsWinner("lorde") {
		t.Error("expected lorde to lose once the swap bias is gone")
	}
}

func TestEngine_ExportImport(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			env := newTestEnv(t)
			env.add(t, "arcade", "beck", "daft")
			path := filepath.Join(t.TempDir(), "plan"+ext)

			exp, err := env.engine.Export(context.Background(), &ExportRequest{Path: path})
			if err != nil {
				t.Fatalf("Export failed: %v", err)
			}
			if exp.Selections != 3 || exp.Checksum == "" {
				t.Errorf("unexpected export result: %+v", exp)
			}

			if _, err := env.engine.Clear(context.Background(), &ClearRequest{}); err != nil {
				t.Fatal(err)
			}

			imp, err := env.engine.Import(context.Background(), &ImportRequest{Path: path})
			if err != nil {
				t.Fatalf("Import failed: %v", err)
			}
			if imp.Restored != 3 || len(imp.Dropped) != 0 {
				t.Errorf("unexpected import result: %+v", imp)
			}
			if saved := savedPriorities(t, env.states); saved["arcade"] != 1 || saved["beck"] != 2 || saved["daft"] != 1 {
				t.Errorf("unexpected saved priorities: %v", saved)
			}
		})
	}
}

func TestEngine_ImportTampered(t *testing.T) {
	env := newTestEnv(t)
	env.add(t, "arcade")
	path := filepath.Join(t.TempDir(), "plan.json")
	if _, err := env.engine.Export(context.Background(), &ExportRequest{Path: path}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), `"priority": 1`, `"priority": 3`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := env.engine.Import(context.Background(), &ImportRequest{Path: path}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestEngine_ImportMissing(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "absent.json")
	if _, err := env.engine.Import(context.Background(), &ImportRequest{Path: path}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEngine_ImportErrorKinds(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	unreadable := filepath.Join(dir, "unreadable.json")
	if err := os.Mkdir(unreadable, 0755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name           string
		path           string
		wantValidation bool
	}{
		{name: "undecodable", path: garbage, wantValidation: true},
		{name: "read failure", path: unreadable, wantValidation: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.engine.Import(context.Background(), &ImportRequest{Path: tt.path})
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrValidation); got != tt.wantValidation {
				t.Errorf("errors.Is(ErrValidation) = %v, want %v (err: %v)", got, tt.wantValidation, err)
			}
			if !tt.wantValidation && errors.Is(err, ErrNotFound) {
				t.Errorf("read failure reported as not found: %v", err)
			}
		})
	}
}

func TestEngine_ConcurrentRequests(t *testing.T) {
	env := newTestEnv(t)
	ids := []string{"arcade", "beck", "cure", "daft"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = env.engine.Add(context.Background(), &AddRequest{IDs: []string{ids[i%len(ids)]}})
			_, _ = env.engine.Status(context.Background())
		}(i)
	}
	wg.Wait()

	snap := env.engine.store.Snapshot()
	saved := savedPriorities(t, env.states)
	if len(saved) != len(snap.Selections) {
		t.Errorf("saved plan %v out of sync with %d selections", saved, len(snap.Selections))
	}
}

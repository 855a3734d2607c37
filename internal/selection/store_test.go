package selection

import (
	"fmt"
	"sync"
	"testing"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/planner"
)

// fakeCatalog is an in-memory Catalog for testing
type fakeCatalog struct {
	items map[string]catalog.Item
	total int
}

func (c *fakeCatalog) Get(id string) (catalog.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *fakeCatalog) Len() int { return c.total }

func newFakeCatalog(items ...catalog.Item) *fakeCatalog {
	c := &fakeCatalog{items: make(map[string]catalog.Item), total: len(items) + 2}
	for _, item := range items {
		c.items[item.ID] = item
	}
	return c
}

func item(id string, day catalog.Day, start, end string) catalog.Item {
	s, _ := catalog.ParseTimeOfDay(start)
	e, _ := catalog.ParseTimeOfDay(end)
	return catalog.Item{ID: id, Day: day, Stage: "Main", Artist: id, Start: s, End: e}
}

var (
	itemA = item("A", catalog.Friday, "10:00", "11:00")
	itemB = item("B", catalog.Friday, "10:30", "11:30")
	itemC = item("C", catalog.Friday, "10:45", "11:15")
	itemD = item("D", catalog.Saturday, "18:00", "19:00")
)

func newTestStore() *Store {
	return New(newFakeCatalog(itemA, itemB, itemC, itemD))
}

func mustPriority(t *testing.T, snap Snapshot, id string) planner.Priority {
	t.Helper()
	p, ok := snap.PriorityOf(id)
	if !ok {
		t.Fatalf("%s is not selected", id)
	}
	return p
}

func checkInvariants(t *testing.T, s *Store, snap Snapshot) {
	t.Helper()
	if snap.PriorityCounts.Total() != len(snap.Selections) {
		t.Errorf("priority counts %v do not add up to %d selections", snap.PriorityCounts, len(snap.Selections))
	}
	if snap.NotSelectedCount+len(snap.Selections) != s.catalog.Len() {
		t.Errorf("notSelected %d + selections %d != total %d", snap.NotSelectedCount, len(snap.Selections), s.catalog.Len())
	}
	for _, x := range snap.WinnerIDs {
		for _, y := range snap.WinnerIDs {
			xs, _ := snap.Get(x)
			ys, _ := snap.Get(y)
			if x != y && planner.Conflicts(xs.Item, ys.Item) {
				t.Errorf("winners %s and %s conflict", x, y)
			}
		}
	}
}

func TestStore_AddConflictingPair(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	snap := s.Add(itemB)
	checkInvariants(t, s, snap)

	if mustPriority(t, snap, "A") != planner.PriorityMustSee {
		t.Errorf("expected A=1")
	}
	if mustPriority(t, snap, "B") != planner.PriorityWant {
		t.Errorf("expected B=2")
	}
	if len(snap.WinnerIDs) != 1 || snap.WinnerIDs[0] != "A" {
		t.Errorf("expected winners [A], got %v", snap.WinnerIDs)
	}

	conflicts := s.ConflictsOf("B")
	if len(conflicts) != 1 || conflicts[0].ID != "A" {
		t.Errorf("expected conflictsOf(B) = [A], got %v", conflicts)
	}
	if snap.ConflictCount != 1 {
		t.Errorf("expected 1 conflict, got %d", snap.ConflictCount)
	}
}

func TestStore_AddAutoPriority(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	s.Add(itemB)
	snap := s.Add(itemC)

	// C overlaps A by exactly 15 minutes, so only B counts.
	if got := mustPriority(t, snap, "C"); got != planner.PriorityMustSee {
		t.Errorf("expected C=1, got %d", got)
	}
}

func TestStore_AddToggles(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	snap := s.Add(itemA)

	if snap.IsSelected("A") {
		t.Error("expected second Add to deselect A")
	}
	checkInvariants(t, s, snap)
}

func TestStore_AddUnknownItem(t *testing.T) {
	s := newTestStore()
	before := s.Snapshot()
	snap := s.Add(item("ghost", catalog.Friday, "10:00", "11:00"))

	if len(snap.Selections) != len(before.Selections) {
		t.Error("expected unknown item to be ignored")
	}
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	s.Add(itemB)
	s.SetPriority("B", planner.PriorityMaybe)
	snap := s.Remove("A")
	checkInvariants(t, s, snap)

	if snap.IsSelected("A") || snap.IsWinner("A") {
		t.Error("expected A to be gone")
	}
	if got := mustPriority(t, snap, "B"); got != planner.PriorityMustSee {
		t.Errorf("expected B promoted to 1, got %d", got)
	}
	if !snap.IsWinner("B") {
		t.Error("expected B to win once A is gone")
	}

	again := s.Remove("A")
	if len(again.Selections) != 1 {
		t.Errorf("expected removing an unselected id to be a no-op")
	}
}

func TestStore_SetPriority(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	s.Add(itemB)
	snap := s.SetPriority("B", planner.PriorityMustSee)
	checkInvariants(t, s, snap)

	if got := mustPriority(t, snap, "B"); got != planner.PriorityMustSee {
		t.Errorf("expected B=1, got %d", got)
	}
	if got := mustPriority(t, snap, "A"); got != planner.PriorityWant {
		t.Errorf("expected A=2, got %d", got)
	}
	if !snap.IsWinner("B") {
		t.Error("expected B to win")
	}
}

func TestStore_SetPriority_Rejected(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)

	tests := []struct {
		name string
		id   string
		p    planner.Priority
	}{
		{name: "zero", id: "A", p: 0},
		{name: "four", id: "A", p: 4},
		{name: "unselected", id: "B", p: planner.PriorityMustSee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := s.SetPriority(tt.id, tt.p)
			if got := mustPriority(t, snap, "A"); got != planner.PriorityMustSee {
				t.Errorf("expected A unchanged at 1, got %d", got)
			}
			if snap.IsSelected("B") {
				t.Error("expected B to stay unselected")
			}
		})
	}
}

func TestStore_Swap(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	s.Add(itemB)
	snap := s.Swap("A", "B")
	checkInvariants(t, s, snap)

	if got := mustPriority(t, snap, "B"); got != planner.PriorityMustSee {
		t.Errorf("expected B=1, got %d", got)
	}
	if got := mustPriority(t, snap, "A"); got != planner.PriorityWant && got != planner.PriorityMaybe {
		t.Errorf("expected A in {2,3}, got %d", got)
	}
	if !snap.IsWinner("B") || snap.IsWinner("A") {
		t.Errorf("expected B to win, got %v", snap.WinnerIDs)
	}
	if snap.LastSwappedID != "B" {
		t.Errorf("expected last swapped B, got %q", snap.LastSwappedID)
	}

	// The swapped priorities persist into later recomputations.
	next := s.Add(itemD)
	if !next.IsWinner("B") || next.LastSwappedID != "" {
		t.Errorf("expected B to keep winning without bias, got %v", next.WinnerIDs)
	}
}

func TestStore_Swap_NoOp(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)

	snap := s.Swap("A", "B")
	if got := mustPriority(t, snap, "A"); got != planner.PriorityMustSee {
		t.Errorf("expected A unchanged, got %d", got)
	}
	if snap.LastSwappedID != "" {
		t.Errorf("expected no swap, got %q", snap.LastSwappedID)
	}
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore()
	s.Add(itemA)
	s.Add(itemD)

	for i := 0; i < 2; i++ {
		snap := s.Clear()
		if len(snap.Selections) != 0 || len(snap.WinnerIDs) != 0 || len(snap.Itinerary) != 0 {
			t.Errorf("clear #%d: expected empty plan, got %+v", i, snap)
		}
		checkInvariants(t, s, snap)
	}
}

func TestStore_Restore(t *testing.T) {
	s := newTestStore()
	snap, dropped := s.Restore([]Entry{
		{ID: "A", Priority: 2},
		{ID: "B", Priority: 1},
		{ID: "ghost", Priority: 1},
		{ID: "A", Priority: 3},
		{ID: "D", Priority: 9},
		{ID: "C", Priority: -1},
	}, "")
	checkInvariants(t, s, snap)

	if len(dropped) != 2 {
		t.Errorf("expected 2 dropped entries, got %v", dropped)
	}

	want := map[string]planner.Priority{"A": 2, "B": 1, "D": 3, "C": 1}
	for id, p := range want {
		if got := mustPriority(t, snap, id); got != p {
			t.Errorf("%s: expected %d, got %d", id, p, got)
		}
	}

	entries := s.Entries()
	if len(entries) != 4 || entries[0].ID != "A" || entries[1].ID != "B" {
		t.Errorf("expected insertion order preserved, got %v", entries)
	}
}

func TestStore_RestoreLastSwapped(t *testing.T) {
	yeah := item("yeah", catalog.Friday, "09:00", "10:30")
	lorde := item("lorde", catalog.Friday, "10:10", "11:00")
	cure := item("cure", catalog.Friday, "10:40", "11:30")
	newStore := func() *Store {
		return New(newFakeCatalog(yeah, lorde, cure, itemD))
	}

	// The plan a swap of cure for lorde leaves behind.
	swapped := newStore()
	swapped.Add(yeah)
	swapped.Add(lorde)
	swapped.Add(cure)
	swapped.SetPriority("yeah", planner.PriorityMustSee)
	swapped.SetPriority("cure", planner.PriorityMustSee)
	after := swapped.Swap("cure", "lorde")
	if fmt.Sprint(after.WinnerIDs) != "[lorde]" {
		t.Fatalf("expected lorde to win the swap, got %v", after.WinnerIDs)
	}

	tests := []struct {
		name          string
		lastSwappedID string
		wantWinners   string
		wantSwapped   string
	}{
		{"bias restored", "lorde", "[lorde]", "lorde"},
		{"no swap", "", "[yeah cure]", ""},
		{"swapped id dropped", "ghost", "[yeah cure]", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			snap, _ := s.Restore(EntriesOf(after), tt.lastSwappedID)
			checkInvariants(t, s, snap)
			if got := fmt.Sprint(snap.WinnerIDs); got != tt.wantWinners {
				t.Errorf("winners = %s, want %s", got, tt.wantWinners)
			}
			if snap.LastSwappedID != tt.wantSwapped {
				t.Errorf("LastSwappedID = %q, want %q", snap.LastSwappedID, tt.wantSwapped)
			}
		})
	}

	// The next mutation recomputes without the bias.
	s := newStore()
	s.Restore(EntriesOf(after), "lorde")
	next := s.Add(itemD)
	if next.LastSwappedID != "" || next.IsWinner("lorde") {
		t.Errorf("expected bias to be cleared, got winners %v", next.WinnerIDs)
	}
}

func TestStore_Subscribe(t *testing.T) {
	s := newTestStore()

	var got []int
	cancel := s.Subscribe(func(snap Snapshot) {
		got = append(got, len(snap.Selections))
		// The lock is released before subscribers run.
		_ = s.Snapshot()
	})

	s.Add(itemA)
	s.Add(itemB)
	s.SetPriority("A", 9)
	cancel()
	s.Add(itemD)

	if fmt.Sprint(got) != "[1 2]" {
		t.Errorf("expected notifications [1 2], got %v", got)
	}
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := newTestStore()
	items := []catalog.Item{itemA, itemB, itemC, itemD}

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			it := items[i%len(items)]
			s.Add(it)
			s.SetPriority(it.ID, planner.Priority(i%3+1))
		}(i)
	}
	wg.Wait()

	checkInvariants(t, s, s.Snapshot())
}

func TestSnapshot_ConflictsOfUnknown(t *testing.T) {
	s := newTestStore()
	if got := s.ConflictsOf("nope"); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

// Package selection owns the user's plan: the canonical collection of
// selected concerts and everything derived from it.
//
// Every mutation runs under a single lock, recomputes the winner set, the
// itinerary and the counters, and returns the resulting Snapshot. The store
// performs no I/O; persisting the (id, priority) pairs is left to the caller.
package selection

import (
	"slices"
	"sync"

	"github.com/danieljhkim/festplan/internal/catalog"
	"github.com/danieljhkim/festplan/internal/planner"
)

// Catalog is the lineup the store validates selections against.
type Catalog interface {
	Get(id string) (catalog.Item, bool)
	Len() int
}

// Entry is a persisted (id, priority) pair.
type Entry struct {
	ID       string `json:"id"`
	Priority int    `json:"priority"`
}

// Store holds the selection collection.
type Store struct {
	catalog Catalog

	mu   sync.Mutex
	sels []planner.Selection
	snap Snapshot

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Snapshot)
}

// New creates an empty store over cat.
func New(cat Catalog) *Store {
	s := &Store{
		catalog: cat,
		subs:    make(map[int]func(Snapshot)),
	}
	s.snap = newSnapshot(nil, cat.Len(), nil)
	return s
}

// Add toggles the selection of item. An already selected item is removed as
// by Remove; otherwise it is added with an automatically chosen priority.
// Items that are not in the catalog are ignored.
func (s *Store) Add(item catalog.Item) Snapshot {
	return s.mutate(func(sels []planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		if slices.ContainsFunc(sels, func(sel planner.Selection) bool { return sel.ID == item.ID }) {
			return removeSelection(sels, item.ID)
		}
		known, ok := s.catalog.Get(item.ID)
		if !ok {
			return sels, nil, false
		}
		p := planner.AutoPriority(known, sels)
		return append(slices.Clone(sels), planner.Selection{Item: known, Priority: p}), nil, true
	})
}

// Remove deselects id. Selections that conflicted with it are promoted so
// their priorities run 1, 2, 3 in their existing order.
func (s *Store) Remove(id string) Snapshot {
	return s.mutate(func(sels []planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		return removeSelection(sels, id)
	})
}

func removeSelection(sels []planner.Selection, id string) ([]planner.Selection, *planner.Bias, bool) {
	i := slices.IndexFunc(sels, func(sel planner.Selection) bool { return sel.ID == id })
	if i < 0 {
		return sels, nil, false
	}
	removed := sels[i].Item
	rest := slices.Delete(slices.Clone(sels), i, i+1)
	return planner.CompactAfterRemove(removed, rest), nil, true
}

// SetPriority forces the priority of id and pushes down its direct
// conflicts. Unknown ids and priorities outside 1-3 are ignored.
func (s *Store) SetPriority(id string, p planner.Priority) Snapshot {
	return s.mutate(func(sels []planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		if !p.Valid() || !slices.ContainsFunc(sels, func(sel planner.Selection) bool { return sel.ID == id }) {
			return sels, nil, false
		}
		return planner.ForcePriorities(sels, map[string]planner.Priority{id: p}), nil, true
	})
}

// Swap promotes loserID over mainID and guarantees loserID wins the
// recomputation that follows. It is ignored when either id is not selected
// or both are the same.
func (s *Store) Swap(mainID, loserID string) Snapshot {
	return s.mutate(func(sels []planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		return planner.SwapPriorities(sels, mainID, loserID)
	})
}

// Clear removes every selection.
func (s *Store) Clear() Snapshot {
	return s.mutate(func(sels []planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		return nil, nil, true
	})
}

// Restore replaces the collection with persisted entries. Entries whose id is
// not in the catalog, or that repeat an earlier id, are dropped and returned.
// Priorities are clamped to 1-3.
//
// lastSwappedID, when set and still selected, re-applies the ranking bias of
// the swap that produced the persisted plan, so the restored winners match the
// ones the swap reported.
func (s *Store) Restore(entries []Entry, lastSwappedID string) (Snapshot, []Entry) {
	var dropped []Entry
	snap := s.mutate(func([]planner.Selection) ([]planner.Selection, *planner.Bias, bool) {
		sels := make([]planner.Selection, 0, len(entries))
		seen := make(map[string]bool, len(entries))
		for _, e := range entries {
			item, ok := s.catalog.Get(e.ID)
			if !ok || seen[e.ID] {
				dropped = append(dropped, e)
				continue
			}
			seen[e.ID] = true
			sels = append(sels, planner.Selection{Item: item, Priority: planner.ClampPriority(e.Priority)})
		}

		var bias *planner.Bias
		if lastSwappedID != "" && seen[lastSwappedID] {
			bias = &planner.Bias{PromotedID: lastSwappedID}
		}
		return sels, bias, true
	})
	return snap, dropped
}

// ConflictsOf returns the selections conflicting with id. It is empty when
// id is not selected.
func (s *Store) ConflictsOf(id string) []planner.Selection {
	return s.Snapshot().Conflicts(id)
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Entries returns the current (id, priority) pairs in insertion order.
func (s *Store) Entries() []Entry {
	return EntriesOf(s.Snapshot())
}

// EntriesOf extracts the persisted form of snap.
func EntriesOf(snap Snapshot) []Entry {
	out := make([]Entry, len(snap.Selections))
	for i, sel := range snap.Selections {
		out[i] = Entry{ID: sel.ID, Priority: int(sel.Priority)}
	}
	return out
}

// Subscribe registers fn to be called with every snapshot produced by a
// mutation. Calls happen synchronously on the mutating goroutine, after the
// store lock is released. The returned function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// mutate applies fn to the collection and recomputes the snapshot. When fn
// reports no change the current snapshot is returned as is.
func (s *Store) mutate(fn func([]planner.Selection) ([]planner.Selection, *planner.Bias, bool)) Snapshot {
	s.mu.Lock()
	next, bias, changed := fn(s.sels)
	if !changed {
		snap := s.snap
		s.mu.Unlock()
		return snap
	}
	s.sels = next
	s.snap = newSnapshot(next, s.catalog.Len(), bias)
	snap := s.snap
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(Snapshot), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

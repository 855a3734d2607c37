// Package state persists festival plans.
//
// A Plan records only what cannot be recomputed: the (id, priority) pair of
// every selection, in the order the selections were made, plus metadata used
// to detect a lineup that changed underneath the plan. Winners, conflicts and
// itineraries are always rebuilt from the catalog on load.
//
// Key concepts:
//   - Plan: the persisted form of one named plan
//   - StateStore: loads and saves plans by name
//   - FileStateStore: one JSON file per plan, written atomically
//   - DiskvStateStore: plans as diskv keys
//   - SQLiteStateStore: plans and selections as SQLite rows
package state

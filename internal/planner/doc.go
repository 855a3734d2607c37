// Package planner decides which selected concerts can actually be attended.
//
// Everything in this package is a pure function of a selection collection. The
// planner never stores state: callers hand it the current selections and get
// back a freshly computed result.
//
// Key responsibilities:
//   - Detect conflicts (same day, overlap beyond ConflictTolerance)
//   - Select winners with a priority-first greedy pass
//   - Rebalance priorities after a forced change or a new selection
//   - Promote a losing conflict over a winner (swap) with a one-shot bias
//   - Build the day-grouped itinerary of winners and their losing conflicts
package planner

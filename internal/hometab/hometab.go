// Package hometab orders home tabs and widget placements.
//
// Every function here is pure: inputs are never mutated, results are fresh
// slices. Persisting a new order is the caller's job.
package hometab

import (
	"errors"
	"fmt"
	"sort"

	"jupiter-cli/internal/model"
)

// ErrInvariantViolation marks a data-consistency bug between what is displayed and
// what is persisted (e.g. a tab missing from its order list). It is not retryable;
// callers should resync.
var ErrInvariantViolation = errors.New("invariant violation")

type InvariantViolationError struct {
	Kind string
	ID   model.EntityID
	What string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s %s %s", e.Kind, e.ID, e.What)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

func indexOf(order []model.EntityID, id model.EntityID) int {
	for i, x := range order {
		if x == id {
			return i
		}
	}
	return -1
}

// SortTabsByOrder returns tabs stably sorted by the position of their ref id in order.
//
// Tabs absent from order get position -1 and so sort ahead of every listed tab.
func SortTabsByOrder(tabs []model.HomeTab, order []model.EntityID) []model.HomeTab {
	out := append([]model.HomeTab{}, tabs...)
	sort.SliceStable(out, func(i, j int) bool {
		return indexOf(order, out[i].RefID) < indexOf(order, out[j].RefID)
	})
	return out
}

// SortAndFilterTabsByTarget keeps the tabs laid out for target and orders them by
// the config's order list for that target.
func SortAndFilterTabsByTarget(cfg model.HomeConfig, target model.HomeTabTarget, tabs []model.HomeTab) []model.HomeTab {
	filtered := make([]model.HomeTab, 0, len(tabs))
	for _, t := range tabs {
		if t.Target == target {
			filtered = append(filtered, t)
		}
	}
	return SortTabsByOrder(filtered, cfg.OrderFor(target))
}

// ShiftTabUp swaps tab with its predecessor in order. Already-first tabs yield an
// unchanged copy.
func ShiftTabUp(tab model.HomeTab, order []model.EntityID) ([]model.EntityID, error) {
	idx := indexOf(order, tab.RefID)
	if idx < 0 {
		return nil, &InvariantViolationError{Kind: "home tab", ID: tab.RefID, What: "is missing from the order list"}
	}
	out := append([]model.EntityID{}, order...)
	if idx == 0 {
		return out, nil
	}
	out[idx-1], out[idx] = out[idx], out[idx-1]
	return out, nil
}

// ShiftTabDown swaps tab with its successor in order. Already-last tabs yield an
// unchanged copy.
func ShiftTabDown(tab model.HomeTab, order []model.EntityID) ([]model.EntityID, error) {
	idx := indexOf(order, tab.RefID)
	if idx < 0 {
		return nil, &InvariantViolationError{Kind: "home tab", ID: tab.RefID, What: "is missing from the order list"}
	}
	out := append([]model.EntityID{}, order...)
	if idx == len(out)-1 {
		return out, nil
	}
	out[idx+1], out[idx] = out[idx], out[idx+1]
	return out, nil
}

// ReconcileOrder repairs an order list against the tabs it should describe:
// unknown and duplicate ids are dropped and unlisted tabs are appended in input order.
// The bool reports whether anything changed.
func ReconcileOrder(tabs []model.HomeTab, order []model.EntityID) ([]model.EntityID, bool) {
	known := make(map[model.EntityID]bool, len(tabs))
	for _, t := range tabs {
		known[t.RefID] = true
	}
	out := make([]model.EntityID, 0, len(tabs))
	seen := make(map[model.EntityID]bool, len(tabs))
	for _, id := range order {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, t := range tabs {
		if seen[t.RefID] {
			continue
		}
		seen[t.RefID] = true
		out = append(out, t.RefID)
	}
	changed := len(out) != len(order)
	if !changed {
		for i := range out {
			if out[i] != order[i] {
				changed = true
				break
			}
		}
	}
	return out, changed
}

// ValidateOrder reports the first id listed more than once.
func ValidateOrder(order []model.EntityID) error {
	seen := make(map[model.EntityID]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return &InvariantViolationError{Kind: "home tab", ID: id, What: "appears more than once in the order list"}
		}
		seen[id] = true
	}
	return nil
}

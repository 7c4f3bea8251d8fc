// Package ordering implements position bookkeeping for ordered collections:
// moving one member of a collection onto the slot of another and renumbering
// the result to dense 1-based positions.
package ordering

import (
	"github.com/pkg/errors"
)

// Entry is one member of an ordered collection.
type Entry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// MoveEvent says "put MovedID where TargetID currently is".
type MoveEvent struct {
	MovedID  string `json:"moved_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
}

// Validate checks the event without requiring a validator instance.
func (ev MoveEvent) Validate() error {
	if ev.MovedID == "" {
		return errors.WithStack(&InvalidReferenceError{Reason: "moved id is required"})
	}
	if ev.TargetID == "" {
		return errors.WithStack(&InvalidReferenceError{Reason: "target id is required"})
	}
	return nil
}

// IsNoop reports whether applying the event leaves any collection unchanged.
func (ev MoveEvent) IsNoop() bool {
	return ev.MovedID == ev.TargetID
}

// IndexOf returns the index of id in ids, or -1.
func IndexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// Move removes `moved` from ids and reinserts it at the index `target` occupied,
// shifting the entries in between by one. ids is never modified.
func Move(ids []string, moved, target string) ([]string, error) {
	from := IndexOf(ids, moved)
	if from < 0 {
		return nil, errors.WithStack(&InvalidReferenceError{ID: moved})
	}
	to := IndexOf(ids, target)
	if to < 0 {
		return nil, errors.WithStack(&InvalidReferenceError{ID: target})
	}

	out := make([]string, 0, len(ids))
	if from == to {
		return append(out, ids...), nil
	}
	for i, id := range ids {
		if i == from {
			continue
		}
		if i == to && to < from {
			out = append(out, moved)
		}
		out = append(out, id)
		if i == to && to > from {
			out = append(out, moved)
		}
	}
	return out, nil
}

// Arrange checks that desired is a permutation of current.
func Arrange(current, desired []string) error {
	if len(desired) != len(current) {
		for _, id := range current {
			if IndexOf(desired, id) < 0 {
				return errors.WithStack(&InvalidReferenceError{ID: id, Reason: "missing from new order"})
			}
		}
	}

	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(desired))
	for _, id := range desired {
		if !known[id] {
			return errors.WithStack(&InvalidReferenceError{ID: id})
		}
		if seen[id] {
			return errors.WithStack(&InvalidReferenceError{ID: id, Reason: "listed more than once"})
		}
		seen[id] = true
	}
	if len(desired) != len(current) {
		return errors.WithStack(&InvalidReferenceError{Reason: "new order does not cover the collection"})
	}
	return nil
}

// Positions assigns dense 1-based positions in slice order.
func Positions(ids []string) []Entry {
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ID: id, Position: i + 1}
	}
	return entries
}

// IDs lists the entry ids in slice order.
func IDs(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// IsDense reports whether entries hold exactly the positions 1..N in slice order.
func IsDense(entries []Entry) bool {
	for i, e := range entries {
		if e.Position != i+1 {
			return false
		}
	}
	return true
}

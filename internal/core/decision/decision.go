// Package decision tracks the user's verdict on each suggested rewrite.
//
// A Set is a plain value: every mutation helper returns a new Set and leaves
// the receiver untouched, so a recomputation always sees a consistent
// snapshot. Store layers document identity on top of a Set.
package decision

import (
	"fmt"
	"maps"
	"slices"
)

// Decision is the tri-state verdict for one suggestion.
type Decision string

const (
	Undecided Decision = "undecided"
	Accepted  Decision = "accepted"
	Rejected  Decision = "rejected"
)

// Parse converts user input into a Decision. "clear" is accepted as an
// alias for Undecided.
func Parse(s string) (Decision, error) {
	switch s {
	case "undecided", "clear", "":
		return Undecided, nil
	case "accepted", "accept":
		return Accepted, nil
	case "rejected", "reject":
		return Rejected, nil
	default:
		return "", fmt.Errorf("unknown decision %q", s)
	}
}

// Valid reports whether d is one of the three states.
func (d Decision) Valid() bool {
	switch d {
	case Undecided, Accepted, Rejected:
		return true
	default:
		return false
	}
}

// CanTransition reports whether moving from one state to another is allowed.
// Every pair of valid states is reachable: undecided to accepted or rejected,
// either verdict back to undecided, and a direct accepted/rejected swap.
// There is no terminal state.
func CanTransition(from, to Decision) bool {
	return from.Valid() && to.Valid()
}

// Toggle returns the state that results from the user selecting target when
// the suggestion is currently in state current. Selecting the active verdict
// again clears it.
func Toggle(current, target Decision) Decision {
	if current == target {
		return Undecided
	}
	return target
}

// Set maps suggestion ids to decisions. Missing ids are Undecided.
type Set map[string]Decision

// Get returns the decision for id.
func (s Set) Get(id string) Decision {
	if d, ok := s[id]; ok && d.Valid() {
		return d
	}
	return Undecided
}

// With returns a copy of s with id set to d. Undecided entries are removed
// so that equal states compare equal.
func (s Set) With(id string, d Decision) Set {
	next := s.Clone()
	if d == Undecided {
		delete(next, id)
	} else {
		next[id] = d
	}
	return next
}

// Clone returns an independent copy of s. Invalid and Undecided entries are
// dropped.
func (s Set) Clone() Set {
	next := make(Set, len(s))
	for id, d := range s {
		if d.Valid() && d != Undecided {
			next[id] = d
		}
	}
	return next
}

// HasAccepted reports whether at least one suggestion is accepted.
func (s Set) HasAccepted() bool {
	for _, d := range s {
		if d == Accepted {
			return true
		}
	}
	return false
}

// Accepted returns the accepted ids in sorted order.
func (s Set) Accepted() []string {
	return s.idsWith(Accepted)
}

// Rejected returns the rejected ids in sorted order.
func (s Set) Rejected() []string {
	return s.idsWith(Rejected)
}

func (s Set) idsWith(want Decision) []string {
	var ids []string
	for _, id := range slices.Sorted(maps.Keys(s)) {
		if s[id] == want {
			ids = append(ids, id)
		}
	}
	return ids
}

package decision

import "fmt"

// Change describes the outcome of a single mutation.
type Change struct {
	ID   string
	From Decision
	To   Decision

	// Changed is false when the mutation left the state as it was.
	Changed bool

	// Project is true when, after the mutation, at least one suggestion is
	// accepted and the edited text has to be regenerated from the base
	// text. When false the caller renders the base text directly.
	Project bool
}

// Store holds the decision set for the document currently under review.
// A Store is not safe for concurrent use; callers serialize mutations and
// hand Snapshot values to the projection, which never touches the Store.
type Store struct {
	documentID  string
	contentHash string
	decisions   Set
}

// NewStore returns an empty store bound to no document.
func NewStore() *Store {
	return &Store{decisions: Set{}}
}

// Restore returns a store bound to a document with previously recorded
// decisions.
func Restore(documentID, contentHash string, decisions Set) *Store {
	return &Store{
		documentID:  documentID,
		contentHash: contentHash,
		decisions:   decisions.Clone(),
	}
}

// Bind associates the store with a document identity. If the identity
// differs from the current one, all decisions are discarded. Reports whether
// a reset happened.
func (s *Store) Bind(documentID, contentHash string) bool {
	if s.documentID == documentID && s.contentHash == contentHash {
		return false
	}

	reset := len(s.decisions) > 0
	s.documentID = documentID
	s.contentHash = contentHash
	s.decisions = Set{}
	return reset
}

// DocumentID returns the bound document id.
func (s *Store) DocumentID() string {
	return s.documentID
}

// ContentHash returns the bound content hash.
func (s *Store) ContentHash() string {
	return s.contentHash
}

// Get returns the decision for id.
func (s *Store) Get(id string) Decision {
	return s.decisions.Get(id)
}

// Set moves id to the target state.
func (s *Store) Set(id string, to Decision) (Change, error) {
	from := s.decisions.Get(id)
	if !CanTransition(from, to) {
		return Change{}, fmt.Errorf("invalid transition for %s: %s -> %s", id, from, to)
	}

	s.decisions = s.decisions.With(id, to)
	return s.change(id, from, to), nil
}

// Toggle applies the accept/reject button semantics: selecting the active
// verdict again clears it.
func (s *Store) Toggle(id string, target Decision) (Change, error) {
	return s.Set(id, Toggle(s.decisions.Get(id), target))
}

// Clear returns id to Undecided.
func (s *Store) Clear(id string) Change {
	from := s.decisions.Get(id)
	s.decisions = s.decisions.With(id, Undecided)
	return s.change(id, from, Undecided)
}

// Discard drops every decision while keeping the document binding.
func (s *Store) Discard() {
	s.decisions = Set{}
}

// Snapshot returns a copy of the current decisions.
func (s *Store) Snapshot() Set {
	return s.decisions.Clone()
}

func (s *Store) change(id string, from, to Decision) Change {
	return Change{
		ID:      id,
		From:    from,
		To:      to,
		Changed: from != to,
		Project: s.decisions.HasAccepted(),
	}
}

package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/validate"
)

// ErrDocumentMismatch is returned when a decision file holds a session for
// a different document than the one requested.
var ErrDocumentMismatch = errors.New("decision file belongs to another document")

// DecisionStore implements review.Store with one JSON file per document.
type DecisionStore struct {
	dir string
	now func() time.Time
	mu  sync.RWMutex
}

var _ review.Store = (*DecisionStore)(nil)

// NewDecisionStore creates a store that keeps decision files in dir.
func NewDecisionStore(dir string) *DecisionStore {
	return &DecisionStore{dir: dir, now: time.Now}
}

// Path returns the file a document's session is stored in.
func (s *DecisionStore) Path(documentID string) string {
	return filepath.Join(s.dir, fileName(documentID))
}

// GetSession returns the session recorded for a document.
func (s *DecisionStore) GetSession(ctx context.Context, documentID string) (review.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(documentID)
}

// SaveSession writes the session. A missing session id is generated and
// timestamps are maintained by the store.
func (s *DecisionStore) SaveSession(ctx context.Context, session review.Session) error {
	if err := validate.DocumentID(session.DocumentID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	session.Decisions = session.Decisions.Clone()

	return s.save(session)
}

// DeleteSession removes the decision file for a document.
func (s *DecisionStore) DeleteSession(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(documentID); err != nil {
		return err
	}

	if err := os.Remove(s.Path(documentID)); err != nil {
		return fmt.Errorf("delete decision file: %w", err)
	}
	return nil
}

// load reads the decision file for documentID.
// Returns review.ErrSessionNotFound if the file doesn't exist or is empty.
func (s *DecisionStore) load(documentID string) (review.Session, error) {
	data, err := os.ReadFile(s.Path(documentID))
	if err != nil {
		if os.IsNotExist(err) {
			return review.Session{}, review.ErrSessionNotFound
		}
		return review.Session{}, fmt.Errorf("read decision file: %w", err)
	}

	if len(data) == 0 {
		return review.Session{}, review.ErrSessionNotFound
	}

	var session review.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return review.Session{}, fmt.Errorf("parse decision file: %w", err)
	}

	if session.DocumentID != documentID {
		return review.Session{}, fmt.Errorf("%w: want %q, found %q", ErrDocumentMismatch, documentID, session.DocumentID)
	}

	session.Decisions = session.Decisions.Clone()
	return session, nil
}

// save writes the decision file to disk atomically.
func (s *DecisionStore) save(session review.Session) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create decisions dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	path := s.Path(session.DocumentID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write decision file: %w", err)
	}

	return os.Rename(tmp, path)
}

// fileName maps a document id to a safe file name. The sanitized id keeps
// the file recognizable; the hash suffix keeps ids that sanitize alike apart.
func fileName(documentID string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, documentID)

	name = strings.Trim(name, ".")
	if name == "" {
		name = "_"
	}
	return name + "-" + review.ContentHash(documentID)[:hashLen] + ".json"
}

const hashLen = 12

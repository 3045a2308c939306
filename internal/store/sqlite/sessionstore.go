package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/review"
	"github.com/colonyops/redline/internal/core/validate"
)

// SessionStore implements review.Store with one row per document and one
// row per decided suggestion.
type SessionStore struct {
	db  *DB
	now func() time.Time
}

var _ review.Store = (*SessionStore)(nil)

// NewSessionStore creates a store backed by db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// GetSession returns the session recorded for a document.
func (s *SessionStore) GetSession(ctx context.Context, documentID string) (review.Session, error) {
	session := review.Session{DocumentID: documentID}

	var created, updated int64
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT session_id, content_hash, created_at, updated_at
		FROM review_sessions WHERE document_id = ?`, documentID,
	).Scan(&session.ID, &session.ContentHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return review.Session{}, review.ErrSessionNotFound
	}
	if err != nil {
		return review.Session{}, fmt.Errorf("get session: %w", err)
	}
	session.CreatedAt = time.Unix(0, created).UTC()
	session.UpdatedAt = time.Unix(0, updated).UTC()

	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT suggestion_id, state FROM review_decisions WHERE document_id = ?`, documentID)
	if err != nil {
		return review.Session{}, fmt.Errorf("get decisions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	decisions := decision.Set{}
	for rows.Next() {
		var id, state string
		if err := rows.Scan(&id, &state); err != nil {
			return review.Session{}, fmt.Errorf("scan decision: %w", err)
		}
		decisions[id] = decision.Decision(state)
	}
	if err := rows.Err(); err != nil {
		return review.Session{}, fmt.Errorf("get decisions: %w", err)
	}

	session.Decisions = decisions.Clone()
	return session, nil
}

// SaveSession writes the session and replaces its decisions. A missing
// session id is generated and timestamps are maintained by the store.
func (s *SessionStore) SaveSession(ctx context.Context, session review.Session) error {
	if err := validate.DocumentID(session.DocumentID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	now := s.now().UTC()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO review_sessions (document_id, session_id, content_hash, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (document_id) DO UPDATE SET
				session_id   = excluded.session_id,
				content_hash = excluded.content_hash,
				created_at   = excluded.created_at,
				updated_at   = excluded.updated_at`,
			session.DocumentID, session.ID, session.ContentHash, session.CreatedAt.UnixNano(), now.UnixNano(),
		)
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM review_decisions WHERE document_id = ?`, session.DocumentID); err != nil {
			return fmt.Errorf("clear decisions: %w", err)
		}

		for id, d := range session.Decisions.Clone() {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO review_decisions (document_id, suggestion_id, state) VALUES (?, ?, ?)`,
				session.DocumentID, id, string(d),
			)
			if err != nil {
				return fmt.Errorf("save decision %s: %w", id, err)
			}
		}
		return nil
	})
}

// DeleteSession removes a document's session and its decisions.
func (s *SessionStore) DeleteSession(ctx context.Context, documentID string) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM review_decisions WHERE document_id = ?`, documentID); err != nil {
			return fmt.Errorf("delete decisions: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM review_sessions WHERE document_id = ?`, documentID)
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if n == 0 {
			return review.ErrSessionNotFound
		}
		return nil
	})
}

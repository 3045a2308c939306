package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/review"
)

func openDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "redline.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newSessionStore(t *testing.T) *SessionStore {
	t.Helper()
	s := NewSessionStore(openDB(t))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newSessionStore(t)

	err := s.SaveSession(ctx, review.Session{
		DocumentID:  "doc-1",
		ContentHash: review.ContentHash("text"),
		Decisions: decision.Set{
			"sug-1": decision.Accepted,
			"sug-2": decision.Rejected,
			"sug-3": decision.Undecided,
		},
	})
	require.NoError(t, err)

	got, err := s.GetSession(ctx, "doc-1")
	require.NoError(t, err)

	_, err = uuid.Parse(got.ID)
	require.NoError(t, err, "session id is a uuid")
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, review.ContentHash("text"), got.ContentHash)
	assert.Equal(t, decision.Set{"sug-1": decision.Accepted, "sug-2": decision.Rejected}, got.Decisions)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC), got.CreatedAt)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestSessionStore_UpdateReplacesDecisions(t *testing.T) {
	ctx := context.Background()
	s := newSessionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{
		DocumentID: "doc-1",
		Decisions:  decision.Set{"sug-1": decision.Accepted, "sug-2": decision.Accepted},
	}))
	first, err := s.GetSession(ctx, "doc-1")
	require.NoError(t, err)

	first.Decisions = decision.Set{"sug-2": decision.Rejected}
	require.NoError(t, s.SaveSession(ctx, first))

	second, err := s.GetSession(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, decision.Set{"sug-2": decision.Rejected}, second.Decisions)
}

func TestSessionStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newSessionStore(t)

	_, err := s.GetSession(ctx, "missing")
	require.ErrorIs(t, err, review.ErrSessionNotFound)

	err = s.DeleteSession(ctx, "missing")
	require.ErrorIs(t, err, review.ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newSessionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{
		DocumentID: "doc-1",
		Decisions:  decision.Set{"sug-1": decision.Accepted},
	}))
	require.NoError(t, s.DeleteSession(ctx, "doc-1"))

	_, err := s.GetSession(ctx, "doc-1")
	require.ErrorIs(t, err, review.ErrSessionNotFound)

	var n int
	require.NoError(t, s.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM review_decisions").Scan(&n))
	assert.Zero(t, n, "decisions are removed with the session")
}

func TestSessionStore_DocumentsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newSessionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "a", Decisions: decision.Set{"sug-1": decision.Accepted}}))
	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "b", Decisions: decision.Set{"sug-1": decision.Rejected}}))

	a, err := s.GetSession(ctx, "a")
	require.NoError(t, err)
	b, err := s.GetSession(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, decision.Accepted, a.Decisions.Get("sug-1"))
	assert.Equal(t, decision.Rejected, b.Decisions.Get("sug-1"))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSessionStore_RequiresDocumentID(t *testing.T) {
	err := newSessionStore(t).SaveSession(context.Background(), review.Session{})
	require.Error(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "redline.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewSessionStore(db).SaveSession(ctx, review.Session{DocumentID: "doc-1"}))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewSessionStore(db).GetSession(ctx, "doc-1")
	require.NoError(t, err, "data survives reopen and migrations are not reapplied")
}

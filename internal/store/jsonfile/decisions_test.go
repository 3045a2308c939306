package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/decision"
	"github.com/colonyops/redline/internal/core/review"
)

func newDecisionStore(t *testing.T) *DecisionStore {
	t.Helper()
	s := NewDecisionStore(filepath.Join(t.TempDir(), "decisions"))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestDecisionStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newDecisionStore(t)

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
	assert.Equal(t, review.ContentHash("text"), got.ContentHash)
	assert.Equal(t, decision.Set{"sug-1": decision.Accepted, "sug-2": decision.Rejected}, got.Decisions)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
}

func TestDecisionStore_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := newDecisionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "doc-1"}))
	first, err := s.GetSession(ctx, "doc-1")
	require.NoError(t, err)

	first.Decisions = decision.Set{"sug-1": decision.Accepted}
	require.NoError(t, s.SaveSession(ctx, first))

	second, err := s.GetSession(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, decision.Accepted, second.Decisions.Get("sug-1"))
}

func TestDecisionStore_NotFound(t *testing.T) {
	s := newDecisionStore(t)

	_, err := s.GetSession(context.Background(), "missing")
	require.ErrorIs(t, err, review.ErrSessionNotFound)

	err = s.DeleteSession(context.Background(), "missing")
	require.ErrorIs(t, err, review.ErrSessionNotFound)
}

func TestDecisionStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := newDecisionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "doc-1"}))
	require.NoError(t, s.DeleteSession(ctx, "doc-1"))

	_, err := s.GetSession(ctx, "doc-1")
	require.ErrorIs(t, err, review.ErrSessionNotFound)
}

func TestDecisionStore_DocumentMismatch(t *testing.T) {
	ctx := context.Background()
	s := newDecisionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "doc-1"}))
	require.NoError(t, os.Rename(s.Path("doc-1"), s.Path("doc-2")))

	_, err := s.GetSession(ctx, "doc-2")
	require.ErrorIs(t, err, ErrDocumentMismatch)
}

func TestDecisionStore_SimilarIDsKeptApart(t *testing.T) {
	ctx := context.Background()
	s := newDecisionStore(t)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "a/b"}))

	_, err := s.GetSession(ctx, "a_b")
	require.ErrorIs(t, err, review.ErrSessionNotFound)

	require.NoError(t, s.SaveSession(ctx, review.Session{DocumentID: "a_b"}))
	got, err := s.GetSession(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", got.DocumentID)
}

func TestDecisionStore_RequiresDocumentID(t *testing.T) {
	err := newDecisionStore(t).SaveSession(context.Background(), review.Session{})
	require.Error(t, err)
}

func TestDecisionStore_CorruptFile(t *testing.T) {
	s := newDecisionStore(t)
	require.NoError(t, os.MkdirAll(s.dir, 0o755))
	require.NoError(t, os.WriteFile(s.Path("doc"), []byte("{not json"), 0o644))

	_, err := s.GetSession(context.Background(), "doc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse decision file")
}

func TestDecisionStore_NoTempFileLeft(t *testing.T) {
	s := newDecisionStore(t)
	require.NoError(t, s.SaveSession(context.Background(), review.Session{DocumentID: "doc"}))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fileName("doc"), entries[0].Name())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{"3f2a-uuid", "3f2a-uuid-"},
		{"../etc/passwd", "_etc_passwd-"},
		{"with space", "with_space-"},
		{"", "_-"},
		{"...", "_-"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			name := fileName(tt.id)
			assert.True(t, strings.HasPrefix(name, tt.prefix), name)
			assert.Equal(t, tt.prefix+review.ContentHash(tt.id)[:hashLen]+".json", name)
		})
	}

	assert.NotEqual(t, fileName("a/b"), fileName("a_b"))
}

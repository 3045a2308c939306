package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Decision
		wantErr bool
	}{
		{in: "accept", want: Accepted},
		{in: "accepted", want: Accepted},
		{in: "reject", want: Rejected},
		{in: "rejected", want: Rejected},
		{in: "clear", want: Undecided},
		{in: "undecided", want: Undecided},
		{in: "maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	states := []Decision{Undecided, Accepted, Rejected}
	for _, from := range states {
		for _, to := range states {
			assert.True(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition(Undecided, Decision("bogus")))
}

func TestToggle(t *testing.T) {
	assert.Equal(t, Accepted, Toggle(Undecided, Accepted))
	assert.Equal(t, Undecided, Toggle(Accepted, Accepted))
	assert.Equal(t, Rejected, Toggle(Accepted, Rejected))
	assert.Equal(t, Undecided, Toggle(Rejected, Rejected))
}

func TestSet_WithIsCopyOnWrite(t *testing.T) {
	base := Set{}
	next := base.With("sug-1", Accepted)

	assert.Equal(t, Undecided, base.Get("sug-1"))
	assert.Equal(t, Accepted, next.Get("sug-1"))
	assert.True(t, next.HasAccepted())
	assert.False(t, base.HasAccepted())

	cleared := next.With("sug-1", Undecided)
	assert.Empty(t, cleared)
	assert.Equal(t, Accepted, next.Get("sug-1"))
}

func TestSet_AcceptedRejectedSorted(t *testing.T) {
	s := Set{"sug-b": Accepted, "sug-a": Accepted, "sug-c": Rejected, "sug-d": Decision("junk")}

	assert.Equal(t, []string{"sug-a", "sug-b"}, s.Accepted())
	assert.Equal(t, []string{"sug-c"}, s.Rejected())
	assert.Equal(t, Undecided, s.Get("sug-d"))
	assert.Len(t, s.Clone(), 3)
}

func TestStore_Lifecycle(t *testing.T) {
	st := NewStore()
	st.Bind("doc-1", "hash-1")

	c, err := st.Toggle("sug-1", Accepted)
	require.NoError(t, err)
	assert.Equal(t, Change{ID: "sug-1", From: Undecided, To: Accepted, Changed: true, Project: true}, c)

	c, err = st.Toggle("sug-1", Rejected)
	require.NoError(t, err)
	assert.Equal(t, Accepted, c.From)
	assert.Equal(t, Rejected, c.To)
	assert.False(t, c.Project, "no accepted suggestion remains")

	c, err = st.Toggle("sug-1", Rejected)
	require.NoError(t, err)
	assert.Equal(t, Undecided, c.To)

	c = st.Clear("sug-1")
	assert.False(t, c.Changed)
}

func TestStore_SetRejectsInvalidState(t *testing.T) {
	st := NewStore()
	_, err := st.Set("sug-1", Decision("bogus"))
	assert.Error(t, err)
	assert.Equal(t, Undecided, st.Get("sug-1"))
}

func TestStore_BindResetsOnIdentityChange(t *testing.T) {
	st := Restore("doc-1", "hash-1", Set{"sug-1": Accepted})

	assert.False(t, st.Bind("doc-1", "hash-1"))
	assert.Equal(t, Accepted, st.Get("sug-1"))

	assert.True(t, st.Bind("doc-1", "hash-2"))
	assert.Equal(t, Undecided, st.Get("sug-1"))
	assert.Equal(t, "hash-2", st.ContentHash())

	assert.False(t, st.Bind("doc-2", "hash-2"), "nothing to reset")
	assert.Equal(t, "doc-2", st.DocumentID())
}

func TestStore_SnapshotIsIndependent(t *testing.T) {
	st := NewStore()
	_, err := st.Set("sug-1", Accepted)
	require.NoError(t, err)

	snap := st.Snapshot()
	st.Discard()

	assert.Equal(t, Accepted, snap.Get("sug-1"))
	assert.Equal(t, Undecided, st.Get("sug-1"))
}

package tui

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/redline"
	"github.com/colonyops/redline/internal/store/jsonfile"
	review "github.com/colonyops/redline/internal/tui/views/review"
	"github.com/colonyops/redline/pkg/tuitest"
)

func newModel(t *testing.T, changes <-chan jsonfile.FileEvent) ReviewOnlyModel {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"uuid":"doc","raw_content":"hello","risks":[]}`), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	app := redline.NewApp(&cfg, jsonfile.NewDecisionStore(filepath.Join(dir, "decisions")), zerolog.Nop())

	doc, err := app.Reviews.Load(context.Background(), redline.Source{AnalysisPath: path})
	require.NoError(t, err)

	return NewReviewOnly(context.Background(), ReviewOnlyOptions{
		Service:  app.Reviews,
		Document: doc,
		Changes:  changes,
	})
}

func TestReviewOnly_Quit(t *testing.T) {
	m := newModel(t, nil)

	next, cmd := m.Update(tuitest.Keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.View())
}

func TestReviewOnly_QuitKeyConfirmsDiscard(t *testing.T) {
	m := newModel(t, nil)

	next, _ := m.Update(tuitest.Keys("D"))
	next, cmd := next.Update(tuitest.Keys("q"))
	assert.Nil(t, cmd, "q answers the prompt instead of quitting")
	assert.False(t, next.(ReviewOnlyModel).quitting)
}

func TestReviewOnly_Resize(t *testing.T) {
	m := newModel(t, nil)
	assert.Empty(t, m.View())

	next, _ := m.Update(tuitest.WindowSize(80, 24))
	assert.Contains(t, next.View(), "doc")
}

func TestWaitForChange(t *testing.T) {
	assert.Nil(t, waitForChange(nil))

	ch := make(chan jsonfile.FileEvent, 1)
	ch <- jsonfile.FileEvent{Path: "/tmp/a.json", Timestamp: time.Now()}

	msg := waitForChange(ch)()
	assert.Equal(t, review.ReloadMsg{Path: "/tmp/a.json"}, msg)

	close(ch)
	assert.Nil(t, waitForChange(ch)())
}

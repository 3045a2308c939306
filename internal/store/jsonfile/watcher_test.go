package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatcher(t *testing.T) (*FileWatcher, string) {
	t.Helper()
	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fw.Close() })
	return fw, dir
}

func collect(events <-chan FileEvent, wait time.Duration) []string {
	timeout := time.After(wait)
	var paths []string
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return paths
			}
			paths = append(paths, filepath.Base(ev.Path))
		case <-timeout:
			return paths
		}
	}
}

func TestFileWatcher_ExactPath(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	target := filepath.Join(dir, "analysis.json")
	events, err := fw.Watch(ctx, target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))

	select {
	case ev := <-events:
		assert.Equal(t, target, ev.Path)
		assert.False(t, ev.Timestamp.IsZero())
	case <-ctx.Done():
		t.Fatal("timeout waiting for event")
	}

	assert.Empty(t, collect(events, 200*time.Millisecond))
}

func TestFileWatcher_GlobPattern(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	events, err := fw.Watch(context.Background(), filepath.Join(dir, "*.json"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte(`x`), 0o644))

	assert.Equal(t, []string{"a.json"}, collect(events, 300*time.Millisecond))
}

func TestFileWatcher_IgnoresTmpAndLockFiles(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	events, err := fw.Watch(context.Background(), filepath.Join(dir, "**"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json.tmp"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json.lock"), []byte(`{}`), 0o644))

	assert.Empty(t, collect(events, 200*time.Millisecond))
}

func TestFileWatcher_Debounce(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	target := filepath.Join(dir, "debounce.json")
	events, err := fw.Watch(context.Background(), target)
	require.NoError(t, err)

	for range 5 {
		require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))
		time.Sleep(10 * time.Millisecond) // Less than debounce delay
	}

	assert.Len(t, collect(events, 300*time.Millisecond), 1, "should receive exactly one debounced event")
}

func TestFileWatcher_ContextCancellation(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	events, err := fw.Watch(ctx, filepath.Join(dir, "*"))
	require.NoError(t, err)

	cancel()

	time.Sleep(100 * time.Millisecond) // Give time for cleanup goroutine
	_, ok := <-events
	assert.False(t, ok, "channel should be closed after context cancellation")
}

func TestFileWatcher_Close(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fw, err := NewFileWatcher(dir)
	require.NoError(t, err)

	events, err := fw.Watch(context.Background(), filepath.Join(dir, "*"))
	require.NoError(t, err)

	require.NoError(t, fw.Close())

	_, ok := <-events
	assert.False(t, ok, "channel should be closed after watcher close")
}

func TestFileWatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	_, err := fw.Watch(context.Background(), filepath.Join(dir, "[unclosed"))
	require.Error(t, err)
}

func TestNewFileWatcher_MissingDir(t *testing.T) {
	_, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestFileWatcher_WatchFileEscapesMeta(t *testing.T) {
	t.Parallel()

	fw, dir := newWatcher(t)
	target := filepath.Join(dir, "contract[1].json")
	events, err := fw.WatchFile(context.Background(), target)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "contract1.json"), []byte(`{}`), 0o644))
	require.NoError(t, os.WriteFile(target, []byte(`{}`), 0o644))

	assert.Equal(t, []string{"contract[1].json"}, collect(events, 300*time.Millisecond))
}

func TestEscapeMeta(t *testing.T) {
	assert.Equal(t, `/a/b\[1\]\*.json`, escapeMeta("/a/b[1]*.json"))
	assert.Equal(t, "/plain/path.json", escapeMeta("/plain/path.json"))
}

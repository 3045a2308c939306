package jsonfile

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const (
	debounceDelay   = 50 * time.Millisecond
	eventBufferSize = 16
)

// FileEvent reports that a watched file changed on disk.
type FileEvent struct {
	Path      string
	Timestamp time.Time
}

// FileWatcher watches directories for changes to analysis and decision
// files using fsnotify. Subscribers filter by glob pattern.
type FileWatcher struct {
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	subscribers map[string][]chan<- FileEvent // pattern -> channels
	debounce    map[string]*time.Timer        // path -> debounce timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher starts watching the given directories.
func NewFileWatcher(dirs ...string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		watcher:     watcher,
		subscribers: make(map[string][]chan<- FileEvent),
		debounce:    make(map[string]*time.Timer),
		ctx:         ctx,
		cancel:      cancel,
	}

	fw.wg.Add(1)
	go fw.run()

	return fw, nil
}

// Watch returns a channel that receives events for files whose cleaned path
// matches pattern. Pattern uses doublestar syntax, so an exact path matches
// only itself.
func (fw *FileWatcher) Watch(ctx context.Context, pattern string) (<-chan FileEvent, error) {
	pattern = filepath.Clean(pattern)
	if !doublestar.ValidatePathPattern(pattern) {
		return nil, fmt.Errorf("invalid watch pattern %q", pattern)
	}

	ch := make(chan FileEvent, eventBufferSize)

	fw.mu.Lock()
	fw.subscribers[pattern] = append(fw.subscribers[pattern], ch)
	fw.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			fw.unsubscribe(pattern, ch)
		case <-fw.ctx.Done():
			// Close() closes the channel.
		}
	}()

	return ch, nil
}

// WatchFile is Watch for a single path. Glob metacharacters in the path are
// escaped so they match literally.
func (fw *FileWatcher) WatchFile(ctx context.Context, path string) (<-chan FileEvent, error) {
	return fw.Watch(ctx, escapeMeta(filepath.Clean(path)))
}

func escapeMeta(path string) string {
	var sb strings.Builder
	for _, r := range path {
		if strings.ContainsRune(`*?[]{}\`, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Close stops watching and closes all subscriber channels.
func (fw *FileWatcher) Close() error {
	fw.cancel()

	fw.mu.Lock()
	for _, timer := range fw.debounce {
		timer.Stop()
	}
	for _, subs := range fw.subscribers {
		for _, ch := range subs {
			close(ch)
		}
	}
	fw.subscribers = make(map[string][]chan<- FileEvent)
	fw.mu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) unsubscribe(pattern string, ch chan<- FileEvent) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	subs := fw.subscribers[pattern]
	for i, sub := range subs {
		if sub == ch {
			fw.subscribers[pattern] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(fw.subscribers[pattern]) == 0 {
		delete(fw.subscribers, pattern)
	}
}

func (fw *FileWatcher) run() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	// Atomic writes go through a temp file; the rename onto the real name
	// shows up as a Create of the target.
	if strings.HasSuffix(event.Name, ".tmp") || strings.HasSuffix(event.Name, ".lock") {
		return
	}

	path := filepath.Clean(event.Name)

	fw.mu.Lock()
	if timer, exists := fw.debounce[path]; exists {
		timer.Stop()
	}
	fw.debounce[path] = time.AfterFunc(debounceDelay, func() {
		fw.notifySubscribers(path)
	})
	fw.mu.Unlock()
}

func (fw *FileWatcher) notifySubscribers(path string) {
	event := FileEvent{Path: path, Timestamp: time.Now()}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	for pattern, subs := range fw.subscribers {
		if ok, _ := doublestar.PathMatch(pattern, path); !ok {
			continue
		}
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
				// Channel full, drop event to prevent blocking
			}
		}
	}

	delete(fw.debounce, path)
}

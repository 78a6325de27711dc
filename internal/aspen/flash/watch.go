package flash

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"apexvle/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// CaseWatcher reruns a callback whenever a case file is saved. Editors that
// replace the file on save are handled by watching its directory.
type CaseWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	onChange    func(ctx context.Context) error
	debounceDur time.Duration
	pending     time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	runs        int
}

// NewCaseWatcher watches path and calls onChange after each settled change.
func NewCaseWatcher(path string, onChange func(ctx context.Context) error) (*CaseWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &CaseWatcher{
		watcher:     w,
		path:        abs,
		onChange:    onChange,
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes how long the file must be quiet before onChange runs.
func (cw *CaseWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	cw.debounceDur = d
	cw.mu.Unlock()
}

// Start begins watching. It does not block.
func (cw *CaseWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	cw.running = true
	cw.mu.Unlock()

	dir := filepath.Dir(cw.path)
	if err := cw.watcher.Add(dir); err != nil {
		cw.mu.Lock()
		cw.running = false
		cw.mu.Unlock()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logging.Watch("Watching case file %s", cw.path)
	go cw.run(ctx)
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (cw *CaseWatcher) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		_ = cw.watcher.Close()
		return
	}
	cw.running = false
	cw.mu.Unlock()

	close(cw.stopCh)
	<-cw.doneCh
	if err := cw.watcher.Close(); err != nil {
		logging.WatchDebug("Error closing watcher: %v", err)
	}
	logging.Watch("Stopped watching %s", cw.path)
}

// Runs returns how many times onChange has been called.
func (cw *CaseWatcher) Runs() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.runs
}

func (cw *CaseWatcher) run(ctx context.Context) {
	defer close(cw.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopCh:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryWatch).Error("Watcher error: %v", err)
		case <-ticker.C:
			cw.fireIfSettled(ctx)
		}
	}
}

func (cw *CaseWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != cw.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	logging.WatchDebug("%s: %s", event.Op, event.Name)
	cw.mu.Lock()
	cw.pending = time.Now()
	cw.mu.Unlock()
}

func (cw *CaseWatcher) fireIfSettled(ctx context.Context) {
	cw.mu.Lock()
	if cw.pending.IsZero() || time.Since(cw.pending) < cw.debounceDur {
		cw.mu.Unlock()
		return
	}
	cw.pending = time.Time{}
	cw.runs++
	cw.mu.Unlock()

	if err := cw.onChange(ctx); err != nil {
		logging.Get(logging.CategoryWatch).Error("Rerun after change to %s failed: %v", cw.path, err)
	}
}

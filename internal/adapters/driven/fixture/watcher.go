package fixture

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher reports changes to individual fixture files using fsnotify.
// The parent directory is watched so that editors which save by renaming a
// temporary file over the original are still seen.
type Watcher struct {
	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// NewWatcher creates a fixture file watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch starts watching path. The returned channel is closed when ctx is
// cancelled or Close is called.
func (w *Watcher) Watch(ctx context.Context, path string) (<-chan driven.WatchEvent, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = fw.Close()
		return nil, fmt.Errorf("watcher closed")
	}
	w.watchers = append(w.watchers, fw)
	w.mu.Unlock()

	events := make(chan driven.WatchEvent, 16)

	go func() {
		defer close(events)
		defer func() { _ = fw.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}

				var typ driven.WatchEventType
				switch {
				case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
					typ = driven.WatchChanged
				case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
					typ = driven.WatchRemoved
				default:
					continue
				}

				logger.Debug("Fixture %s %s", abs, typ)
				select {
				case events <- driven.WatchEvent{Path: abs, Type: typ}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watching %s: %v", abs, err)
			}
		}
	}()

	return events, nil
}

// Close stops all watches.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	var firstErr error
	for _, fw := range w.watchers {
		if err := fw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.watchers = nil
	return firstErr
}

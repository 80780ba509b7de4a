package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
)

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "threads.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: []\n"), 0600))

	w := NewWatcher()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := w.Watch(ctx, path)
	require.NoError(t, err)

	// Writes to siblings are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(path, []byte("threads: []\nchunks: []\n"), 0600))

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		assert.Equal(t, abs, ev.Path)
		assert.Equal(t, driven.WatchChanged, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
	}
}

func TestWatcher_ClosesChannelOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "threads.json")

	w := NewWatcher()
	defer func() { _ = w.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, path)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		for ok {
			_, ok = <-events
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher()
	defer func() { _ = w.Close() }()

	_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "threads.yaml"))

	assert.Error(t, err)
}

func TestWatcher_WatchAfterClose(t *testing.T) {
	w := NewWatcher()
	require.NoError(t, w.Close())

	_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "threads.yaml"))

	assert.Error(t, err)
}

func TestWatchEventType_String(t *testing.T) {
	assert.Equal(t, "changed", driven.WatchChanged.String())
	assert.Equal(t, "removed", driven.WatchRemoved.String())
	assert.Equal(t, "unknown", driven.WatchEventType(9).String())
}

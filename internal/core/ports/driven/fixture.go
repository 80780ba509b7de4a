package driven

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// FixtureLoader reads seed data files.
type FixtureLoader interface {
	// Load parses a single fixture file.
	// Returns domain.ErrUnsupportedFormat for unknown file extensions.
	Load(ctx context.Context, path string) (*domain.Fixture, error)

	// LoadAll parses several files and merges them in argument order.
	LoadAll(ctx context.Context, paths ...string) (*domain.Fixture, error)
}

// WatchEventType identifies the kind of file change.
type WatchEventType int

const (
	// WatchChanged means the file was written or recreated.
	WatchChanged WatchEventType = iota
	// WatchRemoved means the file was removed or renamed away.
	WatchRemoved
)

// String returns a human-readable name.
func (t WatchEventType) String() string {
	switch t {
	case WatchChanged:
		return "changed"
	case WatchRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// WatchEvent reports a change to a watched fixture file.
type WatchEvent struct {
	Path string
	Type WatchEventType
}

// FileWatcher reports changes to fixture files.
type FileWatcher interface {
	// Watch starts watching path. Events are delivered until ctx is
	// cancelled or Close is called, after which the channel is closed.
	Watch(ctx context.Context, path string) (<-chan WatchEvent, error)

	// Close stops all watches.
	Close() error
}

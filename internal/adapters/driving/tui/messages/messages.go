// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewThreads lists conversation threads.
	ViewThreads
	// ViewConversation shows one thread with its search bar and composer.
	ViewConversation
	// ViewChunks is the knowledge base chunk list.
	ViewChunks
	// ViewSettings shows the configuration.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewThreads:
		return "threads"
	case ViewConversation:
		return "conversation"
	case ViewChunks:
		return "chunks"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ThreadsLoaded carries the (possibly filtered) thread list.
type ThreadsLoaded struct {
	Filter  string
	Threads []domain.Thread
	Err     error
}

// ThreadSelected opens a thread in the conversation view.
type ThreadSelected struct {
	Thread domain.Thread
}

// ThreadCreated signals a new thread was created.
type ThreadCreated struct {
	Thread *domain.Thread
	Err    error
}

// ThreadDeleted signals a thread was removed.
type ThreadDeleted struct {
	ID  string
	Err error
}

// MessagesLoaded carries the messages of a thread.
type MessagesLoaded struct {
	ThreadID string
	Messages []domain.Message
	Err      error
}

// ReplyReceived signals that a send round trip finished.
type ReplyReceived struct {
	ThreadID string
	Messages []domain.Message
	Err      error
}

// SearchUpdated signals that the search session published a new state.
type SearchUpdated struct{}

// ChunksLoaded carries the knowledge base chunks and the current selection.
type ChunksLoaded struct {
	Chunks   []domain.Chunk
	Selected []string
	Err      error
}

// ChunksChanged signals that a chunk operation finished.
type ChunksChanged struct {
	Action string
	Err    error
}

// SettingsLoaded carries the configuration entries.
type SettingsLoaded struct {
	Entries []domain.SettingEntry
	Err     error
}

// SettingsSaved signals a setting was written.
type SettingsSaved struct {
	Key string
	Err error
}

// FixturesReloaded signals that watched fixture files were re-imported.
type FixturesReloaded struct {
	Path string
	Err  error
}

// OverviewLoaded carries the counts shown on the menu.
type OverviewLoaded struct {
	Threads  int
	Messages int
	Chunks   int
	Embedded int
	Err      error
}

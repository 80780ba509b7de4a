// Package tui provides an interactive terminal user interface for chatdesk.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Threads manages conversation threads.
	Threads driving.ThreadService

	// Chat sends user messages and records replies. Optional: without it the
	// conversation view is read-only.
	Chat driving.ChatService

	// Chunks manages the knowledge base.
	Chunks driving.ChunkService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Session is the in-thread search shared by the conversation view.
	Session driving.SearchSession
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(threads driving.ThreadService, session driving.SearchSession) *Ports {
	return &Ports{
		Threads: threads,
		Session: session,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Threads == nil {
		return ErrMissingThreadService
	}
	if p.Session == nil {
		return ErrMissingSearchSession
	}
	return nil
}

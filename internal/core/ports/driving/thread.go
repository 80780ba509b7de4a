package driving

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ThreadService manages conversation threads.
type ThreadService interface {
	// Create starts a new, empty thread.
	Create(ctx context.Context, title string) (*domain.Thread, error)

	// List returns all threads in creation order.
	List(ctx context.Context) ([]domain.Thread, error)

	// Get retrieves a thread by ID.
	Get(ctx context.Context, id string) (*domain.Thread, error)

	// Rename changes a thread's title.
	Rename(ctx context.Context, id, title string) error

	// Delete removes a thread and all its messages.
	Delete(ctx context.Context, id string) error

	// Append adds a message to the end of a thread and returns the stored copy.
	Append(ctx context.Context, threadID string, msg domain.Message) (*domain.Message, error)

	// Messages returns the thread's messages in render order.
	Messages(ctx context.Context, threadID string) ([]domain.Message, error)

	// Import stores the given threads, replacing any with the same ID.
	Import(ctx context.Context, threads []domain.Thread) error

	// Find returns threads whose titles fuzzily match query, best first.
	// An empty query returns all threads.
	Find(ctx context.Context, query string) ([]domain.Thread, error)
}

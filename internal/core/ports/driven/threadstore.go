package driven

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ThreadStore holds conversation threads.
type ThreadStore interface {
	// Save stores or replaces a thread.
	Save(ctx context.Context, thread *domain.Thread) error

	// Get retrieves a thread by ID.
	// Returns domain.ErrThreadNotFound if the thread does not exist.
	Get(ctx context.Context, id string) (*domain.Thread, error)

	// List returns all threads in creation order.
	List(ctx context.Context) ([]domain.Thread, error)

	// Delete removes a thread and its messages.
	// Returns domain.ErrThreadNotFound if the thread does not exist.
	Delete(ctx context.Context, id string) error
}

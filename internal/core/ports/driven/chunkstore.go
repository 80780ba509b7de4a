package driven

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ChunkStore holds knowledge-base chunks.
type ChunkStore interface {
	// Save stores or replaces a chunk.
	Save(ctx context.Context, chunk *domain.Chunk) error

	// Get retrieves a chunk by ID.
	// Returns domain.ErrNotFound if the chunk does not exist.
	Get(ctx context.Context, id string) (*domain.Chunk, error)

	// List returns all chunks ordered by Position.
	List(ctx context.Context) ([]domain.Chunk, error)

	// Delete removes a chunk.
	// Returns domain.ErrNotFound if the chunk does not exist.
	Delete(ctx context.Context, id string) error
}

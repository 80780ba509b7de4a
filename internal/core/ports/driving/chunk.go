package driving

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ChunkService manages the knowledge-base chunk list.
type ChunkService interface {
	// Add appends a new pending chunk.
	Add(ctx context.Context, title, content string) (*domain.Chunk, error)

	// Update replaces a chunk's title and content and marks it pending.
	Update(ctx context.Context, id, title, content string) (*domain.Chunk, error)

	// Delete removes a chunk.
	Delete(ctx context.Context, id string) error

	// List returns chunks ordered by position.
	List(ctx context.Context) ([]domain.Chunk, error)

	// Import stores the given chunks after the existing ones.
	Import(ctx context.Context, chunks []domain.Chunk) error

	// Move places a chunk at toIndex, clamped to the list bounds.
	Move(ctx context.Context, id string, toIndex int) error

	// Embed marks the given chunks as embedded.
	Embed(ctx context.Context, ids ...string) error

	// Select adds a chunk to the selection.
	Select(id string)

	// Deselect removes a chunk from the selection.
	Deselect(id string)

	// Toggle flips a chunk's selection and reports the new state.
	Toggle(id string) bool

	// Selected returns the selected chunk IDs in list order.
	Selected(ctx context.Context) ([]string, error)

	// ClearSelection empties the selection.
	ClearSelection()
}

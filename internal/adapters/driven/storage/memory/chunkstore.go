package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.Chunk),
	}
}

// Save stores or replaces a chunk.
func (s *ChunkStore) Save(_ context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[chunk.ID] = *chunk
	return nil
}

// Get retrieves a chunk by ID.
func (s *ChunkStore) Get(_ context.Context, id string) (*domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunk, ok := s.chunks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// List returns all chunks ordered by Position, then ID.
func (s *ChunkStore) List(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Chunk, 0, len(s.chunks))
	for id := range s.chunks {
		result = append(result, s.chunks[id])
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Position != result[j].Position {
			return result[i].Position < result[j].Position
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a chunk.
func (s *ChunkStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.chunks, id)
	return nil
}

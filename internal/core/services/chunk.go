package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure ChunkService implements the interface.
var _ driving.ChunkService = (*ChunkService)(nil)

// ChunkService manages the knowledge-base chunk list and its selection.
// Positions are always kept contiguous from 0.
type ChunkService struct {
	store driven.ChunkStore

	mu       sync.Mutex
	selected map[string]struct{}
}

// NewChunkService creates a new chunk service.
func NewChunkService(store driven.ChunkStore) *ChunkService {
	return &ChunkService{
		store:    store,
		selected: make(map[string]struct{}),
	}
}

// Add appends a new pending chunk.
func (s *ChunkService) Add(ctx context.Context, title, content string) (*domain.Chunk, error) {
	title = strings.TrimSpace(title)
	if title == "" && strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: chunk is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chunk := &domain.Chunk{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Status:    domain.ChunkPending,
		Position:  len(existing),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, chunk); err != nil {
		return nil, fmt.Errorf("saving chunk: %w", err)
	}
	return chunk, nil
}

// Update replaces a chunk's title and content and marks it pending.
func (s *ChunkService) Update(ctx context.Context, id, title, content string) (*domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunk, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	chunk.Title = strings.TrimSpace(title)
	chunk.Content = content
	chunk.Status = domain.ChunkPending
	chunk.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, chunk); err != nil {
		return nil, fmt.Errorf("saving chunk: %w", err)
	}
	return chunk, nil
}

// Delete removes a chunk and closes the gap in positions.
func (s *ChunkService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	delete(s.selected, id)

	chunks, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	return s.renumber(ctx, chunks)
}

// List returns chunks ordered by position.
func (s *ChunkService) List(ctx context.Context) ([]domain.Chunk, error) {
	return s.store.List(ctx)
}

// Import stores the given chunks after the existing ones, in order.
// Chunks without an ID get one; invalid statuses become pending.
func (s *ChunkService) Import(ctx context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	ordered := make([]domain.Chunk, 0, len(existing)+len(chunks))
	index := make(map[string]int, len(existing))
	for i := range existing {
		index[existing[i].ID] = i
		ordered = append(ordered, existing[i])
	}

	now := time.Now()
	for i := range chunks {
		chunk := chunks[i]
		if chunk.ID == "" {
			chunk.ID = uuid.New().String()
		}
		if !chunk.Status.IsValid() {
			chunk.Status = domain.ChunkPending
		}
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}
		if chunk.UpdatedAt.IsZero() {
			chunk.UpdatedAt = chunk.CreatedAt
		}
		// Re-imported chunks keep their slot.
		if at, ok := index[chunk.ID]; ok {
			ordered[at] = chunk
			continue
		}
		index[chunk.ID] = len(ordered)
		ordered = append(ordered, chunk)
	}

	return s.renumber(ctx, ordered)
}

// Move places a chunk at toIndex, clamped to [0, len-1], shifting the
// chunks in between.
func (s *ChunkService) Move(ctx context.Context, id string, toIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	from := -1
	for i := range chunks {
		if chunks[i].ID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return domain.ErrNotFound
	}

	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(chunks)-1 {
		toIndex = len(chunks) - 1
	}
	if toIndex == from {
		return nil
	}

	moved := chunks[from]
	chunks = append(chunks[:from], chunks[from+1:]...)
	chunks = append(chunks[:toIndex], append([]domain.Chunk{moved}, chunks[toIndex:]...)...)

	logger.Debug("Moved chunk %s from %d to %d", id, from, toIndex)
	return s.renumber(ctx, chunks)
}

// Embed marks the given chunks as embedded. No embedding is computed.
func (s *ChunkService) Embed(ctx context.Context, ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for _, id := range ids {
		chunk, err := s.store.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("embedding chunk %s: %w", id, err)
		}
		if chunk.Status == domain.ChunkEmbedded {
			continue
		}
		chunk.Status = domain.ChunkEmbedded
		chunk.UpdatedAt = now
		if err := s.store.Save(ctx, chunk); err != nil {
			return fmt.Errorf("saving chunk %s: %w", id, err)
		}
	}
	logger.Debug("Embedded %d chunks", len(ids))
	return nil
}

// Select adds a chunk to the selection.
func (s *ChunkService) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected[id] = struct{}{}
}

// Deselect removes a chunk from the selection.
func (s *ChunkService) Deselect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selected, id)
}

// Toggle flips a chunk's selection and reports the new state.
func (s *ChunkService) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// Selected returns the selected chunk IDs in list order.
// IDs of chunks that no longer exist are dropped.
func (s *ChunkService) Selected(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chunks, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(s.selected))
	for i := range chunks {
		if _, ok := s.selected[chunks[i].ID]; ok {
			ids = append(ids, chunks[i].ID)
		}
	}
	return ids, nil
}

// ClearSelection empties the selection.
func (s *ChunkService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// renumber saves chunks with positions 0..n-1 in slice order (caller must hold lock).
func (s *ChunkService) renumber(ctx context.Context, chunks []domain.Chunk) error {
	for i := range chunks {
		chunks[i].Position = i
		if err := s.store.Save(ctx, &chunks[i]); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunks[i].ID, err)
		}
	}
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
)

// Ensure ThreadStore implements the interface.
var _ driven.ThreadStore = (*ThreadStore)(nil)

// ThreadStore is an in-memory implementation of driven.ThreadStore.
// Threads are copied in and out so callers never share message slices.
type ThreadStore struct {
	mu      sync.RWMutex
	threads map[string]domain.Thread
	order   []string
}

// NewThreadStore creates a new in-memory thread store.
func NewThreadStore() *ThreadStore {
	return &ThreadStore{
		threads: make(map[string]domain.Thread),
	}
}

// Save stores or replaces a thread. New threads are appended to the order.
func (s *ThreadStore) Save(_ context.Context, thread *domain.Thread) error {
	if thread == nil || thread.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.threads[thread.ID]; !exists {
		s.order = append(s.order, thread.ID)
	}
	s.threads[thread.ID] = thread.Clone()
	return nil
}

// Get retrieves a thread by ID.
func (s *ThreadStore) Get(_ context.Context, id string) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	thread, ok := s.threads[id]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	c := thread.Clone()
	return &c, nil
}

// List returns all threads in the order they were first saved.
func (s *ThreadStore) List(_ context.Context) ([]domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Thread, 0, len(s.order))
	for _, id := range s.order {
		thread := s.threads[id]
		result = append(result, thread.Clone())
	}
	return result, nil
}

// Delete removes a thread.
func (s *ThreadStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.threads[id]; !ok {
		return domain.ErrThreadNotFound
	}
	delete(s.threads, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure ThreadService implements the interface.
var _ driving.ThreadService = (*ThreadService)(nil)

// DefaultThreadTitle is used when a thread is created without a title.
const DefaultThreadTitle = "New conversation"

// ThreadService manages conversation threads.
type ThreadService struct {
	store driven.ThreadStore

	// mu serialises read-modify-write cycles on the store.
	mu sync.Mutex
}

// NewThreadService creates a new thread service.
func NewThreadService(store driven.ThreadStore) *ThreadService {
	return &ThreadService{store: store}
}

// Create starts a new, empty thread.
func (s *ThreadService) Create(ctx context.Context, title string) (*domain.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultThreadTitle
	}

	now := time.Now()
	thread := &domain.Thread{
		ID:        uuid.New().String(),
		Title:     title,
		Messages:  []domain.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, thread); err != nil {
		return nil, fmt.Errorf("saving thread: %w", err)
	}
	logger.Debug("Created thread %s (%q)", thread.ID, thread.Title)
	return thread, nil
}

// List returns all threads in creation order.
func (s *ThreadService) List(ctx context.Context) ([]domain.Thread, error) {
	return s.store.List(ctx)
}

// Get retrieves a thread by ID.
func (s *ThreadService) Get(ctx context.Context, id string) (*domain.Thread, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

// Rename changes a thread's title.
func (s *ThreadService) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thread, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	thread.Title = title
	thread.UpdatedAt = time.Now()
	return s.store.Save(ctx, thread)
}

// Delete removes a thread and all its messages.
func (s *ThreadService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	logger.Debug("Deleted thread %s", id)
	return nil
}

// Append adds a message to the end of a thread.
// A missing ID is filled with a UUID and CreatedAt is stamped if zero.
func (s *ThreadService) Append(ctx context.Context, threadID string, msg domain.Message) (*domain.Message, error) {
	if !msg.Role.IsValid() {
		return nil, fmt.Errorf("%w: role %q", domain.ErrInvalidInput, msg.Role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	thread, err := s.store.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	for i := range thread.Messages {
		if thread.Messages[i].ID == msg.ID {
			return nil, fmt.Errorf("%w: duplicate message id %q", domain.ErrInvalidInput, msg.ID)
		}
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	if len(msg.Sources) > 0 {
		sources := make([]domain.Source, len(msg.Sources))
		copy(sources, msg.Sources)
		msg.Sources = sources
	}

	thread.Messages = append(thread.Messages, msg)
	thread.UpdatedAt = msg.CreatedAt

	if err := s.store.Save(ctx, thread); err != nil {
		return nil, fmt.Errorf("saving thread: %w", err)
	}
	return &msg, nil
}

// Messages returns the thread's messages in render order.
func (s *ThreadService) Messages(ctx context.Context, threadID string) ([]domain.Message, error) {
	thread, err := s.store.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}
	return thread.Messages, nil
}

// Import stores the given threads, replacing any with the same ID.
// Threads without an ID get one; messages without an ID get one.
func (s *ThreadService) Import(ctx context.Context, threads []domain.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range threads {
		thread := threads[i].Clone()
		if thread.ID == "" {
			thread.ID = uuid.New().String()
		}
		if strings.TrimSpace(thread.Title) == "" {
			thread.Title = DefaultThreadTitle
		}
		for j := range thread.Messages {
			if thread.Messages[j].ID == "" {
				thread.Messages[j].ID = uuid.New().String()
			}
		}
		if err := s.store.Save(ctx, &thread); err != nil {
			return fmt.Errorf("importing thread %s: %w", thread.ID, err)
		}
	}
	logger.Debug("Imported %d threads", len(threads))
	return nil
}

// Find returns threads whose titles fuzzily match query, best first.
// An empty query returns all threads in creation order.
func (s *ThreadService) Find(ctx context.Context, query string) ([]domain.Thread, error) {
	threads, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return threads, nil
	}

	matches := fuzzy.FindFrom(query, threadTitles(threads))
	results := make([]domain.Thread, 0, len(matches))
	for _, match := range matches {
		results = append(results, threads[match.Index])
	}
	return results, nil
}

// threadTitles implements fuzzy.Source over thread titles.
type threadTitles []domain.Thread

func (t threadTitles) String(i int) string {
	return t[i].Title
}

func (t threadTitles) Len() int {
	return len(t)
}

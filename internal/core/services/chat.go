package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driving"
	"github.com/custodia-labs/chatdesk/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// FallbackReply is appended when the responder fails.
const FallbackReply = "Sorry, I couldn't get a response. Please try again."

// ChatService sends user messages and records assistant replies.
type ChatService struct {
	threads   driving.ThreadService
	responder driven.Responder
}

// NewChatService creates a new chat service.
func NewChatService(threads driving.ThreadService, responder driven.Responder) *ChatService {
	return &ChatService{
		threads:   threads,
		responder: responder,
	}
}

// Send appends text as a user message, asks the responder for an answer
// and appends it. A failing responder yields the fallback reply instead of
// an error; a cancelled context returns the context's error.
func (s *ChatService) Send(ctx context.Context, threadID, text string) ([]domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}

	history, err := s.threads.Messages(ctx, threadID)
	if err != nil {
		return nil, err
	}

	user, err := s.threads.Append(ctx, threadID, domain.Message{
		Role:    domain.RoleUser,
		Content: text,
	})
	if err != nil {
		return nil, fmt.Errorf("appending user message: %w", err)
	}

	reply := s.reply(ctx, text, history)
	if err := ctx.Err(); err != nil {
		return []domain.Message{*user}, err
	}

	assistant, err := s.threads.Append(ctx, threadID, reply)
	if err != nil {
		return []domain.Message{*user}, fmt.Errorf("appending reply: %w", err)
	}

	return []domain.Message{*user, *assistant}, nil
}

func (s *ChatService) reply(ctx context.Context, text string, history []domain.Message) domain.Message {
	if s.responder == nil {
		logger.Warn("No responder configured, using fallback reply")
		return fallbackMessage()
	}

	answer, err := s.responder.Reply(ctx, text, history)
	if err != nil || answer == nil {
		if ctx.Err() == nil {
			logger.Warn("Responder failed: %v", fmt.Errorf("%w: %v", domain.ErrReplyFailed, err))
		}
		return fallbackMessage()
	}

	logger.Debug("Responder returned %d sources", len(answer.Sources))
	return answer.Message()
}

func fallbackMessage() domain.Message {
	return domain.Message{
		Role:    domain.RoleAssistant,
		Content: FallbackReply,
	}
}

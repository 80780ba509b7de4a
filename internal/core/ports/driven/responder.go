package driven

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// Responder produces the assistant's answer to a user message.
type Responder interface {
	// Reply returns an answer for prompt given the preceding history.
	// Must return ctx.Err() promptly when the context is cancelled.
	Reply(ctx context.Context, prompt string, history []domain.Message) (*domain.Answer, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

// ChatService sends user messages and records the assistant's replies.
type ChatService interface {
	// Send appends text as a user message to the thread, waits for the
	// assistant and appends its reply. Returns the messages appended.
	Send(ctx context.Context, threadID, text string) ([]domain.Message, error)
}

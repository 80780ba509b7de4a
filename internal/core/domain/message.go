package domain

import "time"

// Role identifies who authored a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Message is one turn in a thread.
// Messages are immutable once appended; they are removed only with their thread.
type Message struct {
	// ID is unique within the owning thread.
	ID string `json:"id" yaml:"id"`

	// Role is the author of the message.
	Role Role `json:"role" yaml:"role"`

	// Content is the plain text body. It is always searched as the body segment.
	Content string `json:"content" yaml:"content"`

	// Sources are the ranked references of a structured assistant answer.
	// Empty for user messages and simple assistant replies.
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`

	// CreatedAt is when the message was appended.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// HasSources reports whether the message is a structured answer with sources.
func (m *Message) HasSources() bool {
	return m.Role == RoleAssistant && len(m.Sources) > 0
}

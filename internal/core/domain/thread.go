package domain

import "time"

// Thread is a conversation with an ordered list of messages.
// Message order is render order and is never re-sorted.
type Thread struct {
	// ID is the unique identifier for the thread.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable name shown in thread lists.
	Title string `json:"title" yaml:"title"`

	// Messages are the turns of the conversation in render order.
	Messages []Message `json:"messages" yaml:"messages"`

	// CreatedAt is when the thread was created.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// UpdatedAt is when a message was last appended or the title changed.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// MessageCount returns the number of messages in the thread.
func (t *Thread) MessageCount() int {
	return len(t.Messages)
}

// Clone returns a copy of the thread that owns its message slice.
func (t *Thread) Clone() Thread {
	c := *t
	c.Messages = make([]Message, len(t.Messages))
	copy(c.Messages, t.Messages)
	return c
}

package domain

import "time"

// ChunkStatus tracks where a knowledge chunk is in the embedding workflow.
type ChunkStatus string

// Chunk statuses.
const (
	// ChunkPending has been added or edited but not embedded.
	ChunkPending ChunkStatus = "pending"

	// ChunkEmbedded has been marked as embedded.
	ChunkEmbedded ChunkStatus = "embedded"
)

// IsValid returns true if the status is recognised.
func (s ChunkStatus) IsValid() bool {
	return s == ChunkPending || s == ChunkEmbedded
}

// Chunk is a knowledge-base entry the chatbot answers from.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id" yaml:"id"`

	// Title is a short label shown in lists.
	Title string `json:"title" yaml:"title"`

	// Content is the text the chatbot retrieves.
	Content string `json:"content" yaml:"content"`

	// Status is the embedding state.
	Status ChunkStatus `json:"status" yaml:"status"`

	// Position is the ordinal position in the knowledge base list.
	Position int `json:"position" yaml:"position"`

	// CreatedAt is when the chunk was added.
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`

	// UpdatedAt is when the chunk was last changed.
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

package domain

import "strings"

// SourceType classifies where an answer source came from.
type SourceType string

// Available source types.
const (
	// SourceRetrieval is a knowledge-base retrieval hit.
	SourceRetrieval SourceType = "retrieval"

	// SourceAPI is a response from an external API lookup.
	SourceAPI SourceType = "api"

	// SourceChat is a reference to a previous conversation.
	SourceChat SourceType = "chat"

	// SourcePIM is a product information record.
	SourcePIM SourceType = "pim"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceRetrieval, SourceAPI, SourceChat, SourcePIM:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Description returns a human-readable label for the type.
func (t SourceType) Description() string {
	switch t {
	case SourceRetrieval:
		return "Knowledge base"
	case SourceAPI:
		return "API"
	case SourceChat:
		return "Chat history"
	case SourcePIM:
		return "Product data"
	default:
		return "Unknown"
	}
}

// AllSourceTypes returns every recognised source type.
func AllSourceTypes() []SourceType {
	return []SourceType{SourceRetrieval, SourceAPI, SourceChat, SourcePIM}
}

// Source is one ranked reference attached to an assistant answer.
// Only Title and Content are searchable; the remaining fields are display data.
type Source struct {
	// ID identifies the source within its answer.
	ID string `json:"id" yaml:"id"`

	// Type classifies the source.
	Type SourceType `json:"type" yaml:"type"`

	// Rank orders sources of the same type. Lower is higher priority.
	Rank int `json:"rank" yaml:"rank"`

	// Title is the searchable headline.
	Title string `json:"title" yaml:"title"`

	// Content is the searchable body.
	Content string `json:"content" yaml:"content"`

	// URL points at the original record, if any.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Score is the retrieval score reported by the backend.
	Score float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// Attributes holds type-specific fields.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// Key returns the identifier used to address this source in search results.
// Format: "<type>:<id>".
func (s *Source) Key() string {
	return SourceKey(s.Type, s.ID)
}

// SourceKey builds a source key from its parts.
func SourceKey(t SourceType, id string) string {
	return string(t) + ":" + id
}

// ParseSourceKey splits a key produced by SourceKey.
// Returns false if the key has no type prefix.
func ParseSourceKey(key string) (SourceType, string, bool) {
	t, id, ok := strings.Cut(key, ":")
	if !ok || t == "" {
		return "", "", false
	}
	return SourceType(t), id, true
}

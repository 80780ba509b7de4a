package domain

// Answer is a structured assistant reply: a plain text body plus the
// ranked sources it was generated from.
type Answer struct {
	// Content is the reply text.
	Content string `json:"content" yaml:"content"`

	// Sources are the references the reply was built from.
	Sources []Source `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// Message converts the answer into an assistant message.
func (a *Answer) Message() Message {
	return Message{
		Role:    RoleAssistant,
		Content: a.Content,
		Sources: a.Sources,
	}
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAssistant.IsValid())
	assert.False(t, Role("system").IsValid())
}

func TestMessage_HasSources(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected bool
	}{
		{
			name:     "user message",
			msg:      Message{Role: RoleUser, Content: "hi"},
			expected: false,
		},
		{
			name:     "user message with stray sources",
			msg:      Message{Role: RoleUser, Sources: []Source{{ID: "s1"}}},
			expected: false,
		},
		{
			name:     "simple assistant reply",
			msg:      Message{Role: RoleAssistant, Content: "hello"},
			expected: false,
		},
		{
			name:     "structured answer",
			msg:      Message{Role: RoleAssistant, Sources: []Source{{ID: "s1", Type: SourceAPI, Rank: 1}}},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.msg.HasSources())
		})
	}
}

func TestThread_Clone(t *testing.T) {
	thread := Thread{
		ID:       "t1",
		Title:    "Returns",
		Messages: []Message{{ID: "m1", Role: RoleUser, Content: "hi"}},
	}

	clone := thread.Clone()
	clone.Messages[0].Content = "changed"
	clone.Messages = append(clone.Messages, Message{ID: "m2"})

	assert.Equal(t, "hi", thread.Messages[0].Content)
	assert.Equal(t, 1, thread.MessageCount())
	assert.Equal(t, 2, clone.MessageCount())
}

func TestChunkStatus_IsValid(t *testing.T) {
	assert.True(t, ChunkPending.IsValid())
	assert.True(t, ChunkEmbedded.IsValid())
	assert.False(t, ChunkStatus("failed").IsValid())
}

package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

func TestChunksListCmd(t *testing.T) {
	svc := setupTestServices(t)
	require.NoError(t, svc.Chunks.Import(context.Background(), []domain.Chunk{
		{ID: "kb-12", Title: "Refunds and returns", Status: domain.ChunkEmbedded},
		{ID: "kb-13", Title: "Shipping times"},
	}))

	out, err := executeCommand(t, "chunks", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "kb-12")
	assert.Contains(t, out, "Refunds and returns")
	assert.Contains(t, out, "embedded")
	assert.Contains(t, out, "pending")
}

func TestChunksListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := executeCommand(t, "chunks", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "No chunks found.")
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTime(time.Time{}))

	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-03-01 09:30", formatTime(ts))
}

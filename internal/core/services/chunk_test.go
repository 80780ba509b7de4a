package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
)

func newChunkService(t *testing.T, titles ...string) (*ChunkService, []string) {
	t.Helper()
	service := NewChunkService(memory.NewChunkStore())
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		chunk, err := service.Add(context.Background(), title, title+" content")
		require.NoError(t, err)
		ids = append(ids, chunk.ID)
	}
	return service, ids
}

func chunkTitles(t *testing.T, service *ChunkService) []string {
	t.Helper()
	chunks, err := service.List(context.Background())
	require.NoError(t, err)
	titles := make([]string, len(chunks))
	for i, c := range chunks {
		assert.Equal(t, i, c.Position, "positions are contiguous")
		titles[i] = c.Title
	}
	return titles
}

func TestChunkService_Add(t *testing.T) {
	service, ids := newChunkService(t, "a", "b")

	require.Len(t, ids, 2)
	assert.Equal(t, []string{"a", "b"}, chunkTitles(t, service))

	chunk, err := service.store.Get(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Equal(t, domain.ChunkPending, chunk.Status)
	assert.Equal(t, 1, chunk.Position)
}

func TestChunkService_Add_Empty(t *testing.T) {
	service, _ := newChunkService(t)

	_, err := service.Add(context.Background(), " ", "\n")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunkService_Update_ResetsStatus(t *testing.T) {
	service, ids := newChunkService(t, "a")
	ctx := context.Background()

	require.NoError(t, service.Embed(ctx, ids[0]))

	updated, err := service.Update(ctx, ids[0], "a2", "new content")
	require.NoError(t, err)
	assert.Equal(t, "a2", updated.Title)
	assert.Equal(t, domain.ChunkPending, updated.Status)

	_, err = service.Update(ctx, "missing", "x", "y")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkService_Delete_Renumbers(t *testing.T) {
	service, ids := newChunkService(t, "a", "b", "c")
	ctx := context.Background()

	service.Select(ids[1])
	require.NoError(t, service.Delete(ctx, ids[1]))

	assert.Equal(t, []string{"a", "c"}, chunkTitles(t, service))
	selected, err := service.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)

	assert.ErrorIs(t, service.Delete(ctx, ids[1]), domain.ErrNotFound)
}

func TestChunkService_Move(t *testing.T) {
	tests := []struct {
		name     string
		move     int
		to       int
		expected []string
	}{
		{"down", 0, 2, []string{"b", "c", "a", "d"}},
		{"up", 3, 1, []string{"a", "d", "b", "c"}},
		{"same place", 1, 1, []string{"a", "b", "c", "d"}},
		{"clamped high", 0, 99, []string{"b", "c", "d", "a"}},
		{"clamped low", 2, -5, []string{"c", "a", "b", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, ids := newChunkService(t, "a", "b", "c", "d")

			require.NoError(t, service.Move(context.Background(), ids[tt.move], tt.to))

			assert.Equal(t, tt.expected, chunkTitles(t, service))
		})
	}
}

func TestChunkService_Move_NotFound(t *testing.T) {
	service, _ := newChunkService(t, "a")

	err := service.Move(context.Background(), "missing", 0)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChunkService_Embed(t *testing.T) {
	service, ids := newChunkService(t, "a", "b")
	ctx := context.Background()

	require.NoError(t, service.Embed(ctx, ids...))

	chunks, err := service.List(ctx)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.Equal(t, domain.ChunkEmbedded, c.Status)
	}

	assert.ErrorIs(t, service.Embed(ctx, "missing"), domain.ErrNotFound)
}

func TestChunkService_Selection(t *testing.T) {
	service, ids := newChunkService(t, "a", "b", "c")
	ctx := context.Background()

	service.Select(ids[2])
	assert.True(t, service.Toggle(ids[0]))
	service.Select("ghost")

	selected, err := service.Selected(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ids[0], ids[2]}, selected, "list order, unknown ids dropped")

	assert.False(t, service.Toggle(ids[0]))
	service.Deselect(ids[2])
	selected, err = service.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)

	service.Select(ids[1])
	service.ClearSelection()
	selected, err = service.Selected(ctx)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestChunkService_Import(t *testing.T) {
	service, _ := newChunkService(t, "existing")
	ctx := context.Background()

	err := service.Import(ctx, []domain.Chunk{
		{ID: "k1", Title: "imported", Status: domain.ChunkEmbedded, Position: 40},
		{Title: "no id", Status: "bogus"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"existing", "imported", "no id"}, chunkTitles(t, service))

	chunks, err := service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ChunkEmbedded, chunks[1].Status)
	assert.Equal(t, domain.ChunkPending, chunks[2].Status)
	assert.NotEmpty(t, chunks[2].ID)

	// Re-import keeps the slot and replaces content.
	require.NoError(t, service.Import(ctx, []domain.Chunk{{ID: "k1", Title: "imported v2"}}))
	assert.Equal(t, []string{"existing", "imported v2", "no id"}, chunkTitles(t, service))
}

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/store"
)

func buildIndex(t *testing.T, chunks []models.Chunk) *store.MemoryIndex {
	t.Helper()
	idx := store.NewMemoryIndex()
	require.NoError(t, idx.Build(context.Background(), chunks))
	return idx
}

func TestMemoryIndex_RanksBySimilarity(t *testing.T) {
	idx := buildIndex(t, []models.Chunk{
		{ID: 0, Position: 0, Text: "east", Vector: []float32{1, 0}},
		{ID: 1, Position: 1, Text: "north", Vector: []float32{0, 1}},
		{ID: 2, Position: 2, Text: "northeast", Vector: []float32{1, 1}},
	})

	results, err := idx.Search(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "east", results[0].Chunk.Text)
	assert.Equal(t, "northeast", results[1].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryIndex_FullOrderingWithTieBreak(t *testing.T) {
	// Chunks 1 and 2 have identical vectors; the earlier position
	// must come first.
	idx := buildIndex(t, []models.Chunk{
		{ID: 0, Position: 0, Vector: []float32{0, 1}},
		{ID: 2, Position: 2, Vector: []float32{1, 0}},
		{ID: 1, Position: 1, Vector: []float32{1, 0}},
	})

	results, err := idx.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].Chunk.Position)
	assert.Equal(t, 2, results[1].Chunk.Position)
	assert.Equal(t, 0, results[2].Chunk.Position)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestMemoryIndex_KLargerThanIndex(t *testing.T) {
	idx := buildIndex(t, []models.Chunk{
		{ID: 0, Position: 0, Vector: []float32{1, 0}},
		{ID: 1, Position: 1, Vector: []float32{0, 1}},
	})

	results, err := idx.Search(context.Background(), []float32{1, 0}, 100)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryIndex_Empty(t *testing.T) {
	idx := store.NewMemoryIndex()
	require.NoError(t, idx.Build(context.Background(), nil))

	results, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryIndex_BuildReplacesPriorChunks(t *testing.T) {
	idx := buildIndex(t, []models.Chunk{
		{ID: 0, Position: 0, Text: "old", Vector: []float32{1, 0}},
	})

	require.NoError(t, idx.Build(context.Background(), []models.Chunk{
		{ID: 0, Position: 0, Text: "new", Vector: []float32{0, 1}},
	}))

	results, err := idx.Search(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new", results[0].Chunk.Text)
}

func TestMemoryIndex_DimensionMismatch(t *testing.T) {
	idx := store.NewMemoryIndex()

	err := idx.Build(context.Background(), []models.Chunk{
		{ID: 0, Position: 0, Vector: []float32{1, 0}},
		{ID: 1, Position: 1, Vector: []float32{1, 0, 0}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)

	idx = buildIndex(t, []models.Chunk{
		{ID: 0, Position: 0, Vector: []float32{1, 0}},
	})
	_, err = idx.Search(context.Background(), []float32{1, 0, 0}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidConfiguration)
}

package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/pkg/store"
)

// Integration test; needs a Postgres with the pgvector extension.
func TestPgIndex(t *testing.T) {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set")
	}

	idx, err := store.NewWithConfig(store.PgIndexConfig{
		ConnString: connString,
		TableName:  "test_chunks",
		VectorDim:  3,
	})
	require.NoError(t, err)
	defer idx.Close()

	ctx := context.Background()

	chunks := []models.Chunk{
		{ID: 0, Text: "first chunk", Position: 0, Vector: []float32{1, 0, 0}},
		{ID: 1, Text: "second chunk", Position: 1, Vector: []float32{0, 1, 0}},
	}
	require.NoError(t, idx.Build(ctx, chunks))

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Chunk.ID)
	assert.Equal(t, "first chunk", results[0].Chunk.Text)

	// A rebuild replaces everything from the prior document.
	replacement := []models.Chunk{
		{ID: 0, Text: "new document", Position: 0, Vector: []float32{0, 0, 1}},
	}
	require.NoError(t, idx.Build(ctx, replacement))

	results, err = idx.Search(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new document", results[0].Chunk.Text)
}

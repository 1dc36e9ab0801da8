package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

// MemoryIndex is an exact brute-force nearest-neighbor index held in
// memory. Build replaces the whole chunk set in one step, so a
// concurrent Search sees either the old set or the new one, never a
// mix.
type MemoryIndex struct {
	mu     sync.RWMutex
	dim    int
	chunks []models.Chunk
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

func (idx *MemoryIndex) Build(ctx context.Context, chunks []models.Chunk) error {
	dim := 0
	for _, chunk := range chunks {
		if dim == 0 {
			dim = len(chunk.Vector)
		}
		if len(chunk.Vector) == 0 || len(chunk.Vector) != dim {
			return fmt.Errorf("%w: chunk %d has vector dimension %d, want %d",
				types.ErrInvalidConfiguration, chunk.ID, len(chunk.Vector), dim)
		}
	}

	fresh := make([]models.Chunk, len(chunks))
	copy(fresh, chunks)

	idx.mu.Lock()
	idx.chunks = fresh
	idx.dim = dim
	idx.mu.Unlock()

	return nil
}

func (idx *MemoryIndex) Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.chunks) == 0 {
		return nil, nil
	}
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("%w: query vector dimension %d, index dimension %d",
			types.ErrInvalidConfiguration, len(vector), idx.dim)
	}

	results := make([]models.SearchResult, 0, len(idx.chunks))
	for _, chunk := range idx.chunks {
		results = append(results, models.SearchResult{
			Chunk: chunk,
			Score: cosine(vector, chunk.Vector),
		})
	}

	// Descending similarity; earlier chunk wins a tie.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Position < results[j].Chunk.Position
	})

	if k > len(results) {
		k = len(results)
	}
	if k < 0 {
		k = 0
	}
	return results[:k], nil
}

// cosine is the normalized inner product of two equal-length vectors.
func cosine(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(na))) * float32(math.Sqrt(float64(nb))))
}

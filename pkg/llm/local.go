package llm

import (
	"context"
	"hash/fnv"
	"strings"
)

// LocalEmbedder is a deterministic bag-of-words hash embedder. It
// needs no model server, which makes it the offline fallback and the
// embedder of choice in tests. Texts sharing words land near each
// other, which is enough for retrieval over a single document.
type LocalEmbedder struct {
	dim int
}

func NewLocalEmbedder(dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = 128
	}
	return &LocalEmbedder{dim: dimension}
}

func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if word == "" {
			continue
		}

		h := fnv.New32a()
		h.Write([]byte(word))
		vector[h.Sum32()%uint32(e.dim)]++
	}

	Normalize(vector)
	return vector, nil
}

func (e *LocalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = vector
	}
	return results, nil
}

func (e *LocalEmbedder) Dimension() int {
	return e.dim
}

package processor

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

type ChunkerConfig struct {
	ChunkSize int
	// ChunkOverlap is used as given; zero means adjacent windows
	// share no text.
	ChunkOverlap int
	// SnapLookback is how many runes to look back from a cut point
	// for whitespace before falling back to a hard cut.
	SnapLookback int
	// DisableSnapping forces hard character cuts. Mostly useful for
	// exact-coverage verification.
	DisableSnapping bool
}

// Chunker splits normalized text into overlapping fixed-size windows.
// Successive windows start ChunkSize-ChunkOverlap runes after the
// previous one, so a span crossing a window boundary is still fully
// contained in at least one chunk.
type Chunker struct {
	config ChunkerConfig
}

func NewWithConfig(config ChunkerConfig) Chunker {
	if config.ChunkSize == 0 {
		config.ChunkSize = 500
	}
	if config.SnapLookback == 0 {
		config.SnapLookback = 32
	}

	return Chunker{
		config: config,
	}
}

func (c *Chunker) Chunk(text string) ([]models.Chunk, error) {
	// A window that does not advance would loop forever.
	if c.config.ChunkOverlap < 0 || c.config.ChunkSize <= c.config.ChunkOverlap {
		return nil, fmt.Errorf("%w: chunk size %d must exceed overlap %d",
			types.ErrInvalidConfiguration, c.config.ChunkSize, c.config.ChunkOverlap)
	}

	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	stride := c.config.ChunkSize - c.config.ChunkOverlap

	var chunks []models.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + c.config.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		cs, ce := start, end
		if !c.config.DisableSnapping {
			cs = c.snapStart(runes, cs)
			ce = c.snapEnd(runes, ce)
		}
		if ce <= cs {
			continue
		}

		chunkText := string(runes[cs:ce])
		if !c.config.DisableSnapping {
			chunkText = strings.TrimSpace(chunkText)
		}
		if chunkText == "" {
			continue
		}

		position := len(chunks)
		chunks = append(chunks, models.Chunk{
			ID:       position,
			Text:     chunkText,
			Position: position,
		})
	}

	return chunks, nil
}

// snapStart advances a window start that landed mid-word to just past
// the next whitespace, as long as one exists within the lookback.
func (c *Chunker) snapStart(runes []rune, start int) int {
	if start == 0 || unicode.IsSpace(runes[start-1]) || unicode.IsSpace(runes[start]) {
		return start
	}
	limit := start + c.config.SnapLookback
	if limit > len(runes) {
		limit = len(runes)
	}
	for i := start; i < limit; i++ {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return start
}

// snapEnd pulls a window end that landed mid-word back to the last
// whitespace within the lookback.
func (c *Chunker) snapEnd(runes []rune, end int) int {
	if end >= len(runes) || unicode.IsSpace(runes[end-1]) || unicode.IsSpace(runes[end]) {
		return end
	}
	limit := end - c.config.SnapLookback
	if limit < 0 {
		limit = 0
	}
	for i := end - 1; i >= limit; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return end
}

package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/rimsha-sudo/RAG-Chatbot/internal/models"
	"github.com/rimsha-sudo/RAG-Chatbot/internal/types"
)

type PgIndexConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
}

// PgIndex is a pgvector-backed implementation of the same index
// interface the in-memory index satisfies. Build rewrites the table
// in a single transaction so queries never see a half-built index.
type PgIndex struct {
	config PgIndexConfig
	pool   *pgxpool.Pool
}

func NewWithConfig(config PgIndexConfig) (*PgIndex, error) {
	if config.TableName == "" {
		config.TableName = "chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	idx := &PgIndex{
		config: config,
		pool:   pool,
	}

	if err := idx.initialize(); err != nil {
		pool.Close()
		return nil, err
	}

	return idx, nil
}

func (idx *PgIndex) initialize() error {
	ctx := context.Background()

	// Enable pgvector extension
	_, err := idx.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("failed to create vector extension: %v", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			content TEXT NOT NULL,
			position INTEGER NOT NULL,
			embedding vector(%d)
		)`, idx.config.TableName, idx.config.VectorDim)

	_, err = idx.pool.Exec(ctx, createTable)
	if err != nil {
		return fmt.Errorf("failed to create table: %v", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		idx.config.TableName, idx.config.TableName)

	_, err = idx.pool.Exec(ctx, createIndex)
	if err != nil {
		return fmt.Errorf("failed to create index: %v", err)
	}

	return nil
}

func (idx *PgIndex) Build(ctx context.Context, chunks []models.Chunk) error {
	for _, chunk := range chunks {
		if len(chunk.Vector) != idx.config.VectorDim {
			return fmt.Errorf("%w: chunk %d has vector dimension %d, want %d",
				types.ErrInvalidConfiguration, chunk.ID, len(chunk.Vector), idx.config.VectorDim)
		}
	}

	tx, err := idx.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	// The previous document's chunks are replaced wholesale.
	if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE %s", idx.config.TableName)); err != nil {
		return fmt.Errorf("failed to clear index: %v", err)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, content, position, embedding)
		VALUES ($1, $2, $3, $4)`,
		idx.config.TableName)

	for _, chunk := range chunks {
		_, err = tx.Exec(ctx, stmt,
			chunk.ID,
			sanitizeUTF8(chunk.Text),
			chunk.Position,
			pgvector.NewVector(chunk.Vector),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %v", chunk.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	return nil
}

func (idx *PgIndex) Search(ctx context.Context, vector []float32, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	// <=> is cosine distance; similarity = 1 - distance. Position is
	// the tie-break so equal-distance chunks come out deterministic.
	query := fmt.Sprintf(`
		SELECT id, content, position, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1, position
		LIMIT $2`,
		idx.config.TableName)

	rows, err := idx.pool.Query(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %v", err)
	}
	defer rows.Close()

	var results []models.SearchResult
	for rows.Next() {
		var result models.SearchResult
		err := rows.Scan(
			&result.Chunk.ID,
			&result.Chunk.Text,
			&result.Chunk.Position,
			&result.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %v", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (idx *PgIndex) Close() {
	if idx.pool != nil {
		idx.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}

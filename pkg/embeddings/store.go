package embeddings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// Pair is one question/answer unit of the semantic index.
type Pair struct {
	Question string
	Answer   string
}

// Key identifies a pair in the store.
func (p Pair) Key() string {
	return ContentHash(p.Question)
}

// Hash covers both sides, for staleness detection when an answer is
// re-learned under the same question.
func (p Pair) Hash() string {
	return ContentHash(p.Question + "\n" + p.Answer)
}

// Store provides pgvector-backed embedding storage and search.
type Store struct {
	pool *pgxpool.Pool
}

// SearchResult holds a vector similarity search result.
type SearchResult struct {
	Question string
	Answer   string
	Distance float64 // cosine distance (lower = more similar)
}

// NewStore creates a new pgvector store and verifies the connection.
func NewStore(ctx context.Context, pgURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(pgURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres URL: %w", err)
	}

	// Register pgvector types on each new connection
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Init creates the pgvector extension, table, and indexes if they don't exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS qa_embeddings (
			question_key TEXT PRIMARY KEY,
			question     TEXT NOT NULL,
			answer       TEXT NOT NULL,
			embedding    vector(768) NOT NULL,
			content_hash TEXT NOT NULL,
			model_name   TEXT NOT NULL DEFAULT 'nomic-embed-text-v1.5',
			embedded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create qa_embeddings table: %w", err)
	}

	// HNSW index for cosine similarity search
	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_qa_embeddings_hnsw
		ON qa_embeddings
		USING hnsw (embedding vector_cosine_ops)
		WITH (m = 16, ef_construction = 64)
	`)
	if err != nil {
		return fmt.Errorf("create HNSW index: %w", err)
	}

	slog.Info("embedding store initialized")
	return nil
}

// Close closes the database connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Insert stores or updates the embedding for one pair.
func (s *Store) Insert(ctx context.Context, p Pair, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qa_embeddings (question_key, question, answer, embedding, content_hash, embedded_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (question_key) DO UPDATE
		SET question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			embedding = EXCLUDED.embedding,
			content_hash = EXCLUDED.content_hash,
			embedded_at = now()
	`, p.Key(), p.Question, p.Answer, vec, p.Hash())
	if err != nil {
		return fmt.Errorf("insert embedding %s: %w", p.Key(), err)
	}
	return nil
}

// InsertBatch stores embeddings for multiple pairs in a single transaction.
func (s *Store) InsertBatch(ctx context.Context, pairs []Pair, embeddings [][]float32) error {
	if len(pairs) != len(embeddings) {
		return fmt.Errorf("mismatched batch sizes: pairs=%d embeddings=%d", len(pairs), len(embeddings))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin batch tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, p := range pairs {
		vec := pgvector.NewVector(embeddings[i])
		_, err := tx.Exec(ctx, `
			INSERT INTO qa_embeddings (question_key, question, answer, embedding, content_hash, embedded_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (question_key) DO UPDATE
			SET question = EXCLUDED.question,
				answer = EXCLUDED.answer,
				embedding = EXCLUDED.embedding,
				content_hash = EXCLUDED.content_hash,
				embedded_at = now()
		`, p.Key(), p.Question, p.Answer, vec, p.Hash())
		if err != nil {
			return fmt.Errorf("insert embedding %s: %w", p.Key(), err)
		}
	}

	return tx.Commit(ctx)
}

// Search returns the top-K most similar pairs by cosine distance.
func (s *Store) Search(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	vec := pgvector.NewVector(queryEmbedding)
	rows, err := s.pool.Query(ctx, `
		SELECT question, answer, embedding <=> $1 AS distance
		FROM qa_embeddings
		ORDER BY embedding <=> $1
		LIMIT $2
	`, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.Question, &r.Answer, &r.Distance); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetEmbedded returns all embedded question keys with their content hashes.
func (s *Store) GetEmbedded(ctx context.Context) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, "SELECT question_key, content_hash FROM qa_embeddings")
	if err != nil {
		return nil, fmt.Errorf("get embedded: %w", err)
	}
	defer rows.Close()

	embedded := make(map[string]string)
	for rows.Next() {
		var key, hash string
		if err := rows.Scan(&key, &hash); err != nil {
			return nil, fmt.Errorf("scan embedded: %w", err)
		}
		embedded[key] = hash
	}
	return embedded, rows.Err()
}

// Delete removes the embedding for a question key.
func (s *Store) Delete(ctx context.Context, questionKey string) error {
	_, err := s.pool.Exec(ctx, "DELETE FROM qa_embeddings WHERE question_key = $1", questionKey)
	return err
}

// Stats returns embedding count.
func (s *Store) Stats(ctx context.Context) (count int, err error) {
	err = s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM qa_embeddings").Scan(&count)
	return
}

package embeddings

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// SemanticThreshold is the minimum cosine similarity for a semantic
// match to be served.
const SemanticThreshold = 0.30

// Index is the semantic search entry point. With a pgvector store it
// delegates search to Postgres; without one it keeps the vectors in
// memory and scans them directly, so the semantic layer still works on
// a single-process install.
type Index struct {
	tei   *TEIClient
	store *Store

	mu    sync.RWMutex
	pairs []Pair
	vecs  [][]float32
}

// NewIndex builds an index over the TEI client. store may be nil.
func NewIndex(tei *TEIClient, store *Store) *Index {
	return &Index{tei: tei, store: store}
}

// Rebuild re-embeds the given pairs into the in-memory index. No-op on
// the pgvector path, where the sync worker owns the vectors.
func (ix *Index) Rebuild(ctx context.Context, pairs []Pair) error {
	if ix.store != nil {
		return nil
	}
	if len(pairs) == 0 {
		ix.mu.Lock()
		ix.pairs, ix.vecs = nil, nil
		ix.mu.Unlock()
		return nil
	}
	texts := make([]string, len(pairs))
	for i, p := range pairs {
		texts[i] = p.Question
	}
	vecs, err := ix.tei.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed corpus: %w", err)
	}
	if len(vecs) != len(pairs) {
		return fmt.Errorf("embedding count mismatch: %d pairs, %d vectors", len(pairs), len(vecs))
	}
	ix.mu.Lock()
	ix.pairs, ix.vecs = pairs, vecs
	ix.mu.Unlock()
	return nil
}

// Search returns the pairs nearest to the query, best first.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	queryVec, err := ix.tei.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if ix.store != nil {
		return ix.store.Search(ctx, queryVec, limit)
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	results := make([]SearchResult, 0, len(ix.pairs))
	for i, p := range ix.pairs {
		results = append(results, SearchResult{
			Question: p.Question,
			Answer:   p.Answer,
			Distance: CosineDistance(queryVec, ix.vecs[i]),
		})
	}
	sort.Slice(results, func(a, b int) bool { return results[a].Distance < results[b].Distance })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Best returns the single nearest pair and its cosine similarity. ok is
// false when the index is empty or no similarity is strictly above
// SemanticThreshold.
func (ix *Index) Best(ctx context.Context, query string) (SearchResult, float64, bool, error) {
	results, err := ix.Search(ctx, query, 1)
	if err != nil || len(results) == 0 {
		return SearchResult{}, 0, false, err
	}
	sim := 1 - results[0].Distance
	if sim <= SemanticThreshold {
		return results[0], sim, false, nil
	}
	return results[0], sim, true, nil
}

// CosineDistance is 1 - cosine similarity. Zero vectors are maximally
// distant.
func CosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

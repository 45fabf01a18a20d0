package embeddings

import (
	"context"
	"crypto/md5"
	"fmt"
	"log/slog"
	"time"
)

// Source supplies the pairs that should be embedded: the curated corpus
// plus confident learned answers.
type Source interface {
	Pairs() ([]Pair, error)
}

// SyncWorker keeps pgvector embeddings in sync with the question
// corpus. It polls for un-embedded or stale pairs and processes them in
// batches.
type SyncWorker struct {
	source    Source
	store     *Store
	tei       *TEIClient
	interval  time.Duration
	batchSize int
}

// NewSyncWorker creates a new background sync worker.
func NewSyncWorker(source Source, store *Store, tei *TEIClient, interval time.Duration, batchSize int) *SyncWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 32
	}
	return &SyncWorker{
		source:    source,
		store:     store,
		tei:       tei,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run starts the sync loop. Blocks until ctx is cancelled.
func (w *SyncWorker) Run(ctx context.Context) {
	slog.Info("embedding sync worker started",
		"interval", w.interval,
		"batch_size", w.batchSize,
	)

	// Initial sync on startup (backfill)
	if embedded, err := w.SyncOnce(ctx); err != nil {
		slog.Warn("initial embedding sync failed", "error", err)
	} else if embedded > 0 {
		slog.Info("initial embedding sync complete", "embedded", embedded)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("embedding sync worker stopping")
			return
		case <-ticker.C:
			if embedded, err := w.SyncOnce(ctx); err != nil {
				slog.Warn("embedding sync cycle failed", "error", err)
			} else if embedded > 0 {
				slog.Info("embedding sync cycle", "embedded", embedded)
			}
		}
	}
}

// SyncOnce runs a single sync cycle:
//  1. Collect the current pairs from the source
//  2. Get all embedded keys + content hashes from pgvector
//  3. Find un-embedded or stale (hash mismatch) pairs
//  4. Batch embed via TEI
//  5. Store in pgvector
func (w *SyncWorker) SyncOnce(ctx context.Context) (int, error) {
	pairs, err := w.source.Pairs()
	if err != nil {
		return 0, fmt.Errorf("collect pairs: %w", err)
	}

	embedded, err := w.store.GetEmbedded(ctx)
	if err != nil {
		return 0, fmt.Errorf("get embedded: %w", err)
	}

	var toEmbed []Pair
	for _, p := range pairs {
		existingHash, exists := embedded[p.Key()]
		if !exists || existingHash != p.Hash() {
			toEmbed = append(toEmbed, p)
		}
	}

	if len(toEmbed) == 0 {
		return 0, nil
	}

	slog.Info("pairs need embedding",
		"total", len(pairs),
		"already_embedded", len(embedded),
		"to_embed", len(toEmbed),
	)

	totalEmbedded := 0
	for i := 0; i < len(toEmbed); i += w.batchSize {
		end := i + w.batchSize
		if end > len(toEmbed) {
			end = len(toEmbed)
		}
		batch := toEmbed[i:end]

		texts := make([]string, len(batch))
		for j, p := range batch {
			texts[j] = p.Question
		}

		embeddings, err := w.tei.EmbedDocuments(ctx, texts)
		if err != nil {
			slog.Warn("embed batch failed", "error", err, "batch_start", i, "batch_size", len(texts))
			continue
		}

		if err := w.store.InsertBatch(ctx, batch, embeddings); err != nil {
			slog.Warn("store batch failed", "error", err, "batch_start", i)
			continue
		}

		totalEmbedded += len(embeddings)
		slog.Debug("batch embedded",
			"batch", i/w.batchSize+1,
			"count", len(embeddings),
			"total_so_far", totalEmbedded,
		)
	}

	return totalEmbedded, nil
}

// ContentHash computes an MD5 hash of content for staleness detection.
func ContentHash(content string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}

package reference

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Cached-search weights. Summary hits count triple since summaries are
// dense with defining terms; a contiguous phrase hit earns a flat bonus.
const (
	summaryWeight = 3
	bodyWeight    = 1
	phraseBonus   = 5
)

const liveSearchLimit = 5

// CacheHit is the best cached page for a query plus the paragraph most
// relevant to it.
type CacheHit struct {
	Page      *Page
	Score     int
	Paragraph string
}

// SearchCache ranks the cached pages against the query. Words of three
// or more characters count occurrences in the summary (weighted) and
// body; the phrase of the first three significant words earns a bonus
// when it appears contiguously. ok is false when no page scores above
// zero.
func SearchCache(c *Cache, query string) (CacheHit, bool) {
	words := significantWords(query)
	phrase := strings.Join(firstN(words, 3), " ")

	var best CacheHit
	for _, p := range c.Pages() {
		summary := strings.ToLower(p.Summary)
		body := strings.ToLower(p.Body)

		score := 0
		for _, w := range words {
			score += strings.Count(summary, w) * summaryWeight
			score += strings.Count(body, w) * bodyWeight
		}
		if len(words) >= 3 && (strings.Contains(summary, phrase) || strings.Contains(body, phrase)) {
			score += phraseBonus
		}
		// Ties keep the earlier page, matching load order priority.
		if score > best.Score {
			best = CacheHit{Page: p, Score: score}
		}
	}
	if best.Page == nil {
		return best, false
	}
	best.Paragraph = bestParagraph(best.Page, words)
	return best, true
}

// bestParagraph picks the body paragraph with the most query-word hits.
// Falls back to the opening paragraph when nothing hits.
func bestParagraph(p *Page, words []string) string {
	paragraphs := splitParagraphs(p.Body)
	if len(paragraphs) == 0 {
		return p.Summary
	}
	best, bestScore := paragraphs[0], 0
	for _, para := range paragraphs {
		lower := strings.ToLower(para)
		score := 0
		for _, w := range words {
			score += strings.Count(lower, w)
		}
		if score > bestScore {
			best, bestScore = para, score
		}
	}
	return best
}

func splitParagraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(body, "\n\n") {
		for _, line := range strings.Split(p, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "==") {
				out = append(out, line)
			}
		}
	}
	return out
}

func significantWords(query string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,!?\"'()")
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

func firstN(s []string, n int) []string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

// Searcher is the live-search slice of Client.
type Searcher interface {
	Fetcher
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

// SearchLive queries the API for candidate titles and returns the first
// page that opens. Ambiguous candidates fall back to their first
// suggested alternative; candidates that fail entirely are skipped.
func SearchLive(ctx context.Context, s Searcher, query string) (*Page, error) {
	titles, err := s.Search(ctx, query, liveSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, title := range titles {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		page, err := s.Page(ctx, title)
		if err != nil {
			var de *DisambiguationError
			if errors.As(err, &de) && len(de.Options) > 0 {
				page, err = s.Page(ctx, de.Options[0])
			}
		}
		if err != nil {
			slog.Debug("live candidate skipped", "title", title, "error", err)
			continue
		}
		return page, nil
	}
	return nil, ErrPageMissing
}

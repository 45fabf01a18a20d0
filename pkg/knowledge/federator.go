package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kaladi-labs/acharya/pkg/embeddings"
	"github.com/kaladi-labs/acharya/pkg/persona"
	"github.com/kaladi-labs/acharya/pkg/reference"
	"github.com/kaladi-labs/acharya/pkg/text"
)

// SourceKind says which layer produced an answer.
type SourceKind string

const (
	SourceLocal           SourceKind = "local"
	SourceCachedReference SourceKind = "cached-reference"
	SourceLiveReference   SourceKind = "live-reference"
)

// Answer is a resolved response ready for composition.
type Answer struct {
	Text     string
	Question string // matched corpus question, when applicable
	Kind     SourceKind
	Score    float64 // lexical or semantic score of the match
}

// Capabilities reports which optional layers are live, so the health
// endpoint and logs can say what the install can actually do.
type Capabilities struct {
	Semantic        bool `json:"semantic"`
	CachedReference bool `json:"cached_reference"`
	LiveReference   bool `json:"live_reference"`
}

// Confidence assigned to answers captured from reference sources.
const (
	cachedLearnConfidence = 0.9
	liveLearnConfidence   = 0.8
)

// Federator consults answer sources in priority order: curated and
// learned answers first, then the semantic index, then the restricted
// reference cache, then live reference search. Sources that are not
// configured are skipped; sources that fail degrade to the next one.
type Federator struct {
	corpus   *Corpus
	learned  *LearnedStore
	scorer   *text.Scorer
	index    *embeddings.Index
	cache    *reference.Cache
	live     reference.Searcher
	rewriter persona.Rewriter
	timeout  time.Duration
}

// Option configures optional federator layers.
type Option func(*Federator)

// WithSemanticIndex enables the embedding layer.
func WithSemanticIndex(ix *embeddings.Index) Option {
	return func(f *Federator) { f.index = ix }
}

// WithReferenceCache enables the preloaded page cache.
func WithReferenceCache(c *reference.Cache) Option {
	return func(f *Federator) { f.cache = c }
}

// WithLiveSearch enables live reference search.
func WithLiveSearch(s reference.Searcher) Option {
	return func(f *Federator) { f.live = s }
}

// WithTimeout bounds each network-backed layer.
func WithTimeout(d time.Duration) Option {
	return func(f *Federator) { f.timeout = d }
}

// NewFederator wires the always-on layers; options add the rest.
func NewFederator(corpus *Corpus, learned *LearnedStore, scorer *text.Scorer, opts ...Option) *Federator {
	f := &Federator{
		corpus:  corpus,
		learned: learned,
		scorer:  scorer,
		timeout: 10 * time.Second,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Capabilities reports the live optional layers.
func (f *Federator) Capabilities() Capabilities {
	return Capabilities{
		Semantic:        f.index != nil,
		CachedReference: f.cache != nil && f.cache.Len() > 0,
		LiveReference:   f.live != nil,
	}
}

// Pairs implements embeddings.Source: the curated corpus plus confident
// learned answers.
func (f *Federator) Pairs() ([]embeddings.Pair, error) {
	var pairs []embeddings.Pair
	for _, e := range f.corpus.Entries() {
		pairs = append(pairs, embeddings.Pair{Question: e.Question, Answer: e.Answer})
	}
	if f.learned != nil {
		learned, err := f.learned.Confident()
		if err != nil {
			return nil, fmt.Errorf("confident learned answers: %w", err)
		}
		for _, l := range learned {
			pairs = append(pairs, embeddings.Pair{Question: l.Question, Answer: l.Answer})
		}
	}
	return pairs, nil
}

// Resolve runs the federation. A nil Answer with nil error means no
// source could answer and the caller should fall back to its unknown
// response.
func (f *Federator) Resolve(ctx context.Context, query string) (*Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	best := f.resolveLocal(query)

	if f.index != nil {
		if sem := f.resolveSemantic(ctx, query); sem != nil {
			// The semantic match wins only when it beats the lexical one.
			if best == nil || sem.Score > best.Score {
				best = sem
			}
		}
	}
	if best != nil {
		return best, nil
	}

	if f.cache != nil {
		if ans := f.resolveCached(query); ans != nil {
			return ans, nil
		}
	}
	if f.live != nil {
		if ans := f.resolveLive(ctx, query); ans != nil {
			return ans, nil
		}
	}
	return nil, nil
}

// resolveLocal scores the query against curated and confident learned
// questions. Returns nil below the serving threshold.
func (f *Federator) resolveLocal(query string) *Answer {
	entries := f.corpus.Entries()
	questions := make([]string, 0, len(entries))
	answers := make([]string, 0, len(entries))
	var learnedIDs []int64
	for _, e := range entries {
		questions = append(questions, e.Question)
		answers = append(answers, e.Answer)
		learnedIDs = append(learnedIDs, 0)
	}
	if f.learned != nil {
		learned, err := f.learned.Confident()
		if err != nil {
			slog.Warn("learned lookup failed", "error", err)
		} else {
			for _, l := range learned {
				questions = append(questions, l.Question)
				answers = append(answers, l.Answer)
				learnedIDs = append(learnedIDs, l.ID)
			}
		}
	}

	m, ok := f.scorer.BestMatch(query, questions)
	if !ok {
		return nil
	}
	if id := learnedIDs[m.Index]; id != 0 {
		if err := f.learned.RecordUse(id); err != nil {
			slog.Warn("record learned use failed", "error", err, "id", id)
		}
	}
	return &Answer{
		Text:     answers[m.Index],
		Question: questions[m.Index],
		Kind:     SourceLocal,
		Score:    m.Score,
	}
}

func (f *Federator) resolveSemantic(ctx context.Context, query string) *Answer {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	result, sim, ok, err := f.index.Best(ctx, query)
	if err != nil {
		slog.Warn("semantic search failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return &Answer{
		Text:     result.Answer,
		Question: result.Question,
		Kind:     SourceLocal,
		Score:    sim,
	}
}

// resolveCached searches the preloaded reference pages and rewrites the
// hit into first person. Served answers are captured as learned so the
// next ask resolves locally.
func (f *Federator) resolveCached(query string) *Answer {
	hit, ok := reference.SearchCache(f.cache, query)
	if !ok {
		return nil
	}
	prose := hit.Page.Summary
	if hit.Paragraph != "" && hit.Paragraph != hit.Page.Summary {
		prose += "\n\n" + hit.Paragraph
	}
	answer := f.rewriter.Rewrite(prose)
	f.capture(query, answer, SourceCachedReference, hit.Page.URL, cachedLearnConfidence)
	return &Answer{
		Text:  answer,
		Kind:  SourceCachedReference,
		Score: float64(hit.Score),
	}
}

func (f *Federator) resolveLive(ctx context.Context, query string) *Answer {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := reference.SearchLive(ctx, f.live, query)
	if err != nil {
		if !errors.Is(err, reference.ErrPageMissing) {
			slog.Warn("live reference search failed", "error", err)
		}
		return nil
	}
	prose := page.Summary
	// Longer queries get body detail, short ones just the lead.
	if len(strings.Fields(query)) > 2 {
		if para := referenceParagraph(page, query); para != "" && para != page.Summary {
			prose += "\n\n" + para
		}
	}
	answer := f.rewriter.Rewrite(prose)
	f.capture(query, answer, SourceLiveReference, page.URL, liveLearnConfidence)
	return &Answer{
		Text: answer,
		Kind: SourceLiveReference,
	}
}

func referenceParagraph(page *reference.Page, query string) string {
	c := reference.NewCache()
	c.Put(page)
	if hit, ok := reference.SearchCache(c, query); ok {
		return hit.Paragraph
	}
	return ""
}

func (f *Federator) capture(question, answer string, kind SourceKind, url string, confidence float64) {
	if f.learned == nil {
		return
	}
	if _, err := f.learned.Capture(question, answer, string(kind), url, confidence); err != nil {
		slog.Warn("capture learned answer failed", "error", err)
	}
}

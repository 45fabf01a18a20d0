package knowledge

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaladi-labs/acharya/pkg/reference"
	"github.com/kaladi-labs/acharya/pkg/text"
)

func testCorpus(t *testing.T) *Corpus {
	t.Helper()
	c, err := LoadCorpus(filepath.Join(t.TempDir(), "qa.txt"))
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	return c
}

func TestResolveLocalHit(t *testing.T) {
	f := NewFederator(testCorpus(t), nil, text.NewScorer(nil))

	ans, err := f.Resolve(context.Background(), "what is advaita vedanta")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans == nil {
		t.Fatal("expected a local answer")
	}
	if ans.Kind != SourceLocal {
		t.Errorf("Kind = %q, want %q", ans.Kind, SourceLocal)
	}
	if ans.Score < text.LocalThreshold {
		t.Errorf("served below threshold: %v", ans.Score)
	}
	if !strings.Contains(ans.Question, "Advaita") {
		t.Errorf("matched question = %q", ans.Question)
	}
}

func TestResolveNoSourcesReturnsNil(t *testing.T) {
	f := NewFederator(testCorpus(t), nil, text.NewScorer(nil))

	ans, err := f.Resolve(context.Background(), "zzz qqq unrelated locomotive")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans != nil {
		t.Errorf("below-threshold query produced an answer: %+v", ans)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	f := NewFederator(testCorpus(t), nil, text.NewScorer(nil))
	ans, err := f.Resolve(context.Background(), "   ")
	if err != nil || ans != nil {
		t.Errorf("Resolve(blank) = %+v, %v; want nil, nil", ans, err)
	}
}

func TestResolveLearnedAnswers(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("What is the Dashanami Sampradaya?",
		"The monastic order I organized into ten lineages.", "cached-reference", "", 0.9); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	f := NewFederator(testCorpus(t), s, text.NewScorer(nil))

	ans, err := f.Resolve(context.Background(), "tell me about the dashanami sampradaya")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans == nil {
		t.Fatal("expected learned answer")
	}
	if !strings.Contains(ans.Text, "ten lineages") {
		t.Errorf("Text = %q", ans.Text)
	}

	// Serving a learned answer bumps its use counter.
	all, _ := s.All()
	if all[0].UseCount != 1 {
		t.Errorf("UseCount = %d, want 1", all[0].UseCount)
	}
}

func TestResolveUnconfidentLearnedIgnored(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("What is the Dashanami Sampradaya?", "A guess.", "live-reference", "", 0.2); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	f := NewFederator(testCorpus(t), s, text.NewScorer(nil))

	ans, err := f.Resolve(context.Background(), "tell me about the dashanami sampradaya")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans != nil {
		t.Errorf("low-confidence learned answer served: %+v", ans)
	}
}

func TestResolveFallsBackToCache(t *testing.T) {
	cache := reference.NewCache()
	cache.Put(&reference.Page{
		Title:   "Dashanami Sampradaya",
		URL:     "https://example.org/Dashanami",
		Summary: "The Dashanami Sampradaya is a monastic tradition. Shankara organized the sampradaya.",
		Body:    "Shankara established the dashanami sampradaya monastic order.",
	})
	s := openTestStore(t)
	f := NewFederator(testCorpus(t), s, text.NewScorer(nil), WithReferenceCache(cache))

	ans, err := f.Resolve(context.Background(), "explain the dashanami sampradaya order")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans == nil {
		t.Fatal("expected cached-reference answer")
	}
	if ans.Kind != SourceCachedReference {
		t.Errorf("Kind = %q, want %q", ans.Kind, SourceCachedReference)
	}
	// Reference prose is rewritten to first person before serving.
	if strings.Contains(ans.Text, "Shankara organized") {
		t.Errorf("third-person prose served: %q", ans.Text)
	}
	if !strings.Contains(ans.Text, "I organized") && !strings.Contains(ans.Text, "I established") {
		t.Errorf("no first-person rewrite found: %q", ans.Text)
	}

	// The served answer was captured for next time.
	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("learned len = %d, want 1", len(all))
	}
	if all[0].SourceKind != string(SourceCachedReference) {
		t.Errorf("SourceKind = %q", all[0].SourceKind)
	}
}

func TestResolveFallsBackToLive(t *testing.T) {
	live := &fakeSearcher{
		results: []string{"Sringeri Sharada Peetham"},
		pages: map[string]*reference.Page{
			"Sringeri Sharada Peetham": {
				Title:   "Sringeri Sharada Peetham",
				URL:     "https://example.org/Sringeri",
				Summary: "Sringeri Sharada Peetham is a matha. Shankara founded it.",
				Body:    "Shankara founded the peetham in Sringeri.",
			},
		},
	}
	s := openTestStore(t)
	f := NewFederator(testCorpus(t), s, text.NewScorer(nil), WithLiveSearch(live))

	ans, err := f.Resolve(context.Background(), "sringeri sharada peetham history")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ans == nil {
		t.Fatal("expected live-reference answer")
	}
	if ans.Kind != SourceLiveReference {
		t.Errorf("Kind = %q, want %q", ans.Kind, SourceLiveReference)
	}
	if !strings.Contains(ans.Text, "I founded") {
		t.Errorf("no first-person rewrite: %q", ans.Text)
	}
}

func TestCapabilities(t *testing.T) {
	f := NewFederator(testCorpus(t), nil, text.NewScorer(nil))
	caps := f.Capabilities()
	if caps.Semantic || caps.CachedReference || caps.LiveReference {
		t.Errorf("bare federator reports capabilities: %+v", caps)
	}

	cache := reference.NewCache()
	cache.Put(&reference.Page{Title: "Vedanta", Summary: "A school."})
	f = NewFederator(testCorpus(t), nil, text.NewScorer(nil),
		WithReferenceCache(cache),
		WithLiveSearch(&fakeSearcher{}),
	)
	caps = f.Capabilities()
	if !caps.CachedReference || !caps.LiveReference {
		t.Errorf("capabilities not reported: %+v", caps)
	}
}

func TestPairsCombinesCorpusAndLearned(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("Learned Q?", "Learned A.", "cached-reference", "", 0.9); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if _, err := s.Capture("Shaky Q?", "Shaky A.", "live-reference", "", 0.1); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	corpus := testCorpus(t)
	f := NewFederator(corpus, s, text.NewScorer(nil))

	pairs, err := f.Pairs()
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}
	if len(pairs) != corpus.Len()+1 {
		t.Errorf("len = %d, want corpus (%d) plus one confident learned", len(pairs), corpus.Len())
	}
}

// fakeSearcher is a canned live-search backend.
type fakeSearcher struct {
	results []string
	pages   map[string]*reference.Page
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	return f.results, nil
}

func (f *fakeSearcher) Page(ctx context.Context, title string) (*reference.Page, error) {
	if p, ok := f.pages[title]; ok {
		return p, nil
	}
	return nil, reference.ErrPageMissing
}

package reference

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestSearchCacheWeighting(t *testing.T) {
	c := NewCache()
	c.Put(&Page{
		Title:   "Maya (illusion)",
		Summary: "Maya is a concept. Maya appears in Vedanta.",
		Body:    "The doctrine of maya explains appearance.",
	})

	hit, ok := SearchCache(c, "maya")
	if !ok {
		t.Fatal("expected a hit")
	}
	// Two summary occurrences weighted triple plus one body occurrence.
	if hit.Score != 2*summaryWeight+1*bodyWeight {
		t.Errorf("Score = %d, want %d", hit.Score, 2*summaryWeight+1*bodyWeight)
	}
	if hit.Page.Title != "Maya (illusion)" {
		t.Errorf("Title = %q", hit.Page.Title)
	}
}

func TestSearchCachePicksHighestPage(t *testing.T) {
	c := NewCache()
	c.Put(&Page{Title: "Vedanta", Summary: "A school of thought.", Body: "Vedanta tradition."})
	c.Put(&Page{Title: "Brahman", Summary: "Brahman is ultimate reality. Brahman alone is real.", Body: "On brahman."})

	hit, ok := SearchCache(c, "what is brahman")
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Page.Title != "Brahman" {
		t.Errorf("Title = %q, want Brahman", hit.Page.Title)
	}
}

func TestSearchCachePhraseBonus(t *testing.T) {
	c := NewCache()
	c.Put(&Page{
		Title:   "A",
		Summary: "the four monasteries established across india",
		Body:    "",
	})
	c.Put(&Page{
		Title:   "B",
		Summary: "monasteries india four scattered words only",
		Body:    "",
	})

	hit, ok := SearchCache(c, "four monasteries established where")
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Page.Title != "A" {
		t.Errorf("Title = %q, want phrase-matching page A", hit.Page.Title)
	}
}

func TestSearchCacheNoHit(t *testing.T) {
	c := NewCache()
	c.Put(&Page{Title: "Vedanta", Summary: "A school.", Body: "Tradition."})
	if _, ok := SearchCache(c, "locomotive"); ok {
		t.Error("unrelated query should not hit")
	}
}

func TestBestParagraph(t *testing.T) {
	p := &Page{
		Title:   "Adi Shankara",
		Summary: "Adi Shankara was a philosopher.",
		Body:    "Adi Shankara was a philosopher.\n\nHe established four mathas: Sringeri, Dwarka, Puri and Jyotirmath.\n\nHis commentaries are studied widely.",
	}
	got := bestParagraph(p, significantWords("which mathas did he establish"))
	if !strings.Contains(got, "Sringeri") {
		t.Errorf("bestParagraph = %q, want the mathas paragraph", got)
	}
}

// fakeWiki serves canned pages and scripted errors.
type fakeWiki struct {
	results []string
	pages   map[string]*Page
	errs    map[string]error
}

func (f *fakeWiki) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit < len(f.results) {
		return f.results[:limit], nil
	}
	return f.results, nil
}

func (f *fakeWiki) Page(ctx context.Context, title string) (*Page, error) {
	if err, ok := f.errs[title]; ok {
		return nil, err
	}
	if p, ok := f.pages[title]; ok {
		return p, nil
	}
	return nil, ErrPageMissing
}

func TestSearchLiveFirstThatOpens(t *testing.T) {
	f := &fakeWiki{
		results: []string{"Broken", "Upanishads", "Vedanta"},
		pages: map[string]*Page{
			"Upanishads": {Title: "Upanishads", Summary: "Ancient texts."},
			"Vedanta":    {Title: "Vedanta", Summary: "A school."},
		},
		errs: map[string]error{"Broken": errors.New("http 503")},
	}
	p, err := SearchLive(context.Background(), f, "upanishads")
	if err != nil {
		t.Fatalf("SearchLive: %v", err)
	}
	if p.Title != "Upanishads" {
		t.Errorf("Title = %q, want Upanishads", p.Title)
	}
}

func TestSearchLiveDisambiguation(t *testing.T) {
	f := &fakeWiki{
		results: []string{"Maya"},
		pages: map[string]*Page{
			"Maya (illusion)": {Title: "Maya (illusion)", Summary: "A concept."},
		},
		errs: map[string]error{
			"Maya": &DisambiguationError{Title: "Maya", Options: []string{"Maya (illusion)", "Maya civilization"}},
		},
	}
	p, err := SearchLive(context.Background(), f, "maya")
	if err != nil {
		t.Fatalf("SearchLive: %v", err)
	}
	if p.Title != "Maya (illusion)" {
		t.Errorf("Title = %q, want first suggested alternative", p.Title)
	}
}

func TestSearchLiveNothingOpens(t *testing.T) {
	f := &fakeWiki{results: []string{"Gone"}}
	if _, err := SearchLive(context.Background(), f, "gone"); !errors.Is(err, ErrPageMissing) {
		t.Errorf("err = %v, want ErrPageMissing", err)
	}
}

func TestCacheLoadSkipsFailures(t *testing.T) {
	f := &fakeWiki{
		pages: map[string]*Page{
			"Vedanta":         {Title: "Vedanta", Summary: "A school."},
			"Maya (illusion)": {Title: "Maya (illusion)", Summary: "A concept."},
		},
		errs: map[string]error{
			"Brahman": errors.New("http 500"),
			"Maya":    &DisambiguationError{Title: "Maya", Options: []string{"Maya (illusion)"}},
		},
	}
	c := NewCache()
	n := c.Load(context.Background(), f, []string{"Vedanta", "Brahman", "Maya"})
	if n != 2 {
		t.Errorf("loaded = %d, want 2", n)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := "ബ്രഹ്മം സത്യം"
	got := truncate(s, 7)
	for _, r := range got {
		if r == '�' {
			t.Fatalf("truncate split a rune: %q", got)
		}
	}
	if len(got) > 7 {
		t.Errorf("len = %d, want <= 7", len(got))
	}
}

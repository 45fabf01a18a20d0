package embeddings

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeTEI serves canned vectors keyed by the prefixed input text.
func fakeTEI(t *testing.T, vectors map[string][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs any `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode embed request: %v", err)
		}
		var texts []string
		switch in := req.Inputs.(type) {
		case string:
			texts = []string{in}
		case []any:
			for _, v := range in {
				texts = append(texts, v.(string))
			}
		}
		out := make([][]float32, len(texts))
		for i, txt := range texts {
			vec, ok := vectors[txt]
			if !ok {
				t.Errorf("no canned vector for %q", txt)
				vec = []float32{0, 0, 0, 0}
			}
			out[i] = vec
		}
		json.NewEncoder(w).Encode(out)
	}))
}

func TestIndexInMemoryBest(t *testing.T) {
	srv := fakeTEI(t, map[string][]float32{
		PrefixDocument + "What is Brahman?": {1, 0, 0, 0},
		PrefixQuery + "what is brahman":     {1, 0, 0, 0},
		PrefixQuery + "unrelated question":  {1, 4, 0, 0}, // cos sim 1/sqrt(17) ~ 0.24
	})
	defer srv.Close()

	ix := NewIndex(NewTEIClient(srv.URL), nil)
	pairs := []Pair{{Question: "What is Brahman?", Answer: "The one reality."}}
	if err := ix.Rebuild(context.Background(), pairs); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	res, sim, ok, err := ix.Best(context.Background(), "what is brahman")
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if !ok {
		t.Fatalf("identical vector not matched, sim = %v", sim)
	}
	if res.Answer != "The one reality." {
		t.Errorf("answer = %q", res.Answer)
	}

	_, sim, ok, err = ix.Best(context.Background(), "unrelated question")
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if ok {
		t.Errorf("sub-threshold similarity %v accepted", sim)
	}
}

func TestIndexRebuildReplacesVectors(t *testing.T) {
	srv := fakeTEI(t, map[string][]float32{
		PrefixDocument + "What is Brahman?": {1, 0, 0, 0},
		PrefixQuery + "what is brahman":     {1, 0, 0, 0},
	})
	defer srv.Close()

	ix := NewIndex(NewTEIClient(srv.URL), nil)
	if err := ix.Rebuild(context.Background(), []Pair{{Question: "What is Brahman?", Answer: "The one reality."}}); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := ix.Rebuild(context.Background(), nil); err != nil {
		t.Fatalf("Rebuild to empty: %v", err)
	}
	_, _, ok, err := ix.Best(context.Background(), "what is brahman")
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if ok {
		t.Error("emptied index still serves matches")
	}
}

func TestCosineDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, 2},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 1},
		{"length mismatch", []float32{1}, []float32{1, 0}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineDistance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineDistanceScaleInvariant(t *testing.T) {
	a := []float32{0.3, 0.7, 0.2}
	b := []float32{0.6, 1.4, 0.4} // same direction, doubled
	if d := CosineDistance(a, b); math.Abs(d) > 1e-6 {
		t.Errorf("distance between parallel vectors = %v, want ~0", d)
	}
}

func TestContentHashStable(t *testing.T) {
	h1 := ContentHash("What is Brahman?")
	h2 := ContentHash("What is Brahman?")
	if h1 != h2 {
		t.Errorf("hash not stable: %q vs %q", h1, h2)
	}
	if h1 == ContentHash("What is maya?") {
		t.Error("distinct content hashed identically")
	}
	if len(h1) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(h1))
	}
}

func TestPairKeys(t *testing.T) {
	p := Pair{Question: "What is Brahman?", Answer: "The one reality."}
	if p.Key() != ContentHash(p.Question) {
		t.Error("Key should derive from the question alone")
	}
	q := Pair{Question: "What is Brahman?", Answer: "A different answer."}
	if p.Key() != q.Key() {
		t.Error("same question should share a key")
	}
	if p.Hash() == q.Hash() {
		t.Error("different answers should change the content hash")
	}
}

package text

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LocalThreshold is the minimum blended score for a corpus entry to be
// served as an answer.
const LocalThreshold = 0.15

// Signal weights. Normalized-token overlap and synonym-expanded overlap
// dominate; the raw-string signals keep typos and inflections from
// zeroing out a near match.
const (
	weightNormalized = 0.3
	weightSynonym    = 0.3
	weightSequence   = 0.2
	weightJaccard    = 0.2
)

// Scorer blends four similarity signals into a single score in [0, 1].
// It is stateless after construction and safe for concurrent use.
type Scorer struct {
	syn *Synonyms
}

// NewScorer returns a scorer backed by the given synonym table.
func NewScorer(syn *Synonyms) *Scorer {
	if syn == nil {
		syn = DefaultSynonyms()
	}
	return &Scorer{syn: syn}
}

// Score computes the blended similarity between a query and a candidate.
// Identical inputs always produce identical output; case differences in
// the inputs do not change the result.
func (s *Scorer) Score(query, candidate string) float64 {
	qTokens := Normalize(query)
	cTokens := Normalize(candidate)

	total := weightNormalized*overlapRatio(qTokens, cTokens) +
		weightSynonym*setRatio(s.syn.Expand(qTokens), s.syn.Expand(cTokens)) +
		weightSequence*sequenceRatio(strings.ToLower(query), strings.ToLower(candidate)) +
		weightJaccard*jaccard(strings.ToLower(query), strings.ToLower(candidate))

	if total < 0 {
		return 0
	}
	if total > 1 {
		return 1
	}
	return total
}

// overlapRatio is shared-token count over the longer token list.
func overlapRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	aset := make(map[string]bool, len(a))
	for _, t := range a {
		aset[t] = true
	}
	shared := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if aset[t] && !seen[t] {
			shared++
			seen[t] = true
		}
	}
	return float64(shared) / float64(max(len(a), max(len(b), 1)))
}

func setRatio(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if b[t] {
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), max(len(b), 1)))
}

// sequenceRatio is the Ratcliff/Obershelp ratio over individual characters.
func sequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 0
	}
	m := difflib.NewMatcher(splitChars(a), splitChars(b))
	return m.Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// jaccard is word-level set similarity over plain whitespace splits of
// the lowercased inputs, with no normalization applied.
func jaccard(a, b string) float64 {
	aset := fieldSet(a)
	bset := fieldSet(b)
	if len(aset) == 0 && len(bset) == 0 {
		return 0
	}
	shared := 0
	for w := range aset {
		if bset[w] {
			shared++
		}
	}
	union := len(aset) + len(bset) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

func fieldSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}

// Match is the outcome of scanning a candidate list.
type Match struct {
	Index int
	Score float64
}

// BestMatch scans candidates in order and returns the highest-scoring
// one. Ties keep the earlier candidate. ok is false when the list is
// empty or no candidate scores strictly above LocalThreshold.
func (s *Scorer) BestMatch(query string, candidates []string) (Match, bool) {
	best := Match{Index: -1}
	for i, c := range candidates {
		if sc := s.Score(query, c); sc > best.Score {
			best = Match{Index: i, Score: sc}
		}
	}
	if best.Index < 0 || best.Score <= LocalThreshold {
		return best, false
	}
	return best, true
}

package text

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("What is the goal of Advaita?!")
	for _, tok := range got {
		if tok != strings.ToLower(tok) {
			t.Errorf("token %q not lowercased", tok)
		}
		if len(tok) < 3 {
			t.Errorf("short token %q survived", tok)
		}
		if stopWords[tok] {
			t.Errorf("stop word %q survived", tok)
		}
	}
	if len(got) == 0 {
		t.Fatal("expected tokens, got none")
	}
}

func TestNormalizeStemsInflections(t *testing.T) {
	a := Normalize("teachings")
	b := Normalize("teaching")
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("unexpected token counts: %v %v", a, b)
	}
	if a[0] != b[0] {
		t.Errorf("stems differ: %q vs %q", a[0], b[0])
	}
}

func TestSynonymExpansionBidirectional(t *testing.T) {
	syn := DefaultSynonyms()
	exp := syn.Expand(Normalize("moksha"))
	if !exp[stemWord("liberation")] {
		t.Errorf("expanding moksha did not reach liberation: %v", exp)
	}
	exp = syn.Expand(Normalize("liberation"))
	if !exp[stemWord("moksha")] {
		t.Errorf("expanding liberation did not reach moksha: %v", exp)
	}
}

func TestScoreRange(t *testing.T) {
	s := NewScorer(nil)
	pairs := [][2]string{
		{"", ""},
		{"", "anything at all"},
		{"who are u", "Who are you?"},
		{"what is maya", "completely unrelated text about trains"},
		{"identical question", "identical question"},
	}
	for _, p := range pairs {
		got := s.Score(p[0], p[1])
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %v, want in [0,1]", p[0], p[1], got)
		}
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer(nil)
	a := s.Score("what is advaita", "What is Advaita Vedanta?")
	for i := 0; i < 10; i++ {
		if b := s.Score("what is advaita", "What is Advaita Vedanta?"); b != a {
			t.Fatalf("score changed between calls: %v then %v", a, b)
		}
	}
}

func TestScoreShorthandQuery(t *testing.T) {
	// "who are u" must still clear the serving threshold against the
	// canonical phrasing.
	s := NewScorer(nil)
	got := s.Score("who are u", "Who are you?")
	if got <= LocalThreshold {
		t.Errorf("Score = %v, want > %v", got, LocalThreshold)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	s := NewScorer(nil)
	a := s.Score("WHAT IS MAYA", "what is maya?")
	b := s.Score("what is maya", "what is maya?")
	if a != b {
		t.Errorf("case changed score: %v vs %v", a, b)
	}
}

func TestScoreSynonymsHelp(t *testing.T) {
	s := NewScorer(nil)
	plain := NewScorer(NewSynonyms(nil))
	with := s.Score("how do I attain moksha", "How can one achieve liberation?")
	without := plain.Score("how do I attain moksha", "How can one achieve liberation?")
	if with <= without {
		t.Errorf("synonym signal had no effect: with=%v without=%v", with, without)
	}
}

func TestBestMatch(t *testing.T) {
	s := NewScorer(nil)
	candidates := []string{
		"Who was Adi Shankara?",
		"What is Maya?",
		"What is the goal of Advaita Vedanta?",
	}
	m, ok := s.BestMatch("tell me about maya", candidates)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 1 {
		t.Errorf("Index = %d, want 1", m.Index)
	}
}

func TestBestMatchBelowThreshold(t *testing.T) {
	s := NewScorer(nil)
	_, ok := s.BestMatch("zzz qqq xxx", []string{"Who was Adi Shankara?"})
	if ok {
		t.Error("match below threshold should not be served")
	}
}

func TestBestMatchTieKeepsFirst(t *testing.T) {
	s := NewScorer(nil)
	m, ok := s.BestMatch("what is maya", []string{"What is maya?", "What is maya?"})
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Index != 0 {
		t.Errorf("Index = %d, want 0 for tie", m.Index)
	}
}

// Package text implements the lexical matching layer: normalization,
// synonym expansion, and the blended similarity scorer used to pick
// answers from the question/answer corpus.
package text

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

// stopWords are dropped during normalization. Short function words only;
// domain vocabulary is never filtered.
var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "with": true, "to": true, "for": true, "of": true,
	"as": true, "by": true,
}

const minTokenLen = 3

// Normalize lowercases the input, strips punctuation, drops stop words
// and tokens shorter than three characters, and stems what remains.
// The result preserves token order and may contain duplicates.
func Normalize(s string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)

	var out []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) < minTokenLen || stopWords[tok] {
			continue
		}
		out = append(out, english.Stem(tok, false))
	}
	return out
}

// TokenSet returns the normalized tokens of s as a set.
func TokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Normalize(s) {
		set[tok] = true
	}
	return set
}

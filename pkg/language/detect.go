// Package language classifies incoming messages as native Malayalam
// script, romanized Malayalam (Manglish), or something else, and keeps
// the per-session reply-language state.
package language

import (
	"context"
	"strings"
	"unicode"
)

// Mode is the reply-language state of a session.
type Mode int

const (
	// ModeDefault replies in English.
	ModeDefault Mode = iota
	// ModeScript replies in native Malayalam script.
	ModeScript
	// ModeRomanized replies in Malayalam rendered in Latin letters.
	ModeRomanized
	// ModeOther replies via machine translation into Result.Lang.
	ModeOther
)

func (m Mode) String() string {
	switch m {
	case ModeScript:
		return "malayalam"
	case ModeRomanized:
		return "manglish"
	case ModeOther:
		return "other"
	default:
		return "english"
	}
}

// Result is the outcome of classifying one message.
type Result struct {
	Mode       Mode
	Lang       string // ISO code when Mode is ModeOther, else ""
	Confidence float64
}

// ExternalDetector is an optional third-party language identifier used
// for the long tail of languages the marker tables do not cover.
type ExternalDetector interface {
	Detect(ctx context.Context, text string) (lang string, confidence float64, err error)
}

// Marker pattern weights by category. Greetings are the strongest
// signal since they are rarely borrowed into other languages.
const (
	weightGreeting   = 2.0
	weightPronoun    = 1.8
	weightQuestion   = 1.6
	weightSpiritual  = 1.5
	weightCommonWord = 1.2
	weightExpression = 1.0
)

// romanizedMarkers maps token patterns to category weights. Matching is
// whole-token so short markers like "und" do not fire inside English
// words.
var romanizedMarkers = map[string]float64{
	// greetings
	"namaskaram": weightGreeting, "namaste": weightGreeting,
	"vanakkam": weightGreeting, "sugamano": weightGreeting,

	// pronouns and person markers
	"enik": weightPronoun, "enikku": weightPronoun, "njan": weightPronoun,
	"ningal": weightPronoun, "avan": weightPronoun, "aval": weightPronoun,
	"nammal": weightPronoun, "ente": weightPronoun, "ninte": weightPronoun,

	// question words
	"entha": weightQuestion, "enthanu": weightQuestion, "engane": weightQuestion,
	"evide": weightQuestion, "eppol": weightQuestion, "aaranu": weightQuestion,

	// spiritual vocabulary
	"advaita": weightSpiritual, "moksha": weightSpiritual, "atman": weightSpiritual,
	"brahman": weightSpiritual, "guru": weightSpiritual, "vedanta": weightSpiritual,

	// common words
	"und": weightCommonWord, "illa": weightCommonWord, "aanu": weightCommonWord,
	"venam": weightCommonWord, "patti": weightCommonWord, "ariyaan": weightCommonWord,
	"parayu": weightCommonWord, "kure": weightCommonWord, "nalla": weightCommonWord,

	// expressions
	"ayyo": weightExpression, "sheri": weightExpression, "pinne": weightExpression,
	"athe": weightExpression, "alle": weightExpression,
}

const (
	scriptFractionThreshold = 0.3
	romanizedThreshold      = 0.25
	multiMatchBoost         = 1.5
	externalMinConfidence   = 0.7
)

// Detector classifies message language. External is optional; when nil
// the detector degrades to the built-in marker tables.
type Detector struct {
	External ExternalDetector
}

// Detect classifies text. It never fails: external-detector errors fall
// back to the built-in heuristics.
func (d *Detector) Detect(ctx context.Context, text string) Result {
	if frac := malayalamFraction(text); frac > scriptFractionThreshold {
		return Result{Mode: ModeScript, Confidence: 1.0}
	}
	if score := romanizedScore(text); score > romanizedThreshold {
		return Result{Mode: ModeRomanized, Confidence: score}
	}
	if d.External != nil {
		lang, conf, err := d.External.Detect(ctx, text)
		if err == nil && conf > externalMinConfidence {
			lang = strings.ToLower(strings.TrimSpace(lang))
			switch {
			case len(lang) < 2, lang == "en":
				// too vague to act on, or already the default
			case lang == "ml":
				return Result{Mode: ModeScript, Lang: lang, Confidence: conf}
			default:
				return Result{Mode: ModeOther, Lang: lang, Confidence: conf}
			}
		}
	}
	return Result{Mode: ModeDefault}
}

// IsScript reports whether text is predominantly Malayalam script. Used by
// callers deciding whether a reply already needs no translation.
func IsScript(text string) bool {
	return malayalamFraction(text) > scriptFractionThreshold
}

// malayalamFraction is the share of non-space runes inside the Malayalam
// Unicode block.
func malayalamFraction(text string) float64 {
	var ml, total int
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		total++
		if r >= 0x0D00 && r <= 0x0D7F {
			ml++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(ml) / float64(total)
}

// romanizedScore sums marker weights over the message, normalizes by
// token count, and boosts when two or more markers hit.
func romanizedScore(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	matched := 0
	for _, tok := range tokens {
		if w, ok := romanizedMarkers[tok]; ok {
			sum += w
			matched++
		}
	}
	score := sum / float64(len(tokens))
	if score > 1 {
		score = 1
	}
	if matched >= 2 {
		score *= multiMatchBoost
		if score > 1 {
			score = 1
		}
	}
	return score
}

// FormatLabel renders a detection annotation without assuming anything
// about the detected code. Codes shorter than two characters are treated
// as unknown.
func FormatLabel(text, lang string) string {
	lang = strings.TrimSpace(lang)
	if len(lang) < 2 {
		return "detected: " + text
	}
	return "detected (" + lang[:2] + "): " + text
}

// Package translate renders assistant replies into the listener's language.
// Providers are tried in order: a provider failure falls through to the next
// one, and a total failure returns the original text so the conversation
// never stalls on a translation backend being down.
package translate

import (
	"context"
	"fmt"
	"log/slog"
)

// Translator converts text from a source language to a target language.
// Source and target are ISO 639-1 codes; source may be "auto".
type Translator interface {
	// Name returns the provider name for logging.
	Name() string

	// Translate returns the text rendered in the target language.
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Detection is a language guess from an external detector.
type Detection struct {
	Lang       string
	Confidence float64
}

// Detector identifies the language of a piece of text.
type Detector interface {
	Detect(ctx context.Context, text string) (Detection, error)
}

// ProviderError wraps a translation backend failure with the provider name
// so chain logs show which link broke.
type ProviderError struct {
	Provider string
	Message  string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Chain tries each translator in order until one succeeds.
type Chain struct {
	providers []Translator
}

// NewChain builds a fallback chain. Nil providers are skipped so callers
// can pass optional backends unconditionally.
func NewChain(providers ...Translator) *Chain {
	var active []Translator
	for _, p := range providers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &Chain{providers: active}
}

// Available reports whether the chain has at least one backend.
func (c *Chain) Available() bool {
	return len(c.providers) > 0
}

// Translate walks the chain. On total failure it returns the original text
// together with the last error; callers can ship the untranslated reply and
// log the error rather than dropping the turn.
func (c *Chain) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "" || len(c.providers) == 0 {
		return text, nil
	}

	var lastErr error
	for _, p := range c.providers {
		out, err := p.Translate(ctx, text, source, target)
		if err == nil && out != "" {
			return out, nil
		}
		if err != nil {
			slog.Warn("translation provider failed, trying next",
				"provider", p.Name(),
				"target", target,
				"error", err,
			)
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("all translation providers returned empty output")
	}
	return text, fmt.Errorf("translate to %s: %w", target, lastErr)
}

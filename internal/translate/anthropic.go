package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const translateSystemPrompt = `You are a translation engine. Translate the user's text into the requested target language. Preserve meaning, tone, and honorifics. Output ONLY the translated text with no preamble, no quotes, and no explanation.`

// AnthropicTranslator uses Claude as a translation backend. It handles
// languages and romanized registers that rule-based engines miss, so it
// sits behind LibreTranslate in the chain as the slower, smarter fallback.
type AnthropicTranslator struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicTranslator creates a Claude-backed translator with a static
// API key. An empty model selects a small fast default.
func NewAnthropicTranslator(apiKey, model string) *AnthropicTranslator {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)

	if model == "" {
		model = "claude-3-5-haiku-latest"
	}
	return &AnthropicTranslator{
		client: &client,
		model:  model,
	}
}

func (t *AnthropicTranslator) Name() string { return "anthropic" }

func (t *AnthropicTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	prompt := fmt.Sprintf("Target language: %s\n\n%s", languageName(target), text)
	if source != "" && source != "auto" {
		prompt = fmt.Sprintf("Source language: %s\n%s", languageName(source), prompt)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(t.model),
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: translateSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	message, err := t.client.Messages.New(ctx, params,
		option.WithRequestTimeout(30*time.Second),
	)
	if err != nil {
		return "", &ProviderError{Provider: t.Name(), Message: err.Error()}
	}

	var out string
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			out += textBlock.Text
		}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", &ProviderError{Provider: t.Name(), Message: "empty completion"}
	}
	return out, nil
}

// languageName expands common ISO codes so the model sees a clear target.
// Unknown codes pass through unchanged.
func languageName(code string) string {
	switch code {
	case "ml":
		return "Malayalam"
	case "en":
		return "English"
	case "hi":
		return "Hindi"
	case "ta":
		return "Tamil"
	case "sa":
		return "Sanskrit"
	}
	return code
}

package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var libreHTTPClient = &http.Client{Timeout: 15 * time.Second}

// LibreTranslator talks to a LibreTranslate server (self-hosted or public).
type LibreTranslator struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewLibre creates a LibreTranslate client. The API key may be empty for
// self-hosted instances.
func NewLibre(baseURL, apiKey string) *LibreTranslator {
	return &LibreTranslator{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  libreHTTPClient,
	}
}

func (t *LibreTranslator) Name() string { return "libretranslate" }

// Translate calls POST /translate.
func (t *LibreTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	body := map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	}
	if t.apiKey != "" {
		body["api_key"] = t.apiKey
	}

	respBody, err := t.post(ctx, "/translate", body)
	if err != nil {
		return "", &ProviderError{Provider: t.Name(), Message: err.Error()}
	}

	var result struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", &ProviderError{Provider: t.Name(), Message: fmt.Sprintf("parse response: %v", err)}
	}
	if result.TranslatedText == "" {
		return "", &ProviderError{Provider: t.Name(), Message: "empty translation"}
	}
	return result.TranslatedText, nil
}

// Detect calls POST /detect and returns the top guess. LibreTranslate
// reports confidence as a 0-100 percentage; we normalize to 0-1.
func (t *LibreTranslator) Detect(ctx context.Context, text string) (Detection, error) {
	body := map[string]string{"q": text}
	if t.apiKey != "" {
		body["api_key"] = t.apiKey
	}

	respBody, err := t.post(ctx, "/detect", body)
	if err != nil {
		return Detection{}, &ProviderError{Provider: t.Name(), Message: err.Error()}
	}

	var guesses []struct {
		Language   string  `json:"language"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal(respBody, &guesses); err != nil {
		return Detection{}, &ProviderError{Provider: t.Name(), Message: fmt.Sprintf("parse response: %v", err)}
	}
	if len(guesses) == 0 || guesses[0].Language == "" {
		return Detection{}, nil
	}
	conf := guesses[0].Confidence
	if conf > 1 {
		conf /= 100
	}
	return Detection{Lang: guesses[0].Language, Confidence: conf}, nil
}

func (t *LibreTranslator) post(ctx context.Context, path string, body map[string]string) ([]byte, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

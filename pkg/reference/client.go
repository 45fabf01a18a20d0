// Package reference reads encyclopedia content: a preloaded cache over
// an allow-listed page set, and a live search fallback for questions
// the cache cannot answer.
package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultAPIURL is the English Wikipedia action API.
const DefaultAPIURL = "https://en.wikipedia.org/w/api.php"

// Content caps keep pages small enough to score and rewrite quickly.
const (
	bodyCap    = 3000
	summaryCap = 300
)

// ErrPageMissing is returned when a title does not resolve to a page.
var ErrPageMissing = errors.New("reference: page not found")

// DisambiguationError is returned when a title lands on a disambiguation
// page. Options holds suggested alternative titles, best first.
type DisambiguationError struct {
	Title   string
	Options []string
}

func (e *DisambiguationError) Error() string {
	return fmt.Sprintf("reference: %q is ambiguous (%d options)", e.Title, len(e.Options))
}

// Page is one fetched article, capped to the content limits.
type Page struct {
	Title   string
	URL     string
	Summary string
	Body    string
}

// Client talks to a MediaWiki action API.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient builds a client. Empty baseURL means DefaultAPIURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// Search returns up to limit article titles matching the query, in
// relevance order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	params := url.Values{
		"action":   {"query"},
		"format":   {"json"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {fmt.Sprint(limit)},
	}
	var resp struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	titles := make([]string, 0, len(resp.Query.Search))
	for _, r := range resp.Query.Search {
		titles = append(titles, r.Title)
	}
	return titles, nil
}

// Page fetches one article as plain text. Disambiguation pages return a
// *DisambiguationError carrying alternatives; missing pages return
// ErrPageMissing.
func (c *Client) Page(ctx context.Context, title string) (*Page, error) {
	params := url.Values{
		"action":      {"query"},
		"format":      {"json"},
		"prop":        {"extracts|pageprops|info"},
		"explaintext": {"1"},
		"redirects":   {"1"},
		"inprop":      {"url"},
		"titles":      {title},
	}
	var resp struct {
		Query struct {
			Pages map[string]struct {
				Title     string `json:"title"`
				Extract   string `json:"extract"`
				FullURL   string `json:"fullurl"`
				Missing   *any   `json:"missing,omitempty"`
				PageProps *struct {
					Disambiguation *string `json:"disambiguation"`
				} `json:"pageprops,omitempty"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, fmt.Errorf("fetch page %q: %w", title, err)
	}

	for id, p := range resp.Query.Pages {
		if id == "-1" || p.Missing != nil {
			return nil, ErrPageMissing
		}
		if p.PageProps != nil && p.PageProps.Disambiguation != nil {
			options, err := c.Search(ctx, title, 5)
			if err != nil {
				options = nil
			}
			// The ambiguous title itself is not an alternative.
			filtered := options[:0]
			for _, o := range options {
				if !strings.EqualFold(o, p.Title) {
					filtered = append(filtered, o)
				}
			}
			return nil, &DisambiguationError{Title: p.Title, Options: filtered}
		}
		return buildPage(p.Title, p.FullURL, p.Extract), nil
	}
	return nil, ErrPageMissing
}

func buildPage(title, pageURL, extract string) *Page {
	extract = strings.TrimSpace(extract)
	summary := extract
	if i := strings.Index(extract, "\n"); i > 0 {
		summary = extract[:i]
	}
	return &Page{
		Title:   title,
		URL:     pageURL,
		Summary: truncate(summary, summaryCap),
		Body:    truncate(extract, bodyCap),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// Cut on a rune boundary.
	cut := n
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// get performs the API request with a single retry on transport
// failure.
func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(500 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "acharya/1.0")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("api status %d", resp.StatusCode)
			continue
		}
		return json.Unmarshal(body, out)
	}
	return lastErr
}

package reference

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// AllowedPages is the restricted page set the cache preloads. Answers
// from the cache only ever come from these articles.
var AllowedPages = []string{
	"Adi Shankara",
	"Advaita Vedanta",
	"Vedanta",
	"Brahman",
	"Maya (illusion)",
	"Upanishads",
	"Brahma Sutras",
	"Bhagavad Gita",
	"Vivekachudamani",
	"Upadesa Sahasri",
	"Atma Bodha",
	"Non-dualism",
	"Hindu philosophy",
	"Dashanami Sampradaya",
}

// Fetcher is the slice of Client the cache needs; tests substitute a
// canned implementation.
type Fetcher interface {
	Page(ctx context.Context, title string) (*Page, error)
}

// Cache holds the preloaded allow-listed pages in load order.
type Cache struct {
	mu    sync.RWMutex
	pages []*Page
}

// NewCache returns an empty cache. Pages arrive via Load or Put.
func NewCache() *Cache {
	return &Cache{}
}

// Load fetches every allow-listed title through the fetcher. Pages that
// fail to load are skipped; an ambiguous title falls back to its first
// suggested alternative. Returns how many pages loaded.
func (c *Cache) Load(ctx context.Context, f Fetcher, titles []string) int {
	if len(titles) == 0 {
		titles = AllowedPages
	}
	loaded := 0
	for _, title := range titles {
		if ctx.Err() != nil {
			break
		}
		page, err := f.Page(ctx, title)
		if err != nil {
			var de *DisambiguationError
			if errors.As(err, &de) && len(de.Options) > 0 {
				page, err = f.Page(ctx, de.Options[0])
			}
		}
		if err != nil {
			slog.Warn("reference page skipped", "title", title, "error", err)
			continue
		}
		c.Put(page)
		loaded++
	}
	slog.Info("reference cache loaded", "pages", loaded, "requested", len(titles))
	return loaded
}

// Put adds or replaces a page by title.
func (c *Cache) Put(p *Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.pages {
		if existing.Title == p.Title {
			c.pages[i] = p
			return
		}
	}
	c.pages = append(c.pages, p)
}

// Pages returns a snapshot in load order.
func (c *Cache) Pages() []*Page {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Len reports the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

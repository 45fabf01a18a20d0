// Package knowledge holds the assistant's answer sources: the curated
// question/answer corpus, the learned-answer store, and the federator
// that consults every source in priority order.
package knowledge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Entry is one curated question/answer pair.
type Entry struct {
	Question string
	Answer   string
}

// Corpus is the in-memory curated Q&A set. Reads are lock-free after
// load; Append takes the write lock.
type Corpus struct {
	mu      sync.RWMutex
	path    string
	entries []Entry
}

// LoadCorpus reads the flat Q&A file at path. When the file does not
// exist, the default seed corpus is written there first, so a fresh
// install always starts with a working knowledge base.
func LoadCorpus(path string) (*Corpus, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(seedCorpus), 0o644); err != nil {
			return nil, fmt.Errorf("seed corpus: %w", err)
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	entries, err := ParseEntries(f)
	if err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	return &Corpus{path: path, entries: entries}, nil
}

// ParseEntries reads "Q: " / "A: " blocks. Lines after an "A: " line
// continue the answer until the next "Q: ". Blocks missing either side
// are dropped rather than failing the whole file.
func ParseEntries(r io.Reader) ([]Entry, error) {
	var (
		entries  []Entry
		question string
		answer   []string
	)
	flush := func() {
		q := strings.TrimSpace(question)
		a := strings.TrimSpace(strings.Join(answer, "\n"))
		if q != "" && a != "" {
			entries = append(entries, Entry{Question: q, Answer: a})
		}
		question = ""
		answer = nil
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "Q: "):
			flush()
			question = line[3:]
		case strings.HasPrefix(line, "A: "):
			answer = []string{line[3:]}
		case line != "" && answer != nil:
			answer = append(answer, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return entries, nil
}

// Entries returns a snapshot of the corpus.
func (c *Corpus) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Questions returns the question side only, in corpus order.
func (c *Corpus) Questions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Question
	}
	return out
}

// Len reports the number of entries.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Append adds an entry in memory and persists it to the backing file.
func (c *Corpus) Append(e Entry) error {
	if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
		return fmt.Errorf("empty question or answer")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	if c.path == "" {
		return nil
	}
	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open corpus for append: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "\nQ: %s\nA: %s\n", e.Question, e.Answer); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

const seedCorpus = `Q: Who was Adi Shankara?
A: Adi Shankara was this absolutely brilliant philosopher and spiritual teacher who lived in ancient India around 788-820 CE. What amazes me about him is how much he accomplished in just 32 years! He basically revolutionized Indian philosophy by systematizing and clarifying the teachings of Advaita Vedanta - the idea that everything is ultimately one consciousness. He wasn't just a theorist though; he was this incredible debater who traveled all across India, engaging with scholars from different schools of thought and often winning them over. Plus, he established four major monasteries that are still active today!

Q: What is Advaita Vedanta?
A: Advaita Vedanta is Shankara's core teaching, and it's really profound when you think about it. "Advaita" literally means "not two" - so it's saying that reality isn't actually divided into separate things the way it appears to be. According to this philosophy, there's only one ultimate reality called Brahman, which is pure consciousness, and everything we see - including ourselves - is actually that same consciousness appearing in different forms. It's like waves in the ocean - they look separate, but they're all just water. The goal is to realize this truth directly, not just understand it intellectually.

Q: What is maya according to Shankara?
A: Maya is this really subtle concept that Shankara taught about. It's often translated as "illusion," but that's not quite right - it's more like... the power that makes the one appear as many. Think of it like a movie projector - there's one light, but it creates all these different images on the screen. Maya is like that projector power. It's not that the world is fake or unreal, but that our perception of it as being separate from us is what's the illusion. The world exists, but not in the way we think it does. It's actually all one consciousness appearing as this amazing diversity of forms and experiences.
`

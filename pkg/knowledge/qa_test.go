package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEntries(t *testing.T) {
	input := `A: Orphan answer with no question.

Q: Who was Adi Shankara?
A: A philosopher from Kaladi.

Q: Malformed, no answer follows

Q: What is Advaita?
A: Not two.
The doctrine of non-duality.
It has continuation lines.

Q: What is maya?
A: The appearance of multiplicity.
`
	entries, err := ParseEntries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3 (malformed blocks skipped): %+v", len(entries), entries)
	}
	if entries[0].Question != "Who was Adi Shankara?" {
		t.Errorf("Question[0] = %q", entries[0].Question)
	}
	if want := "Not two.\nThe doctrine of non-duality.\nIt has continuation lines."; entries[1].Answer != want {
		t.Errorf("Answer[1] = %q, want %q", entries[1].Answer, want)
	}
	if entries[2].Question != "What is maya?" {
		t.Errorf("Question[2] = %q", entries[2].Question)
	}
}

func TestParseEntriesEmpty(t *testing.T) {
	entries, err := ParseEntries(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len = %d, want 0", len(entries))
	}
}

func TestLoadCorpusSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.txt")
	c, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("seed corpus is empty")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("seed file not written: %v", err)
	}
	// Every seeded entry is non-empty on both sides.
	for _, e := range c.Entries() {
		if strings.TrimSpace(e.Question) == "" || strings.TrimSpace(e.Answer) == "" {
			t.Errorf("empty side in seeded entry: %+v", e)
		}
	}
}

func TestCorpusAppendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qa.txt")
	c, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	before := c.Len()

	err = c.Append(Entry{Question: "What is jnana?", Answer: "Knowledge of the Self."})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if c.Len() != before+1 {
		t.Errorf("Len = %d, want %d", c.Len(), before+1)
	}

	reloaded, err := LoadCorpus(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != before+1 {
		t.Errorf("reloaded Len = %d, want %d", reloaded.Len(), before+1)
	}
	last := reloaded.Entries()[reloaded.Len()-1]
	if last.Question != "What is jnana?" {
		t.Errorf("last question = %q", last.Question)
	}
}

func TestCorpusAppendRejectsEmpty(t *testing.T) {
	c := &Corpus{}
	if err := c.Append(Entry{Question: " ", Answer: "x"}); err == nil {
		t.Error("empty question accepted")
	}
	if err := c.Append(Entry{Question: "x", Answer: ""}); err == nil {
		t.Error("empty answer accepted")
	}
}

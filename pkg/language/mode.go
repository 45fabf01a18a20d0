package language

import (
	"strings"
	"sync"
)

// explicitTriggers are request phrases that pin the reply mode until the
// user asks for a different one. Ambient detection never overrides a
// pinned mode.
var explicitTriggers = []struct {
	phrase string
	mode   Mode
}{
	{"speak in malayalam", ModeScript},
	{"talk in malayalam", ModeScript},
	{"continue in malayalam", ModeScript},
	{"reply in malayalam", ModeScript},
	{"answer in malayalam", ModeScript},
	{"malayalam please", ModeScript},
	{"in malayalam", ModeScript},
	{"switch to english", ModeDefault},
	{"speak in english", ModeDefault},
	{"talk in english", ModeDefault},
	{"continue in english", ModeDefault},
	{"reply in english", ModeDefault},
	{"english please", ModeDefault},
	{"in english", ModeDefault},
}

// Tracker holds the reply-language state of one session. An explicit
// request sticks; ambient detection only moves the mode while nothing
// is pinned. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	mode   Mode
	lang   string
	pinned bool
}

// NewTracker starts in the default reply mode, unpinned.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Observe folds one message's classification into the session state and
// returns the mode replies should use. The explicit trigger check runs
// first; when a trigger is present the ambient result is ignored.
func (t *Tracker) Observe(text string, r Result) Mode {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode, ok := explicitRequest(text); ok {
		t.mode = mode
		t.lang = ""
		// Asking for the default language clears the pin entirely so
		// ambient detection can resume on later turns.
		t.pinned = mode != ModeDefault
		return t.mode
	}
	if !t.pinned {
		t.mode = r.Mode
		t.lang = r.Lang
	}
	return t.mode
}

// Mode returns the current reply mode without observing anything.
func (t *Tracker) Mode() Mode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mode
}

// Lang returns the ISO code replies should be translated into. Empty
// unless the mode is ModeOther.
func (t *Tracker) Lang() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.mode != ModeOther {
		return ""
	}
	return t.lang
}

// Pinned reports whether an explicit request is in effect.
func (t *Tracker) Pinned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pinned
}

func explicitRequest(text string) (Mode, bool) {
	lower := strings.ToLower(text)
	for _, trig := range explicitTriggers {
		if strings.Contains(lower, trig.phrase) {
			return trig.mode, true
		}
	}
	return ModeDefault, false
}

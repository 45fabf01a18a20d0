package language

import (
	"context"
	"errors"
	"testing"
)

func TestDetectNativeScript(t *testing.T) {
	d := &Detector{}
	r := d.Detect(context.Background(), "നമസ്കാരം, സുഖമാണോ?")
	if r.Mode != ModeScript {
		t.Errorf("Mode = %v, want %v", r.Mode, ModeScript)
	}
	if r.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", r.Confidence)
	}
}

func TestDetectRomanized(t *testing.T) {
	d := &Detector{}
	r := d.Detect(context.Background(), "namaskaram, enik advaita patti ariyaan und")
	if r.Mode != ModeRomanized {
		t.Errorf("Mode = %v, want %v", r.Mode, ModeRomanized)
	}
	if r.Confidence <= romanizedThreshold {
		t.Errorf("Confidence = %v, want > %v", r.Confidence, romanizedThreshold)
	}
}

func TestDetectPlainEnglish(t *testing.T) {
	d := &Detector{}
	for _, msg := range []string{
		"I want to understand the nature of reality",
		"Who was the founder of this school?",
		"",
	} {
		if r := d.Detect(context.Background(), msg); r.Mode != ModeDefault {
			t.Errorf("Detect(%q).Mode = %v, want %v", msg, r.Mode, ModeDefault)
		}
	}
}

type fakeExternal struct {
	lang string
	conf float64
	err  error
}

func (f fakeExternal) Detect(ctx context.Context, text string) (string, float64, error) {
	return f.lang, f.conf, f.err
}

func TestDetectExternal(t *testing.T) {
	cases := []struct {
		name string
		ext  fakeExternal
		want Mode
	}{
		{"confident hindi", fakeExternal{lang: "hi", conf: 0.95}, ModeOther},
		{"confident malayalam code", fakeExternal{lang: "ml", conf: 0.9}, ModeScript},
		{"low confidence ignored", fakeExternal{lang: "fr", conf: 0.5}, ModeDefault},
		{"short code ignored", fakeExternal{lang: "x", conf: 0.99}, ModeDefault},
		{"empty code ignored", fakeExternal{lang: "", conf: 0.99}, ModeDefault},
		{"error falls back", fakeExternal{err: errors.New("down")}, ModeDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &Detector{External: tc.ext}
			r := d.Detect(context.Background(), "bonjour mon ami, comment allez-vous")
			if r.Mode != tc.want {
				t.Errorf("Mode = %v, want %v", r.Mode, tc.want)
			}
		})
	}
}

func TestFormatLabel(t *testing.T) {
	cases := []struct {
		lang, want string
	}{
		{"", "detected: hello"},
		{"x", "detected: hello"},
		{"en", "detected (en): hello"},
		{"eng", "detected (en): hello"},
		{"  fr  ", "detected (fr): hello"},
	}
	for _, tc := range cases {
		if got := FormatLabel("hello", tc.lang); got != tc.want {
			t.Errorf("FormatLabel(hello, %q) = %q, want %q", tc.lang, got, tc.want)
		}
	}
}

func TestTrackerExplicitSticks(t *testing.T) {
	tr := NewTracker()
	d := &Detector{}
	ctx := context.Background()

	msg := "speak in malayalam please"
	if got := tr.Observe(msg, d.Detect(ctx, msg)); got != ModeScript {
		t.Fatalf("mode after explicit request = %v, want %v", got, ModeScript)
	}
	// Plain English follow-ups must not move a pinned mode.
	msg = "tell me about consciousness"
	if got := tr.Observe(msg, d.Detect(ctx, msg)); got != ModeScript {
		t.Errorf("pinned mode moved to %v on ambient turn", got)
	}
	if !tr.Pinned() {
		t.Error("tracker lost its pin")
	}
}

func TestTrackerSwitchToEnglishUnpins(t *testing.T) {
	tr := NewTracker()
	d := &Detector{}
	ctx := context.Background()

	tr.Observe("continue in malayalam", Result{})
	msg := "Switch to English please"
	if got := tr.Observe(msg, d.Detect(ctx, msg)); got != ModeDefault {
		t.Fatalf("mode = %v, want %v", got, ModeDefault)
	}
	if tr.Pinned() {
		t.Error("default mode should not stay pinned")
	}
	// Ambient detection resumes once unpinned.
	msg = "namaskaram, enik advaita patti ariyaan und"
	if got := tr.Observe(msg, d.Detect(ctx, msg)); got != ModeRomanized {
		t.Errorf("mode = %v, want %v after ambient romanized turn", got, ModeRomanized)
	}
}

func TestTrackerAmbientFollowsDetection(t *testing.T) {
	tr := NewTracker()
	if got := tr.Observe("hello", Result{Mode: ModeDefault}); got != ModeDefault {
		t.Fatalf("mode = %v, want default", got)
	}
	if got := tr.Observe("x", Result{Mode: ModeOther, Lang: "hi"}); got != ModeOther {
		t.Fatalf("mode = %v, want other", got)
	}
	if tr.Lang() != "hi" {
		t.Errorf("Lang = %q, want hi", tr.Lang())
	}
	if tr.Pinned() {
		t.Error("ambient detection must not pin")
	}
}

package knowledge

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *LearnedStore {
	t.Helper()
	s, err := OpenLearnedStore(filepath.Join(t.TempDir(), "learned.db"))
	if err != nil {
		t.Fatalf("open learned store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLearnedCaptureAndConfident(t *testing.T) {
	s := openTestStore(t)

	id, err := s.Capture("What is Brahman?", "The one reality.", "cached-reference", "https://example.org/Brahman", 0.9)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if id == 0 {
		t.Fatal("Capture returned zero id")
	}
	if _, err := s.Capture("Low signal?", "Maybe.", "live-reference", "", 0.3); err != nil {
		t.Fatalf("Capture low: %v", err)
	}

	confident, err := s.Confident()
	if err != nil {
		t.Fatalf("Confident: %v", err)
	}
	if len(confident) != 1 {
		t.Fatalf("confident len = %d, want 1", len(confident))
	}
	if confident[0].Question != "What is Brahman?" {
		t.Errorf("Question = %q", confident[0].Question)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("all len = %d, want 2", len(all))
	}
}

func TestLearnedCaptureRefreshesDuplicate(t *testing.T) {
	s := openTestStore(t)

	id1, err := s.Capture("What is maya?", "Old answer.", "cached-reference", "", 0.9)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	id2, err := s.Capture("what is maya?", "New answer.", "live-reference", "", 0.8)
	if err != nil {
		t.Fatalf("re-Capture: %v", err)
	}
	if id1 != id2 {
		t.Errorf("duplicate question created new row: %d vs %d", id1, id2)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("len = %d, want 1", len(all))
	}
	if all[0].Answer != "New answer." {
		t.Errorf("Answer = %q, want refreshed answer", all[0].Answer)
	}
}

func TestLearnedCaptureRejectsEmpty(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("", "answer", "", "", 1); err == nil {
		t.Error("empty question accepted")
	}
	if _, err := s.Capture("question", "  ", "", "", 1); err == nil {
		t.Error("empty answer accepted")
	}
}

func TestLearnedRecordUse(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Capture("Q?", "A.", "local", "", 0.9)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := s.RecordUse(id); err != nil {
		t.Fatalf("RecordUse: %v", err)
	}
	if err := s.RecordUse(id); err != nil {
		t.Fatalf("RecordUse: %v", err)
	}
	all, _ := s.All()
	if all[0].UseCount != 2 {
		t.Errorf("UseCount = %d, want 2", all[0].UseCount)
	}
}

func TestLearnedDecayAndPrune(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("Fading?", "Yes.", "live-reference", "", 0.8); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	// Freshly used entries do not decay.
	n, err := s.DecayConfidence(20 * 24 * 3600)
	if err != nil {
		t.Fatalf("DecayConfidence: %v", err)
	}
	if n != 0 {
		t.Errorf("decayed = %d, want 0 for fresh entry", n)
	}

	// A tiny time constant makes any elapsed time collapse confidence.
	n, err = s.DecayConfidence(0.000001)
	if err != nil {
		t.Fatalf("DecayConfidence: %v", err)
	}
	if n != 1 {
		t.Fatalf("decayed = %d, want 1", n)
	}

	pruned, err := s.Prune(0.05)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 0 {
		t.Errorf("Total = %d, want 0 after prune", st.Total)
	}
}

func TestReviewWorkerCycle(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Capture("Fading?", "Yes.", "live-reference", "", 0.8); err != nil {
		t.Fatalf("Capture: %v", err)
	}

	w := NewReviewWorker(s, ReviewConfig{DecayTau: 0.000001, PruneFloor: 0.05})
	report := w.ReviewOnce()
	if report == nil {
		t.Fatal("nil report")
	}
	if len(report.Errors) != 0 {
		t.Fatalf("errors: %v", report.Errors)
	}
	if report.Decayed != 1 || report.Pruned != 1 {
		t.Errorf("Decayed = %d, Pruned = %d, want 1 and 1", report.Decayed, report.Pruned)
	}
	if w.LastReport() != report {
		t.Error("LastReport mismatch")
	}
}

package knowledge

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ReviewConfig holds review worker configuration.
type ReviewConfig struct {
	Interval   time.Duration // how often to review (default 6h)
	DecayTau   float64       // confidence decay time constant in seconds (default 20 days)
	PruneFloor float64       // delete entries below this confidence (default 0.05)
}

// DefaultReviewConfig returns sensible defaults for the review worker.
func DefaultReviewConfig() ReviewConfig {
	return ReviewConfig{
		Interval:   6 * time.Hour,
		DecayTau:   20 * 24 * 3600,
		PruneFloor: 0.05,
	}
}

// ReviewReport holds the results of a single review cycle.
type ReviewReport struct {
	CycleNumber int          `json:"cycle_number"`
	StartedAt   time.Time    `json:"started_at"`
	Duration    string       `json:"duration"`
	Decayed     int          `json:"decayed"`
	Pruned      int64        `json:"pruned"`
	Stats       LearnedStats `json:"stats"`
	Errors      []string     `json:"errors,omitempty"`
}

// ReviewWorker periodically decays the confidence of unused learned
// answers and prunes the ones that have faded out, so stale reference
// material does not shadow fresh lookups forever.
type ReviewWorker struct {
	store *LearnedStore
	cfg   ReviewConfig

	mu         sync.RWMutex
	lastReport *ReviewReport
	cycleCount int
}

// NewReviewWorker creates a review worker over the learned store.
func NewReviewWorker(store *LearnedStore, cfg ReviewConfig) *ReviewWorker {
	def := DefaultReviewConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.DecayTau <= 0 {
		cfg.DecayTau = def.DecayTau
	}
	if cfg.PruneFloor <= 0 {
		cfg.PruneFloor = def.PruneFloor
	}
	return &ReviewWorker{store: store, cfg: cfg}
}

// Run starts the review loop. Blocks until ctx is cancelled.
func (w *ReviewWorker) Run(ctx context.Context) {
	slog.Info("review worker started", "interval", w.cfg.Interval)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("review worker stopping")
			return
		case <-ticker.C:
			w.ReviewOnce()
		}
	}
}

// ReviewOnce runs a single decay-and-prune cycle and records the report.
func (w *ReviewWorker) ReviewOnce() *ReviewReport {
	w.mu.Lock()
	w.cycleCount++
	cycle := w.cycleCount
	w.mu.Unlock()

	report := &ReviewReport{CycleNumber: cycle, StartedAt: time.Now()}

	decayed, err := w.store.DecayConfidence(w.cfg.DecayTau)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	report.Decayed = decayed

	pruned, err := w.store.Prune(w.cfg.PruneFloor)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
	}
	report.Pruned = pruned

	if stats, err := w.store.Stats(); err == nil {
		report.Stats = stats
	} else {
		report.Errors = append(report.Errors, err.Error())
	}

	report.Duration = time.Since(report.StartedAt).Round(time.Millisecond).String()

	w.mu.Lock()
	w.lastReport = report
	w.mu.Unlock()

	if report.Decayed > 0 || report.Pruned > 0 || len(report.Errors) > 0 {
		slog.Info("review cycle complete",
			"cycle", report.CycleNumber,
			"decayed", report.Decayed,
			"pruned", report.Pruned,
			"errors", len(report.Errors),
		)
	}
	return report
}

// LastReport returns the most recent cycle report, or nil before the
// first cycle.
func (w *ReviewWorker) LastReport() *ReviewReport {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastReport
}

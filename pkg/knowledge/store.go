package knowledge

import (
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// LearnThreshold is the minimum confidence for a learned answer to be
// offered during local matching.
const LearnThreshold = 0.7

// LearnedStore persists answers picked up from reference sources, so a
// question answered once from Wikipedia is answered locally next time.
type LearnedStore struct {
	db *sql.DB
}

// Learned is one stored answer with its provenance.
type Learned struct {
	ID         int64
	Question   string
	Answer     string
	SourceKind string
	SourceURL  string
	Confidence float64
	UseCount   int
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// LearnedStats summarizes the store for the health endpoint.
type LearnedStats struct {
	Total     int
	Confident int
	TotalUses int
}

const learnedSchema = `
CREATE TABLE IF NOT EXISTS learned_answers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	source_kind TEXT NOT NULL DEFAULT '',
	source_url TEXT NOT NULL DEFAULT '',
	confidence REAL NOT NULL DEFAULT 0,
	use_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	last_used_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_learned_confidence ON learned_answers(confidence);
`

// OpenLearnedStore opens (creating if needed) the learned-answer
// database at the given file path.
func OpenLearnedStore(path string) (*LearnedStore, error) {
	// WAL mode for concurrent reads from the API and review worker
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open learned db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping learned db: %w", err)
	}
	if _, err := db.Exec(learnedSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init learned schema: %w", err)
	}
	return &LearnedStore{db: db}, nil
}

// Close closes the underlying database.
func (s *LearnedStore) Close() error {
	return s.db.Close()
}

// Capture stores a newly learned answer. Re-learning an existing
// question refreshes its answer and restores full confidence.
func (s *LearnedStore) Capture(question, answer, sourceKind, sourceURL string, confidence float64) (int64, error) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return 0, fmt.Errorf("empty question or answer")
	}
	now := time.Now().UTC().Format("2006-01-02 15:04:05")

	var existing int64
	err := s.db.QueryRow(
		`SELECT id FROM learned_answers WHERE question = ? COLLATE NOCASE`, question,
	).Scan(&existing)
	if err == nil {
		_, err = s.db.Exec(
			`UPDATE learned_answers SET answer = ?, source_kind = ?, source_url = ?,
			 confidence = ?, last_used_at = ? WHERE id = ?`,
			answer, sourceKind, sourceURL, confidence, now, existing,
		)
		if err != nil {
			return 0, fmt.Errorf("refresh learned answer: %w", err)
		}
		slog.Debug("learned answer refreshed", "id", existing, "source", sourceKind)
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("lookup learned answer: %w", err)
	}

	result, err := s.db.Exec(
		`INSERT INTO learned_answers
		 (question, answer, source_kind, source_url, confidence, use_count, created_at, last_used_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		question, answer, sourceKind, sourceURL, confidence, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("capture learned answer: %w", err)
	}
	id, _ := result.LastInsertId()
	slog.Debug("answer learned", "id", id, "source", sourceKind)
	return id, nil
}

// Confident returns entries at or above LearnThreshold, most recently
// used first.
func (s *LearnedStore) Confident() ([]Learned, error) {
	rows, err := s.db.Query(
		`SELECT id, question, answer, source_kind, source_url, confidence, use_count, created_at, last_used_at
		 FROM learned_answers WHERE confidence >= ? ORDER BY last_used_at DESC`,
		LearnThreshold,
	)
	if err != nil {
		return nil, fmt.Errorf("query learned answers: %w", err)
	}
	defer rows.Close()
	return scanLearned(rows)
}

// All returns every entry regardless of confidence.
func (s *LearnedStore) All() ([]Learned, error) {
	rows, err := s.db.Query(
		`SELECT id, question, answer, source_kind, source_url, confidence, use_count, created_at, last_used_at
		 FROM learned_answers ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query learned answers: %w", err)
	}
	defer rows.Close()
	return scanLearned(rows)
}

func scanLearned(rows *sql.Rows) ([]Learned, error) {
	var out []Learned
	for rows.Next() {
		var l Learned
		var created, used string
		if err := rows.Scan(&l.ID, &l.Question, &l.Answer, &l.SourceKind, &l.SourceURL,
			&l.Confidence, &l.UseCount, &created, &used); err != nil {
			return nil, fmt.Errorf("scan learned answer: %w", err)
		}
		l.CreatedAt = parseTime(created)
		l.LastUsedAt = parseTime(used)
		out = append(out, l)
	}
	return out, rows.Err()
}

// RecordUse bumps the use counter and freshness of a served answer.
func (s *LearnedStore) RecordUse(id int64) error {
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err := s.db.Exec(
		`UPDATE learned_answers SET use_count = use_count + 1, last_used_at = ? WHERE id = ?`,
		now, id,
	)
	if err != nil {
		return fmt.Errorf("record use: %w", err)
	}
	return nil
}

// DecayConfidence exponentially decays confidence of unused entries.
// tau is the decay time constant in seconds. Returns how many rows
// changed.
func (s *LearnedStore) DecayConfidence(tau float64) (int, error) {
	now := time.Now().UTC()
	rows, err := s.db.Query(
		`SELECT id, confidence, last_used_at FROM learned_answers WHERE confidence > 0.01`,
	)
	if err != nil {
		return 0, fmt.Errorf("query for decay: %w", err)
	}
	defer rows.Close()

	type update struct {
		id    int64
		score float64
	}
	var updates []update
	for rows.Next() {
		var id int64
		var conf float64
		var lastUsed sql.NullString
		if err := rows.Scan(&id, &conf, &lastUsed); err != nil {
			return 0, fmt.Errorf("scan for decay: %w", err)
		}
		if !lastUsed.Valid {
			continue
		}
		dt := now.Sub(parseTime(lastUsed.String)).Seconds()
		if dt <= 0 {
			continue
		}
		decayed := conf * math.Exp(-dt/tau)
		if math.Abs(decayed-conf) > 0.001 {
			updates = append(updates, update{id: id, score: decayed})
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(updates) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin decay tx: %w", err)
	}
	for _, u := range updates {
		if _, err := tx.Exec(
			`UPDATE learned_answers SET confidence = ? WHERE id = ?`, u.score, u.id,
		); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("apply decay: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit decay tx: %w", err)
	}
	return len(updates), nil
}

// Prune deletes entries whose confidence fell below floor. Returns how
// many rows were removed.
func (s *LearnedStore) Prune(floor float64) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM learned_answers WHERE confidence < ?`, floor)
	if err != nil {
		return 0, fmt.Errorf("prune learned answers: %w", err)
	}
	n, _ := result.RowsAffected()
	if n > 0 {
		slog.Info("pruned stale learned answers", "count", n)
	}
	return n, nil
}

// Stats summarizes the store.
func (s *LearnedStore) Stats() (LearnedStats, error) {
	var st LearnedStats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN confidence >= ? THEN 1 ELSE 0 END), 0),
		 COALESCE(SUM(use_count), 0) FROM learned_answers`,
		LearnThreshold,
	).Scan(&st.Total, &st.Confident, &st.TotalUses)
	if err != nil {
		return st, fmt.Errorf("learned stats: %w", err)
	}
	return st, nil
}

// parseTime parses a datetime string from SQLite, handling the formats
// different writers use.
func parseTime(s string) time.Time {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

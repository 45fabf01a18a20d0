// Package session implements the conversation loop: it wires the
// channels, the knowledge federation, language tracking, and the persona
// voice into one long-running process.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kaladi-labs/acharya/internal/channel/matrix"
	"github.com/kaladi-labs/acharya/internal/translate"
	"github.com/kaladi-labs/acharya/pkg/channel"
	"github.com/kaladi-labs/acharya/pkg/embeddings"
	"github.com/kaladi-labs/acharya/pkg/knowledge"
	"github.com/kaladi-labs/acharya/pkg/language"
	"github.com/kaladi-labs/acharya/pkg/persona"
	"github.com/kaladi-labs/acharya/pkg/reference"
	"github.com/kaladi-labs/acharya/pkg/speech"
	"github.com/kaladi-labs/acharya/pkg/text"
)

// roomState tracks per-conversation mode and silence.
type roomState struct {
	tracker *language.Tracker
	quiet   int
	closed  bool
}

// Session is the main assistant process.
type Session struct {
	id       string
	config   *Config
	corpus   *knowledge.Corpus
	learned  *knowledge.LearnedStore
	fed      *knowledge.Federator
	detector *language.Detector
	composer *persona.Composer
	chain    *translate.Chain
	ch       channel.Channel
	speaker  speech.Sink

	// Optional layers
	refCache   *reference.Cache
	refClient  *reference.Client
	embedStore *embeddings.Store
	syncWorker *embeddings.SyncWorker
	semIndex   *embeddings.Index
	semRefresh time.Duration
	reviewer   *knowledge.ReviewWorker

	startedAt time.Time
	healthy   bool

	rooms   map[string]*roomState
	roomsMu sync.Mutex

	logMu sync.Mutex
}

// externalDetector adapts the translation backend's language detection to
// the language package interface.
type externalDetector struct {
	d translate.Detector
}

func (e externalDetector) Detect(ctx context.Context, text string) (string, float64, error) {
	det, err := e.d.Detect(ctx, text)
	if err != nil {
		return "", 0, err
	}
	return det.Lang, det.Confidence, nil
}

// New creates a session from config. Optional layers that fail to
// initialize are logged and skipped; the conversation degrades rather
// than refusing to start.
func New(ctx context.Context, cfg *Config) (*Session, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	corpus, err := knowledge.LoadCorpus(cfg.QAFile)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	slog.Info("corpus loaded", "path", cfg.QAFile, "entries", corpus.Len())

	learned, err := knowledge.OpenLearnedStore(filepath.Join(cfg.DataDir, "learned.db"))
	if err != nil {
		return nil, fmt.Errorf("open learned store: %w", err)
	}

	s := &Session{
		id:        uuid.NewString(),
		config:    cfg,
		corpus:    corpus,
		learned:   learned,
		composer:  persona.NewComposer(nil),
		speaker:   speech.NopSink{},
		startedAt: time.Now(),
		rooms:     make(map[string]*roomState),
	}

	// Translation chain: LibreTranslate first, Claude as fallback.
	var libre *translate.LibreTranslator
	var providers []translate.Translator
	if cfg.Translate.LibreURL != "" {
		libre = translate.NewLibre(cfg.Translate.LibreURL, cfg.Translate.LibreAPIKey)
		providers = append(providers, libre)
	}
	if cfg.Translate.Anthropic.APIKey != "" {
		providers = append(providers, translate.NewAnthropicTranslator(
			cfg.Translate.Anthropic.APIKey, cfg.Translate.Anthropic.Model))
	}
	s.chain = translate.NewChain(providers...)

	s.detector = &language.Detector{}
	if libre != nil {
		s.detector.External = externalDetector{d: libre}
	}

	// Knowledge federation layers
	opts := []knowledge.Option{}

	s.refClient = reference.NewClient(cfg.Reference.APIURL)
	s.refCache = reference.NewCache()
	opts = append(opts, knowledge.WithReferenceCache(s.refCache))
	if cfg.Reference.LiveSearch {
		opts = append(opts, knowledge.WithLiveSearch(s.refClient))
	}

	if cfg.Embeddings.Enabled && cfg.Embeddings.TEIURL != "" {
		tei := embeddings.NewTEIClient(cfg.Embeddings.TEIURL)
		var store *embeddings.Store
		if cfg.Embeddings.PostgresURL != "" {
			store, err = embeddings.NewStore(ctx, cfg.Embeddings.PostgresURL)
			if err != nil {
				slog.Warn("pgvector unavailable, semantic index runs in memory", "error", err)
				store = nil
			} else if err := store.Init(ctx); err != nil {
				slog.Warn("pgvector schema init failed, semantic index runs in memory", "error", err)
				store.Close()
				store = nil
			}
		}
		s.embedStore = store
		index := embeddings.NewIndex(tei, store)
		opts = append(opts, knowledge.WithSemanticIndex(index))

		interval, err := time.ParseDuration(cfg.Embeddings.SyncInterval)
		if err != nil || interval <= 0 {
			interval = 30 * time.Second
		}
		if store != nil {
			s.syncWorker = embeddings.NewSyncWorker(s, store, tei, interval, cfg.Embeddings.BatchSize)
		} else {
			// Without pgvector the index holds its vectors in memory and
			// has to be built here; otherwise semantic search never sees
			// the corpus.
			s.semIndex = index
			s.semRefresh = interval
		}
	}

	s.fed = knowledge.NewFederator(corpus, learned, text.NewScorer(nil), opts...)

	if !s.config.Review.Disabled {
		reviewCfg := knowledge.DefaultReviewConfig()
		if s.config.Review.Interval != "" {
			if parsed, err := time.ParseDuration(s.config.Review.Interval); err == nil {
				reviewCfg.Interval = parsed
			}
		}
		s.reviewer = knowledge.NewReviewWorker(learned, reviewCfg)
	}

	if cfg.Speech.Command != "" {
		s.speaker = &speech.CommandSink{Command: cfg.Speech.Command, Args: cfg.Speech.Args}
	}

	// Conversation channel
	switch cfg.Channel {
	case "matrix":
		s.ch = matrix.New(matrix.Config{
			Homeserver:   cfg.Matrix.Homeserver,
			UserID:       cfg.Matrix.UserID,
			Password:     cfg.Matrix.Password,
			ServerName:   cfg.Matrix.ServerName,
			AllowedUsers: cfg.Matrix.AllowedUsers,
			DataDir:      cfg.DataDir,
		})
	case "console", "":
		s.ch = channel.NewConsole()
	default:
		return nil, fmt.Errorf("unknown channel %q", cfg.Channel)
	}

	return s, nil
}

// Pairs implements embeddings.Source for the sync worker.
func (s *Session) Pairs() ([]embeddings.Pair, error) {
	return s.fed.Pairs()
}

// rebuildSemanticIndex embeds the current corpus and learned pairs into
// the in-memory semantic index.
func (s *Session) rebuildSemanticIndex(ctx context.Context) error {
	pairs, err := s.fed.Pairs()
	if err != nil {
		return fmt.Errorf("list pairs: %w", err)
	}
	if err := s.semIndex.Rebuild(ctx, pairs); err != nil {
		return err
	}
	slog.Debug("semantic index refreshed", "pairs", len(pairs))
	return nil
}

// refreshSemanticIndex keeps the in-memory semantic index in step with
// the corpus and the learned store. It rebuilds once at startup and then
// on the sync interval so captured answers become searchable.
func (s *Session) refreshSemanticIndex(ctx context.Context) {
	if err := s.rebuildSemanticIndex(ctx); err != nil {
		slog.Warn("semantic index build failed", "error", err)
	}
	ticker := time.NewTicker(s.semRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.rebuildSemanticIndex(ctx); err != nil {
				slog.Warn("semantic index refresh failed", "error", err)
			}
		}
	}
}

// Run starts the workers and the channel loop, blocking until ctx is
// cancelled or the channel fails.
func (s *Session) Run(ctx context.Context) error {
	slog.Info("session running",
		"session_id", s.id,
		"name", s.config.Name,
		"channel", s.ch.Name(),
	)

	// Preload the restricted reference pages in the background; the
	// federator serves from the corpus until they arrive.
	go func() {
		n := s.refCache.Load(ctx, s.refClient, s.config.Reference.AllowList)
		if n > 0 {
			slog.Info("reference cache ready", "pages", n)
		}
	}()

	if s.config.API.Addr != "" {
		go s.serveAPI(ctx)
	}

	if s.syncWorker != nil {
		go s.syncWorker.Run(ctx)
	}
	if s.semIndex != nil {
		go s.refreshSemanticIndex(ctx)
	}
	if s.reviewer != nil {
		go s.reviewer.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.ch.Start(ctx, s.onMessage)
	}()

	go func() {
		time.Sleep(2 * time.Second)
		s.healthy = true
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	case err := <-errCh:
		if err != nil && ctx.Err() == nil {
			runErr = fmt.Errorf("channel fatal error: %w", err)
		}
	}

	s.healthy = false
	s.ch.Stop()
	if s.embedStore != nil {
		s.embedStore.Close()
	}
	if err := s.learned.Close(); err != nil {
		slog.Warn("close learned store", "error", err)
	}
	return runErr
}

func (s *Session) room(id string) *roomState {
	s.roomsMu.Lock()
	defer s.roomsMu.Unlock()
	rs, ok := s.rooms[id]
	if !ok {
		rs = &roomState{tracker: language.NewTracker()}
		s.rooms[id] = rs
	}
	return rs
}

// onMessage runs one conversation turn:
//  1. silence handling (empty content escalates gentle prompts)
//  2. farewell detection
//  3. language detection and sticky-mode tracking
//  4. casual and incomplete-question handlers
//  5. knowledge federation
//  6. persona composition and outbound language rendering
func (s *Session) onMessage(ctx context.Context, msg channel.Message) error {
	rs := s.room(msg.RoomID)

	if msg.Content == "" {
		if rs.closed {
			// Already said goodbye; stay quiet until they speak again.
			return nil
		}
		rs.quiet++
		prompt, terminal := s.composer.Silence(rs.quiet)
		if terminal {
			rs.closed = true
			rs.quiet = 0
			if err := s.respond(ctx, msg.RoomID, prompt, rs); err != nil {
				return err
			}
			return channel.ErrConversationOver
		}
		return s.respond(ctx, msg.RoomID, prompt, rs)
	}
	rs.quiet = 0
	rs.closed = false

	s.logTurn("Seeker", msg.Content)

	if persona.IsFarewell(msg.Content) {
		rs.closed = true
		if err := s.respond(ctx, msg.RoomID, s.composer.Goodbye(), rs); err != nil {
			return err
		}
		return channel.ErrConversationOver
	}

	result := s.detector.Detect(ctx, msg.Content)
	mode := rs.tracker.Observe(msg.Content, result)
	if mode != language.ModeDefault {
		slog.Debug("language mode active",
			"room", msg.RoomID,
			"mode", mode.String(),
			"input", language.FormatLabel(truncateText(msg.Content, 80), result.Lang),
		)
	}

	// Native-language templates answer common questions without a round
	// trip through translation.
	if mode == language.ModeScript || mode == language.ModeRomanized {
		if reply, ok := s.composer.MalayalamAnswer(msg.Content); ok {
			return s.respond(ctx, msg.RoomID, reply, rs)
		}
	}

	if reply, ok := s.composer.Casual(msg.Content, time.Now()); ok {
		return s.respond(ctx, msg.RoomID, reply, rs)
	}
	if reply, ok := s.composer.Incomplete(msg.Content); ok {
		return s.respond(ctx, msg.RoomID, reply, rs)
	}

	answer, err := s.fed.Resolve(ctx, msg.Content)
	if err != nil {
		slog.Warn("knowledge resolution failed", "error", err)
	}

	var reply string
	if answer != nil {
		reply = s.composer.Compose(answer.Text, persona.DetectMood(msg.Content))
		slog.Info("answer resolved",
			"source", string(answer.Kind),
			"score", answer.Score,
		)
	} else {
		reply = s.composer.Unknown()
	}

	reply = s.render(ctx, reply, rs)
	return s.respond(ctx, msg.RoomID, reply, rs)
}

// render translates the reply into the room's active language mode.
// Failures ship the untranslated reply rather than dropping the turn.
func (s *Session) render(ctx context.Context, reply string, rs *roomState) string {
	var target string
	switch rs.tracker.Mode() {
	case language.ModeScript:
		if language.IsScript(reply) {
			return reply
		}
		if !s.chain.Available() {
			// No translator to honor the Malayalam request with, so fall
			// back to a canned Malayalam teaching instead of English.
			return s.composer.MalayalamWisdom()
		}
		target = "ml"
	case language.ModeOther:
		target = rs.tracker.Lang()
	default:
		return reply
	}
	if target == "" || !s.chain.Available() {
		return reply
	}

	out, err := s.chain.Translate(ctx, reply, "en", target)
	if err != nil {
		slog.Warn("outbound translation failed", "target", target, "error", err)
	}
	return out
}

func (s *Session) respond(ctx context.Context, roomID, reply string, rs *roomState) error {
	s.logTurn(s.config.Name, reply)

	if err := s.ch.Send(ctx, channel.Response{RoomID: roomID, Content: reply}); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	if err := s.speaker.Speak(ctx, reply, rs.tracker.Lang()); err != nil {
		slog.Warn("speech output failed", "error", err)
	}
	return nil
}

// logTurn appends one line to the conversation transcript.
func (s *Session) logTurn(speaker, content string) {
	if s.config.LogFile == "" {
		return
	}
	s.logMu.Lock()
	defer s.logMu.Unlock()

	f, err := os.OpenFile(s.config.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		slog.Warn("open transcript", "error", err)
		return
	}
	defer f.Close()

	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f, "[%s] %s: %s\n", ts, speaker, strings.ReplaceAll(content, "\n", " "))
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

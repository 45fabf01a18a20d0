package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaladi-labs/acharya/pkg/knowledge"
)

// serveAPI runs the HTTP API:
//   - GET  /health     — health check with layer capabilities
//   - POST /v1/resolve — answer a question through the knowledge federation
func (s *Session) serveAPI(ctx context.Context) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/resolve", s.handleResolve)

	srv := &http.Server{Addr: s.config.API.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	slog.Info("API listening", "addr", s.config.API.Addr, "endpoints", []string{"/health", "/v1/resolve"})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		slog.Warn("API server error", "error", err)
	}
}

// healthResponse is the JSON response for /health.
type healthResponse struct {
	Status       string                 `json:"status"`
	SessionID    string                 `json:"session_id"`
	Uptime       string                 `json:"uptime"`
	Channel      string                 `json:"channel"`
	Capabilities knowledge.Capabilities `json:"capabilities"`
	Learned      *learnedSummary        `json:"learned,omitempty"`
}

type learnedSummary struct {
	Total     int `json:"total"`
	Confident int `json:"confident"`
	TotalUses int `json:"total_uses"`
}

func (s *Session) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if !s.healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"starting"}`)
		return
	}

	resp := healthResponse{
		Status:       "ok",
		SessionID:    s.id,
		Uptime:       time.Since(s.startedAt).Round(time.Second).String(),
		Channel:      s.ch.Name(),
		Capabilities: s.fed.Capabilities(),
	}
	if stats, err := s.learned.Stats(); err == nil {
		resp.Learned = &learnedSummary{
			Total:     stats.Total,
			Confident: stats.Confident,
			TotalUses: stats.TotalUses,
		}
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Warn("failed to encode health response", "error", err)
	}
}

// resolveRequest is the JSON request for /v1/resolve.
type resolveRequest struct {
	Query string `json:"query"`
}

// resolveResponse is the JSON response for /v1/resolve.
type resolveResponse struct {
	Query    string  `json:"query"`
	Answer   string  `json:"answer,omitempty"`
	Question string  `json:"question,omitempty"`
	Source   string  `json:"source,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Found    bool    `json:"found"`
}

func (s *Session) handleResolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		fmt.Fprint(w, `{"error":"method not allowed"}`)
		return
	}

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"missing required field: query"}`)
		return
	}

	answer, err := s.fed.Resolve(r.Context(), req.Query)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, `{"error":%q}`, err.Error())
		return
	}

	resp := resolveResponse{Query: req.Query}
	if answer != nil {
		resp.Answer = answer.Text
		resp.Question = answer.Question
		resp.Source = string(answer.Kind)
		resp.Score = answer.Score
		resp.Found = true
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		slog.Warn("failed to encode resolve response", "error", err)
	}
}

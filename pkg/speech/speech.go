// Package speech defines the voice I/O surface of console sessions.
// Speech output is best-effort: a failed or missing synthesizer never
// blocks the conversation, which always appears as text.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ErrTimeout is returned by sources when no speech arrived in time.
var ErrTimeout = errors.New("speech: listen timed out")

// ErrUnrecognized is returned when audio was captured but could not be
// transcribed.
var ErrUnrecognized = errors.New("speech: could not understand audio")

// Source yields user utterances as text.
type Source interface {
	Listen(ctx context.Context) (string, error)
}

// Sink speaks replies aloud. langHint is a BCP-47-ish code ("en",
// "ml") sinks may use to pick a voice; implementations are free to
// ignore it.
type Sink interface {
	Speak(ctx context.Context, text, langHint string) error
}

// NopSink discards speech. Used when no synthesizer is configured.
type NopSink struct{}

func (NopSink) Speak(ctx context.Context, text, langHint string) error { return nil }

// CommandSink synthesizes speech by writing the reply to a temporary
// file and handing it to an external command, e.g. a TTS CLI followed
// by a player. The command receives the file path as its last argument.
type CommandSink struct {
	Command string
	Args    []string
	// CleanupDelay is how long to wait before removing the temp file,
	// giving slow players time to open it.
	CleanupDelay time.Duration
}

// Speak runs the configured command. Failures are logged and returned
// but callers should treat them as non-fatal.
func (s *CommandSink) Speak(ctx context.Context, text, langHint string) error {
	if s.Command == "" {
		return nil
	}
	f, err := os.CreateTemp("", "acharya-speech-*.txt")
	if err != nil {
		return fmt.Errorf("speech temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write speech text: %w", err)
	}
	f.Close()

	args := append(append([]string{}, s.Args...), path)
	cmd := exec.CommandContext(ctx, s.Command, args...)
	if err := cmd.Run(); err != nil {
		os.Remove(path)
		return fmt.Errorf("speech command: %w", err)
	}

	delay := s.CleanupDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	// Deferred cleanup must never block a reply; a file already removed
	// by the player is fine.
	go func() {
		time.Sleep(delay)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Debug("speech temp cleanup failed", "path", path, "error", err)
		}
	}()
	return nil
}

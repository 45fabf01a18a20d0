package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/kaladi-labs/acharya/internal/session"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	qaFile := flag.String("qa", "", "Path to question/answer corpus (overrides config)")
	channelName := flag.String("channel", "", "Conversation channel: console or matrix (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("acharya %s (%s)\n", version, commit)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cp := *configPath
	if cp == "" {
		cp = os.Getenv("ACHARYA_CONFIG_PATH")
	}

	cfg, err := session.LoadConfig(cp)
	if err != nil {
		slog.Error("failed to load config", "path", cp, "error", err)
		os.Exit(1)
	}
	if *qaFile != "" {
		cfg.QAFile = *qaFile
	}
	if *channelName != "" {
		cfg.Channel = *channelName
	}

	slog.Info("acharya starting",
		"version", version,
		"qa_file", cfg.QAFile,
		"channel", cfg.Channel,
	)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	s, err := session.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	if err := s.Run(ctx); err != nil && ctx.Err() == nil {
		slog.Error("session error", "error", err)
		os.Exit(1)
	}

	slog.Info("acharya stopped")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/meetscribe/meetscribe/internal/analyzer"
	"github.com/meetscribe/meetscribe/internal/config"
	"github.com/meetscribe/meetscribe/internal/logger"
	"github.com/meetscribe/meetscribe/internal/media"
	"github.com/meetscribe/meetscribe/internal/notifier"
	"github.com/meetscribe/meetscribe/internal/report"
	"github.com/meetscribe/meetscribe/internal/server"
	"github.com/meetscribe/meetscribe/internal/session"
	"github.com/meetscribe/meetscribe/internal/transcriber"
	"github.com/meetscribe/meetscribe/internal/upload"
	"github.com/meetscribe/meetscribe/internal/watcher"
	"github.com/meetscribe/meetscribe/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Scribe")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Configuration loaded from %s", *configPath)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	apiKeys := splitKeys(os.Getenv("GEMINI_API_KEY"))
	if len(apiKeys) == 0 {
		log.Error(ctx, "GEMINI_API_KEY is not set")
		os.Exit(1)
	}
	log.Info(ctx, "Gemini: model %s, %d API key(s)", cfg.Gemini.Model, len(apiKeys))

	var notif notifier.Notifier
	if webhookURL := os.Getenv("SLACK_WEBHOOK_URL"); webhookURL != "" {
		notif, err = notifier.New(webhookURL, cfg.Slack, log)
		if err != nil {
			log.Error(ctx, "Invalid SLACK_WEBHOOK_URL: %v", err)
			os.Exit(1)
		}
		log.Info(ctx, "Slack delivery enabled")
	} else {
		log.Info(ctx, "Slack delivery disabled (SLACK_WEBHOOK_URL not set)")
	}

	exec := executor.New()
	ctrl := session.NewController(
		cfg,
		upload.NewValidator(cfg),
		media.New(cfg.FFmpeg, exec, log),
		transcriber.New(cfg.Whisper, exec, log),
		analyzer.New(cfg.Gemini, cfg.Prompts, apiKeys, log),
		report.New(),
		notif,
		log,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)

	if cfg.Paths.Inbox != "" {
		w, err := watcher.New(cfg.Paths.Inbox, inboxExtensions(cfg), ctrl.ProcessFile, log)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
		log.Info(ctx, "Inbox watcher enabled: %s -> %s", cfg.Paths.Inbox, cfg.Paths.Outbox)
	}

	srv := server.New(cfg, ctrl, log)
	httpSrv := &http.Server{
		Addr:              server.Addr(cfg.Server.Port),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(ctx, "HTTP server listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Fatal: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "HTTP shutdown: %v", err)
	}

	log.Info(ctx, "Meeting Scribe stopped")
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox, cfg.Paths.Outbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}

// splitKeys parses a comma-separated API key list, dropping empty entries.
func splitKeys(raw string) []string {
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// inboxExtensions lists every upload extension the watcher should react to.
func inboxExtensions(cfg *config.Config) []string {
	var exts []string
	exts = append(exts, cfg.Formats.Video...)
	exts = append(exts, cfg.Formats.Audio...)
	exts = append(exts, cfg.Formats.Text...)
	return exts
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sitelens/sitelens/analyzer"
	"github.com/sitelens/sitelens/api"
	"github.com/sitelens/sitelens/api/handler"
	"github.com/sitelens/sitelens/config"
	"github.com/sitelens/sitelens/renderer"
	"github.com/sitelens/sitelens/robots"
	"github.com/sitelens/sitelens/styles"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("sitelens starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"fetchMode", cfg.Fetch.Mode,
	)

	// ── 3. Initialise fetch strategies ──────────────────────────────
	// The HTTP fetcher is always available; the browser is launched
	// unless the deployment is HTTP-only. A browser that cannot start is
	// fatal here — degrading silently would make every analysis blind to
	// script-injected markup.
	httpFetcher := renderer.NewHTTPFetcher(cfg.Fetch)
	fetchers := []renderer.Fetcher{httpFetcher}

	var pool handler.PoolReporter
	if cfg.Fetch.Mode != "http" {
		browserFetcher, err := renderer.NewBrowserFetcher(cfg.Browser)
		if err != nil {
			slog.Error("failed to initialise browser fetcher", "error", err)
			os.Exit(1)
		}
		defer browserFetcher.Close()
		fetchers = append(fetchers, browserFetcher)
		pool = browserFetcher
	}

	// ── 4. Wire the analysis pipeline ───────────────────────────────
	svc := analyzer.NewService(
		cfg.Analyzer,
		cfg.Fetch.Mode,
		fetchers,
		styles.NewAggregator(),
		robots.NewClient(),
	)

	// ── 5. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(svc, pool, cfg, startTime)

	// ── 6. Start HTTP server ────────────────────────────────────────
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// browserFetcher.Close() runs via defer — drains the page pool and
	// kills Chrome.
	slog.Info("sitelens stopped")
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

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

	"github.com/simba-tools/simbadesk/api"
	"github.com/simba-tools/simbadesk/cache"
	"github.com/simba-tools/simbadesk/config"
	"github.com/simba-tools/simbadesk/llm"
	"github.com/simba-tools/simbadesk/scraper"
	"github.com/simba-tools/simbadesk/store"
)

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("simbadesk starting",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"mode", cfg.Server.Mode,
		"store", cfg.Store.Backend,
	)

	// ── 3. Initialise store ─────────────────────────────────────────
	st, err := newStore(cfg.Store)
	if err != nil {
		slog.Error("failed to initialise store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// ── 4. Validate scrape schema, initialise scraper ───────────────
	if err := scraper.ValidateSchema(scraper.TicketFieldSchema); err != nil {
		slog.Error("invalid ticket field schema", "error", err)
		os.Exit(1)
	}
	sc := scraper.NewScraper(cfg.Browser, cfg.Scrape, cfg.Stealth)

	// ── 5. Initialise LLM client and cache ──────────────────────────
	llmClient := llm.NewClient(cfg.LLM, nil)
	cc := cache.New(cfg.Cache.MaxEntries)

	// ── 6. Setup router ─────────────────────────────────────────────
	startTime := time.Now()
	router := api.NewRouter(st, sc, llmClient, cc, cfg, startTime)

	// ── 7. Start HTTP server ────────────────────────────────────────
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

	// ── 8. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	// Give in-flight requests 5 seconds to complete. Browser sessions
	// are per-request and close with their requests.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	slog.Info("simbadesk stopped")
}

// newStore builds the configured persistence backend.
func newStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return store.NewMemoryStore(), nil
	}
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

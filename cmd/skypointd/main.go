package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sky/skypoint/internal/api"
	"github.com/sky/skypoint/internal/auth"
	"github.com/sky/skypoint/internal/catalog"
	"github.com/sky/skypoint/internal/config"
	"github.com/sky/skypoint/internal/metrics"
	"github.com/sky/skypoint/internal/sky"
	"github.com/sky/skypoint/internal/stream"
)

func main() {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AuthEnabled {
		logger.Info("auth enabled")
	}

	store := catalog.NewStore()
	loadCatalog(cfg, store, logger)

	workers := cfg.SnapshotWorkers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	computer := sky.NewComputer(workers, logger)
	logger.Info("snapshot config", "workers", workers)

	streamCfg := stream.Config{
		MaxConcurrentPerIP: cfg.StreamMaxConcurrentPerIP,
		KeepaliveInterval:  cfg.StreamKeepaliveInterval,
		TrustProxy:         cfg.TrustProxy,
	}
	streamHandler := stream.NewHandler(computer, store, streamCfg, logger)

	authCfg := auth.Config{Enabled: cfg.AuthEnabled, Token: cfg.AuthToken}
	srv := api.NewServer(cfg.HTTPAddr, logger, authCfg, store, computer, streamHandler)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background goroutine to update the catalog age gauge.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				age := store.AgeSeconds()
				if age >= 0 {
					metrics.SetCatalogAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "auth_enabled", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// loadCatalog populates the store from the first available source:
// a local file, a remote URL, then the builtin bright-star set.
func loadCatalog(cfg config.Config, store *catalog.Store, logger *slog.Logger) {
	if cfg.CatalogPath != "" {
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			logger.Warn("could not read catalog file, trying next source", "path", cfg.CatalogPath, "error", err)
		} else if ds := parseDataset(data, "file:"+cfg.CatalogPath, logger); ds != nil {
			setCatalog(store, ds, logger)
			return
		}
	}

	if cfg.CatalogURL != "" {
		fetcher := catalog.NewFetcher(cfg.CatalogURL)
		fetchCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		data, err := fetcher.Fetch(fetchCtx)
		cancel()
		if err != nil {
			logger.Warn("could not fetch catalog, trying next source", "url", cfg.CatalogURL, "error", err)
		} else if ds := parseDataset(data, cfg.CatalogURL, logger); ds != nil {
			setCatalog(store, ds, logger)
			return
		}
	}

	setCatalog(store, catalog.Builtin(), logger)
}

func parseDataset(data []byte, source string, logger *slog.Logger) *catalog.Dataset {
	entries, err := catalog.Parse(bytes.NewReader(data), logger)
	if err != nil {
		logger.Warn("failed to parse catalog data", "source", source, "error", err)
		return nil
	}
	if len(entries) == 0 {
		logger.Warn("catalog source contained no usable entries", "source", source)
		return nil
	}
	return &catalog.Dataset{
		Source:   source,
		LoadedAt: time.Now(),
		Entries:  entries,
	}
}

func setCatalog(store *catalog.Store, ds *catalog.Dataset, logger *slog.Logger) {
	store.Set(ds)
	metrics.SetCatalogObjects(len(ds.Entries))
	logger.Info("catalog loaded", "source", ds.Source, "count", len(ds.Entries))
}

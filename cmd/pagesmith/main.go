// Package main is the entry point for the landing page generator API server.
// It loads configuration, connects to the configured backends, sets up
// routing, and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"pagesmith/internal/ai"
	"pagesmith/internal/cache"
	"pagesmith/internal/compiler"
	"pagesmith/internal/config"
	"pagesmith/internal/database"
	"pagesmith/internal/deploy"
	"pagesmith/internal/export"
	"pagesmith/internal/generator"
	"pagesmith/internal/handlers"
	"pagesmith/internal/middleware"
	"pagesmith/internal/router"
	"pagesmith/internal/storage"
	"pagesmith/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text with debug output in development, JSON otherwise.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreBackend,
	)

	ctx := context.Background()

	// Document store: PostgreSQL when configured, process memory otherwise.
	docs, db, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open document store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Export cache: Valkey when VALKEY_HOST is set, process memory otherwise.
	var exportCache cache.ExportCache = cache.NewMemoryExportCache(cfg.ExportTTL)
	if cfg.UsesValkey() {
		var client *redis.Client
		client, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		exportCache = cache.NewValkeyExportCache(client, cfg.ExportTTL)
	} else {
		slog.Warn("valkey not configured, exports are kept in memory")
	}

	// S3-compatible mirror for exports (optional, app works without it).
	var mirror export.Mirror
	s3, err := storage.New(storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Public:    cfg.S3Public,
		PublicURL: cfg.S3PublicURL,
	})
	switch {
	case err != nil:
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	case s3 != nil:
		mirror = s3
		slog.Info("s3 export mirror connected", "endpoint", cfg.S3Endpoint, "bucket", s3.Bucket())
	default:
		slog.Warn("s3 storage not configured, exports are not mirrored")
	}

	// AI provider registry. Without an active provider every generation
	// uses template content.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, cfg.ProviderConfigs())
	genOpts := generator.Options{Timeout: cfg.AITimeout}
	aiName := "none"
	if aiRegistry.Enabled() {
		genOpts.AI = aiRegistry
		genOpts.Moderator = aiRegistry
		aiName = aiRegistry.ActiveName()
	} else if cfg.AIProvider != "" {
		slog.Warn("ai provider has no api key, using template content", "provider", cfg.AIProvider)
	}
	gen := generator.New(genOpts)

	slog.Info("generator initialized",
		"strategy", gen.Strategy(),
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	pages := compiler.NewCache()
	api := handlers.NewAPI(handlers.Deps{
		Generator: gen,
		Store:     docs,
		Exports:   export.NewService(exportCache, mirror, pages),
		Deployer:  deploy.NewSlugDeployer(cfg.DeployDomain),
		Pages:     pages,
		Info: handlers.ServiceInfo{
			Version:    version,
			AIProvider: aiName,
			Store:      cfg.StoreBackend,
		},
	})

	limiter := middleware.NewRateLimiter(cfg.GenerateRateLimit, time.Minute)
	defer limiter.Stop()

	r := router.New(api, router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Limiter:     limiter,
	})

	// WriteTimeout must accommodate generation endpoints that wait on the
	// model for up to AITimeout.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.AITimeout + 60*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openStore returns the configured document store. The *sql.DB is non-nil
// only for the postgres backend and must be closed by the caller.
func openStore(ctx context.Context, cfg *config.Config) (store.DocumentStore, *sql.DB, error) {
	if cfg.StoreBackend != config.StorePostgres {
		return store.NewMemoryStore(), nil, nil
	}

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store.NewPostgresStore(db), db, nil
}

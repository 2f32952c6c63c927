// Package main is the entry point for the storefront platform server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/editor"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/store"
	"storefront/internal/validation"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, page cache, event stream).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	shopStore := store.NewShopStore(db)
	templateStore := store.NewTemplateStore(db)
	sectionStore := store.NewSectionStore(db)
	blockStore := store.NewSectionBlockStore(db)
	assetStore := store.NewAssetStore(db)

	// Connect to S3-compatible object storage (optional — app works without it).
	var storageClient *storage.Client
	if cfg.S3Endpoint != "" && cfg.S3AccessKey != "" {
		storageClient, err = storage.New(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3PublicBucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if storageClient != nil {
			slog.Info("s3 storage connected",
				"endpoint", cfg.S3Endpoint,
				"bucket", cfg.S3PublicBucket,
			)
		}
	} else {
		slog.Warn("s3 storage not configured — asset uploads disabled")
	}

	// Page cache (composed storefront JSON in Valkey) and the editor event stream.
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
	publisher := events.NewPublisher(valkeyClient)

	// Block settings validator and the mutation orchestrator.
	settingsValidator := validation.NewSettingsValidator()
	ed := editor.New(sectionStore, blockStore, settingsValidator, publisher, pageCache)

	// Create handler groups with their dependencies.
	h := router.Handlers{
		Auth:      handlers.NewAuth(sessionStore, userStore),
		Shops:     handlers.NewShops(shopStore),
		Templates: handlers.NewTemplates(shopStore, templateStore),
		Sections:  handlers.NewSections(shopStore, templateStore, sectionStore, blockStore, publisher, pageCache),
		Blocks:    handlers.NewBlocks(ed),
		Assets:    handlers.NewAssets(shopStore, assetStore, storageClient),
		Public:    handlers.NewPublic(shopStore, templateStore, sectionStore, blockStore, pageCache),
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, secureCookies, h)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// Package main is the entry point for the FolioPress API server.
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

	"github.com/joho/godotenv"

	"foliopress/internal/cache"
	"foliopress/internal/config"
	"foliopress/internal/database"
	"foliopress/internal/handlers"
	"foliopress/internal/router"
	"foliopress/internal/session"
	"foliopress/internal/storage"
	"foliopress/internal/store"
)

func main() {
	// A local .env is optional; the environment wins in production.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

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

	// Connect to Valkey (Redis-compatible cache + session store).
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
	postStore := store.NewPostStore(db)
	companyStore := store.NewCompanyStore(db)
	insightStore := store.NewInsightStore(db)
	tagStore := store.NewTagStore(db)
	galleryStore := store.NewGalleryStore(db)
	settingStore := store.NewSiteSettingStore(db)

	// Connect to S3-compatible object storage (optional — the API works
	// without it, editor submits with new images return 503).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3BucketPublic, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	// The interface value must stay nil when storage is unconfigured; a
	// nil *storage.Client wrapped in the interface would not compare
	// equal to nil in the handlers.
	var objectStorage handlers.ObjectStorage
	if storageClient != nil {
		objectStorage = storageClient
		slog.Info("s3 storage connected",
			"endpoint", cfg.S3Endpoint,
			"public_bucket", cfg.S3BucketPublic,
		)
	} else {
		slog.Warn("s3 storage not configured — image uploads disabled")
	}

	// Cached public responses live in Valkey next to the sessions.
	respCache := cache.NewResponseCache(valkeyClient, cache.DefaultResponseTTL)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(postStore, companyStore, insightStore, tagStore, galleryStore, respCache)
	adminHandlers := handlers.NewAdmin(postStore, companyStore, insightStore, tagStore, galleryStore, settingStore, objectStorage, respCache)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, publicHandlers, adminHandlers)

	// Create the HTTP server with sensible timeouts. ReadTimeout must
	// accommodate multi-image editor submits on slow uplinks.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 90 * time.Second,
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

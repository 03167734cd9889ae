// Package main is the entry point for the Inkwell server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inkwell/internal/blog"
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/router"
	"inkwell/internal/session"
	"inkwell/internal/storage"
	"inkwell/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
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

	// Connect to Valkey (Redis-compatible sessions + feed cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. Outside development, session
	// cookies are marked Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	postStore := store.NewPostStore(db)
	likeStore := store.NewLikeStore(db)

	// Connect to S3-compatible object storage (optional — the app works
	// without it, with cover uploads disabled).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — cover uploads disabled")
	}

	// Anonymous feed cache in Valkey.
	feedCache := cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)

	// The blog service owns the post lifecycle and engagement rules.
	blogService := blog.NewService(postStore, likeStore, userStore, feedCache)

	// Rate limit the credential endpoints per IP.
	rateLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer rateLimiter.Stop()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	publicHandlers := handlers.NewPublic(blogService)
	adminHandlers := handlers.NewAdmin(blogService, storageClient)
	mediaHandlers := handlers.NewMedia(storageClient)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, rateLimiter, authHandlers, publicHandlers, adminHandlers, mediaHandlers)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers
	// cover image uploads to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
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

// Copyright (c) 2026 Mogcord. All rights reserved.

// Command api is the entry point for the Mogcord HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Open the request-log pipeline (file + database sinks).
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mogcord/mogcord/internal/api"
	"github.com/mogcord/mogcord/internal/chat"
	"github.com/mogcord/mogcord/internal/message"
	"github.com/mogcord/mogcord/internal/platform/config"
	"github.com/mogcord/mogcord/internal/platform/constants"
	"github.com/mogcord/mogcord/internal/platform/middleware"
	"github.com/mogcord/mogcord/internal/platform/migration"
	pgstore "github.com/mogcord/mogcord/internal/platform/postgres"
	redisstore "github.com/mogcord/mogcord/internal/platform/redis"
	"github.com/mogcord/mogcord/internal/platform/sec"
	"github.com/mogcord/mogcord/internal/relation"
	"github.com/mogcord/mogcord/internal/reqlog"
	"github.com/mogcord/mogcord/internal/users/auth"
	"github.com/mogcord/mogcord/internal/users/user"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "mogcord"))
	slog.SetDefault(log)

	log.Info("[Mogcord] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is optional; real deployments inject the environment.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "mogcord"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Request Logging ────────────────────────────────────────────────
	// Every request leaves one line in the daily file and one row in the
	// database. A broken sink degrades to a warning, never to a 500.
	fileLogs, err := reqlog.NewFileStore(cfg.LogFolder)
	must(log, err, "open request log folder")
	defer func() {
		if cerr := fileLogs.Close(); cerr != nil {
			log.Error("request log close error", slog.Any("error", cerr))
		}
	}()

	requestLogs := reqlog.NewFanout(log, fileLogs, reqlog.NewPostgresStore(pool))

	// ── 7. Security Services ──────────────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.AccesTokenKey, constants.AuthIssuer, constants.AccessTokenTTL)
	must(log, err, "initialize token service")

	hasher := sec.NewHasher(cfg.HashWorkers)

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	userRepository := user.NewPostgresRepository(pool)
	userService := user.NewService(userRepository, hasher)
	userHandler := user.NewHandler(userService)

	tokenRepository := auth.NewPostgresRepository(pool)
	authService := auth.NewService(userRepository, tokenRepository, hasher, tokenService)
	authHandler := auth.NewHandler(authService)

	relationRepository := relation.NewPostgresRepository(pool)
	relationService := relation.NewService(relationRepository, userRepository)
	relationHandler := relation.NewHandler(relationService)

	chatRepository := chat.NewPostgresRepository(pool)
	chatService := chat.NewService(chatRepository, relationService)
	chatHandler := chat.NewHandler(chatService)

	messageRepository := message.NewPostgresRepository(pool)
	messageService := message.NewService(messageRepository, chatService)
	messageHandler := message.NewHandler(messageService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		User:      userHandler,
		Relation:  relationHandler,
		Chat:      chatHandler,
		Message:   messageHandler,
	}

	server := api.NewServer(
		context.Background(),
		cfg,
		log,
		tokenService,
		requestLogs,
		middleware.LoginRateLimit(rdb),
		handlers,
	)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

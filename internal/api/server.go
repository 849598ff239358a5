// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mogcord/mogcord/internal/chat"
	"github.com/mogcord/mogcord/internal/message"
	"github.com/mogcord/mogcord/internal/platform/config"
	"github.com/mogcord/mogcord/internal/platform/constants"
	"github.com/mogcord/mogcord/internal/platform/middleware"
	"github.com/mogcord/mogcord/internal/relation"
	"github.com/mogcord/mogcord/internal/reqlog"
	"github.com/mogcord/mogcord/internal/users/auth"
	"github.com/mogcord/mogcord/internal/users/user"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session lifecycle (login, refresh, revoke).
	Auth *auth.Handler

	// User handles account creation and lookup, plus the admin surface.
	User *user.Handler

	// Relation handles friendships and blocks.
	Relation *relation.Handler

	// Chat handles private chats, groups, and servers.
	Chat *chat.Handler

	// Message handles channel history and message writes.
	Message *message.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// The request-log tap sits directly after RequestID so every request that
// carries an id also leaves a log line, whatever happens further down.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	verifier middleware.TokenVerifier,
	requestLogs reqlog.Repository,
	loginLimiter func(http.Handler) http.Handler,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(reqlog.Tap(requestLogs))
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.ResolveContext(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(loginLimiter))

		// The social graph lives under the user surface; account routes
		// fill in the rest of the /users subtree.
		api.Route("/users", func(users chi.Router) {
			users.Group(func(authed chi.Router) {
				authed.Use(middleware.RequireAuth)
				authed.Mount("/friends", h.Relation.FriendRoutes())
				authed.Mount("/blocked", h.Relation.BlockedRoutes())
			})
			users.Mount("/", h.User.Routes())
		})

		// Admin surface: token must carry the admin or owner flag.
		api.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin)
			admin.Mount("/admin/users", h.User.AdminRoutes())
		})

		// Everything below requires an authenticated session.
		api.Group(func(authed chi.Router) {
			authed.Use(middleware.RequireAuth)
			authed.Mount("/chat", h.Chat.ChatRoutes())
			authed.Mount("/servers", h.Chat.ServerRoutes())
			authed.Mount("/channels", h.Message.Routes())
		})
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}

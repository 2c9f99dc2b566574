// Package server is the composition root: it opens the store, builds the
// services and handlers, mounts the routes and runs the HTTP server with
// graceful shutdown.
//
// DEPENDENCY CHAIN:
//
//	config → sqlstore.DB → UserStore / BookmarkStore
//	       → TokenService, PasswordService
//	       → AuthService, UserService, BookmarkService
//	       → handlers → chi router
//
// Each layer only receives what it needs. Services see repository
// interfaces, never the concrete store; handlers see services, never SQL.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bookmarks/internal/auth"
	"github.com/sakif/bookmarks/internal/config"
	"github.com/sakif/bookmarks/internal/handler"
	"github.com/sakif/bookmarks/internal/middleware"
	"github.com/sakif/bookmarks/internal/repository/sqlstore"
	"github.com/sakif/bookmarks/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get after SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
// It owns the database pool and closes it on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqlstore.DB
}

// New opens the database (running migrations) and wires every route.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	dialect, err := sqlstore.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, err
	}

	db, err := sqlstore.New(ctx, dialect, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database pool. Start calls it on the way out; tests
// that never Start call it directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                 → liveness + DB ping
//	POST   /auth/signup             → register
//	POST   /auth/signin             → {"access_token": ...}
//	GET    /auth/github/login       → redirect to GitHub (if configured)
//	GET    /auth/github/callback    → {"access_token": ...}
//	GET    /users/me                → current user              [bearer]
//	PATCH  /users                   → edit current user         [bearer]
//	GET    /bookmarks               → list own bookmarks        [bearer]
//	POST   /bookmarks               → create                    [bearer]
//	GET    /bookmarks/{id}          → get own bookmark          [bearer]
//	PATCH  /bookmarks/{id}          → edit own bookmark         [bearer]
//	DELETE /bookmarks/{id}          → delete own bookmark       [bearer]
//
// MIDDLEWARE ORDER: RequestID must precede Logger so the id is logged;
// Recoverer sits inside Logger so a recovered panic is logged as a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.JWTTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	users := s.db.Users()
	bookmarks := s.db.Bookmarks()

	authService := service.NewAuthService(users, tokens, passwords, s.logger)
	userService := service.NewUserService(users, s.logger)
	bookmarkService := service.NewBookmarkService(bookmarks, s.logger)

	// A nil interface (not a nil *GitHubProvider) switches the GitHub
	// routes to 404.
	var github handler.GitHubExchanger
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)

	s.router.Get("/healthz", handler.HandleHealth(s.db, s.logger))

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/signin", authHandler.HandleSignin)
		r.Get("/github/login", authHandler.HandleGitHubLogin)
		r.Get("/github/callback", authHandler.HandleGitHubCallback)
	})

	// Everything below requires a valid bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens, users, s.logger))

		r.Get("/users/me", userHandler.HandleMe)
		r.Patch("/users", userHandler.HandleEdit)

		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", bookmarkHandler.HandleList)
			r.Post("/", bookmarkHandler.HandleCreate)
			r.Get("/{id}", bookmarkHandler.HandleGetByID)
			r.Patch("/{id}", bookmarkHandler.HandleEdit)
			r.Delete("/{id}", bookmarkHandler.HandleDelete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, let in-flight requests finish,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("driver", s.config.DBDriver),
			slog.Bool("github", s.config.GitHubEnabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

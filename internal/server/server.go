// Package server is the composition root: it wires the database, AI client,
// services, and handlers together and defines every route. main.go only
// reads config and calls New/Start.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/anikasharma/meraki/internal/aijob"
	"github.com/anikasharma/meraki/internal/auth"
	"github.com/anikasharma/meraki/internal/handler"
	"github.com/anikasharma/meraki/internal/middleware"
	sqliteRepo "github.com/anikasharma/meraki/internal/repository/sqlite"
	"github.com/anikasharma/meraki/internal/service"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port     int
	DBPath   string
	AIAPIURL string // base URL of the AI job service, e.g. http://localhost:8000

	JWTSecret          string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph and registers every route.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
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

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(
		s.config.GoogleClientID,
		s.config.GoogleClientSecret,
		s.config.GoogleCallbackURL,
	)

	ai := aijob.NewClient(s.config.AIAPIURL, s.logger)

	// s.db implements every repository interface; each service receives only
	// the interfaces it uses.
	authSvc := service.NewAuthService(s.db, tokens, passwords, s.logger)
	hobbySvc := service.NewHobbyService(s.db, s.logger)
	sessionSvc := service.NewSessionService(s.db, s.db, s.logger)
	challengeSvc := service.NewChallengeService(s.db, s.db, s.db, ai, s.logger)
	milestoneSvc := service.NewMilestoneService(s.db, s.db, s.logger)
	statsSvc := service.NewStatsService(s.db)
	discoverySvc := service.NewDiscoveryService(s.db, ai, s.logger)
	feedbackSvc := service.NewFeedbackService(s.db, s.db, s.db, ai, s.logger)
	nudgeSvc := service.NewNudgeService(s.db, s.db, s.db, s.db, s.db, ai, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, google, s.logger)
	hobbyHandler := handler.NewHobbyHandler(hobbySvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	challengeHandler := handler.NewChallengeHandler(challengeSvc)
	milestoneHandler := handler.NewMilestoneHandler(milestoneSvc)
	statsHandler := handler.NewStatsHandler(statsSvc)
	discoveryHandler := handler.NewDiscoveryHandler(discoverySvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	nudgeHandler := handler.NewNudgeHandler(nudgeSvc)

	// Auth routes: no token required.
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
		r.Get("/google/login", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
	})

	// The hobby catalog is browsable without an account.
	s.router.With(auth.OptionalAuth(tokens)).Get("/api/hobbies", hobbyHandler.HandleCatalog)

	// Everything else requires a valid token.
	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/me", authHandler.HandleMe)
		r.Get("/me/hobbies", hobbyHandler.HandleListMine)
		r.Post("/me/hobbies", hobbyHandler.HandleAdd)

		r.Post("/sessions", sessionHandler.HandleCreate)
		r.Get("/sessions", sessionHandler.HandleList)
		r.Get("/sessions/{id}", sessionHandler.HandleGet)
		r.Post("/sessions/{id}/feedback", feedbackHandler.HandleRequest)
		r.Get("/feedback/{jobID}", feedbackHandler.HandlePoll)

		r.Get("/challenges", challengeHandler.HandleList)
		r.Post("/challenges/generate", challengeHandler.HandleGenerate)
		r.Get("/challenges/generate/{jobID}", challengeHandler.HandleGenerationPoll)
		r.Post("/challenges/{id}/complete", challengeHandler.HandleComplete)
		r.Post("/challenges/{id}/skip", challengeHandler.HandleSkip)

		r.Get("/milestones", milestoneHandler.HandleList)
		r.Post("/milestones/check", milestoneHandler.HandleCheck)

		r.Get("/stats", statsHandler.HandleSnapshot)
		r.Get("/stats/streak", statsHandler.HandleStreak)
		r.Get("/stats/heatmap", statsHandler.HandleHeatmap)

		r.Put("/quiz/answers", discoveryHandler.HandleSaveAnswers)
		r.Post("/discovery", discoveryHandler.HandleStart)
		r.Get("/discovery/{jobID}", discoveryHandler.HandlePoll)

		r.Post("/motivation/check", nudgeHandler.HandleMotivationCheck)
		r.Get("/nudges/active", nudgeHandler.HandleActive)
		r.Post("/nudges/{id}/dismiss", nudgeHandler.HandleDismiss)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close the
// database (flushes the WAL and releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // poll proxies wait on the AI service
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("aiAPI", s.config.AIAPIURL),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

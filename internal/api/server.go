// Package api serves edumate's features over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/app"
	"github.com/abhisek/edumate/internal/config"
)

// Server exposes an App over HTTP.
type Server struct {
	app    *app.App
	cfg    config.ServerConfig
	logger *zap.Logger
}

// NewServer creates a server for a.
func NewServer(a *app.App, cfg config.ServerConfig) *Server {
	return &Server{app: a, cfg: cfg, logger: a.Logger.Named("http")}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout()))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", s.handleRecommend)
		r.Post("/questions", s.handleAnswer)
		r.Post("/worksheets", s.handleWorksheet)

		r.Post("/grades", s.handleGrade)
		r.Post("/grades/image", s.handleGradeImage)
		r.Post("/hints", s.handleHints)

		r.Post("/reflections", s.handleReflect)
		r.Get("/wellbeing/report", s.handleWellbeingReport)
		r.Post("/peer-support", s.handlePeerSupport)

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/classes", s.handleAddClass)
			r.Get("/today", s.handleToday)
			r.Post("/assignments", s.handleAddAssignment)
			r.Get("/upcoming", s.handleUpcoming)
			r.Post("/assignments/{id}/complete", s.handleComplete)
			r.Get("/conflicts", s.handleConflicts)
			r.Get("/suggest-time", s.handleSuggestTime)
		})

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/leaderboard.xlsx", s.handleLeaderboardExport)
		r.Get("/rewards/{kind}/{userID}", s.handleProfile)
		r.Post("/rewards/{kind}/{userID}/points", s.handleAddPoints)
		r.Get("/rewards/{kind}/{userID}/suggestions", s.handleRewardSuggestions)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "endpoint not found", nil)
	})
	return r
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.WriteTimeout > 0 {
		return s.cfg.WriteTimeout
	}
	return 2 * time.Minute
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/contextoduel/contexto-backend/internal/service"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router *chi.Mux

	matches service.MatchService
	users   service.UserService
}

func New(logger *slog.Logger, matches service.MatchService, users service.UserService) *Server {
	server := &Server{
		logger:  logger.With("component", "rest"),
		router:  chi.NewRouter(),
		matches: matches,
		users:   users,
	}

	server.router.Use(chimw.RequestID)
	server.router.Use(chimw.RealIP)
	server.router.Use(chimw.Recoverer)
	server.router.Use(chimw.Timeout(60 * time.Second))

	server.router.Get("/ping", server.handlePing)

	server.router.Route("/api", func(r chi.Router) {
		r.Post("/start", server.handleStart)
		r.Post("/guess", server.handleGuess)
		r.Post("/give-up", server.handleGiveUp)
		r.Get("/leaderboard", server.handleLeaderboard)
		r.Get("/stats", server.handleStats)

		r.Post("/users", server.handleRegisterUser)
		r.Get("/users/{userID}/history", server.handleUserHistory)
	})

	return server
}

// Router exposes the chi mux, mainly for handler tests.
func (that *Server) Router() http.Handler {
	return that.router
}

// Start serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}

		return nil
	}
}

package server

import (
	"context"
	"fmt"
	"net/http"
	"probe-wizard/config"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zerolog.Logger
}

func New(cfg *config.ServerConfig, router chi.Router, logger *zerolog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			// the request timeout middleware answers first, these only bound slow clients
			ReadTimeout:  cfg.RequestTimeout + 5*time.Second,
			WriteTimeout: cfg.RequestTimeout + 5*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

func (s *Server) Start() {
	// start http server in a separate goroutine
	go func() {
		s.logger.Info().Msgf("HTTP server listening on %s", s.httpServer.Addr)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal().Err(err).Msg("HTTP server crashed")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/pkg/config"
	"github.com/FACorreiaa/fraudguard-console/internal/routes"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	clients *routes.Clients
	router  http.Handler
}

// New creates a Server and the backend clients every handler shares.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	clients, err := routes.NewClients(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up backend clients: %w", err)
	}
	logger.Info("Backend clients ready",
		zap.String("backend", cfg.Backend.BaseURL),
		zap.String("analyzer", cfg.Backend.AnalyzerURL),
		zap.String("geocoder", cfg.Geocoder.BaseURL))

	return &Server{
		cfg:     cfg,
		logger:  logger,
		clients: clients,
	}, nil
}

// HTTPServer creates and configures the HTTP server. Writes have no deadline
// because the dashboard and alerts streams stay open for the whole visit;
// Shutdown cancels every request context so those streams end.
func (s *Server) HTTPServer() *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + s.cfg.ServerPort,
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}

func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

func (s *Server) Clients() *routes.Clients {
	return s.clients
}

func (s *Server) GetLogger() *zap.Logger {
	return s.logger
}

func (s *Server) GetConfig() *config.Config {
	return s.cfg
}

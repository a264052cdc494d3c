package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/FACorreiaa/fraudguard-console/internal/pkg/config"
	"github.com/FACorreiaa/fraudguard-console/internal/server"
	"github.com/FACorreiaa/fraudguard-console/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, !cfg.IsProduction(),
		zap.String("service", cfg.Observability.ServiceName),
		zap.String("version", version),
	); err != nil {
		return err
	}
	defer logger.Log.Sync()

	otelShutdown, err := server.InitObservability(cfg.Observability, version, logger.Log)
	if err != nil {
		return err
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
		}
	}()

	srv, err := server.New(cfg, logger.Log)
	if err != nil {
		return err
	}

	router := server.SetupRouter(cfg, srv.Clients(), version, logger.Log)
	if err := server.SetupAssets(router, cfg.IsProduction()); err != nil {
		logger.Log.Error("Failed to setup assets", zap.Error(err))
		return err
	}
	srv.SetRouter(router)

	// Start pprof server (on separate port, not exposed publicly)
	server.StartPprofServer(cfg.Observability.PprofAddr, logger.Log)

	httpServer := srv.HTTPServer()

	done := make(chan bool, 1)
	go server.GracefulShutdown(httpServer, logger.Log, done)

	logger.Log.Info("Server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("environment", cfg.Environment))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("Server error", zap.Error(err))
		return err
	}

	<-done
	logger.Log.Info("Graceful shutdown complete")

	return nil
}

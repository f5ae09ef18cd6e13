package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"probe-wizard/config"
	"probe-wizard/internals/app"
	"probe-wizard/internals/server"
	"probe-wizard/pkg/db"
	"probe-wizard/pkg/logger"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "env.yaml", "path to the yaml config file")
	flag.Parse()

	// Load envs
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// Get Context with signals attached -> when ever a signal occurs , then `Done` channel of ctx will get closed
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Base/global logger
	log := logger.Init(cfg)
	log.Info().Msg("logger initialized")

	// Initialize DB Pool
	dbPool, err := db.ConnectToDB(ctx, &cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize db pool")
	}
	log.Info().Msg("database pool initialized")

	// Inject Dependencies
	container, err := app.NewContainer(ctx, dbPool, cfg, log)
	if err != nil {
		dbPool.Close()
		log.Fatal().Err(err).Msg("failed to initialize dependencies")
	}
	log.Info().Msg("dependencies initialized")

	// Register Routes
	router := app.RegisterRoutes(container)
	log.Info().Msg("routes registered")

	// Start HTTP Server -> Runs in a separate goroutine in background and receive requests
	srv := server.New(&cfg.Server, router, log)
	srv.Start()

	// main goroutine is for graceful shutdown

	<-ctx.Done() // WAIT FOR SIGNAL
	log.Info().Msg("shutdown signal received")

	// 1. Stop HTTP server (stop accepting requests)
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// 2. Shutdown infra
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second) // buffer time to close all resources
	defer cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("dependencies shutdown failed")
	}

	// Shutdown done
	log.Info().Msg("graceful shutdown complete")
}

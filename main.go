package main

import (
	"context"
	"os"

	"callbridge/internal/bootstrap"
	"callbridge/internal/config"
	"callbridge/internal/observability"
	"callbridge/internal/server"
)

func main() {
	logger := observability.NewLogger()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Error(ctx, "failed to load configuration", err)
		os.Exit(1)
	}

	deps, err := bootstrap.Initialize(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to initialize dependencies", err)
		os.Exit(1)
	}

	srv := server.New(cfg, deps, logger)
	srv.Setup()
	if err := srv.Start(ctx); err != nil {
		logger.Error(ctx, "failed to start server", err)
		os.Exit(1)
	}

	if err := srv.WaitForShutdown(ctx); err != nil {
		logger.Error(ctx, "shutdown failed", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"banking-service/internal/config"
	"banking-service/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("Banking: No .env file found, relying on system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := config.ConnectRedis(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	srv, err := server.New(ctx, cfg, rdb, logger)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	logger.Info("banking service starting",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("grpc_addr", cfg.GRPCAddr),
		zap.String("env", cfg.Env),
	)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("banking service stopped with error", zap.Error(err))
	}
	logger.Info("banking service stopped")
}

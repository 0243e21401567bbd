package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightapp/config"
	"github.com/Domenick1991/flightapp/internal/bootstrap"
	"github.com/Domenick1991/flightapp/internal/logger"
	"github.com/Domenick1991/flightapp/internal/session"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.NewServices(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("init services", zap.Error(err))
	}
	defer svc.Close()

	deps := bootstrap.Deps{
		Sessions: session.NewRegistry(),
		Accounts: svc.Accounts,
		Search:   svc.Search,
		Bookings: svc.Bookings,
		Health:   svc.Pool.Ping,
	}
	if err := bootstrap.Run(ctx, cfg, zl, deps); err != nil {
		zl.Fatal("server error", zap.Error(err))
	}
}

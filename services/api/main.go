package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	applog "github.com/02loveslollipop/solcast-irradiance-loader/internal/log"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/api/config"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/api/db"
	httpserver "github.com/02loveslollipop/solcast-irradiance-loader/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, err := applog.New("api", cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer applog.Sync(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("db connection error", "error", err)
	}
	defer store.Close()

	srv := httpserver.New(cfg, store, logger)
	logger.Infow("REST API listening", "addr", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		logger.Errorw("server error", "error", err)
		applog.Sync(logger)
		os.Exit(1)
	}
}

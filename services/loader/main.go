package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	applog "github.com/02loveslollipop/solcast-irradiance-loader/internal/log"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/config"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/db"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/loader"
	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/solcast"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "loader failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := applog.New("loader", cfg.Debug)
	if err != nil {
		return err
	}
	defer applog.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	client := solcast.NewClient(&http.Client{Timeout: cfg.RequestTimeout}, cfg.APIURL, cfg.APIKey)
	client.Window = cfg.Window

	var store loader.Store
	if !cfg.DryRun {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store = db.NewStore(pool)
	}

	l := loader.New(client, store, logger, loader.Options{DryRun: cfg.DryRun})
	summary, err := l.Run(ctx, cfg.Coordinates)
	if err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d coordinates failed: %w", summary.Failed, len(cfg.Coordinates), summary.Err())
	}
	return nil
}

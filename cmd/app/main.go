package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhijeetraiiit/nccart/cmd"
	"github.com/abhijeetraiiit/nccart/internal/adapters/out/postgres"
	"github.com/abhijeetraiiit/nccart/internal/logger"
	"github.com/abhijeetraiiit/nccart/internal/metrics"
	"github.com/abhijeetraiiit/nccart/internal/queue"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const (
	modeAll    = "all"
	modeAPI    = "api"
	modeWorker = "worker"

	shutdownTimeout = 15 * time.Second
)

func main() {
	var configPath, mode string
	flag.StringVar(&configPath, "config", "", "path to config.yml")
	flag.StringVar(&mode, "mode", modeAll, "run mode: all, api or worker")
	flag.Parse()

	cfg, err := cmd.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.ToLoggerOptions(cfg.Server.Mode))
	defer func() { _ = log.Sync() }()

	if err = run(cfg, mode, log); err != nil {
		log.Fatal("service stopped with error", zap.Error(err))
	}
}

func run(cfg cmd.Config, mode string, log *zap.Logger) error {
	switch mode {
	case modeAll, modeAPI, modeWorker:
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}

	db, err := postgres.Open(cfg.Database.ToStoreConfig())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := postgres.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()
	if err = postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.New()
	if err = collector.Register(registry); err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(cfg, db, log, collector)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("failed to close connections", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	if mode == modeAll || mode == modeWorker {
		svc, err := app.CreateWorker()
		switch {
		case errors.Is(err, queue.ErrQueueDisabled):
			if mode == modeWorker {
				return err
			}
			log.Info("task queue disabled, dispatch runs inline")
		case err != nil:
			return err
		default:
			go func() { errCh <- svc.Start(ctx) }()
			defer func() { _ = svc.Stop(context.Background()) }()
			log.Info("dispatch worker started")
		}
	}

	if mode == modeAll || mode == modeAPI {
		jobManager := app.CreateJobManager()
		if err = jobManager.StartAll(); err != nil {
			return err
		}
		defer jobManager.StopAll()

		e := app.CreateRouter(registry)
		go func() {
			log.Info("http server listening", zap.String("address", cfg.Server.Address()))
			if err := e.Start(cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := e.Shutdown(shutdownCtx); err != nil {
				log.Warn("http server shutdown failed", zap.Error(err))
			}
		}()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		return nil
	case err = <-errCh:
		return err
	}
}

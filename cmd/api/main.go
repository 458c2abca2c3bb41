package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pharmacy/m/internal/api"
	"pharmacy/m/internal/config"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/obs"
	"pharmacy/m/internal/sales"
	"pharmacy/m/internal/seed"
	"pharmacy/m/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "api").Logger()
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseDSN, cfg.DBBusyTimeout)
	if err != nil {
		logger.Fatal().Err(err).Str("dsn", cfg.DatabaseDSN).Msg("connect database")
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	if cfg.SeedMedicinesCSV != "" {
		n, err := seed.LoadMedicines(ctx, store.NewMedicines(db), cfg.SeedMedicinesCSV, logger)
		if err != nil {
			logger.Error().Err(err).Str("path", cfg.SeedMedicinesCSV).Msg("seed medicines")
		} else if n > 0 {
			logger.Info().Int("count", n).Msg("medicines seeded")
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine, err := sales.NewEngine(sales.Config{
		DB:      db,
		Logger:  logger,
		Metrics: obs.NewSalesMetrics(cfg.MetricsNamespace, reg),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise sales engine")
	}

	handler, err := api.New(api.Config{
		DB:             db,
		Sales:          engine,
		Logger:         logger,
		Metrics:        obs.NewHTTPMetrics(cfg.MetricsNamespace, reg),
		Gatherer:       reg,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise api")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	<-drained
	logger.Info().Msg("server stopped")
}

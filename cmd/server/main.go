package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/outreach-analytics/internal/analytics"
	"github.com/AngelCh415/outreach-analytics/internal/config"
	"github.com/AngelCh415/outreach-analytics/internal/httpx"
	"github.com/AngelCh415/outreach-analytics/internal/ingest"
	"github.com/AngelCh415/outreach-analytics/internal/metrics"
	"github.com/AngelCh415/outreach-analytics/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("load config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	st := store.NewMemoryStore()
	etl := ingest.NewETL(cl, st, logger, cfg)
	opt := analytics.DefaultOptions()
	opt.ForecastPeriods = cfg.ForecastPeriods
	opt.Confidence = cfg.Confidence
	mSvc := metrics.NewService(st, logger, opt, cfg.CacheEntries, reg)

	if cfg.LoadOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.HTTPTimeout)
		if _, err := etl.Run(ctx); err != nil {
			logger.Warn("initial load failed", slog.String("err", err.Error()))
		}
		cancel()
	}

	r := httpx.NewRouter(logger, etl, mSvc, st, reg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

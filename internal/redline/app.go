// Package redline wires the review engine, persistence, and metrics into
// services consumed by commands and the TUI.
package redline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/colonyops/redline/internal/core/config"
	"github.com/colonyops/redline/internal/core/engine"
	"github.com/colonyops/redline/internal/core/ingest"
	"github.com/colonyops/redline/internal/core/metrics"
	"github.com/colonyops/redline/internal/core/review"
)

// App is the central entry point for all redline operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Reviews *ReviewService

	Config   *config.Config
	Metrics  *metrics.Recorder
	Registry *prometheus.Registry
}

// NewApp constructs an App from explicit dependencies. A fresh metrics
// registry is created per App so tests and batch runs never share counters.
func NewApp(cfg *config.Config, store review.Store, logger zerolog.Logger) *App {
	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	eng := engine.New(logger.With().Str("cmp", "engine").Logger(), recorder)
	transformer := ingest.NewTransformer(cfg.IngestOptions(), logger.With().Str("cmp", "ingest").Logger())

	return &App{
		Reviews:  NewReviewService(store, eng, transformer, cfg.EngineOptions(), logger.With().Str("cmp", "reviews").Logger()),
		Config:   cfg,
		Metrics:  recorder,
		Registry: reg,
	}
}

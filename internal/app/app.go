// Package app holds process-wide state for the demo binaries.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"speech-demo-clients/internal/config"
	"speech-demo-clients/internal/observability"
	"speech-demo-clients/internal/observability/logging"
	"speech-demo-clients/internal/observability/metrics"
)

var errNotStarted = errors.New("application not started")

// Application holds process-wide state for one binary.
type Application struct {
	Name        string
	StartupTime time.Time
	Logger      zerolog.Logger
	Cfg         *config.Config
	Metrics     *metrics.Metrics

	metricsServer *observability.Server
	started       atomic.Bool
}

// New sets up logging from cfg and returns the application.
func New(name string, cfg *config.Config) *Application {
	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	a := &Application{
		Name:    name,
		Cfg:     cfg,
		Metrics: metrics.DefaultMetrics,
		Logger: logging.WithComponent("application").With().
			Str("service", name).
			Logger(),
	}

	a.Logger.Debug().
		Str("logLevel", zerolog.GlobalLevel().String()).
		Str("logFormat", cfg.Observability.LogFormat).
		Msg("Logger setup completed")
	return a
}

// Start starts the metrics server when an address is configured.
func (a *Application) Start() error {
	startLogger := a.Logger.With().
		Str("method", "Start").
		Logger()

	if addr := a.Cfg.Observability.MetricsAddr; addr != "" {
		a.metricsServer = observability.NewServer(addr, a.Ready)
		if err := a.metricsServer.Start(); err != nil {
			return err
		}
	}

	a.StartupTime = time.Now().UTC()
	a.started.Store(true)
	startLogger.Debug().
		Time("startupTime", a.StartupTime).
		Msg("Application started")
	return nil
}

// Ready reports whether Start has completed.
func (a *Application) Ready(context.Context) error {
	if !a.started.Load() {
		return errNotStarted
	}
	return nil
}

// Shutdown stops the metrics server.
func (a *Application) Shutdown(ctx context.Context) {
	shutdownLogger := a.Logger.With().
		Str("method", "Shutdown").
		Logger()

	a.started.Store(false)
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			shutdownLogger.Warn().Err(err).Msg("Metrics server shutdown failed")
		}
	}
	shutdownLogger.Debug().Dur("uptime", time.Since(a.StartupTime)).Msg("Application stopped")
}

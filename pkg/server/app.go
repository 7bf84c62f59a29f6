package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shashe9/teaminfinity/internal/usecase"
	"github.com/shashe9/teaminfinity/pkg/config"
	xhttp "github.com/shashe9/teaminfinity/pkg/http"
	applogger "github.com/shashe9/teaminfinity/pkg/logger"
)

// App encapsulates the dashboard server lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	dataset    *usecase.Dataset
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates an App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, dataset *usecase.Dataset, handler xhttp.Handler) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		dataset: dataset,
		handler: handler,
	}
}

// Run warms the dataset, starts the HTTP server, and blocks until
// interrupted. An unreadable store fails startup instead of the first
// request.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.dataset.Warm(ctx); err != nil {
		a.log.Error("orbit store warmup failed", applogger.Error(err))
		return err
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("dashboard server started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("store", a.cfg.Store.Backend),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.dataset.Close(); err != nil {
		a.log.Warn("dataset close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}

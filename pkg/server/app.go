package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockPulse/internal/usecase"
	"StockPulse/pkg/cache"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"
)

// warmTimeout bounds the startup prefetch so a dead vendor cannot stall boot.
const warmTimeout = time.Minute

// App encapsulates the application lifecycle: HTTP server, cache warm-up,
// and graceful shutdown.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	stocks     *usecase.StockUseCase
	cache      cache.Service
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	stocks *usecase.StockUseCase,
	cacheSvc cache.Service,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:     cfg,
		log:     log,
		stocks:  stocks,
		cache:   cacheSvc,
		handler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	if symbols := a.cfg.Warm.Symbols; len(symbols) > 0 {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
			defer cancel()
			a.stocks.Warm(ctx, symbols)
			a.log.Info("cache warm-up finished", applogger.Int("symbols", len(symbols)))
		}()
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the HTTP server and closes the cache.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if err := a.cache.Close(); err != nil {
		a.log.Warn("cache close error", applogger.Error(err))
	}

	a.log.Info("shutdown complete")
	return nil
}

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/usecase"
	"StockCast/pkg/cache"
	pkgch "StockCast/pkg/clickhouse"
	"StockCast/pkg/config"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	handler    xhttp.Handler
	httpServer *xhttp.Server
	store      cache.Store
	chClient   *pkgch.Client
	publisher  domrepo.ForecastPublisher
	pool       *queue.Pool
}

// New creates a new App instance with all dependencies. chClient, publisher,
// and pool may be nil when their features are disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	store cache.Store,
	chClient *pkgch.Client,
	publisher domrepo.ForecastPublisher,
	pool *queue.Pool,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		store:     store,
		chClient:  chClient,
		publisher: publisher,
		pool:      pool,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.pool != nil {
		a.pool.Start(ctx)
		a.log.Info("worker pool started", applogger.Int("workers", a.cfg.Prewarm.Workers))

		if a.cfg.Prewarm.Enabled && len(a.cfg.Prewarm.Tickers) > 0 {
			usecase.EnqueuePrewarm(ctx, a.pool, a.cfg.Prewarm.Tickers, a.cfg.Prewarm.Days, a.log)
			a.log.Info("prewarm scheduled", applogger.Strings("tickers", a.cfg.Prewarm.Tickers))
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.pool != nil {
		a.pool.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}

	a.log.Info("stopped gracefully")
	return nil
}

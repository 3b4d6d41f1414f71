package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/cricscore/internal/adapters/http/api"
	"github.com/okian/cricscore/internal/adapters/http/swagger"
	app "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/config"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	metricsInterval   = 5 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "service failed", logger.Error(err))
		os.Exit(1)
	}
}

// newService builds the rating service from cfg.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithFormLength(cfg.FormLength),
		app.WithRedisStream(cfg.RedisURL, cfg.RedisStream),
		app.WithPublishTimeout(time.Duration(cfg.PublishTimeoutMS)*time.Millisecond),
	)
}

// newHandler registers the API docs and the business routes on one router.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) (http.Handler, error) {
	router := api.NewRouter()

	if err := swagger.Register(ctx, router); err != nil {
		return nil, fmt.Errorf("register api docs: %w", err)
	}

	api.NewServer(svc, svc, cfg.MaxLeaderboardLimit).Register(ctx, router)

	return router, nil
}

// run serves HTTP until ctx is cancelled, then drains the service.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}

	handler, err := newHandler(ctx, cfg, svc)
	if err != nil {
		return errors.Join(err, svc.Stop(context.WithoutCancel(ctx)))
	}

	go startMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for shutdown signal or a listener failure
	var errs []error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout: stop taking requests, then drain the queue.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := svc.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("service stop: %w", err))
	}

	log.Info(ctx, "server stopped")
	return errors.Join(errs...)
}

// startMetricsUpdater refreshes system and service gauges until ctx is done.
func startMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateSystemStats()
			// GetStats refreshes the queue and store gauges
			_ = svc.GetStats()
		}
	}
}

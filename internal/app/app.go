// Package app wires taskvault application dependencies.
package app

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taskvault/taskvault/internal/config"
	"github.com/taskvault/taskvault/internal/handlers"
	"github.com/taskvault/taskvault/internal/logger"
	"github.com/taskvault/taskvault/internal/metrics"
	"github.com/taskvault/taskvault/internal/middleware"
	"github.com/taskvault/taskvault/internal/store"
	"github.com/taskvault/taskvault/internal/telemetry"
)

const shutdownTimeout = 5 * time.Second

// Builder wires taskvault application dependencies.
type Builder struct {
	cfg            *config.Config
	version        string
	logger         logger.Logger
	fiberApp       *fiber.App
	fileStore      *store.FileStore
	tracerProvider *telemetry.TracerProvider
	closers        []func()
}

// NewBuilder creates a new application builder.
func NewBuilder(cfg *config.Config, version string) *Builder {
	return &Builder{cfg: cfg, version: version}
}

// Build assembles the application components. Store initialization failure
// is returned to the caller and is expected to be fatal.
func (b *Builder) Build(ctx context.Context) (*App, error) {
	b.initLogger()
	b.recordStartupInfo()
	b.initFiber()
	b.initTracing(ctx)
	b.initMiddleware()

	if err := b.initStore(ctx); err != nil {
		b.cleanupOnError()
		return nil, err
	}

	b.initHandlers()

	return &App{
		cfg:      b.cfg,
		version:  b.version,
		logger:   b.logger,
		fiberApp: b.fiberApp,
		closers:  b.closers,
	}, nil
}

func (b *Builder) initLogger() {
	b.logger = logger.NewFromConfig(b.cfg.Log.Level, b.cfg.Log.Format)
	logger.SetDefault(b.logger)
}

func (b *Builder) recordStartupInfo() {
	metrics.BuildInfo.WithLabelValues(b.version, runtime.Version()).Set(1)

	b.logger.Info("Starting taskvault",
		logger.String("version", b.version),
		logger.String("address", b.cfg.Address()),
		logger.String("log_level", b.cfg.Log.Level),
		logger.String("log_format", b.cfg.Log.Format),
		logger.String("store_path", b.cfg.Store.Path),
		logger.String("resource", b.cfg.Store.Resource),
		logger.Duration("lock_timeout", b.cfg.Store.LockTimeout),
		logger.Bool("reset_on_start", b.cfg.Store.Reset),
		logger.Bool("unique_ids", b.cfg.Store.UniqueIDs),
	)
}

func (b *Builder) initFiber() {
	b.fiberApp = fiber.New()
}

func (b *Builder) initTracing(ctx context.Context) {
	tracingCfg := telemetry.TracingConfig{
		Enabled:        b.cfg.Tracing.Enabled,
		Endpoint:       b.cfg.Tracing.Endpoint,
		ServiceName:    b.cfg.Tracing.ServiceName,
		ServiceVersion: b.cfg.Tracing.ServiceVersion,
		Environment:    b.cfg.Tracing.Environment,
		SamplingRatio:  b.cfg.Tracing.SamplingRatio,
		InsecureConn:   b.cfg.Tracing.InsecureConn,
	}

	provider, err := telemetry.InitTracing(ctx, tracingCfg)
	if err != nil {
		b.logger.Error("Failed to initialize tracing", logger.Error(err))
		return
	}
	b.tracerProvider = provider

	if b.cfg.Tracing.Enabled {
		b.logger.Info("OpenTelemetry tracing initialized",
			logger.String("endpoint", b.cfg.Tracing.Endpoint),
			logger.String("service_name", b.cfg.Tracing.ServiceName),
		)

		b.addCloser(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				b.logger.Error("Failed to shut down tracer provider", logger.Error(err))
			}
		})
	}
}

func (b *Builder) initMiddleware() {
	b.fiberApp.Use(middleware.RequestLogging(b.logger))
	b.fiberApp.Use(cors.New())

	if b.cfg.Tracing.Enabled {
		b.fiberApp.Use(middleware.Tracing(b.cfg.Tracing.ServiceName))
	}

	if b.cfg.Metrics.Enabled {
		b.fiberApp.Use(middleware.MetricsMiddleware())
	}
}

func (b *Builder) initStore(ctx context.Context) error {
	b.fileStore = store.NewFileStore(store.Options{
		Path:        b.cfg.Store.Path,
		LockTimeout: b.cfg.Store.LockTimeout,
		Reset:       b.cfg.Store.Reset,
		UniqueIDs:   b.cfg.Store.UniqueIDs,
	}, b.logger)

	if err := os.MkdirAll(filepath.Dir(b.cfg.Store.Path), 0o755); err != nil {
		return err
	}

	return b.fileStore.Initialize(ctx)
}

func (b *Builder) initHandlers() {
	recordsHandler := handlers.NewRecordsHandler(b.fileStore)
	healthHandler := handlers.NewHealthHandler(b.fileStore, b.version)

	resource := "/" + b.cfg.Store.Resource
	b.fiberApp.Get(resource, recordsHandler.List)
	b.fiberApp.Post(resource, recordsHandler.Create)
	b.fiberApp.Patch(resource, recordsHandler.Update)
	b.fiberApp.Delete(resource+"/:id", recordsHandler.Delete)

	b.fiberApp.Get("/health", healthHandler.Check)
	b.fiberApp.Get("/health/live", healthHandler.Liveness)
	b.fiberApp.Get("/health/ready", healthHandler.Readiness)

	if b.cfg.Metrics.Enabled {
		b.fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
}

func (b *Builder) addCloser(closer func()) {
	b.closers = append(b.closers, closer)
}

func (b *Builder) cleanupOnError() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// App represents a configured taskvault application ready to run.
type App struct {
	cfg      *config.Config
	version  string
	logger   logger.Logger
	fiberApp *fiber.App
	closers  []func()
}

// Run starts the application and handles graceful shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)

	go func() {
		serverErr <- a.fiberApp.Listen(a.cfg.Address())
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			a.logger.Error("Failed to start server", logger.Error(err))
			a.runClosers()
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down server...")

	if err := a.fiberApp.Shutdown(); err != nil {
		a.logger.Error("Server forced to shutdown", logger.Error(err))
	}

	a.runClosers()

	if err := <-serverErr; err != nil {
		return err
	}

	a.logger.Info("Server exited gracefully")
	return nil
}

func (a *App) runClosers() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

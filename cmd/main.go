package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/possession/internal/adapters/chart"
	"github.com/okian/possession/internal/adapters/http/api"
	"github.com/okian/possession/internal/adapters/http/swagger"
	"github.com/okian/possession/internal/adapters/loader"
	app "github.com/okian/possession/internal/app"
	"github.com/okian/possession/internal/config"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/internal/domain/types"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
	"github.com/shirou/gopsutil/v3/process"
)

// HTTP server timeout constants.
const (
	readTimeout            = 30 * time.Second
	writeTimeout           = 30 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		os.Exit(1)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the analysis service from configuration.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	analyzerOpts := []possession.Option{possession.WithResolution(cfg.FramesPerSecond)}
	if cfg.UnionRange {
		analyzerOpts = append(analyzerOpts, possession.WithUnionRange())
	}
	return app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithStoreSize(cfg.StoreSize),
		app.WithAnalyzerOptions(analyzerOpts...),
	)
}

// newMux registers the docs and business routes.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	decoder := loader.New(
		loader.WithMapping(loader.Mapping{
			ObjectName: cfg.ObjectName,
			HolderName: cfg.HolderName,
			PartyAID:   cfg.PartyAID,
			PartyBID:   cfg.PartyBID,
		}),
		loader.WithSkipLeadingFrames(cfg.SkipLeadingFrames),
	)
	apiServer := api.NewServer(svc, decoder, svc,
		api.WithMaxUploadBytes(cfg.MaxUploadBytes),
		api.WithLabels(types.Labels{A: cfg.PartyALabel, B: cfg.PartyBLabel}),
		api.WithChartOptions(
			chart.WithSize(cfg.ChartWidth, cfg.ChartHeight),
			chart.WithTickSeconds(cfg.ChartTickSeconds),
		),
	)
	apiServer.Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	proc, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // pid fits in int32
	if err != nil {
		logger.Get().Warn(ctx, "process metrics unavailable", logger.Error(err))
	}

	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics(proc)
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats publishes queue and store gauges as a side effect.
			_ = svc.GetStats()
		}
	}
}

// updateSystemMetrics updates system-level metrics. proc may be nil.
func updateSystemMetrics(proc *process.Process) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if proc == nil {
		return
	}
	if info, err := proc.MemoryInfo(); err == nil {
		metrics.UpdateSystemResidentMemory(info.RSS)
	}
}

// Package service runs possession analyses for the HTTP API, either inline
// or through a bounded queue served by a worker pool.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	jobqueue "github.com/okian/possession/internal/adapters/mq/queue"
	workerpool "github.com/okian/possession/internal/adapters/mq/worker"
	"github.com/okian/possession/internal/adapters/repository"
	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/internal/domain/possession"
	"github.com/okian/possession/internal/domain/types"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Service owns the report store, the job queue and the worker pool.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.MemoryStore
	queue    *jobqueue.InMemoryQueue
	pool     *workerpool.Pool
	analyzer *InstrumentedAnalyzer

	// Configuration
	workerCount     int
	queueSize       int
	storeSize       int
	analyzerOptions []possession.Option

	// State
	started bool
	newID   func() string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued analyses.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithStoreSize sets the number of analyses kept in memory.
func WithStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.storeSize = size
		}
	}
}

// WithAnalyzerOptions configures the possession analyzer.
func WithAnalyzerOptions(opts ...possession.Option) Option {
	return func(s *Service) {
		s.analyzerOptions = append(s.analyzerOptions, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator replaces the random analysis id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   1024,
		storeSize:   1024,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting possession service...")

	s.analyzer = NewInstrumentedAnalyzer(s.analyzerOptions...)
	if s.analyzer.Resolution() < 1 {
		return fmt.Errorf("start service: %w", possession.ErrInvalidResolution)
	}

	s.store = repository.NewMemoryStore(ctx, repository.WithCapacity(s.storeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.analyzer, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "possession service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("storeSize", s.storeSize),
		logger.Int("resolution", s.analyzer.Resolution()),
	)

	return nil
}

// Stop drains queued analyses and shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping possession service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	_ = s.store.Close()

	s.started = false
	s.logger.Info(ctx, "possession service stopped")
}

// Submit queues frames for analysis and returns the analysis id.
func (s *Service) Submit(ctx context.Context, frames []model.Frame) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", ErrNotStarted
	}

	id := s.newID()
	if err := s.store.Track(ctx, id); err != nil {
		return "", fmt.Errorf("track analysis: %w", err)
	}

	job := model.Job{ID: id, Frames: frames, Submitted: time.Now()}
	if !s.queue.Enqueue(ctx, job) {
		_ = s.store.Fail(ctx, id, ErrBackpressure)
		s.logger.Warn(ctx, "analysis rejected",
			logger.String("id", id),
			logger.Int("queueLength", s.queue.Len(ctx)),
		)
		return "", ErrBackpressure
	}

	s.logger.Debug(ctx, "analysis queued",
		logger.String("id", id),
		logger.Int("frames", len(frames)),
	)
	return id, nil
}

// Analyze runs an analysis inline. The report is also stored so it can be
// fetched by id later.
func (s *Service) Analyze(ctx context.Context, frames []model.Frame) (model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Report{}, ErrNotStarted
	}

	r, err := s.analyzer.Analyze(ctx, frames)
	if err != nil {
		return model.Report{}, err
	}

	r.ID = s.newID()
	r.Created = time.Now()
	if err := s.store.Put(ctx, r); err != nil {
		return model.Report{}, fmt.Errorf("store report: %w", err)
	}
	return r, nil
}

// Report returns the finished report for id. It returns ErrPending while
// the analysis is queued and wraps ErrFailed with the cause on failure.
func (s *Service) Report(ctx context.Context, id string) (model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.Report{}, ErrNotStarted
	}

	r, err := s.store.Get(ctx, id)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.Report{}, err
	}

	st, err := s.store.State(ctx, id)
	if err != nil {
		return model.Report{}, err
	}
	switch st.Status {
	case model.JobFailed:
		return model.Report{}, fmt.Errorf("%w: %s", ErrFailed, st.Error)
	default:
		return model.Report{}, ErrPending
	}
}

// Status returns the state of an analysis.
func (s *Service) Status(ctx context.Context, id string) (types.JobView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.JobView{}, ErrNotStarted
	}

	st, err := s.store.State(ctx, id)
	if err != nil {
		return types.JobView{}, err
	}
	return types.JobView{ID: st.ID, Status: string(st.Status), Error: st.Error}, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"storeSize":   s.storeSize,
	}

	if s.started {
		ctx := context.Background()
		queueLen := s.queue.Len(ctx)
		stored := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["analysesStored"] = stored
		stats["workersBusy"] = s.pool.Busy()
		stats["processed"] = s.pool.Processed()
		stats["failed"] = s.pool.Failed()
		stats["resolution"] = s.analyzer.Resolution()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateReportsStored(stored)
	}

	return stats
}

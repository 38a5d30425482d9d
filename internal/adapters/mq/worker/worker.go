// Package worker runs queued analysis jobs and stores their reports.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/logger"
	"github.com/okian/possession/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = model.Job

// Analyzer computes a possession report from frames.
type Analyzer interface {
	Analyze(ctx context.Context, frames []model.Frame) (model.Report, error)
}

// Store records finished and failed analyses.
type Store interface {
	Put(ctx context.Context, r model.Report) error
	Fail(ctx context.Context, id string, cause error) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes queued jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

type counters struct {
	busy      atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker for analysis jobs.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	store    Store
	name     string
	counters *counters

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, analyzer Analyzer, store Store, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		analyzer: analyzer,
		store:    store,
		name:     "worker",
		counters: &counters{},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop. It returns when ctx is done, Shutdown is
// called, or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker after its current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(w.counters.busy.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.counters.busy.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	report, err := w.analyzer.Analyze(ctx, job.Frames)
	if err != nil {
		w.counters.failed.Add(1)
		metrics.RecordWorkerError()
		if ferr := w.store.Fail(ctx, job.ID, err); ferr != nil {
			w.logger.Error(ctx, "failed to record job failure",
				logger.String("jobID", job.ID),
				logger.Error(ferr),
			)
		}
		return fmt.Errorf("analyze job %s: %w", job.ID, err)
	}

	report.ID = job.ID
	report.Created = time.Now()
	if err := w.store.Put(ctx, report); err != nil {
		w.counters.failed.Add(1)
		metrics.RecordWorkerError()
		return fmt.Errorf("store report %s: %w", job.ID, err)
	}

	w.counters.processed.Add(1)
	w.logger.Debug(ctx, "job processed",
		logger.String("jobID", job.ID),
		logger.Int("frames", len(job.Frames)),
		logger.Duration("took", time.Since(start)),
	)
	return nil
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	counters *counters
	logger   logger.Logger
}

// NewPool creates a new worker pool. A non-positive count uses one worker
// per CPU.
func NewPool(workerCount int, queue Queue, analyzer Analyzer, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    queue,
		counters: &counters{},
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			analyzer,
			store,
			WithName("worker-"+strconv.Itoa(i)),
			withCounters(pool.counters),
		)
	}

	metrics.UpdateWorkerActiveCount(0)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Busy returns the number of workers currently running a job.
func (p *Pool) Busy() int { return int(p.counters.busy.Load()) }

// Processed returns the number of jobs stored successfully.
func (p *Pool) Processed() int64 { return p.counters.processed.Load() }

// Failed returns the number of jobs that could not be analysed or stored.
func (p *Pool) Failed() int64 { return p.counters.failed.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/okian/possession/internal/domain/model"
	"github.com/okian/possession/pkg/metrics"
)

// entry is one tracked analysis. report is set once the job is done.
type entry struct {
	state  State
	report *model.Report
}

// MemoryStore is a bounded in-memory Store with FIFO eviction.
type MemoryStore struct {
	mu                    sync.RWMutex
	entries               map[string]*entry
	order                 *list.List // ids, oldest first
	capacity              int
	metricsUpdateInterval time.Duration

	closeOnce sync.Once
	wg        sync.WaitGroup
	stopChan  chan struct{}
}

// NewMemoryStore constructs a store with configuration options and starts
// its metrics updater.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		entries:               make(map[string]*entry),
		order:                 list.New(),
		capacity:              1024,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) closed() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// Track registers id as pending. Tracking a known id resets it.
func (s *MemoryStore) Track(_ context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}
	if s.closed() {
		return ErrStoreClosed
	}

	s.mu.Lock()
	e := s.upsert(id)
	e.state.Status = model.JobPending
	e.state.Error = ""
	e.report = nil
	s.mu.Unlock()
	return nil
}

// Put stores r and marks its analysis done.
func (s *MemoryStore) Put(_ context.Context, r model.Report) error {
	if r.ID == "" {
		return ErrInvalidID
	}
	if s.closed() {
		return ErrStoreClosed
	}

	s.mu.Lock()
	e := s.upsert(r.ID)
	e.state.Status = model.JobDone
	e.state.Error = ""
	e.report = &r
	s.mu.Unlock()
	return nil
}

// Fail marks id as failed.
func (s *MemoryStore) Fail(_ context.Context, id string, cause error) error {
	if id == "" {
		return ErrInvalidID
	}
	if s.closed() {
		return ErrStoreClosed
	}

	s.mu.Lock()
	e := s.upsert(id)
	e.state.Status = model.JobFailed
	e.state.Error = ""
	if cause != nil {
		e.state.Error = cause.Error()
	}
	e.report = nil
	s.mu.Unlock()
	return nil
}

// Get returns the report of a finished analysis.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.report == nil {
		return model.Report{}, ErrNotFound
	}
	return *e.report, nil
}

// State returns the state of an analysis.
func (s *MemoryStore) State(_ context.Context, id string) (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return State{}, ErrNotFound
	}
	return e.state, nil
}

// Count returns the number of tracked analyses.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// upsert returns the entry for id, creating it and evicting the oldest entries
// when the store is full. Caller holds the write lock.
func (s *MemoryStore) upsert(id string) *entry {
	if e, ok := s.entries[id]; ok {
		return e
	}

	e := &entry{state: State{ID: id}}
	s.order.PushBack(id)
	s.entries[id] = e

	for len(s.entries) > s.capacity {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(string))
		metrics.RecordReportEvicted()
	}
	return e
}

// startMetricsUpdater starts a background goroutine that publishes the store size.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateReportsStored(s.Count(ctx))
			}
		}
	}()
}

package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/possession/internal/domain/model"
)

func job(id string) model.Job {
	return model.Job{ID: id, Submitted: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if !q.Enqueue(ctx, job("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	got := <-q.Dequeue(ctx)
	if got.ID != "job1" {
		t.Errorf("expected job1, got %v", got.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, job("job2")) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, job("job3")) {
		t.Error("expected enqueue to fail when queue is full")
	}

	<-q.Dequeue(ctx)
	if !q.Enqueue(ctx, job("job3")) {
		t.Error("expected enqueue to succeed after a dequeue")
	}
}

func TestInMemoryQueue_Order(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(5))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if !q.Enqueue(ctx, job(fmt.Sprintf("job%d", i))) {
			t.Fatalf("enqueue %d failed", i)
		}
	}
	ch := q.Dequeue(ctx)
	for i := 0; i < 5; i++ {
		if got := (<-ch).ID; got != fmt.Sprintf("job%d", i) {
			t.Errorf("expected job%d, got %s", i, got)
		}
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, job("job1")) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentEnqueue(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(100))
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				if q.Enqueue(ctx, job(fmt.Sprintf("w%d-%d", w, i))) {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}
		}(w)
	}
	wg.Wait()

	if accepted != 100 {
		t.Errorf("expected 100 accepted jobs, got %d", accepted)
	}
	if l := q.Len(ctx); l != 100 {
		t.Errorf("expected length 100, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, job("job1")) {
		t.Error("expected enqueue to succeed")
	}
	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if q.Enqueue(ctx, job("job2")) {
		t.Error("expected enqueue to fail after closing")
	}

	// Queued jobs drain before the channel reports closed.
	ch := q.Dequeue(ctx)
	if got, ok := <-ch; !ok || got.ID != "job1" {
		t.Errorf("expected to drain job1, got %v (ok=%v)", got.ID, ok)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected dequeue channel to be closed")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("expected dequeue channel to be closed within timeout")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}

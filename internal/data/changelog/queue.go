// # internal/data/changelog/queue.go
package changelog

import (
	"context"
	"io"
	"sync"
	"time"

	"cinegraph/internal/core/ports"
)

var _ ports.ChangeQueuePort = (*MemoryQueue)(nil)

// MemoryQueue is a bounded in-memory change queue. Enqueue never blocks
// the graph writer; when the queue is full the change is dropped and the
// in-memory graph stays authoritative.
type MemoryQueue struct {
	ch     chan ports.Change
	mu     sync.RWMutex
	closed bool
}

func NewMemoryQueue(capacity int) *MemoryQueue {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemoryQueue{ch: make(chan ports.Change, capacity)}
}

func (q *MemoryQueue) Enqueue(change ports.Change) ports.EnqueueResult {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ports.EnqueueDropped
	}
	select {
	case q.ch <- change:
		return ports.EnqueueAccepted
	default:
		return ports.EnqueueDropped
	}
}

// DequeueBatch waits up to wait for the first change, then drains whatever
// is immediately available up to maxItems. io.EOF signals a closed queue;
// the final drained batch is returned alongside it.
func (q *MemoryQueue) DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]ports.Change, error) {
	if maxItems <= 0 {
		maxItems = 1
	}
	batch := make([]ports.Change, 0, maxItems)

	var timer <-chan time.Time
	if wait > 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timer = t.C
	}

	select {
	case change, ok := <-q.ch:
		if !ok {
			return nil, io.EOF
		}
		batch = append(batch, change)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer:
		return nil, nil
	default:
		if wait <= 0 {
			return nil, nil
		}
		select {
		case change, ok := <-q.ch:
			if !ok {
				return nil, io.EOF
			}
			batch = append(batch, change)
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer:
			return nil, nil
		}
	}

	for len(batch) < maxItems {
		select {
		case change, ok := <-q.ch:
			if !ok {
				return batch, io.EOF
			}
			batch = append(batch, change)
		default:
			return batch, nil
		}
	}

	return batch, nil
}

func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.ch)
	return nil
}

func (q *MemoryQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}

package changelog

import (
	"context"
	"io"
	"testing"
	"time"

	"cinegraph/internal/core/ports"
)

func TestMemoryQueue_EnqueueDequeue(t *testing.T) {
	q := NewMemoryQueue(2)
	t.Cleanup(func() { _ = q.Close() })

	if got := q.Enqueue(ports.Change{Operation: ports.ChangeUpsertNode, Kind: "movie", Key: "The Matrix"}); got != ports.EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}
	if got := q.Enqueue(ports.Change{Operation: ports.ChangeDeleteNode, Kind: "movie", Key: "Speed"}); got != ports.EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}

	batch, err := q.DequeueBatch(context.Background(), 2, time.Millisecond)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 items, got %d", len(batch))
	}
	if batch[0].Key != "The Matrix" || batch[1].Key != "Speed" {
		t.Fatalf("unexpected order: %#v", batch)
	}
}

func TestMemoryQueue_FullQueueDrops(t *testing.T) {
	q := NewMemoryQueue(1)
	t.Cleanup(func() { _ = q.Close() })

	if got := q.Enqueue(ports.Change{Operation: ports.ChangeUpsertNode, Kind: "person", Key: "Keanu Reeves"}); got != ports.EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}
	if got := q.Enqueue(ports.Change{Operation: ports.ChangeUpsertNode, Kind: "person", Key: "Carrie-Anne Moss"}); got != ports.EnqueueDropped {
		t.Fatalf("expected enqueue dropped, got %s", got)
	}
}

func TestMemoryQueue_ZeroWaitReturnsEmptyWhenIdle(t *testing.T) {
	q := NewMemoryQueue(1)
	t.Cleanup(func() { _ = q.Close() })

	batch, err := q.DequeueBatch(context.Background(), 4, 0)
	if err != nil {
		t.Fatalf("dequeue failed: %v", err)
	}
	if len(batch) != 0 {
		t.Fatalf("expected empty batch, got %d items", len(batch))
	}
}

func TestMemoryQueue_CloseReturnsEOFWhenDrained(t *testing.T) {
	q := NewMemoryQueue(1)
	if got := q.Enqueue(ports.Change{Operation: ports.ChangeSetEdge, Kind: "ACTED_IN", Key: "Keanu Reeves -> The Matrix"}); got != ports.EnqueueAccepted {
		t.Fatalf("expected enqueue accepted, got %s", got)
	}
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	batch, err := q.DequeueBatch(context.Background(), 2, 0)
	if len(batch) != 1 {
		t.Fatalf("expected 1 item after close, got %d", len(batch))
	}
	if err != io.EOF {
		t.Fatalf("expected io.EOF with final drained batch, got %v", err)
	}

	batch, err = q.DequeueBatch(context.Background(), 1, 0)
	if err != io.EOF {
		t.Fatalf("expected io.EOF on empty closed queue, got %v", err)
	}
	if len(batch) != 0 {
		t.Fatalf("expected 0 items, got %d", len(batch))
	}

	if got := q.Enqueue(ports.Change{Operation: ports.ChangeUpsertNode}); got != ports.EnqueueDropped {
		t.Fatalf("expected enqueue on closed queue to drop, got %s", got)
	}
}

// # internal/core/app/changelog.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cinegraph/internal/core/ports"
	"cinegraph/internal/data/changelog"
	"cinegraph/internal/shared/observability"
)

func (a *App) initChangelog() error {
	if a == nil || a.Config == nil || !a.Config.Changelog.Enabled {
		return nil
	}

	store, err := changelog.Open(a.Config.Changelog.Path)
	if err != nil && changelog.IsCorruptError(err) {
		a.log.Warn("changelog database unreadable, recreating", "path", a.Config.Changelog.Path, "error", err)
		if rmErr := os.Remove(a.Config.Changelog.Path); rmErr != nil {
			return fmt.Errorf("remove corrupt changelog: %w", rmErr)
		}
		store, err = changelog.Open(a.Config.Changelog.Path)
	}
	if err != nil {
		return err
	}

	a.changeStore = store
	a.changeQueue = changelog.NewMemoryQueue(a.Config.Changelog.QueueSize)
	return a.startChangelogWorker()
}

func (a *App) startChangelogWorker() error {
	if a == nil || a.changeQueue == nil || a.workerCancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	a.workerDone = make(chan struct{})
	go a.runChangelogWorker(ctx)
	return nil
}

func (a *App) runChangelogWorker(ctx context.Context) {
	defer close(a.workerDone)

	batchSize := a.Config.Changelog.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	flushInterval := a.Config.Changelog.FlushInterval
	if flushInterval <= 0 {
		flushInterval = 100 * time.Millisecond
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch, err := a.changeQueue.DequeueBatch(ctx, batchSize, flushInterval)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			a.log.Warn("changelog dequeue failed", "error", err)
			continue
		}
		if errors.Is(err, context.Canceled) {
			return
		}

		if len(batch) == 0 {
			a.updateChangelogMetrics()
			if errors.Is(err, io.EOF) {
				return
			}
			continue
		}

		started := time.Now()
		if appendErr := a.changeStore.Append(ctx, batch); appendErr != nil {
			// Audit is best effort: the batch is dropped, not retried.
			observability.ChangelogAppendErrorsTotal.Inc()
			a.log.Warn("changelog append failed", "error", appendErr, "batch_size", len(batch))
		} else {
			observability.ChangelogProcessedTotal.Add(float64(len(batch)))
			observability.ChangelogFlushLatencySeconds.Observe(time.Since(started).Seconds())
		}
		a.updateChangelogMetrics()
	}
}

// record emits one changelog entry for an applied mutation. It never
// blocks the caller; a full queue drops the entry and bumps a counter.
func (a *App) record(op ports.ChangeOperation, kind, key, detail string) {
	if a == nil || a.changeQueue == nil {
		return
	}

	change := ports.Change{
		Operation: op,
		Kind:      kind,
		Key:       key,
		Detail:    detail,
		At:        time.Now().UTC(),
	}
	switch a.changeQueue.Enqueue(change) {
	case ports.EnqueueAccepted:
		observability.ChangelogEnqueuedTotal.Inc()
	case ports.EnqueueDropped:
		observability.ChangelogDroppedTotal.Inc()
		a.log.Warn("changelog queue full, change dropped", "operation", string(op), "key", key)
	}
	a.updateChangelogMetrics()
}

func (a *App) stopChangelogWorker(ctx context.Context) error {
	if a == nil {
		return nil
	}
	if a.workerCancel != nil {
		a.workerCancel()
		a.workerCancel = nil
	}
	if a.workerDone != nil {
		select {
		case <-a.workerDone:
		case <-ctx.Done():
			return ctx.Err()
		}
		a.workerDone = nil
	}
	if err := a.drainChangelogQueue(ctx); err != nil {
		return err
	}
	if a.changeQueue != nil {
		if err := a.changeQueue.Close(); err != nil {
			return err
		}
		a.changeQueue = nil
	}
	return nil
}

func (a *App) drainChangelogQueue(ctx context.Context) error {
	if a == nil || a.changeQueue == nil || a.changeStore == nil {
		return nil
	}
	batchSize := a.Config.Changelog.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	for {
		batch, err := a.changeQueue.DequeueBatch(ctx, batchSize, 0)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		if appendErr := a.changeStore.Append(ctx, batch); appendErr != nil {
			return appendErr
		}
		observability.ChangelogProcessedTotal.Add(float64(len(batch)))
	}
}

func (a *App) updateChangelogMetrics() {
	if a == nil || a.changeQueue == nil {
		return
	}
	observability.ChangelogQueueDepth.Set(float64(a.changeQueue.Len()))
}

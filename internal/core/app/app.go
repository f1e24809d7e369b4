// # internal/core/app/app.go
//
// App owns the graph, the changelog pipeline, and the seed loader, and
// hands transports a ports.GraphService facade over all of it.
package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"cinegraph/internal/core/config"
	"cinegraph/internal/core/ports"
	"cinegraph/internal/data/query"
	"cinegraph/internal/data/seed"
	"cinegraph/internal/engine/graph"
	"cinegraph/internal/shared/util"
)

const limiterTTL = 10 * time.Minute

type App struct {
	Config   *config.Config
	Graph    *graph.Graph
	Limiters *util.LimiterRegistry

	log *slog.Logger

	changeQueue  ports.ChangeQueuePort
	changeStore  ports.ChangeStorePort
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	seedSource  ports.DatasetSource
	seedWatcher *seed.Watcher
	seedMu      sync.Mutex
	seedHash    string

	// cfgMu guards Config and search against live-reload swaps.
	cfgMu  sync.RWMutex
	search *query.Service
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		Config:     cfg,
		Graph:      graph.NewGraphWithCacheCapacity(cfg.Limits.CacheSize),
		Limiters:   util.NewLimiterRegistry(cfg.Limits.RateRPS, cfg.Limits.RateBurst, limiterTTL),
		log:        logger.With("component", "app"),
		seedSource: seed.NewFileSource(),
	}
	a.search = query.NewService(a.Graph, cfg.Limits.SearchMaxResults)

	if err := a.initChangelog(); err != nil {
		return nil, err
	}
	return a, nil
}

// ApplyConfig applies a hot-reloaded configuration. Only the live-tunable
// parts take effect: rate limits, cache capacity, and search caps. Server,
// seed, and changelog changes need a restart.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a == nil || cfg == nil {
		return
	}

	a.cfgMu.Lock()
	a.Config = cfg
	a.search = query.NewService(a.Graph, cfg.Limits.SearchMaxResults)
	a.cfgMu.Unlock()

	a.Limiters.SetRate(cfg.Limits.RateRPS, cfg.Limits.RateBurst)
	a.Graph.SetCacheCapacity(cfg.Limits.CacheSize)

	a.log.Info("configuration applied",
		"rate_rps", cfg.Limits.RateRPS,
		"rate_burst", cfg.Limits.RateBurst,
		"cache_size", cfg.Limits.CacheSize)
}

func (a *App) limits() config.Limits {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.Config.Limits
}

func (a *App) searchService() *query.Service {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.search
}

// Close stops the seed watcher, drains and stops the changelog pipeline,
// and releases the rate-limiter registry. The context bounds the drain;
// without a deadline the server shutdown timeout applies.
func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}

	drainTimeout := 10 * time.Second
	if a.Config != nil && a.Config.Server.ShutdownTimeout > 0 {
		drainTimeout = a.Config.Server.ShutdownTimeout
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, drainTimeout)
		defer cancel()
	}

	if a.seedWatcher != nil {
		if err := a.seedWatcher.Close(); err != nil {
			a.log.Warn("seed watcher close failed", "error", err)
		}
		a.seedWatcher = nil
	}
	if a.Limiters != nil {
		a.Limiters.Stop()
	}

	if err := a.stopChangelogWorker(ctx); err != nil {
		return err
	}
	if a.changeStore != nil {
		if err := a.changeStore.Close(); err != nil {
			return err
		}
		a.changeStore = nil
	}
	return nil
}

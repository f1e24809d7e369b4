package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cinegraph_graph_nodes",
		Help: "Current number of nodes in the graph, by kind.",
	}, []string{"kind"})

	GraphEdges = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "cinegraph_graph_edges",
		Help: "Current number of edges in the graph, by kind.",
	}, []string{"kind"})

	GraphGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinegraph_graph_generation",
		Help: "Monotonic mutation generation of the graph.",
	})

	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cinegraph_operation_seconds",
		Help:    "Time spent executing a graph service operation.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinegraph_mutations_total",
		Help: "Total number of successful graph mutations, by operation.",
	}, []string{"operation"})

	PathSearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinegraph_path_searches_total",
		Help: "Total number of shortest path searches, by outcome.",
	}, []string{"outcome"})

	CacheEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinegraph_cache_events_total",
		Help: "Total number of analytics cache events (hit, miss, evict).",
	}, []string{"event"})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinegraph_api_requests_total",
		Help: "Total number of tool calls handled, by result code.",
	}, []string{"code"})

	SeedReloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinegraph_seed_reloads_total",
		Help: "Total number of seed dataset loads applied to the graph.",
	})

	ChangelogQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinegraph_changelog_queue_depth",
		Help: "Current number of change records waiting to be persisted.",
	})

	ChangelogEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinegraph_changelog_enqueued_total",
		Help: "Total number of change records accepted into the queue.",
	})

	ChangelogDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinegraph_changelog_dropped_total",
		Help: "Total number of change records dropped due to backpressure.",
	})

	ChangelogProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinegraph_changelog_processed_total",
		Help: "Total number of change records successfully persisted.",
	})

	ChangelogAppendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cinegraph_changelog_append_errors_total",
		Help: "Total number of changelog batches that failed to persist.",
	})

	ChangelogFlushLatencySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cinegraph_changelog_flush_seconds",
		Help:    "Latency for persisting a batch of change records.",
		Buckets: prometheus.DefBuckets,
	})
)

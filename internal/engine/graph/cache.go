package graph

import (
	"cinegraph/internal/shared/observability"
)

// analyticsCache memoizes the expensive derived reads (recommendations and
// shortest paths). Entries are keyed by the graph generation at compute time,
// so any mutation invalidates them implicitly: the next lookup misses and the
// stale entry ages out of the LRU.
type analyticsCache struct {
	recs  *LRUCache[recKey, []Recommendation]
	paths *LRUCache[pathKey, pathEntry]
}

type recKey struct {
	generation uint64
	mode       string
	title      string
}

type pathKey struct {
	generation uint64
	from       string
	to         string
}

type pathEntry struct {
	path  *Path
	found bool
}

func newAnalyticsCache(capacity int) *analyticsCache {
	return &analyticsCache{
		recs:  NewLRUCache[recKey, []Recommendation](capacity),
		paths: NewLRUCache[pathKey, pathEntry](capacity),
	}
}

func (c *analyticsCache) setCapacity(capacity int) {
	c.recs.SetCapacity(capacity)
	c.paths.SetCapacity(capacity)
}

// getRecommendations returns a detached copy so callers cannot mutate the
// cached slice.
func (c *analyticsCache) getRecommendations(generation uint64, mode, title string) ([]Recommendation, bool) {
	cached, ok := c.recs.Get(recKey{generation: generation, mode: mode, title: title})
	if !ok {
		observability.CacheEventsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	observability.CacheEventsTotal.WithLabelValues("hit").Inc()
	return cloneRecommendations(cached), true
}

func (c *analyticsCache) putRecommendations(generation uint64, mode, title string, recs []Recommendation) {
	c.recs.Put(recKey{generation: generation, mode: mode, title: title}, cloneRecommendations(recs))
}

func (c *analyticsCache) getPath(generation uint64, from, to string) (*Path, bool, bool) {
	cached, ok := c.paths.Get(pathKey{generation: generation, from: from, to: to})
	if !ok {
		observability.CacheEventsTotal.WithLabelValues("miss").Inc()
		return nil, false, false
	}
	observability.CacheEventsTotal.WithLabelValues("hit").Inc()
	return clonePath(cached.path), cached.found, true
}

func (c *analyticsCache) putPath(generation uint64, from, to string, path *Path, found bool) {
	c.paths.Put(pathKey{generation: generation, from: from, to: to}, pathEntry{path: clonePath(path), found: found})
}

// # internal/engine/graph/graph.go
package graph

import (
	"sync"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/shared/observability"
	"cinegraph/internal/shared/util"
)

// Graph is the in-memory labeled graph: four node stores, a typed edge index
// in both directions, and the analytics result cache. One RWMutex guards the
// whole structure; reads share, writes exclude. All returned nodes and edges
// are clones, so callers never hold references into the graph.
type Graph struct {
	mu sync.RWMutex

	// Node stores, one map per kind
	movies  map[string]*Movie
	people  map[string]*Person
	genres  map[string]*Genre
	studios map[string]*Studio

	// Relationship index
	out map[NodeRef]map[EdgeKind]map[NodeRef]*Edge // from -> kind -> to -> edge
	in  map[NodeRef]map[EdgeKind]map[NodeRef]bool  // to -> kind -> from

	seq        uint64 // edge insertion counter
	generation uint64 // bumped on every applied mutation

	analytics *analyticsCache
}

func NewGraph() *Graph {
	return NewGraphWithCacheCapacity(256)
}

func NewGraphWithCacheCapacity(capacity int) *Graph {
	return &Graph{
		movies:    make(map[string]*Movie),
		people:    make(map[string]*Person),
		genres:    make(map[string]*Genre),
		studios:   make(map[string]*Studio),
		out:       make(map[NodeRef]map[EdgeKind]map[NodeRef]*Edge),
		in:        make(map[NodeRef]map[EdgeKind]map[NodeRef]bool),
		analytics: newAnalyticsCache(capacity),
	}
}

// SetCacheCapacity resizes the analytics result cache. Non-positive values
// are normalised to a single entry.
func (g *Graph) SetCacheCapacity(capacity int) {
	g.analytics.setCapacity(capacity)
}

// Generation returns the current mutation generation.
func (g *Graph) Generation() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.generation
}

// UpsertMovie creates or fully overwrites the movie keyed by m.Title.
func (g *Graph) UpsertMovie(m Movie) (*Movie, error) {
	if m.Title == "" {
		return nil, errors.New(errors.CodeValidationError, "movie title must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := cloneMovie(&m)
	g.movies[m.Title] = stored
	g.mutatedLocked()
	return cloneMovie(stored), nil
}

// GetMovie returns the movie for the exact title, or false when absent.
func (g *Graph) GetMovie(title string) (*Movie, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, ok := g.movies[title]
	if !ok {
		return nil, false
	}
	return cloneMovie(m), true
}

// ListMovies returns one key-ascending page of movies plus the total count.
func (g *Graph) ListMovies(page, pageSize int) ([]*Movie, int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys, total, err := paginateKeys(util.SortedStringKeys(g.movies), page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*Movie, 0, len(keys))
	for _, k := range keys {
		items = append(items, cloneMovie(g.movies[k]))
	}
	return items, total, nil
}

// DeleteMovie removes the movie and every edge touching it.
func (g *Graph) DeleteMovie(title string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.movies[title]; !ok {
		return notFound(KindMovie, title)
	}
	g.removeAllEdgesTouchingLocked(NodeRef{Kind: KindMovie, Key: title})
	delete(g.movies, title)
	g.mutatedLocked()
	return nil
}

// UpsertPerson creates or fully overwrites the person keyed by p.Name.
func (g *Graph) UpsertPerson(p Person) (*Person, error) {
	if p.Name == "" {
		return nil, errors.New(errors.CodeValidationError, "person name must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := clonePerson(&p)
	g.people[p.Name] = stored
	g.mutatedLocked()
	return clonePerson(stored), nil
}

// GetPerson returns the person for the exact name, or false when absent.
func (g *Graph) GetPerson(name string) (*Person, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.people[name]
	if !ok {
		return nil, false
	}
	return clonePerson(p), true
}

// ListPeople returns one key-ascending page of people plus the total count.
func (g *Graph) ListPeople(page, pageSize int) ([]*Person, int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys, total, err := paginateKeys(util.SortedStringKeys(g.people), page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*Person, 0, len(keys))
	for _, k := range keys {
		items = append(items, clonePerson(g.people[k]))
	}
	return items, total, nil
}

// DeletePerson removes the person and every edge touching them.
func (g *Graph) DeletePerson(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.people[name]; !ok {
		return notFound(KindPerson, name)
	}
	g.removeAllEdgesTouchingLocked(NodeRef{Kind: KindPerson, Key: name})
	delete(g.people, name)
	g.mutatedLocked()
	return nil
}

// UpsertGenre creates the genre keyed by name. Genres carry no attributes, so
// a repeat upsert is a no-op beyond the generation bump.
func (g *Graph) UpsertGenre(gn Genre) (*Genre, error) {
	if gn.Name == "" {
		return nil, errors.New(errors.CodeValidationError, "genre name must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := cloneGenre(&gn)
	g.genres[gn.Name] = stored
	g.mutatedLocked()
	return cloneGenre(stored), nil
}

// GetGenre returns the genre for the exact name, or false when absent.
func (g *Graph) GetGenre(name string) (*Genre, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	gn, ok := g.genres[name]
	if !ok {
		return nil, false
	}
	return cloneGenre(gn), true
}

// ListGenres returns one key-ascending page of genres plus the total count.
func (g *Graph) ListGenres(page, pageSize int) ([]*Genre, int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys, total, err := paginateKeys(util.SortedStringKeys(g.genres), page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*Genre, 0, len(keys))
	for _, k := range keys {
		items = append(items, cloneGenre(g.genres[k]))
	}
	return items, total, nil
}

// DeleteGenre removes the genre and every edge touching it.
func (g *Graph) DeleteGenre(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.genres[name]; !ok {
		return notFound(KindGenre, name)
	}
	g.removeAllEdgesTouchingLocked(NodeRef{Kind: KindGenre, Key: name})
	delete(g.genres, name)
	g.mutatedLocked()
	return nil
}

// UpsertStudio creates the studio keyed by name.
func (g *Graph) UpsertStudio(s Studio) (*Studio, error) {
	if s.Name == "" {
		return nil, errors.New(errors.CodeValidationError, "studio name must not be empty")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	stored := cloneStudio(&s)
	g.studios[s.Name] = stored
	g.mutatedLocked()
	return cloneStudio(stored), nil
}

// GetStudio returns the studio for the exact name, or false when absent.
func (g *Graph) GetStudio(name string) (*Studio, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	s, ok := g.studios[name]
	if !ok {
		return nil, false
	}
	return cloneStudio(s), true
}

// ListStudios returns one key-ascending page of studios plus the total count.
func (g *Graph) ListStudios(page, pageSize int) ([]*Studio, int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keys, total, err := paginateKeys(util.SortedStringKeys(g.studios), page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*Studio, 0, len(keys))
	for _, k := range keys {
		items = append(items, cloneStudio(g.studios[k]))
	}
	return items, total, nil
}

// DeleteStudio removes the studio and every edge touching it.
func (g *Graph) DeleteStudio(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.studios[name]; !ok {
		return notFound(KindStudio, name)
	}
	g.removeAllEdgesTouchingLocked(NodeRef{Kind: KindStudio, Key: name})
	delete(g.studios, name)
	g.mutatedLocked()
	return nil
}

// MovieTitles returns every movie title in ascending order.
func (g *Graph) MovieTitles() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return util.SortedStringKeys(g.movies)
}

// PersonNames returns every person name in ascending order.
func (g *Graph) PersonNames() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return util.SortedStringKeys(g.people)
}

// Stats returns node and edge counts by kind plus the current generation.
func (g *Graph) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := Stats{
		Nodes: map[NodeKind]int{
			KindMovie:  len(g.movies),
			KindPerson: len(g.people),
			KindGenre:  len(g.genres),
			KindStudio: len(g.studios),
		},
		Edges:      g.edgeCountsLocked(),
		Generation: g.generation,
	}
	return stats
}

// hasNodeLocked reports whether the referenced node exists. Caller holds mu.
func (g *Graph) hasNodeLocked(ref NodeRef) bool {
	switch ref.Kind {
	case KindMovie:
		_, ok := g.movies[ref.Key]
		return ok
	case KindPerson:
		_, ok := g.people[ref.Key]
		return ok
	case KindGenre:
		_, ok := g.genres[ref.Key]
		return ok
	case KindStudio:
		_, ok := g.studios[ref.Key]
		return ok
	default:
		return false
	}
}

// mutatedLocked bumps the generation and refreshes the size gauges. Caller
// holds the write lock.
func (g *Graph) mutatedLocked() {
	g.generation++

	observability.GraphNodes.WithLabelValues(string(KindMovie)).Set(float64(len(g.movies)))
	observability.GraphNodes.WithLabelValues(string(KindPerson)).Set(float64(len(g.people)))
	observability.GraphNodes.WithLabelValues(string(KindGenre)).Set(float64(len(g.genres)))
	observability.GraphNodes.WithLabelValues(string(KindStudio)).Set(float64(len(g.studios)))

	for kind, count := range g.edgeCountsLocked() {
		observability.GraphEdges.WithLabelValues(string(kind)).Set(float64(count))
	}
	observability.GraphGeneration.Set(float64(g.generation))
}

func (g *Graph) edgeCountsLocked() map[EdgeKind]int {
	counts := map[EdgeKind]int{
		EdgeActedIn:  0,
		EdgeDirected: 0,
		EdgeHasGenre: 0,
		EdgeProduced: 0,
	}
	for _, byKind := range g.out {
		for kind, targets := range byKind {
			counts[kind] += len(targets)
		}
	}
	return counts
}

func notFound(kind NodeKind, key string) error {
	err := errors.New(errors.CodeNotFound, string(kind)+" not found")
	err = errors.AddContext(err, errors.CtxKind, string(kind))
	err = errors.AddContext(err, errors.CtxKey, key)
	return err
}

// paginateKeys slices a key-ascending listing. Pages are 1-indexed; a page
// past the end yields an empty slice, not an error.
func paginateKeys(keys []string, page, pageSize int) ([]string, int, error) {
	if page < 1 {
		return nil, 0, errors.Newf(errors.CodeValidationError, "page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return nil, 0, errors.Newf(errors.CodeValidationError, "pageSize must be >= 1, got %d", pageSize)
	}

	total := len(keys)
	start := (page - 1) * pageSize
	if start >= total {
		return []string{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return keys[start:end], total, nil
}

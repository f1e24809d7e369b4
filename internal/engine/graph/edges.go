// # internal/engine/graph/edges.go
package graph

import (
	"sort"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/shared/util"
)

// SetActedIn connects a person to a movie with the given roles, replacing the
// roles wholesale when the edge already exists. Roles must be non-empty.
func (g *Graph) SetActedIn(person, movie string, roles []string) (*Edge, error) {
	if len(roles) == 0 {
		return nil, errors.New(errors.CodeValidationError, "roles must not be empty")
	}
	return g.setEdge(EdgeActedIn,
		NodeRef{Kind: KindPerson, Key: person},
		NodeRef{Kind: KindMovie, Key: movie},
		roles)
}

// RemoveActedIn deletes the ACTED_IN edge between the pair.
func (g *Graph) RemoveActedIn(person, movie string) error {
	return g.removeEdge(EdgeActedIn,
		NodeRef{Kind: KindPerson, Key: person},
		NodeRef{Kind: KindMovie, Key: movie})
}

// SetDirected connects a person to a movie they directed.
func (g *Graph) SetDirected(person, movie string) (*Edge, error) {
	return g.setEdge(EdgeDirected,
		NodeRef{Kind: KindPerson, Key: person},
		NodeRef{Kind: KindMovie, Key: movie},
		nil)
}

// RemoveDirected deletes the DIRECTED edge between the pair.
func (g *Graph) RemoveDirected(person, movie string) error {
	return g.removeEdge(EdgeDirected,
		NodeRef{Kind: KindPerson, Key: person},
		NodeRef{Kind: KindMovie, Key: movie})
}

// SetHasGenre tags a movie with a genre.
func (g *Graph) SetHasGenre(movie, genre string) (*Edge, error) {
	return g.setEdge(EdgeHasGenre,
		NodeRef{Kind: KindMovie, Key: movie},
		NodeRef{Kind: KindGenre, Key: genre},
		nil)
}

// RemoveHasGenre deletes the HAS_GENRE edge between the pair.
func (g *Graph) RemoveHasGenre(movie, genre string) error {
	return g.removeEdge(EdgeHasGenre,
		NodeRef{Kind: KindMovie, Key: movie},
		NodeRef{Kind: KindGenre, Key: genre})
}

// SetProduced connects a studio to a movie it produced.
func (g *Graph) SetProduced(studio, movie string) (*Edge, error) {
	return g.setEdge(EdgeProduced,
		NodeRef{Kind: KindStudio, Key: studio},
		NodeRef{Kind: KindMovie, Key: movie},
		nil)
}

// RemoveProduced deletes the PRODUCED edge between the pair.
func (g *Graph) RemoveProduced(studio, movie string) error {
	return g.removeEdge(EdgeProduced,
		NodeRef{Kind: KindStudio, Key: studio},
		NodeRef{Kind: KindMovie, Key: movie})
}

func (g *Graph) setEdge(kind EdgeKind, from, to NodeRef, roles []string) (*Edge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.hasNodeLocked(from) {
		return nil, edgeEndpointNotFound(kind, from)
	}
	if !g.hasNodeLocked(to) {
		return nil, edgeEndpointNotFound(kind, to)
	}

	if existing, ok := g.out[from][kind][to]; ok {
		// Merge semantics: replace properties, keep the insertion sequence.
		existing.Roles = util.CloneStrings(roles)
		g.mutatedLocked()
		return cloneEdge(existing), nil
	}

	edge := &Edge{
		Kind:  kind,
		From:  from,
		To:    to,
		Roles: util.CloneStrings(roles),
		Seq:   g.seq,
	}
	g.seq++

	if g.out[from] == nil {
		g.out[from] = make(map[EdgeKind]map[NodeRef]*Edge)
	}
	if g.out[from][kind] == nil {
		g.out[from][kind] = make(map[NodeRef]*Edge)
	}
	g.out[from][kind][to] = edge

	if g.in[to] == nil {
		g.in[to] = make(map[EdgeKind]map[NodeRef]bool)
	}
	if g.in[to][kind] == nil {
		g.in[to][kind] = make(map[NodeRef]bool)
	}
	g.in[to][kind][from] = true

	g.mutatedLocked()
	return cloneEdge(edge), nil
}

func (g *Graph) removeEdge(kind EdgeKind, from, to NodeRef) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.out[from][kind][to]; !ok {
		err := errors.New(errors.CodeNotFound, "relationship not found")
		err = errors.AddContext(err, errors.CtxEdge, string(kind))
		err = errors.AddContext(err, errors.CtxKey, from.Key+" -> "+to.Key)
		return err
	}

	delete(g.out[from][kind], to)
	if len(g.out[from][kind]) == 0 {
		delete(g.out[from], kind)
	}
	if len(g.out[from]) == 0 {
		delete(g.out, from)
	}

	delete(g.in[to][kind], from)
	if len(g.in[to][kind]) == 0 {
		delete(g.in[to], kind)
	}
	if len(g.in[to]) == 0 {
		delete(g.in, to)
	}

	g.mutatedLocked()
	return nil
}

// Neighbors returns the adjacency of a node for one edge kind as a finite
// snapshot, sorted by (kind, key) ascending. An absent node yields an empty
// result.
func (g *Graph) Neighbors(ref NodeRef, kind EdgeKind, dir Direction) []Neighbor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []Neighbor
	if dir == DirOut || dir == DirBoth {
		for to, edge := range g.out[ref][kind] {
			out = append(out, Neighbor{Ref: to, Roles: util.CloneStrings(edge.Roles)})
		}
	}
	if dir == DirIn || dir == DirBoth {
		for from := range g.in[ref][kind] {
			var roles []string
			if edge, ok := g.out[from][kind][ref]; ok {
				roles = util.CloneStrings(edge.Roles)
			}
			out = append(out, Neighbor{Ref: from, Roles: roles})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Ref.Kind == out[j].Ref.Kind {
			return out[i].Ref.Key < out[j].Ref.Key
		}
		return out[i].Ref.Kind < out[j].Ref.Kind
	})
	return out
}

// removeAllEdgesTouchingLocked drops every edge where ref is source or
// target, across all kinds. Caller holds the write lock.
func (g *Graph) removeAllEdgesTouchingLocked(ref NodeRef) {
	for kind, targets := range g.out[ref] {
		for to := range targets {
			delete(g.in[to][kind], ref)
			if len(g.in[to][kind]) == 0 {
				delete(g.in[to], kind)
			}
			if len(g.in[to]) == 0 {
				delete(g.in, to)
			}
		}
	}
	delete(g.out, ref)

	for kind, sources := range g.in[ref] {
		for from := range sources {
			delete(g.out[from][kind], ref)
			if len(g.out[from][kind]) == 0 {
				delete(g.out[from], kind)
			}
			if len(g.out[from]) == 0 {
				delete(g.out, from)
			}
		}
	}
	delete(g.in, ref)
}

// MoviesByActor returns the movies an actor appears in joined with their
// roles, title-ascending. An unknown actor yields an empty result.
func (g *Graph) MoviesByActor(name string) []ActedMovie {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindPerson, Key: name}
	result := make([]ActedMovie, 0, len(g.out[ref][EdgeActedIn]))
	for to, edge := range g.out[ref][EdgeActedIn] {
		if m, ok := g.movies[to.Key]; ok {
			result = append(result, ActedMovie{Movie: cloneMovie(m), Roles: util.CloneStrings(edge.Roles)})
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Movie.Title < result[j].Movie.Title })
	return result
}

// CastOfMovie returns the people with ACTED_IN edges into the movie joined
// with their roles, name-ascending.
func (g *Graph) CastOfMovie(title string) []CastMember {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindMovie, Key: title}
	result := make([]CastMember, 0, len(g.in[ref][EdgeActedIn]))
	for from := range g.in[ref][EdgeActedIn] {
		p, ok := g.people[from.Key]
		if !ok {
			continue
		}
		var roles []string
		if edge, ok := g.out[from][EdgeActedIn][ref]; ok {
			roles = util.CloneStrings(edge.Roles)
		}
		result = append(result, CastMember{Person: clonePerson(p), Roles: roles})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Person.Name < result[j].Person.Name })
	return result
}

// MoviesByDirector returns the movies a person directed, title-ascending.
func (g *Graph) MoviesByDirector(name string) []*Movie {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movieTargetsLocked(NodeRef{Kind: KindPerson, Key: name}, EdgeDirected)
}

// DirectorsOfMovie returns the people with DIRECTED edges into the movie,
// name-ascending.
func (g *Graph) DirectorsOfMovie(title string) []*Person {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindMovie, Key: title}
	result := make([]*Person, 0, len(g.in[ref][EdgeDirected]))
	for from := range g.in[ref][EdgeDirected] {
		if p, ok := g.people[from.Key]; ok {
			result = append(result, clonePerson(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// MoviesByGenre returns the movies tagged with the genre, title-ascending.
func (g *Graph) MoviesByGenre(name string) []*Movie {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindGenre, Key: name}
	result := make([]*Movie, 0, len(g.in[ref][EdgeHasGenre]))
	for from := range g.in[ref][EdgeHasGenre] {
		if m, ok := g.movies[from.Key]; ok {
			result = append(result, cloneMovie(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result
}

// GenresOfMovie returns the genres tagged on the movie, name-ascending.
func (g *Graph) GenresOfMovie(title string) []*Genre {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindMovie, Key: title}
	result := make([]*Genre, 0, len(g.out[ref][EdgeHasGenre]))
	for to := range g.out[ref][EdgeHasGenre] {
		if gn, ok := g.genres[to.Key]; ok {
			result = append(result, cloneGenre(gn))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// StudioOfMovie returns at most one producing studio. When several studios
// carry PRODUCED edges into the movie, the lowest insertion sequence wins;
// this mirrors a known limitation rather than picking "the" studio.
func (g *Graph) StudioOfMovie(title string) (*Studio, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ref := NodeRef{Kind: KindMovie, Key: title}
	var best *Edge
	for from := range g.in[ref][EdgeProduced] {
		edge, ok := g.out[from][EdgeProduced][ref]
		if !ok {
			continue
		}
		if best == nil || edge.Seq < best.Seq {
			best = edge
		}
	}
	if best == nil {
		return nil, false
	}
	s, ok := g.studios[best.From.Key]
	if !ok {
		return nil, false
	}
	return cloneStudio(s), true
}

// MoviesByStudio returns the movies a studio produced, title-ascending.
func (g *Graph) MoviesByStudio(name string) []*Movie {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.movieTargetsLocked(NodeRef{Kind: KindStudio, Key: name}, EdgeProduced)
}

func (g *Graph) movieTargetsLocked(from NodeRef, kind EdgeKind) []*Movie {
	result := make([]*Movie, 0, len(g.out[from][kind]))
	for to := range g.out[from][kind] {
		if m, ok := g.movies[to.Key]; ok {
			result = append(result, cloneMovie(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result
}

func edgeEndpointNotFound(kind EdgeKind, ref NodeRef) error {
	err := notFound(ref.Kind, ref.Key)
	return errors.AddContext(err, errors.CtxEdge, string(kind))
}

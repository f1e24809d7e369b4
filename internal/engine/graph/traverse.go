// # internal/engine/graph/traverse.go
package graph

import (
	"sort"

	"cinegraph/internal/shared/observability"
)

// maxPathHops bounds path search on dense graphs. Paths longer than this are
// reported as not found even when one exists.
const maxPathHops = 5

// pathStep records how a node was first reached so the path can be
// reconstructed backwards.
type pathStep struct {
	from NodeRef
	via  PathEdge
}

// ShortestPath runs a breadth-first search between two people over the
// undirected closure of ACTED_IN and DIRECTED edges, capped at maxPathHops
// relationship hops. Neighbors expand in (kind, key, edge kind) ascending
// order, so among equal-length paths the result is always the
// lexicographically first one BFS discovers. Edges in the returned path keep
// their stored direction.
//
// The boolean reports whether a path within the cap exists. Absent endpoints
// yield (nil, false); a person paired with themselves yields a single-node
// path of length zero.
func (g *Graph) ShortestPath(from, to string) (*Path, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	src := NodeRef{Kind: KindPerson, Key: from}
	dst := NodeRef{Kind: KindPerson, Key: to}
	if !g.hasNodeLocked(src) || !g.hasNodeLocked(dst) {
		observability.PathSearchesTotal.WithLabelValues("not_found").Inc()
		return nil, false
	}

	if path, found, ok := g.analytics.getPath(g.generation, from, to); ok {
		return path, found
	}

	path, found := g.searchLocked(src, dst)
	g.analytics.putPath(g.generation, from, to, path, found)
	if found {
		observability.PathSearchesTotal.WithLabelValues("found").Inc()
	} else {
		observability.PathSearchesTotal.WithLabelValues("not_found").Inc()
	}
	return path, found
}

func (g *Graph) searchLocked(src, dst NodeRef) (*Path, bool) {
	if src == dst {
		return &Path{Nodes: []NodeRef{src}, Edges: []PathEdge{}}, true
	}

	dist := map[NodeRef]int{src: 0}
	prev := make(map[NodeRef]pathStep)
	queue := []NodeRef{src}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if dist[current] >= maxPathHops {
			continue
		}

		for _, edge := range g.pathNeighborsLocked(current) {
			next := edge.To
			if next == current {
				next = edge.From
			}
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			prev[next] = pathStep{from: current, via: edge}
			if next == dst {
				return reconstructPath(src, dst, prev), true
			}
			queue = append(queue, next)
		}
	}
	return nil, false
}

// pathNeighborsLocked collects the undirected adjacency of a node across
// ACTED_IN and DIRECTED, sorted for reproducible traversal order. Each entry
// is the stored edge; the caller derives the far endpoint.
func (g *Graph) pathNeighborsLocked(ref NodeRef) []PathEdge {
	var edges []PathEdge
	for _, kind := range []EdgeKind{EdgeActedIn, EdgeDirected} {
		for to := range g.out[ref][kind] {
			edges = append(edges, PathEdge{Kind: kind, From: ref, To: to})
		}
		for from := range g.in[ref][kind] {
			edges = append(edges, PathEdge{Kind: kind, From: from, To: ref})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		ar, br := a.To, b.To
		if ar == ref {
			ar = a.From
		}
		if br == ref {
			br = b.From
		}
		if ar.Kind != br.Kind {
			return ar.Kind < br.Kind
		}
		if ar.Key != br.Key {
			return ar.Key < br.Key
		}
		return a.Kind < b.Kind
	})
	return edges
}

func reconstructPath(src, dst NodeRef, prev map[NodeRef]pathStep) *Path {
	nodes := []NodeRef{dst}
	var edges []PathEdge
	for current := dst; current != src; {
		step := prev[current]
		edges = append(edges, step.via)
		nodes = append(nodes, step.from)
		current = step.from
	}

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}

	return &Path{Nodes: nodes, Edges: edges, Length: len(edges)}
}

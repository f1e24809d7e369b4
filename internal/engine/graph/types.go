// # internal/engine/graph/types.go
package graph

import "cinegraph/internal/shared/util"

// NodeKind identifies one of the four node types held by the graph.
type NodeKind string

const (
	KindMovie  NodeKind = "movie"
	KindPerson NodeKind = "person"
	KindGenre  NodeKind = "genre"
	KindStudio NodeKind = "studio"
)

// EdgeKind identifies one of the four directed edge types.
type EdgeKind string

const (
	EdgeActedIn  EdgeKind = "ACTED_IN"  // person -> movie, carries roles
	EdgeDirected EdgeKind = "DIRECTED"  // person -> movie
	EdgeHasGenre EdgeKind = "HAS_GENRE" // movie -> genre
	EdgeProduced EdgeKind = "PRODUCED"  // studio -> movie
)

// Direction selects which adjacency side a neighbor query walks.
type Direction string

const (
	DirOut  Direction = "out"
	DirIn   Direction = "in"
	DirBoth Direction = "both"
)

// NodeRef names a node by kind and natural key. Keys are compared
// byte-for-byte; no case folding or normalization is applied.
type NodeRef struct {
	Kind NodeKind
	Key  string
}

// Movie is keyed by Title. Released and Tagline are optional; zero values
// mean unset.
type Movie struct {
	Title    string
	Released int
	Tagline  string
}

// Person is keyed by Name. Born is optional; zero means unset.
type Person struct {
	Name string
	Born int
}

// Genre is keyed by Name.
type Genre struct {
	Name string
}

// Studio is keyed by Name.
type Studio struct {
	Name string
}

// Edge is a directed, typed connection between two nodes. At most one edge of
// a kind exists per ordered node pair; re-upserting replaces Roles wholesale
// and keeps the original insertion sequence.
type Edge struct {
	Kind  EdgeKind
	From  NodeRef
	To    NodeRef
	Roles []string // ACTED_IN only
	Seq   uint64   // process-wide insertion order
}

// Neighbor is one adjacency entry as returned by Neighbors: the node on the
// other end of an edge plus the edge's properties.
type Neighbor struct {
	Ref   NodeRef
	Roles []string
}

// ActedMovie joins a movie with the roles traversed along its ACTED_IN edge.
type ActedMovie struct {
	Movie *Movie
	Roles []string
}

// CastMember joins a person with the roles they played in the anchor movie.
type CastMember struct {
	Person *Person
	Roles  []string
}

// CoActor is one co-occurrence entry: a person and the number of distinct
// movies shared with the anchor actor.
type CoActor struct {
	Name         string
	SharedMovies int
}

// Recommendation is one ranked similar movie. Reasons carry the shared genre
// or person names that produced the score, ascending.
type Recommendation struct {
	Movie   *Movie
	Score   int
	Reasons []string
}

// Role selects which edge kind a top-N ranking counts.
type Role string

const (
	RoleActed    Role = "acted"
	RoleDirected Role = "directed"
)

// RoleRank is one ranking entry: a person and their distinct movie count.
type RoleRank struct {
	Name       string
	MovieCount int
}

// PathEdge is one hop of a path, in the edge's stored direction regardless of
// the direction it was traversed in.
type PathEdge struct {
	Kind EdgeKind
	From NodeRef
	To   NodeRef
}

// Path is an alternating node/edge sequence. Length is the edge count;
// len(Nodes) == Length+1.
type Path struct {
	Nodes  []NodeRef
	Edges  []PathEdge
	Length int
}

// Stats is a point-in-time snapshot of graph size.
type Stats struct {
	Nodes      map[NodeKind]int
	Edges      map[EdgeKind]int
	Generation uint64
}

func cloneMovie(m *Movie) *Movie {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func clonePerson(p *Person) *Person {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneGenre(g *Genre) *Genre {
	if g == nil {
		return nil
	}
	c := *g
	return &c
}

func cloneStudio(s *Studio) *Studio {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneEdge(e *Edge) *Edge {
	if e == nil {
		return nil
	}
	c := *e
	c.Roles = util.CloneStrings(e.Roles)
	return &c
}

func clonePath(p *Path) *Path {
	if p == nil {
		return nil
	}
	return &Path{
		Nodes:  append([]NodeRef(nil), p.Nodes...),
		Edges:  append([]PathEdge(nil), p.Edges...),
		Length: p.Length,
	}
}

func cloneRecommendations(recs []Recommendation) []Recommendation {
	if recs == nil {
		return nil
	}
	out := make([]Recommendation, len(recs))
	for i, r := range recs {
		out[i] = Recommendation{
			Movie:   cloneMovie(r.Movie),
			Score:   r.Score,
			Reasons: util.CloneStrings(r.Reasons),
		}
	}
	return out
}

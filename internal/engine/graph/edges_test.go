// # internal/engine/graph/edges_test.go
package graph

import (
	"reflect"
	"testing"

	"cinegraph/internal/core/errors"
)

// castGraph builds the small fixture shared by the edge tests:
// two movies, three people, one genre, two studios.
func castGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()

	for _, m := range []Movie{
		{Title: "The Matrix", Released: 1999},
		{Title: "John Wick", Released: 2014},
	} {
		if _, err := g.UpsertMovie(m); err != nil {
			t.Fatalf("upsert movie %q: %v", m.Title, err)
		}
	}
	for _, p := range []Person{
		{Name: "Keanu Reeves", Born: 1964},
		{Name: "Carrie-Anne Moss", Born: 1967},
		{Name: "Lana Wachowski", Born: 1965},
	} {
		if _, err := g.UpsertPerson(p); err != nil {
			t.Fatalf("upsert person %q: %v", p.Name, err)
		}
	}
	if _, err := g.UpsertGenre(Genre{Name: "Action"}); err != nil {
		t.Fatalf("upsert genre: %v", err)
	}
	for _, s := range []Studio{{Name: "Warner Bros."}, {Name: "Summit"}} {
		if _, err := g.UpsertStudio(s); err != nil {
			t.Fatalf("upsert studio %q: %v", s.Name, err)
		}
	}
	return g
}

func TestSetActedIn_RequiresExistingEndpoints(t *testing.T) {
	g := castGraph(t)

	if _, err := g.SetActedIn("Nobody", "The Matrix", []string{"Extra"}); !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND for absent person, got %v", err)
	}
	if _, err := g.SetActedIn("Keanu Reeves", "No Such Movie", []string{"Lead"}); !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND for absent movie, got %v", err)
	}
}

func TestSetActedIn_RequiresRoles(t *testing.T) {
	g := castGraph(t)

	if _, err := g.SetActedIn("Keanu Reeves", "The Matrix", nil); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("Expected VALIDATION_ERROR for empty roles, got %v", err)
	}
	if _, err := g.SetActedIn("Keanu Reeves", "The Matrix", []string{}); !errors.IsCode(err, errors.CodeValidationError) {
		t.Errorf("Expected VALIDATION_ERROR for empty roles slice, got %v", err)
	}
}

func TestSetActedIn_ReplacesRolesKeepsSeq(t *testing.T) {
	g := castGraph(t)

	first, err := g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	if err != nil {
		t.Fatalf("first set: %v", err)
	}
	second, err := g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo", "Thomas Anderson"})
	if err != nil {
		t.Fatalf("second set: %v", err)
	}

	if second.Seq != first.Seq {
		t.Errorf("Expected re-upsert to keep seq %d, got %d", first.Seq, second.Seq)
	}
	if !reflect.DeepEqual(second.Roles, []string{"Neo", "Thomas Anderson"}) {
		t.Errorf("Expected roles replaced wholesale, got %v", second.Roles)
	}

	// One edge per ordered pair, with the new roles.
	movies := g.MoviesByActor("Keanu Reeves")
	if len(movies) != 1 {
		t.Fatalf("Expected a single filmography entry, got %d", len(movies))
	}
	if !reflect.DeepEqual(movies[0].Roles, []string{"Neo", "Thomas Anderson"}) {
		t.Errorf("Expected replaced roles in filmography, got %v", movies[0].Roles)
	}
}

func TestRemoveEdges(t *testing.T) {
	g := castGraph(t)
	g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	g.SetDirected("Lana Wachowski", "The Matrix")
	g.SetHasGenre("The Matrix", "Action")
	g.SetProduced("Warner Bros.", "The Matrix")

	if err := g.RemoveActedIn("Keanu Reeves", "The Matrix"); err != nil {
		t.Fatalf("remove acted in: %v", err)
	}
	if err := g.RemoveActedIn("Keanu Reeves", "The Matrix"); !errors.IsCode(err, errors.CodeNotFound) {
		t.Errorf("Expected NOT_FOUND on double remove, got %v", err)
	}
	if err := g.RemoveDirected("Lana Wachowski", "The Matrix"); err != nil {
		t.Fatalf("remove directed: %v", err)
	}
	if err := g.RemoveHasGenre("The Matrix", "Action"); err != nil {
		t.Fatalf("remove genre: %v", err)
	}
	if err := g.RemoveProduced("Warner Bros.", "The Matrix"); err != nil {
		t.Fatalf("remove produced: %v", err)
	}

	stats := g.Stats()
	for kind, n := range stats.Edges {
		if n != 0 {
			t.Errorf("Expected zero %s edges, got %d", kind, n)
		}
	}
	// Index maps are pruned, not left as empty husks.
	if len(g.out) != 0 || len(g.in) != 0 {
		t.Errorf("Expected empty adjacency indexes, got out=%d in=%d", len(g.out), len(g.in))
	}
}

func TestNeighbors_DirectionsAndOrder(t *testing.T) {
	g := castGraph(t)
	g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	g.SetActedIn("Keanu Reeves", "John Wick", []string{"John Wick"})
	g.SetActedIn("Carrie-Anne Moss", "The Matrix", []string{"Trinity"})

	out := g.Neighbors(NodeRef{Kind: KindPerson, Key: "Keanu Reeves"}, EdgeActedIn, DirOut)
	if len(out) != 2 {
		t.Fatalf("Expected 2 outbound neighbors, got %d", len(out))
	}
	// Sorted by key ascending.
	if out[0].Ref.Key != "John Wick" || out[1].Ref.Key != "The Matrix" {
		t.Errorf("Unexpected outbound order: %v, %v", out[0].Ref, out[1].Ref)
	}
	if !reflect.DeepEqual(out[1].Roles, []string{"Neo"}) {
		t.Errorf("Expected roles alongside neighbor, got %v", out[1].Roles)
	}

	in := g.Neighbors(NodeRef{Kind: KindMovie, Key: "The Matrix"}, EdgeActedIn, DirIn)
	if len(in) != 2 {
		t.Fatalf("Expected 2 inbound neighbors, got %d", len(in))
	}
	if in[0].Ref.Key != "Carrie-Anne Moss" || in[1].Ref.Key != "Keanu Reeves" {
		t.Errorf("Unexpected inbound order: %v, %v", in[0].Ref, in[1].Ref)
	}

	both := g.Neighbors(NodeRef{Kind: KindMovie, Key: "The Matrix"}, EdgeActedIn, DirBoth)
	if len(both) != 2 {
		t.Errorf("Expected inbound-only node to have 2 neighbors in both mode, got %d", len(both))
	}

	if got := g.Neighbors(NodeRef{Kind: KindPerson, Key: "Nobody"}, EdgeActedIn, DirBoth); len(got) != 0 {
		t.Errorf("Expected empty neighbors for absent node, got %d", len(got))
	}
}

func TestFollowQueries(t *testing.T) {
	g := castGraph(t)
	g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	g.SetActedIn("Keanu Reeves", "John Wick", []string{"John Wick"})
	g.SetActedIn("Carrie-Anne Moss", "The Matrix", []string{"Trinity"})
	g.SetDirected("Lana Wachowski", "The Matrix")
	g.SetHasGenre("The Matrix", "Action")
	g.SetHasGenre("John Wick", "Action")
	g.SetProduced("Warner Bros.", "The Matrix")

	movies := g.MoviesByActor("Keanu Reeves")
	if len(movies) != 2 || movies[0].Movie.Title != "John Wick" || movies[1].Movie.Title != "The Matrix" {
		t.Errorf("Unexpected filmography: %+v", movies)
	}

	cast := g.CastOfMovie("The Matrix")
	if len(cast) != 2 {
		t.Fatalf("Expected 2 cast members, got %d", len(cast))
	}
	if cast[0].Person.Name != "Carrie-Anne Moss" || !reflect.DeepEqual(cast[0].Roles, []string{"Trinity"}) {
		t.Errorf("Unexpected first cast member: %+v", cast[0])
	}

	directed := g.MoviesByDirector("Lana Wachowski")
	if len(directed) != 1 || directed[0].Title != "The Matrix" {
		t.Errorf("Unexpected directed movies: %+v", directed)
	}

	directors := g.DirectorsOfMovie("The Matrix")
	if len(directors) != 1 || directors[0].Name != "Lana Wachowski" {
		t.Errorf("Unexpected directors: %+v", directors)
	}

	byGenre := g.MoviesByGenre("Action")
	if len(byGenre) != 2 || byGenre[0].Title != "John Wick" || byGenre[1].Title != "The Matrix" {
		t.Errorf("Unexpected genre movies: %+v", byGenre)
	}

	genres := g.GenresOfMovie("The Matrix")
	if len(genres) != 1 || genres[0].Name != "Action" {
		t.Errorf("Unexpected genres: %+v", genres)
	}

	byStudio := g.MoviesByStudio("Warner Bros.")
	if len(byStudio) != 1 || byStudio[0].Title != "The Matrix" {
		t.Errorf("Unexpected studio movies: %+v", byStudio)
	}
}

func TestFollowQueries_AbsentAnchor(t *testing.T) {
	g := castGraph(t)

	if got := g.MoviesByActor("Nobody"); len(got) != 0 {
		t.Errorf("Expected empty filmography, got %d", len(got))
	}
	if got := g.CastOfMovie("No Such Movie"); len(got) != 0 {
		t.Errorf("Expected empty cast, got %d", len(got))
	}
	if got := g.MoviesByDirector("Nobody"); len(got) != 0 {
		t.Errorf("Expected empty directed list, got %d", len(got))
	}
	if got := g.MoviesByGenre("No Such Genre"); len(got) != 0 {
		t.Errorf("Expected empty genre list, got %d", len(got))
	}
	if got := g.MoviesByStudio("No Such Studio"); len(got) != 0 {
		t.Errorf("Expected empty studio list, got %d", len(got))
	}
	if _, ok := g.StudioOfMovie("No Such Movie"); ok {
		t.Error("Expected no studio for absent movie")
	}
}

func TestStudioOfMovie_FirstInsertedWins(t *testing.T) {
	g := castGraph(t)

	// Two studios produce the same movie; the earliest edge wins.
	g.SetProduced("Summit", "John Wick")
	g.SetProduced("Warner Bros.", "John Wick")

	studio, ok := g.StudioOfMovie("John Wick")
	if !ok {
		t.Fatal("Expected a producing studio")
	}
	if studio.Name != "Summit" {
		t.Errorf("Expected first-inserted studio, got %q", studio.Name)
	}

	// Re-upserting the first edge must not change its position.
	g.SetProduced("Summit", "John Wick")
	if studio, _ := g.StudioOfMovie("John Wick"); studio.Name != "Summit" {
		t.Errorf("Expected re-upsert to keep the original order, got %q", studio.Name)
	}

	// Removing the earliest edge promotes the next one.
	g.RemoveProduced("Summit", "John Wick")
	if studio, _ := g.StudioOfMovie("John Wick"); studio.Name != "Warner Bros." {
		t.Errorf("Expected next studio after removal, got %q", studio.Name)
	}
}

func TestDeletePerson_CascadesBothDirections(t *testing.T) {
	g := castGraph(t)
	g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	g.SetActedIn("Keanu Reeves", "John Wick", []string{"John Wick"})
	g.SetDirected("Lana Wachowski", "The Matrix")

	if err := g.DeletePerson("Keanu Reeves"); err != nil {
		t.Fatalf("delete person: %v", err)
	}

	if got := g.CastOfMovie("The Matrix"); len(got) != 0 {
		t.Errorf("Expected cast without the deleted person, got %d", len(got))
	}
	// Unrelated edges survive.
	if got := g.DirectorsOfMovie("The Matrix"); len(got) != 1 {
		t.Errorf("Expected director edge to survive, got %d", len(got))
	}
}

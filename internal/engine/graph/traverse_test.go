// # internal/engine/graph/traverse_test.go
package graph

import (
	"fmt"
	"testing"
)

// chainGraph links people through movies in a line:
// Person 0 - Movie 0 - Person 1 - Movie 1 - ... - Person n.
func chainGraph(t *testing.T, people int) *Graph {
	t.Helper()
	g := NewGraph()
	for i := 0; i < people; i++ {
		if _, err := g.UpsertPerson(Person{Name: fmt.Sprintf("Person %d", i)}); err != nil {
			t.Fatalf("upsert person: %v", err)
		}
	}
	for i := 0; i < people-1; i++ {
		title := fmt.Sprintf("Movie %d", i)
		if _, err := g.UpsertMovie(Movie{Title: title}); err != nil {
			t.Fatalf("upsert movie: %v", err)
		}
		if _, err := g.SetActedIn(fmt.Sprintf("Person %d", i), title, []string{"Lead"}); err != nil {
			t.Fatalf("link left: %v", err)
		}
		if _, err := g.SetActedIn(fmt.Sprintf("Person %d", i+1), title, []string{"Support"}); err != nil {
			t.Fatalf("link right: %v", err)
		}
	}
	return g
}

func TestShortestPath_SelfIsZeroLength(t *testing.T) {
	g := NewGraph()
	g.UpsertPerson(Person{Name: "Keanu Reeves"})

	path, found := g.ShortestPath("Keanu Reeves", "Keanu Reeves")
	if !found {
		t.Fatal("Expected a path from a person to themselves")
	}
	if path.Length != 0 || len(path.Edges) != 0 {
		t.Errorf("Expected zero-length path, got length=%d edges=%d", path.Length, len(path.Edges))
	}
	if len(path.Nodes) != 1 || path.Nodes[0].Key != "Keanu Reeves" {
		t.Errorf("Expected single-node path, got %v", path.Nodes)
	}
}

func TestShortestPath_DirectCoActors(t *testing.T) {
	g := chainGraph(t, 2)

	path, found := g.ShortestPath("Person 0", "Person 1")
	if !found {
		t.Fatal("Expected a path between co-actors")
	}
	if path.Length != 2 {
		t.Fatalf("Expected length 2, got %d", path.Length)
	}
	if len(path.Nodes) != path.Length+1 {
		t.Errorf("Expected %d nodes, got %d", path.Length+1, len(path.Nodes))
	}
	wantKeys := []string{"Person 0", "Movie 0", "Person 1"}
	for i, ref := range path.Nodes {
		if ref.Key != wantKeys[i] {
			t.Errorf("Node %d: expected %q, got %q", i, wantKeys[i], ref.Key)
		}
	}
	// Edges keep their stored direction: person -> movie for ACTED_IN.
	for i, edge := range path.Edges {
		if edge.Kind != EdgeActedIn {
			t.Errorf("Edge %d: expected ACTED_IN, got %s", i, edge.Kind)
		}
		if edge.From.Kind != KindPerson || edge.To.Kind != KindMovie {
			t.Errorf("Edge %d: expected person -> movie direction, got %v -> %v", i, edge.From, edge.To)
		}
	}
}

func TestShortestPath_CrossesDirectedEdges(t *testing.T) {
	g := NewGraph()
	g.UpsertPerson(Person{Name: "Keanu Reeves"})
	g.UpsertPerson(Person{Name: "Lana Wachowski"})
	g.UpsertMovie(Movie{Title: "The Matrix"})
	g.SetActedIn("Keanu Reeves", "The Matrix", []string{"Neo"})
	g.SetDirected("Lana Wachowski", "The Matrix")

	path, found := g.ShortestPath("Keanu Reeves", "Lana Wachowski")
	if !found {
		t.Fatal("Expected a path from actor to director")
	}
	if path.Length != 2 {
		t.Fatalf("Expected length 2, got %d", path.Length)
	}
	if path.Edges[1].Kind != EdgeDirected {
		t.Errorf("Expected second hop over DIRECTED, got %s", path.Edges[1].Kind)
	}
}

func TestShortestPath_EqualLengthTieBreak(t *testing.T) {
	g := NewGraph()
	g.UpsertPerson(Person{Name: "A"})
	g.UpsertPerson(Person{Name: "B"})
	for _, title := range []string{"Zebra", "Alpha"} {
		g.UpsertMovie(Movie{Title: title})
		g.SetActedIn("A", title, []string{"Lead"})
		g.SetActedIn("B", title, []string{"Lead"})
	}

	// Two equal-length routes exist; the lexicographically first neighbor
	// ("Alpha") must be chosen regardless of insertion order.
	path, found := g.ShortestPath("A", "B")
	if !found {
		t.Fatal("Expected a path")
	}
	if path.Nodes[1].Key != "Alpha" {
		t.Errorf("Expected deterministic route via Alpha, got %q", path.Nodes[1].Key)
	}
}

func TestShortestPath_HopLimit(t *testing.T) {
	// Person 0 .. Person 3 need 6 hops; the search caps at 5.
	g := chainGraph(t, 4)

	if _, found := g.ShortestPath("Person 0", "Person 2"); !found {
		t.Error("Expected 4-hop path to be found")
	}
	if _, found := g.ShortestPath("Person 0", "Person 3"); found {
		t.Error("Expected 6-hop path to be reported as not found")
	}
}

func TestShortestPath_NotFoundCases(t *testing.T) {
	g := chainGraph(t, 2)
	g.UpsertPerson(Person{Name: "Hermit"})

	if _, found := g.ShortestPath("Person 0", "Hermit"); found {
		t.Error("Expected no path to a disconnected person")
	}
	if _, found := g.ShortestPath("Person 0", "No Such Person"); found {
		t.Error("Expected no path to an absent person")
	}
	if _, found := g.ShortestPath("No Such Person", "Person 0"); found {
		t.Error("Expected no path from an absent person")
	}
}

func TestShortestPath_RecomputedAfterMutation(t *testing.T) {
	g := chainGraph(t, 2)

	if _, found := g.ShortestPath("Person 0", "Person 1"); !found {
		t.Fatal("Expected initial path")
	}

	// Deleting the bridge movie must invalidate the memoized answer.
	if err := g.DeleteMovie("Movie 0"); err != nil {
		t.Fatalf("delete bridge: %v", err)
	}
	if _, found := g.ShortestPath("Person 0", "Person 1"); found {
		t.Error("Expected no path after the bridge movie was deleted")
	}

	// And reconnecting must surface a fresh path again.
	g.UpsertMovie(Movie{Title: "Reunion"})
	g.SetActedIn("Person 0", "Reunion", []string{"Lead"})
	g.SetActedIn("Person 1", "Reunion", []string{"Support"})
	path, found := g.ShortestPath("Person 0", "Person 1")
	if !found {
		t.Fatal("Expected path after reconnecting")
	}
	if path.Nodes[1].Key != "Reunion" {
		t.Errorf("Expected fresh route via Reunion, got %q", path.Nodes[1].Key)
	}
}

func TestShortestPath_ResultIsDetached(t *testing.T) {
	g := chainGraph(t, 2)

	first, found := g.ShortestPath("Person 0", "Person 1")
	if !found {
		t.Fatal("Expected a path")
	}
	first.Nodes[0] = NodeRef{Kind: KindPerson, Key: "tampered"}

	second, _ := g.ShortestPath("Person 0", "Person 1")
	if second.Nodes[0].Key != "Person 0" {
		t.Error("Mutating a returned path must not corrupt the cached copy")
	}
}

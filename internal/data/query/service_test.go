package query

import (
	"context"
	"testing"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/engine/graph"
)

func catalogGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	for _, title := range []string{"The Matrix", "The Matrix Reloaded", "Inception", "John Wick"} {
		if _, err := g.UpsertMovie(graph.Movie{Title: title}); err != nil {
			t.Fatalf("upsert movie %q: %v", title, err)
		}
	}
	for _, name := range []string{"Keanu Reeves", "Carrie-Anne Moss", "Christopher Nolan"} {
		if _, err := g.UpsertPerson(graph.Person{Name: name}); err != nil {
			t.Fatalf("upsert person %q: %v", name, err)
		}
	}
	return g
}

func TestService_SearchMovies_GlobMatching(t *testing.T) {
	s := NewService(catalogGraph(t), 50)

	movies, err := s.SearchMovies(context.Background(), "The Matrix*", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(movies))
	}
	if movies[0].Title != "The Matrix" || movies[1].Title != "The Matrix Reloaded" {
		t.Fatalf("expected title-ascending matches, got %q then %q", movies[0].Title, movies[1].Title)
	}
}

func TestService_SearchMovies_CaseInsensitive(t *testing.T) {
	s := NewService(catalogGraph(t), 50)

	movies, err := s.SearchMovies(context.Background(), "JOHN*", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "John Wick" {
		t.Fatalf("expected John Wick, got %#v", movies)
	}
}

func TestService_SearchMovies_EmptyPatternMatchesAll(t *testing.T) {
	s := NewService(catalogGraph(t), 50)

	movies, err := s.SearchMovies(context.Background(), "  ", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(movies) != 4 {
		t.Fatalf("expected all 4 movies, got %d", len(movies))
	}
}

func TestService_SearchMovies_LimitCaps(t *testing.T) {
	s := NewService(catalogGraph(t), 2)

	movies, err := s.SearchMovies(context.Background(), "*", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected service cap of 2, got %d", len(movies))
	}

	movies, err = s.SearchMovies(context.Background(), "*", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 1 {
		t.Fatalf("expected explicit limit 1, got %d", len(movies))
	}

	movies, err = s.SearchMovies(context.Background(), "*", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(movies) != 2 {
		t.Fatalf("expected limit above cap to clamp to 2, got %d", len(movies))
	}
}

func TestService_SearchPeople(t *testing.T) {
	s := NewService(catalogGraph(t), 50)

	people, err := s.SearchPeople(context.Background(), "c*", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(people))
	}
	if people[0].Name != "Carrie-Anne Moss" || people[1].Name != "Christopher Nolan" {
		t.Fatalf("expected name-ascending matches, got %q then %q", people[0].Name, people[1].Name)
	}
}

func TestService_InvalidPatternIsValidationError(t *testing.T) {
	s := NewService(catalogGraph(t), 50)

	_, err := s.SearchMovies(context.Background(), "[", 0)
	if err == nil {
		t.Fatal("expected error for malformed pattern")
	}
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestService_CancelledContext(t *testing.T) {
	s := NewService(catalogGraph(t), 50)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.SearchMovies(ctx, "*", 0); err == nil {
		t.Fatal("expected context error")
	}
	if _, err := s.SearchPeople(ctx, "*", 0); err == nil {
		t.Fatal("expected context error")
	}
}

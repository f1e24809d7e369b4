package cli

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	coreapp "cinegraph/internal/core/app"
	"cinegraph/internal/core/config"
	"cinegraph/internal/core/ports"
	"cinegraph/internal/engine/graph"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModel_RefreshAndPanelFlow(t *testing.T) {
	m := initialModel(nil)

	updated, _ := m.Update(refreshMsg{
		stats: graph.Stats{
			Nodes:      map[graph.NodeKind]int{graph.KindMovie: 2, graph.KindPerson: 1},
			Edges:      map[graph.EdgeKind]int{graph.EdgeActedIn: 1},
			Generation: 4,
		},
		changes: []ports.Change{
			{Operation: ports.ChangeUpsertNode, Kind: "movie", Key: "Heat", At: time.Now()},
		},
		movies: []*graph.Movie{
			{Title: "Heat", Released: 1995},
			{Title: "Ronin", Released: 1998},
		},
	})

	state, ok := updated.(model)
	if !ok {
		t.Fatalf("expected model type, got %T", updated)
	}
	if len(state.changeList.Items()) != 1 {
		t.Fatalf("expected 1 change item, got %d", len(state.changeList.Items()))
	}
	if len(state.movieList.Items()) != 2 {
		t.Fatalf("expected 2 movie items, got %d", len(state.movieList.Items()))
	}
	if state.refreshErr != "" {
		t.Fatalf("unexpected refresh error: %q", state.refreshErr)
	}
	if state.stats.Generation != 4 {
		t.Fatalf("unexpected generation: %d", state.stats.Generation)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelMovies {
		t.Fatalf("expected movie panel after tab, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelChanges {
		t.Fatalf("expected changes panel after second tab, got %v", state.mode)
	}
}

func TestModel_MovieDrillDownAndClose(t *testing.T) {
	svc := newUITestService(t)
	ctx := context.Background()

	if _, err := svc.UpsertMovie(ctx, graph.Movie{Title: "The Matrix", Released: 1999}); err != nil {
		t.Fatalf("upsert movie: %v", err)
	}
	if _, err := svc.UpsertPerson(ctx, graph.Person{Name: "Keanu Reeves", Born: 1964}); err != nil {
		t.Fatalf("upsert person: %v", err)
	}
	if _, err := svc.SetActedIn(ctx, "Keanu Reeves", "The Matrix", []string{"Neo"}); err != nil {
		t.Fatalf("set acted_in: %v", err)
	}

	movies, _, err := svc.ListMovies(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list movies: %v", err)
	}

	m := initialModel(svc)
	updated, _ := m.Update(refreshMsg{movies: movies})
	state := updated.(model)

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyTab})
	state = updated.(model)
	if state.mode != panelMovies {
		t.Fatalf("expected movie panel, got %v", state.mode)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEnter})
	state = updated.(model)
	if !state.hasDetails {
		t.Fatal("expected movie details to open")
	}
	if state.detailsErr != "" {
		t.Fatalf("unexpected details error: %q", state.detailsErr)
	}
	if state.details.movie.Title != "The Matrix" {
		t.Fatalf("unexpected details movie: %q", state.details.movie.Title)
	}
	if len(state.details.cast) != 1 || state.details.cast[0].Person.Name != "Keanu Reeves" {
		t.Fatalf("unexpected cast: %+v", state.details.cast)
	}

	updated, _ = state.Update(tea.KeyMsg{Type: tea.KeyEsc})
	state = updated.(model)
	if state.hasDetails {
		t.Fatal("expected movie details to close on esc")
	}
}

func TestModel_RefreshErrorIsShownAndCleared(t *testing.T) {
	m := initialModel(nil)

	updated, _ := m.Update(refreshMsg{err: context.DeadlineExceeded})
	state := updated.(model)
	if state.refreshErr == "" {
		t.Fatal("expected refresh error to be recorded")
	}

	updated, _ = state.Update(refreshMsg{})
	state = updated.(model)
	if state.refreshErr != "" {
		t.Fatalf("expected refresh error cleared, got %q", state.refreshErr)
	}
}

func newUITestService(t *testing.T) ports.GraphService {
	t.Helper()

	cfg := config.Default()
	cfg.Changelog.Enabled = false

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := coreapp.New(cfg, logger)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = a.Close(ctx)
	})

	return a.GraphService()
}

// # internal/core/app/seed.go
package app

import (
	"context"
	"fmt"
	"time"

	"cinegraph/internal/core/ports"
	"cinegraph/internal/data/seed"
	"cinegraph/internal/engine/graph"
	"cinegraph/internal/shared/observability"
)

const seedReloadTimeout = 30 * time.Second

// LoadSeed loads the configured seed file into the graph. A missing
// configuration is a no-op. The file's checksum is remembered so the
// watcher can skip unchanged rewrites.
func (a *App) LoadSeed(ctx context.Context) (seed.LoadStats, error) {
	if a == nil || a.Config == nil || a.Config.Seed.Path == "" {
		return seed.LoadStats{}, nil
	}

	ds, err := a.seedSource.Load(ctx, a.Config.Seed.Path)
	if err != nil {
		return seed.LoadStats{}, err
	}
	return a.applyDataset(ctx, ds)
}

// StartSeedWatcher watches the seed file and reapplies it on change.
// Requires a configured seed path with watch enabled.
func (a *App) StartSeedWatcher() error {
	if a == nil || a.Config == nil || a.Config.Seed.Path == "" || !a.Config.Seed.Watch {
		return nil
	}
	if a.seedWatcher != nil {
		return nil
	}

	w, err := seed.NewWatcher(a.Config.Seed.Path, a.Config.Seed.Debounce, a.log, a.reloadSeed)
	if err != nil {
		return fmt.Errorf("start seed watcher: %w", err)
	}
	a.seedWatcher = w
	return nil
}

func (a *App) reloadSeed() {
	ctx, cancel := context.WithTimeout(context.Background(), seedReloadTimeout)
	defer cancel()

	ds, err := a.seedSource.Load(ctx, a.Config.Seed.Path)
	if err != nil {
		a.log.Warn("seed reload failed", "path", a.Config.Seed.Path, "error", err)
		return
	}

	a.seedMu.Lock()
	unchanged := ds.Checksum != "" && ds.Checksum == a.seedHash
	a.seedMu.Unlock()
	if unchanged {
		a.log.Debug("seed file rewritten without changes, skipping reload", "path", a.Config.Seed.Path)
		return
	}

	stats, err := a.applyDataset(ctx, ds)
	if err != nil {
		a.log.Warn("seed reload failed", "path", a.Config.Seed.Path, "error", err)
		return
	}
	a.log.Info("seed reloaded",
		"path", a.Config.Seed.Path,
		"applied", stats.Total(),
		"skipped", len(stats.Skipped))
}

// applyDataset upserts every record of the dataset: nodes first, then
// edges. Records that cannot be applied are skipped with a warning and
// reported in the stats; they never abort the load.
func (a *App) applyDataset(ctx context.Context, ds seed.Dataset) (seed.LoadStats, error) {
	var stats seed.LoadStats

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	skip := func(what string, err error) {
		stats.Skipped = append(stats.Skipped, fmt.Sprintf("%s: %v", what, err))
		a.log.Warn("seed record skipped", "record", what, "error", err)
	}

	for _, m := range ds.Movies {
		if _, err := a.Graph.UpsertMovie(graphMovie(m)); err != nil {
			skip(fmt.Sprintf("movie %q", m.Title), err)
			continue
		}
		stats.Movies++
	}
	for _, p := range ds.People {
		if _, err := a.Graph.UpsertPerson(graphPerson(p)); err != nil {
			skip(fmt.Sprintf("person %q", p.Name), err)
			continue
		}
		stats.People++
	}
	for _, name := range ds.Genres {
		if _, err := a.Graph.UpsertGenre(graphGenre(name)); err != nil {
			skip(fmt.Sprintf("genre %q", name), err)
			continue
		}
		stats.Genres++
	}
	for _, name := range ds.Studios {
		if _, err := a.Graph.UpsertStudio(graphStudio(name)); err != nil {
			skip(fmt.Sprintf("studio %q", name), err)
			continue
		}
		stats.Studios++
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	for _, e := range ds.ActedIn {
		if _, err := a.Graph.SetActedIn(e.Person, e.Movie, e.Roles); err != nil {
			skip(fmt.Sprintf("acted_in %q -> %q", e.Person, e.Movie), err)
			continue
		}
		stats.Edges++
	}
	for _, e := range ds.Directed {
		if _, err := a.Graph.SetDirected(e.Person, e.Movie); err != nil {
			skip(fmt.Sprintf("directed %q -> %q", e.Person, e.Movie), err)
			continue
		}
		stats.Edges++
	}
	for _, e := range ds.HasGenre {
		if _, err := a.Graph.SetHasGenre(e.Movie, e.Genre); err != nil {
			skip(fmt.Sprintf("has_genre %q -> %q", e.Movie, e.Genre), err)
			continue
		}
		stats.Edges++
	}
	for _, e := range ds.Produced {
		if _, err := a.Graph.SetProduced(e.Studio, e.Movie); err != nil {
			skip(fmt.Sprintf("produced %q -> %q", e.Studio, e.Movie), err)
			continue
		}
		stats.Edges++
	}

	if ds.Checksum != "" {
		a.seedMu.Lock()
		a.seedHash = ds.Checksum
		a.seedMu.Unlock()
	}

	observability.SeedReloadsTotal.Inc()
	a.record(ports.ChangeSeedLoad, "", "", fmt.Sprintf(
		"movies=%d people=%d genres=%d studios=%d edges=%d skipped=%d",
		stats.Movies, stats.People, stats.Genres, stats.Studios, stats.Edges, len(stats.Skipped)))
	return stats, nil
}

func graphMovie(m seed.MovieRecord) graph.Movie {
	return graph.Movie{Title: m.Title, Released: m.Released, Tagline: m.Tagline}
}

func graphPerson(p seed.PersonRecord) graph.Person {
	return graph.Person{Name: p.Name, Born: p.Born}
}

func graphGenre(name string) graph.Genre {
	return graph.Genre{Name: name}
}

func graphStudio(name string) graph.Studio {
	return graph.Studio{Name: name}
}

// # internal/core/app/service.go
//
// graphService is the ports.GraphService facade over App. Every method
// checks the context, opens a span, and records latency; mutations
// additionally bump the mutation counter and emit a changelog entry.
package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/core/ports"
	"cinegraph/internal/data/seed"
	"cinegraph/internal/engine/graph"
	"cinegraph/internal/shared/observability"
)

type graphService struct {
	app *App
}

var _ ports.GraphService = (*graphService)(nil)

func NewGraphService(app *App) ports.GraphService {
	return &graphService{app: app}
}

func (a *App) GraphService() ports.GraphService {
	return NewGraphService(a)
}

// Unwrap exposes the concrete App for wiring code that needs more than
// the port surface.
func (s *graphService) Unwrap() *App {
	return s.app
}

func (s *graphService) Close(ctx context.Context) error {
	if s == nil || s.app == nil {
		return nil
	}
	return s.app.Close(ctx)
}

func observeOp(operation string) func() {
	started := time.Now()
	return func() {
		observability.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	}
}

func (s *graphService) guard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.app == nil {
		return fmt.Errorf("app is required")
	}
	return nil
}

// --- mutations ---

func (s *graphService) UpsertMovie(ctx context.Context, m graph.Movie) (*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.UpsertMovie",
		trace.WithAttributes(attribute.String("movie.title", m.Title)))
	defer span.End()
	defer observeOp("upsert_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	stored, err := s.app.Graph.UpsertMovie(m)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "upsert_movie")
	}
	observability.MutationsTotal.WithLabelValues("upsert_movie").Inc()
	s.app.record(ports.ChangeUpsertNode, string(graph.KindMovie), m.Title, "")
	return stored, nil
}

func (s *graphService) DeleteMovie(ctx context.Context, title string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.DeleteMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("delete_movie")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.DeleteMovie(title); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "delete_movie")
	}
	observability.MutationsTotal.WithLabelValues("delete_movie").Inc()
	s.app.record(ports.ChangeDeleteNode, string(graph.KindMovie), title, "")
	return nil
}

func (s *graphService) UpsertPerson(ctx context.Context, p graph.Person) (*graph.Person, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.UpsertPerson",
		trace.WithAttributes(attribute.String("person.name", p.Name)))
	defer span.End()
	defer observeOp("upsert_person")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	stored, err := s.app.Graph.UpsertPerson(p)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "upsert_person")
	}
	observability.MutationsTotal.WithLabelValues("upsert_person").Inc()
	s.app.record(ports.ChangeUpsertNode, string(graph.KindPerson), p.Name, "")
	return stored, nil
}

func (s *graphService) DeletePerson(ctx context.Context, name string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.DeletePerson",
		trace.WithAttributes(attribute.String("person.name", name)))
	defer span.End()
	defer observeOp("delete_person")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.DeletePerson(name); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "delete_person")
	}
	observability.MutationsTotal.WithLabelValues("delete_person").Inc()
	s.app.record(ports.ChangeDeleteNode, string(graph.KindPerson), name, "")
	return nil
}

func (s *graphService) UpsertGenre(ctx context.Context, gn graph.Genre) (*graph.Genre, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.UpsertGenre",
		trace.WithAttributes(attribute.String("genre.name", gn.Name)))
	defer span.End()
	defer observeOp("upsert_genre")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	stored, err := s.app.Graph.UpsertGenre(gn)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "upsert_genre")
	}
	observability.MutationsTotal.WithLabelValues("upsert_genre").Inc()
	s.app.record(ports.ChangeUpsertNode, string(graph.KindGenre), gn.Name, "")
	return stored, nil
}

func (s *graphService) DeleteGenre(ctx context.Context, name string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.DeleteGenre",
		trace.WithAttributes(attribute.String("genre.name", name)))
	defer span.End()
	defer observeOp("delete_genre")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.DeleteGenre(name); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "delete_genre")
	}
	observability.MutationsTotal.WithLabelValues("delete_genre").Inc()
	s.app.record(ports.ChangeDeleteNode, string(graph.KindGenre), name, "")
	return nil
}

func (s *graphService) UpsertStudio(ctx context.Context, st graph.Studio) (*graph.Studio, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.UpsertStudio",
		trace.WithAttributes(attribute.String("studio.name", st.Name)))
	defer span.End()
	defer observeOp("upsert_studio")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	stored, err := s.app.Graph.UpsertStudio(st)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "upsert_studio")
	}
	observability.MutationsTotal.WithLabelValues("upsert_studio").Inc()
	s.app.record(ports.ChangeUpsertNode, string(graph.KindStudio), st.Name, "")
	return stored, nil
}

func (s *graphService) DeleteStudio(ctx context.Context, name string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.DeleteStudio",
		trace.WithAttributes(attribute.String("studio.name", name)))
	defer span.End()
	defer observeOp("delete_studio")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.DeleteStudio(name); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "delete_studio")
	}
	observability.MutationsTotal.WithLabelValues("delete_studio").Inc()
	s.app.record(ports.ChangeDeleteNode, string(graph.KindStudio), name, "")
	return nil
}

func (s *graphService) SetActedIn(ctx context.Context, person, movie string, roles []string) (*graph.Edge, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SetActedIn",
		trace.WithAttributes(
			attribute.String("person.name", person),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("set_acted_in")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	edge, err := s.app.Graph.SetActedIn(person, movie, roles)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "set_acted_in")
	}
	observability.MutationsTotal.WithLabelValues("set_acted_in").Inc()
	s.app.record(ports.ChangeSetEdge, string(graph.EdgeActedIn), edgeKey(person, movie), fmt.Sprintf("roles=%v", roles))
	return edge, nil
}

func (s *graphService) RemoveActedIn(ctx context.Context, person, movie string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RemoveActedIn",
		trace.WithAttributes(
			attribute.String("person.name", person),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("remove_acted_in")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.RemoveActedIn(person, movie); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "remove_acted_in")
	}
	observability.MutationsTotal.WithLabelValues("remove_acted_in").Inc()
	s.app.record(ports.ChangeRemoveEdge, string(graph.EdgeActedIn), edgeKey(person, movie), "")
	return nil
}

func (s *graphService) SetDirected(ctx context.Context, person, movie string) (*graph.Edge, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SetDirected",
		trace.WithAttributes(
			attribute.String("person.name", person),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("set_directed")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	edge, err := s.app.Graph.SetDirected(person, movie)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "set_directed")
	}
	observability.MutationsTotal.WithLabelValues("set_directed").Inc()
	s.app.record(ports.ChangeSetEdge, string(graph.EdgeDirected), edgeKey(person, movie), "")
	return edge, nil
}

func (s *graphService) RemoveDirected(ctx context.Context, person, movie string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RemoveDirected",
		trace.WithAttributes(
			attribute.String("person.name", person),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("remove_directed")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.RemoveDirected(person, movie); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "remove_directed")
	}
	observability.MutationsTotal.WithLabelValues("remove_directed").Inc()
	s.app.record(ports.ChangeRemoveEdge, string(graph.EdgeDirected), edgeKey(person, movie), "")
	return nil
}

func (s *graphService) SetHasGenre(ctx context.Context, movie, genre string) (*graph.Edge, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SetHasGenre",
		trace.WithAttributes(
			attribute.String("movie.title", movie),
			attribute.String("genre.name", genre)))
	defer span.End()
	defer observeOp("set_genre")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	edge, err := s.app.Graph.SetHasGenre(movie, genre)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "set_genre")
	}
	observability.MutationsTotal.WithLabelValues("set_genre").Inc()
	s.app.record(ports.ChangeSetEdge, string(graph.EdgeHasGenre), edgeKey(movie, genre), "")
	return edge, nil
}

func (s *graphService) RemoveHasGenre(ctx context.Context, movie, genre string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RemoveHasGenre",
		trace.WithAttributes(
			attribute.String("movie.title", movie),
			attribute.String("genre.name", genre)))
	defer span.End()
	defer observeOp("remove_genre")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.RemoveHasGenre(movie, genre); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "remove_genre")
	}
	observability.MutationsTotal.WithLabelValues("remove_genre").Inc()
	s.app.record(ports.ChangeRemoveEdge, string(graph.EdgeHasGenre), edgeKey(movie, genre), "")
	return nil
}

func (s *graphService) SetProduced(ctx context.Context, studio, movie string) (*graph.Edge, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SetProduced",
		trace.WithAttributes(
			attribute.String("studio.name", studio),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("set_produced")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	edge, err := s.app.Graph.SetProduced(studio, movie)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "set_produced")
	}
	observability.MutationsTotal.WithLabelValues("set_produced").Inc()
	s.app.record(ports.ChangeSetEdge, string(graph.EdgeProduced), edgeKey(studio, movie), "")
	return edge, nil
}

func (s *graphService) RemoveProduced(ctx context.Context, studio, movie string) error {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RemoveProduced",
		trace.WithAttributes(
			attribute.String("studio.name", studio),
			attribute.String("movie.title", movie)))
	defer span.End()
	defer observeOp("remove_produced")()

	if err := s.guard(ctx); err != nil {
		return err
	}
	if err := s.app.Graph.RemoveProduced(studio, movie); err != nil {
		return errors.AddContext(err, errors.CtxOperation, "remove_produced")
	}
	observability.MutationsTotal.WithLabelValues("remove_produced").Inc()
	s.app.record(ports.ChangeRemoveEdge, string(graph.EdgeProduced), edgeKey(studio, movie), "")
	return nil
}

func (s *graphService) LoadDataset(ctx context.Context, ds seed.Dataset) (seed.LoadStats, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.LoadDataset")
	defer span.End()
	defer observeOp("load_dataset")()

	if err := s.guard(ctx); err != nil {
		return seed.LoadStats{}, err
	}
	stats, err := s.app.applyDataset(ctx, ds)
	if err != nil {
		return seed.LoadStats{}, errors.AddContext(err, errors.CtxOperation, "load_dataset")
	}
	observability.MutationsTotal.WithLabelValues("load_dataset").Inc()
	return stats, nil
}

// --- lookups ---

func (s *graphService) GetMovie(ctx context.Context, title string) (*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.GetMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("get_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	m, ok := s.app.Graph.GetMovie(title)
	if !ok {
		return nil, notFoundErr(graph.KindMovie, title)
	}
	return m, nil
}

func (s *graphService) ListMovies(ctx context.Context, page, pageSize int) ([]*graph.Movie, int, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.ListMovies")
	defer span.End()
	defer observeOp("list_movies")()

	if err := s.guard(ctx); err != nil {
		return nil, 0, err
	}
	return s.app.Graph.ListMovies(page, pageSize)
}

func (s *graphService) GetPerson(ctx context.Context, name string) (*graph.Person, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.GetPerson",
		trace.WithAttributes(attribute.String("person.name", name)))
	defer span.End()
	defer observeOp("get_person")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	p, ok := s.app.Graph.GetPerson(name)
	if !ok {
		return nil, notFoundErr(graph.KindPerson, name)
	}
	return p, nil
}

func (s *graphService) ListPeople(ctx context.Context, page, pageSize int) ([]*graph.Person, int, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.ListPeople")
	defer span.End()
	defer observeOp("list_people")()

	if err := s.guard(ctx); err != nil {
		return nil, 0, err
	}
	return s.app.Graph.ListPeople(page, pageSize)
}

func (s *graphService) ListGenres(ctx context.Context, page, pageSize int) ([]*graph.Genre, int, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.ListGenres")
	defer span.End()
	defer observeOp("list_genres")()

	if err := s.guard(ctx); err != nil {
		return nil, 0, err
	}
	return s.app.Graph.ListGenres(page, pageSize)
}

func (s *graphService) ListStudios(ctx context.Context, page, pageSize int) ([]*graph.Studio, int, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.ListStudios")
	defer span.End()
	defer observeOp("list_studios")()

	if err := s.guard(ctx); err != nil {
		return nil, 0, err
	}
	return s.app.Graph.ListStudios(page, pageSize)
}

func (s *graphService) MoviesByActor(ctx context.Context, name string) ([]graph.ActedMovie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.MoviesByActor",
		trace.WithAttributes(attribute.String("person.name", name)))
	defer span.End()
	defer observeOp("movies_by_actor")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.MoviesByActor(name), nil
}

func (s *graphService) CastOfMovie(ctx context.Context, title string) ([]graph.CastMember, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.CastOfMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("cast_of_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.CastOfMovie(title), nil
}

func (s *graphService) MoviesByDirector(ctx context.Context, name string) ([]*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.MoviesByDirector",
		trace.WithAttributes(attribute.String("person.name", name)))
	defer span.End()
	defer observeOp("movies_by_director")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.MoviesByDirector(name), nil
}

func (s *graphService) DirectorsOfMovie(ctx context.Context, title string) ([]*graph.Person, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.DirectorsOfMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("directors_of_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.DirectorsOfMovie(title), nil
}

func (s *graphService) MoviesByGenre(ctx context.Context, name string) ([]*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.MoviesByGenre",
		trace.WithAttributes(attribute.String("genre.name", name)))
	defer span.End()
	defer observeOp("movies_by_genre")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.MoviesByGenre(name), nil
}

func (s *graphService) GenresOfMovie(ctx context.Context, title string) ([]*graph.Genre, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.GenresOfMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("genres_of_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.GenresOfMovie(title), nil
}

// StudioOfMovie returns nil when the movie has no producing studio; an
// absent movie is treated the same way, not as an error.
func (s *graphService) StudioOfMovie(ctx context.Context, title string) (*graph.Studio, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.StudioOfMovie",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("studio_of_movie")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	st, ok := s.app.Graph.StudioOfMovie(title)
	if !ok {
		return nil, nil
	}
	return st, nil
}

func (s *graphService) MoviesByStudio(ctx context.Context, name string) ([]*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.MoviesByStudio",
		trace.WithAttributes(attribute.String("studio.name", name)))
	defer span.End()
	defer observeOp("movies_by_studio")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.MoviesByStudio(name), nil
}

// --- analytics ---

func (s *graphService) CoActors(ctx context.Context, name string) ([]graph.CoActor, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.CoActors",
		trace.WithAttributes(attribute.String("person.name", name)))
	defer span.End()
	defer observeOp("co_actors")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.CoActors(name), nil
}

func (s *graphService) SharedMovies(ctx context.Context, actor1, actor2 string) ([]*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SharedMovies",
		trace.WithAttributes(
			attribute.String("person.name", actor1),
			attribute.String("person.other", actor2)))
	defer span.End()
	defer observeOp("shared_movies")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.SharedMovies(actor1, actor2), nil
}

func (s *graphService) ShortestPath(ctx context.Context, from, to string) (*graph.Path, bool, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.ShortestPath",
		trace.WithAttributes(
			attribute.String("path.from", from),
			attribute.String("path.to", to)))
	defer span.End()
	defer observeOp("shortest_path")()

	if err := s.guard(ctx); err != nil {
		return nil, false, err
	}
	path, found := s.app.Graph.ShortestPath(from, to)
	return path, found, nil
}

func (s *graphService) RecommendByGenres(ctx context.Context, title string) ([]graph.Recommendation, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RecommendByGenres",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("recommend_by_genre")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.RecommendByGenres(title), nil
}

func (s *graphService) RecommendByCastCrew(ctx context.Context, title string) ([]graph.Recommendation, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RecommendByCastCrew",
		trace.WithAttributes(attribute.String("movie.title", title)))
	defer span.End()
	defer observeOp("recommend_by_people")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.RecommendByCastCrew(title), nil
}

func (s *graphService) TopPeople(ctx context.Context, role graph.Role, n int) ([]graph.RoleRank, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.TopPeople",
		trace.WithAttributes(
			attribute.String("role", string(role)),
			attribute.Int("n", n)))
	defer span.End()
	defer observeOp("top_people")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	ranks, err := s.app.Graph.TopPeople(role, n)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxOperation, "top_people")
	}
	return ranks, nil
}

func (s *graphService) CommonDirectors(ctx context.Context, actor1, actor2 string) ([]string, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.CommonDirectors",
		trace.WithAttributes(
			attribute.String("person.name", actor1),
			attribute.String("person.other", actor2)))
	defer span.End()
	defer observeOp("common_directors")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.Graph.CommonDirectors(actor1, actor2), nil
}

// --- search ---

func (s *graphService) SearchMovies(ctx context.Context, pattern string, limit int) ([]*graph.Movie, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SearchMovies",
		trace.WithAttributes(attribute.String("pattern", pattern)))
	defer span.End()
	defer observeOp("search_movies")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.searchService().SearchMovies(ctx, pattern, limit)
}

func (s *graphService) SearchPeople(ctx context.Context, pattern string, limit int) ([]*graph.Person, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.SearchPeople",
		trace.WithAttributes(attribute.String("pattern", pattern)))
	defer span.End()
	defer observeOp("search_people")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	return s.app.searchService().SearchPeople(ctx, pattern, limit)
}

// --- operations ---

// RecentChanges reads the changelog tail. With the changelog disabled it
// returns an empty slice rather than an error.
func (s *graphService) RecentChanges(ctx context.Context, limit int) ([]ports.Change, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.RecentChanges")
	defer span.End()
	defer observeOp("recent_changes")()

	if err := s.guard(ctx); err != nil {
		return nil, err
	}
	if s.app.changeStore == nil {
		return []ports.Change{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	changes, err := s.app.changeStore.Recent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "read recent changes")
	}
	return changes, nil
}

func (s *graphService) GraphStats(ctx context.Context) (graph.Stats, error) {
	ctx, span := observability.Tracer.Start(ctx, "graphService.GraphStats")
	defer span.End()
	defer observeOp("graph_stats")()

	if err := s.guard(ctx); err != nil {
		return graph.Stats{}, err
	}
	return s.app.Graph.Stats(), nil
}

func edgeKey(from, to string) string {
	return from + " -> " + to
}

func notFoundErr(kind graph.NodeKind, key string) error {
	err := errors.New(errors.CodeNotFound, string(kind)+" not found")
	err = errors.AddContext(err, errors.CtxKind, string(kind))
	err = errors.AddContext(err, errors.CtxKey, key)
	return err
}

// Package adapters translates between the wire contracts and the graph
// service port: typed inputs go in, service results come back out as the
// JSON payload shapes clients see.
package adapters

import (
	"context"
	"time"

	"cinegraph/internal/core/ports"
	"cinegraph/internal/engine/graph"
	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/shared/util"
)

type Adapter struct {
	service ports.GraphService
}

func NewAdapter(service ports.GraphService) *Adapter {
	return &Adapter{service: service}
}

// --- nodes ---

func (a *Adapter) UpsertMovie(ctx context.Context, in contracts.UpsertMovieInput) (contracts.MovieOutput, error) {
	stored, err := a.service.UpsertMovie(ctx, graph.Movie{Title: in.Title, Released: in.Released, Tagline: in.Tagline})
	if err != nil {
		return contracts.MovieOutput{}, err
	}
	return contracts.MovieOutput{Movie: movieDTO(stored)}, nil
}

func (a *Adapter) GetMovie(ctx context.Context, title string) (contracts.MovieOutput, error) {
	m, err := a.service.GetMovie(ctx, title)
	if err != nil {
		return contracts.MovieOutput{}, err
	}
	return contracts.MovieOutput{Movie: movieDTO(m)}, nil
}

func (a *Adapter) ListMovies(ctx context.Context, in contracts.ListInput) (contracts.MovieListOutput, error) {
	items, total, err := a.service.ListMovies(ctx, in.Page, in.PageSize)
	if err != nil {
		return contracts.MovieListOutput{}, err
	}
	out := contracts.MovieListOutput{
		Items:    make([]contracts.Movie, 0, len(items)),
		PageMeta: pageMeta(in, total),
	}
	for _, m := range items {
		out.Items = append(out.Items, movieDTO(m))
	}
	return out, nil
}

func (a *Adapter) DeleteMovie(ctx context.Context, title string) (contracts.DeleteOutput, error) {
	if err := a.service.DeleteMovie(ctx, title); err != nil {
		return contracts.DeleteOutput{}, err
	}
	return contracts.DeleteOutput{Deleted: true, Kind: string(graph.KindMovie), Key: title}, nil
}

func (a *Adapter) UpsertPerson(ctx context.Context, in contracts.UpsertPersonInput) (contracts.PersonOutput, error) {
	stored, err := a.service.UpsertPerson(ctx, graph.Person{Name: in.Name, Born: in.Born})
	if err != nil {
		return contracts.PersonOutput{}, err
	}
	return contracts.PersonOutput{Person: personDTO(stored)}, nil
}

func (a *Adapter) GetPerson(ctx context.Context, name string) (contracts.PersonOutput, error) {
	p, err := a.service.GetPerson(ctx, name)
	if err != nil {
		return contracts.PersonOutput{}, err
	}
	return contracts.PersonOutput{Person: personDTO(p)}, nil
}

func (a *Adapter) ListPeople(ctx context.Context, in contracts.ListInput) (contracts.PersonListOutput, error) {
	items, total, err := a.service.ListPeople(ctx, in.Page, in.PageSize)
	if err != nil {
		return contracts.PersonListOutput{}, err
	}
	out := contracts.PersonListOutput{
		Items:    make([]contracts.Person, 0, len(items)),
		PageMeta: pageMeta(in, total),
	}
	for _, p := range items {
		out.Items = append(out.Items, personDTO(p))
	}
	return out, nil
}

func (a *Adapter) DeletePerson(ctx context.Context, name string) (contracts.DeleteOutput, error) {
	if err := a.service.DeletePerson(ctx, name); err != nil {
		return contracts.DeleteOutput{}, err
	}
	return contracts.DeleteOutput{Deleted: true, Kind: string(graph.KindPerson), Key: name}, nil
}

func (a *Adapter) UpsertGenre(ctx context.Context, in contracts.UpsertGenreInput) (contracts.GenreOutput, error) {
	stored, err := a.service.UpsertGenre(ctx, graph.Genre{Name: in.Name})
	if err != nil {
		return contracts.GenreOutput{}, err
	}
	return contracts.GenreOutput{Genre: contracts.Genre{Name: stored.Name}}, nil
}

func (a *Adapter) ListGenres(ctx context.Context, in contracts.ListInput) (contracts.GenreListOutput, error) {
	items, total, err := a.service.ListGenres(ctx, in.Page, in.PageSize)
	if err != nil {
		return contracts.GenreListOutput{}, err
	}
	out := contracts.GenreListOutput{
		Items:    make([]contracts.Genre, 0, len(items)),
		PageMeta: pageMeta(in, total),
	}
	for _, g := range items {
		out.Items = append(out.Items, contracts.Genre{Name: g.Name})
	}
	return out, nil
}

func (a *Adapter) DeleteGenre(ctx context.Context, name string) (contracts.DeleteOutput, error) {
	if err := a.service.DeleteGenre(ctx, name); err != nil {
		return contracts.DeleteOutput{}, err
	}
	return contracts.DeleteOutput{Deleted: true, Kind: string(graph.KindGenre), Key: name}, nil
}

func (a *Adapter) UpsertStudio(ctx context.Context, in contracts.UpsertStudioInput) (contracts.StudioOutput, error) {
	stored, err := a.service.UpsertStudio(ctx, graph.Studio{Name: in.Name})
	if err != nil {
		return contracts.StudioOutput{}, err
	}
	return contracts.StudioOutput{Studio: contracts.Studio{Name: stored.Name}}, nil
}

func (a *Adapter) ListStudios(ctx context.Context, in contracts.ListInput) (contracts.StudioListOutput, error) {
	items, total, err := a.service.ListStudios(ctx, in.Page, in.PageSize)
	if err != nil {
		return contracts.StudioListOutput{}, err
	}
	out := contracts.StudioListOutput{
		Items:    make([]contracts.Studio, 0, len(items)),
		PageMeta: pageMeta(in, total),
	}
	for _, st := range items {
		out.Items = append(out.Items, contracts.Studio{Name: st.Name})
	}
	return out, nil
}

func (a *Adapter) DeleteStudio(ctx context.Context, name string) (contracts.DeleteOutput, error) {
	if err := a.service.DeleteStudio(ctx, name); err != nil {
		return contracts.DeleteOutput{}, err
	}
	return contracts.DeleteOutput{Deleted: true, Kind: string(graph.KindStudio), Key: name}, nil
}

// --- edges ---

func (a *Adapter) SetActedIn(ctx context.Context, in contracts.ActedInInput) (contracts.EdgeOutput, error) {
	edge, err := a.service.SetActedIn(ctx, in.Person, in.Movie, in.Roles)
	if err != nil {
		return contracts.EdgeOutput{}, err
	}
	return contracts.EdgeOutput{Edge: edgeDTO(edge)}, nil
}

func (a *Adapter) RemoveActedIn(ctx context.Context, in contracts.CreditInput) (contracts.RemoveEdgeOutput, error) {
	if err := a.service.RemoveActedIn(ctx, in.Person, in.Movie); err != nil {
		return contracts.RemoveEdgeOutput{}, err
	}
	return contracts.RemoveEdgeOutput{Removed: true, Kind: string(graph.EdgeActedIn), From: in.Person, To: in.Movie}, nil
}

func (a *Adapter) SetDirected(ctx context.Context, in contracts.CreditInput) (contracts.EdgeOutput, error) {
	edge, err := a.service.SetDirected(ctx, in.Person, in.Movie)
	if err != nil {
		return contracts.EdgeOutput{}, err
	}
	return contracts.EdgeOutput{Edge: edgeDTO(edge)}, nil
}

func (a *Adapter) RemoveDirected(ctx context.Context, in contracts.CreditInput) (contracts.RemoveEdgeOutput, error) {
	if err := a.service.RemoveDirected(ctx, in.Person, in.Movie); err != nil {
		return contracts.RemoveEdgeOutput{}, err
	}
	return contracts.RemoveEdgeOutput{Removed: true, Kind: string(graph.EdgeDirected), From: in.Person, To: in.Movie}, nil
}

func (a *Adapter) SetGenre(ctx context.Context, in contracts.GenreTagInput) (contracts.EdgeOutput, error) {
	edge, err := a.service.SetHasGenre(ctx, in.Movie, in.Genre)
	if err != nil {
		return contracts.EdgeOutput{}, err
	}
	return contracts.EdgeOutput{Edge: edgeDTO(edge)}, nil
}

func (a *Adapter) RemoveGenre(ctx context.Context, in contracts.GenreTagInput) (contracts.RemoveEdgeOutput, error) {
	if err := a.service.RemoveHasGenre(ctx, in.Movie, in.Genre); err != nil {
		return contracts.RemoveEdgeOutput{}, err
	}
	return contracts.RemoveEdgeOutput{Removed: true, Kind: string(graph.EdgeHasGenre), From: in.Movie, To: in.Genre}, nil
}

func (a *Adapter) SetProduced(ctx context.Context, in contracts.ProducedInput) (contracts.EdgeOutput, error) {
	edge, err := a.service.SetProduced(ctx, in.Studio, in.Movie)
	if err != nil {
		return contracts.EdgeOutput{}, err
	}
	return contracts.EdgeOutput{Edge: edgeDTO(edge)}, nil
}

func (a *Adapter) RemoveProduced(ctx context.Context, in contracts.ProducedInput) (contracts.RemoveEdgeOutput, error) {
	if err := a.service.RemoveProduced(ctx, in.Studio, in.Movie); err != nil {
		return contracts.RemoveEdgeOutput{}, err
	}
	return contracts.RemoveEdgeOutput{Removed: true, Kind: string(graph.EdgeProduced), From: in.Studio, To: in.Movie}, nil
}

// --- traversal queries ---

func (a *Adapter) MoviesByActor(ctx context.Context, name string) (contracts.FilmographyOutput, error) {
	rows, err := a.service.MoviesByActor(ctx, name)
	if err != nil {
		return contracts.FilmographyOutput{}, err
	}
	out := contracts.FilmographyOutput{Movies: make([]contracts.ActedMovie, 0, len(rows))}
	for _, row := range rows {
		out.Movies = append(out.Movies, contracts.ActedMovie{
			Movie: movieDTO(row.Movie),
			Roles: util.CloneStrings(row.Roles),
		})
	}
	return out, nil
}

func (a *Adapter) CastOfMovie(ctx context.Context, title string) (contracts.CastOutput, error) {
	rows, err := a.service.CastOfMovie(ctx, title)
	if err != nil {
		return contracts.CastOutput{}, err
	}
	out := contracts.CastOutput{Cast: make([]contracts.CastMember, 0, len(rows))}
	for _, row := range rows {
		out.Cast = append(out.Cast, contracts.CastMember{
			Person: personDTO(row.Person),
			Roles:  util.CloneStrings(row.Roles),
		})
	}
	return out, nil
}

func (a *Adapter) MoviesByDirector(ctx context.Context, name string) (contracts.MoviesOutput, error) {
	movies, err := a.service.MoviesByDirector(ctx, name)
	if err != nil {
		return contracts.MoviesOutput{}, err
	}
	return contracts.MoviesOutput{Movies: movieDTOs(movies)}, nil
}

func (a *Adapter) DirectorsOfMovie(ctx context.Context, title string) (contracts.DirectorsOutput, error) {
	people, err := a.service.DirectorsOfMovie(ctx, title)
	if err != nil {
		return contracts.DirectorsOutput{}, err
	}
	out := contracts.DirectorsOutput{Directors: make([]contracts.Person, 0, len(people))}
	for _, p := range people {
		out.Directors = append(out.Directors, personDTO(p))
	}
	return out, nil
}

func (a *Adapter) MoviesByGenre(ctx context.Context, name string) (contracts.MoviesOutput, error) {
	movies, err := a.service.MoviesByGenre(ctx, name)
	if err != nil {
		return contracts.MoviesOutput{}, err
	}
	return contracts.MoviesOutput{Movies: movieDTOs(movies)}, nil
}

func (a *Adapter) GenresOfMovie(ctx context.Context, title string) (contracts.GenresOutput, error) {
	genres, err := a.service.GenresOfMovie(ctx, title)
	if err != nil {
		return contracts.GenresOutput{}, err
	}
	out := contracts.GenresOutput{Genres: make([]contracts.Genre, 0, len(genres))}
	for _, g := range genres {
		out.Genres = append(out.Genres, contracts.Genre{Name: g.Name})
	}
	return out, nil
}

func (a *Adapter) StudioOfMovie(ctx context.Context, title string) (contracts.StudioOfMovieOutput, error) {
	st, err := a.service.StudioOfMovie(ctx, title)
	if err != nil {
		return contracts.StudioOfMovieOutput{}, err
	}
	if st == nil {
		return contracts.StudioOfMovieOutput{Found: false}, nil
	}
	return contracts.StudioOfMovieOutput{Found: true, Studio: &contracts.Studio{Name: st.Name}}, nil
}

func (a *Adapter) MoviesByStudio(ctx context.Context, name string) (contracts.MoviesOutput, error) {
	movies, err := a.service.MoviesByStudio(ctx, name)
	if err != nil {
		return contracts.MoviesOutput{}, err
	}
	return contracts.MoviesOutput{Movies: movieDTOs(movies)}, nil
}

// --- analytics ---

func (a *Adapter) CoActors(ctx context.Context, name string) (contracts.CoActorsOutput, error) {
	rows, err := a.service.CoActors(ctx, name)
	if err != nil {
		return contracts.CoActorsOutput{}, err
	}
	out := contracts.CoActorsOutput{CoActors: make([]contracts.CoActor, 0, len(rows))}
	for _, row := range rows {
		out.CoActors = append(out.CoActors, contracts.CoActor{Name: row.Name, SharedMovies: row.SharedMovies})
	}
	return out, nil
}

func (a *Adapter) SharedMovies(ctx context.Context, in contracts.ActorPairInput) (contracts.MoviesOutput, error) {
	movies, err := a.service.SharedMovies(ctx, in.Actor1, in.Actor2)
	if err != nil {
		return contracts.MoviesOutput{}, err
	}
	return contracts.MoviesOutput{Movies: movieDTOs(movies)}, nil
}

func (a *Adapter) ShortestPath(ctx context.Context, in contracts.ShortestPathInput) (contracts.ShortestPathOutput, error) {
	path, found, err := a.service.ShortestPath(ctx, in.From, in.To)
	if err != nil {
		return contracts.ShortestPathOutput{}, err
	}
	if !found {
		return contracts.ShortestPathOutput{Found: false}, nil
	}
	return contracts.ShortestPathOutput{Found: true, Path: pathDTO(path)}, nil
}

func (a *Adapter) RecommendByGenre(ctx context.Context, title string) (contracts.RecommendationsOutput, error) {
	rows, err := a.service.RecommendByGenres(ctx, title)
	if err != nil {
		return contracts.RecommendationsOutput{}, err
	}
	return contracts.RecommendationsOutput{Recommendations: recommendationDTOs(rows)}, nil
}

func (a *Adapter) RecommendByPeople(ctx context.Context, title string) (contracts.RecommendationsOutput, error) {
	rows, err := a.service.RecommendByCastCrew(ctx, title)
	if err != nil {
		return contracts.RecommendationsOutput{}, err
	}
	return contracts.RecommendationsOutput{Recommendations: recommendationDTOs(rows)}, nil
}

func (a *Adapter) TopPeople(ctx context.Context, in contracts.TopPeopleInput) (contracts.TopPeopleOutput, error) {
	ranks, err := a.service.TopPeople(ctx, graph.Role(in.Role), in.N)
	if err != nil {
		return contracts.TopPeopleOutput{}, err
	}
	out := contracts.TopPeopleOutput{Role: in.Role, Entries: make([]contracts.RoleRank, 0, len(ranks))}
	for _, rank := range ranks {
		out.Entries = append(out.Entries, contracts.RoleRank{Name: rank.Name, MovieCount: rank.MovieCount})
	}
	return out, nil
}

func (a *Adapter) CommonDirectors(ctx context.Context, in contracts.ActorPairInput) (contracts.CommonDirectorsOutput, error) {
	names, err := a.service.CommonDirectors(ctx, in.Actor1, in.Actor2)
	if err != nil {
		return contracts.CommonDirectorsOutput{}, err
	}
	return contracts.CommonDirectorsOutput{Directors: names}, nil
}

// --- search and operations ---

func (a *Adapter) SearchMovies(ctx context.Context, in contracts.SearchInput) (contracts.MoviesOutput, error) {
	movies, err := a.service.SearchMovies(ctx, in.Pattern, in.Limit)
	if err != nil {
		return contracts.MoviesOutput{}, err
	}
	return contracts.MoviesOutput{Movies: movieDTOs(movies)}, nil
}

func (a *Adapter) SearchPeople(ctx context.Context, in contracts.SearchInput) (contracts.SearchPeopleOutput, error) {
	people, err := a.service.SearchPeople(ctx, in.Pattern, in.Limit)
	if err != nil {
		return contracts.SearchPeopleOutput{}, err
	}
	out := contracts.SearchPeopleOutput{People: make([]contracts.Person, 0, len(people))}
	for _, p := range people {
		out.People = append(out.People, personDTO(p))
	}
	return out, nil
}

func (a *Adapter) RecentChanges(ctx context.Context, limit int) (contracts.RecentChangesOutput, error) {
	changes, err := a.service.RecentChanges(ctx, limit)
	if err != nil {
		return contracts.RecentChangesOutput{}, err
	}
	out := contracts.RecentChangesOutput{Changes: make([]contracts.Change, 0, len(changes))}
	for _, c := range changes {
		out.Changes = append(out.Changes, contracts.Change{
			ID:        c.ID,
			Operation: string(c.Operation),
			Kind:      c.Kind,
			Key:       c.Key,
			Detail:    c.Detail,
			At:        c.At.UTC().Format(time.RFC3339),
		})
	}
	return out, nil
}

func (a *Adapter) GraphStats(ctx context.Context) (contracts.GraphStatsOutput, error) {
	stats, err := a.service.GraphStats(ctx)
	if err != nil {
		return contracts.GraphStatsOutput{}, err
	}
	out := contracts.GraphStatsOutput{
		Nodes:      make(map[string]int, len(stats.Nodes)),
		Edges:      make(map[string]int, len(stats.Edges)),
		Generation: stats.Generation,
	}
	for kind, count := range stats.Nodes {
		out.Nodes[string(kind)] = count
	}
	for kind, count := range stats.Edges {
		out.Edges[string(kind)] = count
	}
	return out, nil
}

// --- converters ---

func movieDTO(m *graph.Movie) contracts.Movie {
	if m == nil {
		return contracts.Movie{}
	}
	return contracts.Movie{Title: m.Title, Released: m.Released, Tagline: m.Tagline}
}

func movieDTOs(movies []*graph.Movie) []contracts.Movie {
	out := make([]contracts.Movie, 0, len(movies))
	for _, m := range movies {
		out = append(out, movieDTO(m))
	}
	return out
}

func personDTO(p *graph.Person) contracts.Person {
	if p == nil {
		return contracts.Person{}
	}
	return contracts.Person{Name: p.Name, Born: p.Born}
}

func nodeRefDTO(ref graph.NodeRef) contracts.NodeRef {
	return contracts.NodeRef{Kind: string(ref.Kind), Key: ref.Key}
}

func edgeDTO(e *graph.Edge) contracts.Edge {
	if e == nil {
		return contracts.Edge{}
	}
	return contracts.Edge{
		Kind:  string(e.Kind),
		From:  nodeRefDTO(e.From),
		To:    nodeRefDTO(e.To),
		Roles: util.CloneStrings(e.Roles),
		Seq:   e.Seq,
	}
}

func pathDTO(p *graph.Path) *contracts.Path {
	if p == nil {
		return nil
	}
	out := &contracts.Path{
		Nodes:  make([]contracts.NodeRef, 0, len(p.Nodes)),
		Edges:  make([]contracts.PathEdge, 0, len(p.Edges)),
		Length: p.Length,
	}
	for _, ref := range p.Nodes {
		out.Nodes = append(out.Nodes, nodeRefDTO(ref))
	}
	for _, e := range p.Edges {
		out.Edges = append(out.Edges, contracts.PathEdge{
			Kind: string(e.Kind),
			From: nodeRefDTO(e.From),
			To:   nodeRefDTO(e.To),
		})
	}
	return out
}

func recommendationDTOs(rows []graph.Recommendation) []contracts.Recommendation {
	out := make([]contracts.Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, contracts.Recommendation{
			Movie:   movieDTO(row.Movie),
			Score:   row.Score,
			Reasons: util.CloneStrings(row.Reasons),
		})
	}
	return out
}

func pageMeta(in contracts.ListInput, total int) contracts.PageMeta {
	return contracts.PageMeta{
		Page:       in.Page,
		PageSize:   in.PageSize,
		TotalItems: total,
		TotalPages: util.CeilDiv(total, in.PageSize),
	}
}

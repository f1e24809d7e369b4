// Package contracts defines the wire types of the movie_graph tool: the
// operation identifiers, their input and output payloads, and the tool
// error envelope. Everything here marshals to the JSON shapes clients see.
package contracts

import "encoding/json"

const (
	ToolNameMovieGraph = "movie_graph"
	ContractVersion    = "v1"
)

type OperationID string

const (
	OperationUpsertMovie OperationID = "upsert_movie"
	OperationGetMovie    OperationID = "get_movie"
	OperationListMovies  OperationID = "list_movies"
	OperationDeleteMovie OperationID = "delete_movie"

	OperationUpsertPerson OperationID = "upsert_person"
	OperationGetPerson    OperationID = "get_person"
	OperationListPeople   OperationID = "list_people"
	OperationDeletePerson OperationID = "delete_person"

	OperationUpsertGenre OperationID = "upsert_genre"
	OperationListGenres  OperationID = "list_genres"
	OperationDeleteGenre OperationID = "delete_genre"

	OperationUpsertStudio OperationID = "upsert_studio"
	OperationListStudios  OperationID = "list_studios"
	OperationDeleteStudio OperationID = "delete_studio"

	OperationSetActedIn     OperationID = "set_acted_in"
	OperationRemoveActedIn  OperationID = "remove_acted_in"
	OperationSetDirected    OperationID = "set_directed"
	OperationRemoveDirected OperationID = "remove_directed"
	OperationSetGenre       OperationID = "set_genre"
	OperationRemoveGenre    OperationID = "remove_genre"
	OperationSetProduced    OperationID = "set_produced"
	OperationRemoveProduced OperationID = "remove_produced"

	OperationMoviesByActor    OperationID = "movies_by_actor"
	OperationCastOfMovie      OperationID = "cast_of_movie"
	OperationMoviesByDirector OperationID = "movies_by_director"
	OperationDirectorsOfMovie OperationID = "directors_of_movie"
	OperationMoviesByGenre    OperationID = "movies_by_genre"
	OperationGenresOfMovie    OperationID = "genres_of_movie"
	OperationStudioOfMovie    OperationID = "studio_of_movie"
	OperationMoviesByStudio   OperationID = "movies_by_studio"

	OperationCoActors          OperationID = "co_actors"
	OperationSharedMovies      OperationID = "shared_movies"
	OperationShortestPath      OperationID = "shortest_path"
	OperationRecommendByGenre  OperationID = "recommend_by_genre"
	OperationRecommendByPeople OperationID = "recommend_by_people"
	OperationTopPeople         OperationID = "top_people"
	OperationCommonDirectors   OperationID = "common_directors"

	OperationSearchMovies  OperationID = "search_movies"
	OperationSearchPeople  OperationID = "search_people"
	OperationRecentChanges OperationID = "recent_changes"
	OperationGraphStats    OperationID = "graph_stats"
)

// AllOperations lists every operation in a stable order. The tool schema
// enum and the OpenAPI cross-check both derive from this list.
func AllOperations() []OperationID {
	return []OperationID{
		OperationUpsertMovie, OperationGetMovie, OperationListMovies, OperationDeleteMovie,
		OperationUpsertPerson, OperationGetPerson, OperationListPeople, OperationDeletePerson,
		OperationUpsertGenre, OperationListGenres, OperationDeleteGenre,
		OperationUpsertStudio, OperationListStudios, OperationDeleteStudio,
		OperationSetActedIn, OperationRemoveActedIn,
		OperationSetDirected, OperationRemoveDirected,
		OperationSetGenre, OperationRemoveGenre,
		OperationSetProduced, OperationRemoveProduced,
		OperationMoviesByActor, OperationCastOfMovie,
		OperationMoviesByDirector, OperationDirectorsOfMovie,
		OperationMoviesByGenre, OperationGenresOfMovie,
		OperationStudioOfMovie, OperationMoviesByStudio,
		OperationCoActors, OperationSharedMovies, OperationShortestPath,
		OperationRecommendByGenre, OperationRecommendByPeople,
		OperationTopPeople, OperationCommonDirectors,
		OperationSearchMovies, OperationSearchPeople,
		OperationRecentChanges, OperationGraphStats,
	}
}

// MovieGraphToolInput is the argument envelope of the single exposed tool.
type MovieGraphToolInput struct {
	Operation OperationID     `json:"operation"`
	Params    json.RawMessage `json:"params,omitempty"`
}

type OperationDescriptor struct {
	ID          OperationID    `json:"id"`
	Summary     string         `json:"summary,omitempty"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema,omitempty"`
}

// --- entity payloads ---

type Movie struct {
	Title    string `json:"title"`
	Released int    `json:"released,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

type Person struct {
	Name string `json:"name"`
	Born int    `json:"born,omitempty"`
}

type Genre struct {
	Name string `json:"name"`
}

type Studio struct {
	Name string `json:"name"`
}

type NodeRef struct {
	Kind string `json:"kind"`
	Key  string `json:"key"`
}

type Edge struct {
	Kind  string   `json:"kind"`
	From  NodeRef  `json:"from"`
	To    NodeRef  `json:"to"`
	Roles []string `json:"roles,omitempty"`
	Seq   uint64   `json:"seq"`
}

type ActedMovie struct {
	Movie Movie    `json:"movie"`
	Roles []string `json:"roles,omitempty"`
}

type CastMember struct {
	Person Person   `json:"person"`
	Roles  []string `json:"roles,omitempty"`
}

type CoActor struct {
	Name         string `json:"name"`
	SharedMovies int    `json:"sharedMovies"`
}

type Recommendation struct {
	Movie   Movie    `json:"movie"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

type PathEdge struct {
	Kind string  `json:"kind"`
	From NodeRef `json:"from"`
	To   NodeRef `json:"to"`
}

type Path struct {
	Nodes  []NodeRef  `json:"nodes"`
	Edges  []PathEdge `json:"edges"`
	Length int        `json:"length"`
}

type RoleRank struct {
	Name       string `json:"name"`
	MovieCount int    `json:"movieCount"`
}

type Change struct {
	ID        int64  `json:"id"`
	Operation string `json:"operation"`
	Kind      string `json:"kind,omitempty"`
	Key       string `json:"key,omitempty"`
	Detail    string `json:"detail,omitempty"`
	At        string `json:"at"`
}

// --- operation inputs ---

type UpsertMovieInput struct {
	Title    string `json:"title"`
	Released int    `json:"released,omitempty"`
	Tagline  string `json:"tagline,omitempty"`
}

type UpsertPersonInput struct {
	Name string `json:"name"`
	Born int    `json:"born,omitempty"`
}

type UpsertGenreInput struct {
	Name string `json:"name"`
}

type UpsertStudioInput struct {
	Name string `json:"name"`
}

// TitleInput addresses a movie by its natural key.
type TitleInput struct {
	Title string `json:"title"`
}

// NameInput addresses a person, genre, or studio by its natural key.
type NameInput struct {
	Name string `json:"name"`
}

// ListInput pages any of the four node listings.
type ListInput struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`
}

// ActedInInput carries the person->movie credit with its roles. Roles are
// replaced wholesale on re-set.
type ActedInInput struct {
	Person string   `json:"person"`
	Movie  string   `json:"movie"`
	Roles  []string `json:"roles,omitempty"`
}

// CreditInput is a person->movie pair without properties, shared by the
// directed edge operations and acted_in removal.
type CreditInput struct {
	Person string `json:"person"`
	Movie  string `json:"movie"`
}

type GenreTagInput struct {
	Movie string `json:"movie"`
	Genre string `json:"genre"`
}

type ProducedInput struct {
	Studio string `json:"studio"`
	Movie  string `json:"movie"`
}

// ActorPairInput names two actors for the pairwise analytics.
type ActorPairInput struct {
	Actor1 string `json:"actor1"`
	Actor2 string `json:"actor2"`
}

type ShortestPathInput struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type TopPeopleInput struct {
	Role string `json:"role"`
	N    int    `json:"n,omitempty"`
}

type SearchInput struct {
	Pattern string `json:"pattern"`
	Limit   int    `json:"limit,omitempty"`
}

type RecentChangesInput struct {
	Limit int `json:"limit,omitempty"`
}

type GraphStatsInput struct{}

// --- operation outputs ---

// PageMeta is the pagination envelope shared by the list outputs.
// TotalPages is ceil(TotalItems/PageSize).
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

type MovieOutput struct {
	Movie Movie `json:"movie"`
}

type MovieListOutput struct {
	Items []Movie `json:"items"`
	PageMeta
}

type PersonOutput struct {
	Person Person `json:"person"`
}

type PersonListOutput struct {
	Items []Person `json:"items"`
	PageMeta
}

type GenreOutput struct {
	Genre Genre `json:"genre"`
}

type GenreListOutput struct {
	Items []Genre `json:"items"`
	PageMeta
}

type StudioOutput struct {
	Studio Studio `json:"studio"`
}

type StudioListOutput struct {
	Items []Studio `json:"items"`
	PageMeta
}

// DeleteOutput confirms a node removal and its edge cascade.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	Kind    string `json:"kind"`
	Key     string `json:"key"`
}

type EdgeOutput struct {
	Edge Edge `json:"edge"`
}

type RemoveEdgeOutput struct {
	Removed bool   `json:"removed"`
	Kind    string `json:"kind"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type FilmographyOutput struct {
	Movies []ActedMovie `json:"movies"`
}

type CastOutput struct {
	Cast []CastMember `json:"cast"`
}

type MoviesOutput struct {
	Movies []Movie `json:"movies"`
}

type DirectorsOutput struct {
	Directors []Person `json:"directors"`
}

type GenresOutput struct {
	Genres []Genre `json:"genres"`
}

// StudioOfMovieOutput reports the producing studio. Found is false when the
// movie is absent or has no PRODUCED edge; that is not an error.
type StudioOfMovieOutput struct {
	Found  bool    `json:"found"`
	Studio *Studio `json:"studio,omitempty"`
}

type CoActorsOutput struct {
	CoActors []CoActor `json:"coActors"`
}

// ShortestPathOutput reports a connection search. A missing path sets Found
// to false with a nil Path; that is not an error.
type ShortestPathOutput struct {
	Found bool  `json:"found"`
	Path  *Path `json:"path,omitempty"`
}

type RecommendationsOutput struct {
	Recommendations []Recommendation `json:"recommendations"`
}

type TopPeopleOutput struct {
	Role    string     `json:"role"`
	Entries []RoleRank `json:"entries"`
}

type CommonDirectorsOutput struct {
	Directors []string `json:"directors"`
}

type SearchPeopleOutput struct {
	People []Person `json:"people"`
}

type RecentChangesOutput struct {
	Changes []Change `json:"changes"`
}

type GraphStatsOutput struct {
	Nodes      map[string]int `json:"nodes"`
	Edges      map[string]int `json:"edges"`
	Generation uint64         `json:"generation"`
}

// --- error envelope ---

type ToolError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e ToolError) Error() string {
	return e.Message
}

const (
	ErrorInvalidArgument = "invalid_argument"
	ErrorNotFound        = "not_found"
	ErrorConflict        = "conflict"
	ErrorInternal        = "internal"
	ErrorUnavailable     = "unavailable"
)

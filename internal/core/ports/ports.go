package ports

import (
	"context"
	"time"

	"cinegraph/internal/data/seed"
	"cinegraph/internal/engine/graph"
)

// ChangeOperation classifies one changelog entry.
type ChangeOperation string

const (
	ChangeUpsertNode ChangeOperation = "upsert_node"
	ChangeDeleteNode ChangeOperation = "delete_node"
	ChangeSetEdge    ChangeOperation = "set_edge"
	ChangeRemoveEdge ChangeOperation = "remove_edge"
	ChangeSeedLoad   ChangeOperation = "seed_load"
)

// Change is one applied graph mutation, recorded after the fact. The
// changelog is an audit trail, not a write-ahead log: entries are emitted
// once the mutation has committed and are never replayed.
type Change struct {
	ID        int64 // assigned by the store on append
	Operation ChangeOperation
	Kind      string // node or edge kind
	Key       string // node key, or "from -> to" for edges
	Detail    string
	At        time.Time
}

// EnqueueResult reports the outcome of a non-blocking enqueue.
type EnqueueResult string

const (
	EnqueueAccepted EnqueueResult = "accepted"
	EnqueueDropped  EnqueueResult = "dropped"
)

// ChangeQueuePort buffers changes between the write path and the changelog
// worker. Enqueue never blocks; a full queue drops the entry.
type ChangeQueuePort interface {
	Enqueue(change Change) EnqueueResult
	DequeueBatch(ctx context.Context, maxItems int, wait time.Duration) ([]Change, error)
	Close() error
	Len() int
}

// ChangeStorePort persists changelog batches and serves recency queries.
type ChangeStorePort interface {
	Append(ctx context.Context, batch []Change) error
	Recent(ctx context.Context, limit int) ([]Change, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}

// DatasetSource abstracts seed-dataset loading so bootstrap and tests can
// swap file parsing for fixtures.
type DatasetSource interface {
	Load(ctx context.Context, path string) (seed.Dataset, error)
}

// MutationService covers every write operation against the graph.
type MutationService interface {
	UpsertMovie(ctx context.Context, m graph.Movie) (*graph.Movie, error)
	DeleteMovie(ctx context.Context, title string) error
	UpsertPerson(ctx context.Context, p graph.Person) (*graph.Person, error)
	DeletePerson(ctx context.Context, name string) error
	UpsertGenre(ctx context.Context, gn graph.Genre) (*graph.Genre, error)
	DeleteGenre(ctx context.Context, name string) error
	UpsertStudio(ctx context.Context, s graph.Studio) (*graph.Studio, error)
	DeleteStudio(ctx context.Context, name string) error

	SetActedIn(ctx context.Context, person, movie string, roles []string) (*graph.Edge, error)
	RemoveActedIn(ctx context.Context, person, movie string) error
	SetDirected(ctx context.Context, person, movie string) (*graph.Edge, error)
	RemoveDirected(ctx context.Context, person, movie string) error
	SetHasGenre(ctx context.Context, movie, genre string) (*graph.Edge, error)
	RemoveHasGenre(ctx context.Context, movie, genre string) error
	SetProduced(ctx context.Context, studio, movie string) (*graph.Edge, error)
	RemoveProduced(ctx context.Context, studio, movie string) error

	LoadDataset(ctx context.Context, ds seed.Dataset) (seed.LoadStats, error)
}

// LookupService covers exact-match reads, listings, and single-edge follow
// queries. Absent anchors yield empty results, not errors; only the keyed
// gets report NotFound.
type LookupService interface {
	GetMovie(ctx context.Context, title string) (*graph.Movie, error)
	ListMovies(ctx context.Context, page, pageSize int) ([]*graph.Movie, int, error)
	GetPerson(ctx context.Context, name string) (*graph.Person, error)
	ListPeople(ctx context.Context, page, pageSize int) ([]*graph.Person, int, error)
	ListGenres(ctx context.Context, page, pageSize int) ([]*graph.Genre, int, error)
	ListStudios(ctx context.Context, page, pageSize int) ([]*graph.Studio, int, error)

	MoviesByActor(ctx context.Context, name string) ([]graph.ActedMovie, error)
	CastOfMovie(ctx context.Context, title string) ([]graph.CastMember, error)
	MoviesByDirector(ctx context.Context, name string) ([]*graph.Movie, error)
	DirectorsOfMovie(ctx context.Context, title string) ([]*graph.Person, error)
	MoviesByGenre(ctx context.Context, name string) ([]*graph.Movie, error)
	GenresOfMovie(ctx context.Context, title string) ([]*graph.Genre, error)
	StudioOfMovie(ctx context.Context, title string) (*graph.Studio, error)
	MoviesByStudio(ctx context.Context, name string) ([]*graph.Movie, error)
}

// AnalyticsService covers the traversal and ranking queries.
type AnalyticsService interface {
	CoActors(ctx context.Context, name string) ([]graph.CoActor, error)
	SharedMovies(ctx context.Context, actor1, actor2 string) ([]*graph.Movie, error)
	ShortestPath(ctx context.Context, from, to string) (*graph.Path, bool, error)
	RecommendByGenres(ctx context.Context, title string) ([]graph.Recommendation, error)
	RecommendByCastCrew(ctx context.Context, title string) ([]graph.Recommendation, error)
	TopPeople(ctx context.Context, role graph.Role, n int) ([]graph.RoleRank, error)
	CommonDirectors(ctx context.Context, actor1, actor2 string) ([]string, error)
}

// SearchService covers glob-pattern title and name search.
type SearchService interface {
	SearchMovies(ctx context.Context, pattern string, limit int) ([]*graph.Movie, error)
	SearchPeople(ctx context.Context, pattern string, limit int) ([]*graph.Person, error)
}

// OpsService covers operational introspection.
type OpsService interface {
	RecentChanges(ctx context.Context, limit int) ([]Change, error)
	GraphStats(ctx context.Context) (graph.Stats, error)
}

// GraphService is the full driving-port surface exposed to transports and
// the terminal UI.
type GraphService interface {
	MutationService
	LookupService
	AnalyticsService
	SearchService
	OpsService

	Close(ctx context.Context) error
}

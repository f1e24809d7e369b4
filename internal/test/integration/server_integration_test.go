package integration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"cinegraph/internal/core/config"
	"cinegraph/internal/mcp/adapters"
	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/mcp/registry"
	"cinegraph/internal/mcp/runtime"
	"cinegraph/internal/mcp/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startMovieGraphServer wires the seeded application into the full dispatch
// stack and runs it on a mock transport. The mock blocks calls until the
// dispatch loop is draining requests, so tests may call immediately.
func startMovieGraphServer(t *testing.T) *transport.MockAdapter {
	t.Helper()

	svc := newSeededApp(t, nil).GraphService()
	mock := transport.NewMockAdapter()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, err := runtime.New(config.Default(), runtime.Dependencies{Service: svc, Logger: logger}, registry.New(), mock, adapters.NewAdapter(svc), contracts.ToolNameMovieGraph)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil && !errors.Is(err, context.Canceled) {
				t.Errorf("server exited with error: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
	})
	return mock
}

// callOperation drives one tool call through the transport and unwraps the
// versioned response envelope.
func callOperation(t *testing.T, mock *transport.MockAdapter, op contracts.OperationID, params map[string]any) any {
	t.Helper()

	raw, err := mock.CallJSON(contracts.ToolNameMovieGraph, map[string]any{
		"operation": string(op),
		"params":    params,
	})
	require.NoError(t, err, "operation %s", op)

	envelope, ok := raw.(map[string]any)
	require.True(t, ok, "expected envelope map, got %T", raw)
	assert.Equal(t, contracts.ContractVersion, envelope["version"])
	assert.Equal(t, op, envelope["operation"])
	return envelope["result"]
}

// callOperationErr expects the call to fail and returns the wire error.
func callOperationErr(t *testing.T, mock *transport.MockAdapter, op contracts.OperationID, params map[string]any) contracts.ToolError {
	t.Helper()

	_, err := mock.CallJSON(contracts.ToolNameMovieGraph, map[string]any{
		"operation": string(op),
		"params":    params,
	})
	require.Error(t, err, "operation %s", op)

	var toolErr contracts.ToolError
	require.ErrorAs(t, err, &toolErr)
	return toolErr
}

func TestServerPipeline_ReadsAndAnalytics(t *testing.T) {
	mock := startMovieGraphServer(t)

	result := callOperation(t, mock, contracts.OperationGetMovie, map[string]any{"title": "The Matrix"})
	movieOut, ok := result.(contracts.MovieOutput)
	require.True(t, ok, "unexpected result type %T", result)
	assert.Equal(t, 1999, movieOut.Movie.Released)
	assert.Equal(t, "Welcome to the Real World", movieOut.Movie.Tagline)

	result = callOperation(t, mock, contracts.OperationCastOfMovie, map[string]any{"title": "The Matrix"})
	castOut := result.(contracts.CastOutput)
	require.Len(t, castOut.Cast, 3)
	assert.Equal(t, "Carrie-Anne Moss", castOut.Cast[0].Person.Name)
	assert.Equal(t, []string{"Trinity"}, castOut.Cast[0].Roles)

	result = callOperation(t, mock, contracts.OperationCoActors, map[string]any{"name": "Keanu Reeves"})
	coOut := result.(contracts.CoActorsOutput)
	require.Len(t, coOut.CoActors, 3)
	assert.Equal(t, "Carrie-Anne Moss", coOut.CoActors[0].Name)
	assert.Equal(t, 2, coOut.CoActors[0].SharedMovies)

	result = callOperation(t, mock, contracts.OperationShortestPath, map[string]any{"from": "Al Pacino", "to": "Lana Wachowski"})
	pathOut := result.(contracts.ShortestPathOutput)
	require.True(t, pathOut.Found)
	require.NotNil(t, pathOut.Path)
	assert.Equal(t, 4, pathOut.Path.Length)
	assert.Equal(t, "Al Pacino", pathOut.Path.Nodes[0].Key)
	assert.Equal(t, "Lana Wachowski", pathOut.Path.Nodes[len(pathOut.Path.Nodes)-1].Key)

	result = callOperation(t, mock, contracts.OperationTopPeople, map[string]any{"role": "acted", "n": 2})
	topOut := result.(contracts.TopPeopleOutput)
	assert.Equal(t, "acted", topOut.Role)
	require.Len(t, topOut.Entries, 2)
	assert.Equal(t, "Keanu Reeves", topOut.Entries[0].Name)
	assert.Equal(t, 3, topOut.Entries[0].MovieCount)

	result = callOperation(t, mock, contracts.OperationSearchMovies, map[string]any{"pattern": "The Matrix*"})
	searchOut := result.(contracts.MoviesOutput)
	require.Len(t, searchOut.Movies, 2)
	assert.Equal(t, "The Matrix", searchOut.Movies[0].Title)

	result = callOperation(t, mock, contracts.OperationGraphStats, nil)
	statsOut := result.(contracts.GraphStatsOutput)
	assert.Equal(t, 3, statsOut.Nodes["movie"])
	assert.Equal(t, 7, statsOut.Edges["ACTED_IN"])
	assert.NotZero(t, statsOut.Generation)
}

func TestServerPipeline_MutationsPagingAndCascade(t *testing.T) {
	mock := startMovieGraphServer(t)

	result := callOperation(t, mock, contracts.OperationUpsertMovie, map[string]any{"title": "Heat", "released": 1995})
	movieOut := result.(contracts.MovieOutput)
	assert.Equal(t, "Heat", movieOut.Movie.Title)
	assert.Equal(t, 1995, movieOut.Movie.Released)

	result = callOperation(t, mock, contracts.OperationSetActedIn, map[string]any{"person": "Al Pacino", "movie": "Heat", "roles": []string{"Vincent Hanna"}})
	edgeOut := result.(contracts.EdgeOutput)
	assert.Equal(t, "ACTED_IN", edgeOut.Edge.Kind)
	assert.Equal(t, []string{"Vincent Hanna"}, edgeOut.Edge.Roles)

	result = callOperation(t, mock, contracts.OperationGraphStats, nil)
	statsOut := result.(contracts.GraphStatsOutput)
	assert.Equal(t, 4, statsOut.Nodes["movie"])
	assert.Equal(t, 8, statsOut.Edges["ACTED_IN"])

	result = callOperation(t, mock, contracts.OperationListMovies, map[string]any{"page": 2, "pageSize": 2})
	listOut := result.(contracts.MovieListOutput)
	require.Len(t, listOut.Items, 2)
	assert.Equal(t, "The Matrix", listOut.Items[0].Title)
	assert.Equal(t, 2, listOut.Page)
	assert.Equal(t, 4, listOut.TotalItems)
	assert.Equal(t, 2, listOut.TotalPages)

	result = callOperation(t, mock, contracts.OperationDeletePerson, map[string]any{"name": "Al Pacino"})
	deleteOut := result.(contracts.DeleteOutput)
	assert.True(t, deleteOut.Deleted)
	assert.Equal(t, "person", deleteOut.Kind)
	assert.Equal(t, "Al Pacino", deleteOut.Key)

	// Node deletion also removes the cast edges pointing at it.
	result = callOperation(t, mock, contracts.OperationCastOfMovie, map[string]any{"title": "The Devil's Advocate"})
	castOut := result.(contracts.CastOutput)
	require.Len(t, castOut.Cast, 1)
	assert.Equal(t, "Keanu Reeves", castOut.Cast[0].Person.Name)

	toolErr := callOperationErr(t, mock, contracts.OperationGetPerson, map[string]any{"name": "Al Pacino"})
	assert.Equal(t, contracts.ErrorNotFound, toolErr.Code)
}

func TestServerPipeline_ErrorEnvelopes(t *testing.T) {
	mock := startMovieGraphServer(t)

	toolErr := callOperationErr(t, mock, contracts.OperationGetMovie, map[string]any{"title": "Inception"})
	assert.Equal(t, contracts.ErrorNotFound, toolErr.Code)

	toolErr = callOperationErr(t, mock, contracts.OperationListMovies, map[string]any{"page": -1})
	assert.Equal(t, contracts.ErrorInvalidArgument, toolErr.Code)

	toolErr = callOperationErr(t, mock, contracts.OperationTopPeople, map[string]any{"role": "produced"})
	assert.Equal(t, contracts.ErrorInvalidArgument, toolErr.Code)

	_, err := mock.CallJSON("movie_graph_v2", map[string]any{"operation": string(contracts.OperationGraphStats)})
	require.Error(t, err)
	var wrongTool contracts.ToolError
	require.ErrorAs(t, err, &wrongTool)
	assert.Equal(t, contracts.ErrorInvalidArgument, wrongTool.Code)

	_, err = mock.CallJSON(contracts.ToolNameMovieGraph, map[string]any{"params": map[string]any{}})
	require.Error(t, err)
	var missingOp contracts.ToolError
	require.ErrorAs(t, err, &missingOp)
	assert.Equal(t, contracts.ErrorInvalidArgument, missingOp.Code)

	// The changelog is disabled in this fixture; the feed degrades to empty.
	result := callOperation(t, mock, contracts.OperationRecentChanges, nil)
	changesOut := result.(contracts.RecentChangesOutput)
	assert.Empty(t, changesOut.Changes)
}

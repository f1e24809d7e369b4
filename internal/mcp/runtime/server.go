package runtime

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cinegraph/internal/core/config"
	"cinegraph/internal/core/errors"
	"cinegraph/internal/core/ports"
	"cinegraph/internal/mcp/adapters"
	"cinegraph/internal/mcp/contracts"
	"cinegraph/internal/mcp/registry"
	"cinegraph/internal/mcp/transport"
	"cinegraph/internal/mcp/validate"
	"cinegraph/internal/shared/observability"
	"cinegraph/internal/shared/util"
)

type Dependencies struct {
	Service ports.GraphService
	Logger  *slog.Logger

	// Limiters, when set, is shared with the transports so config reloads
	// retune live rate limits.
	Limiters *util.LimiterRegistry
}

// Server owns the tool dispatch loop: it registers the movie_graph tool,
// validates incoming calls, routes them through the adapter, and wraps the
// results in the versioned response envelope.
type Server struct {
	cfg       *config.Config
	deps      Dependencies
	registry  *registry.Registry
	transport transport.Adapter
	adapter   *adapters.Adapter
	toolName  string

	mu      sync.Mutex
	running bool
}

func New(cfg *config.Config, deps Dependencies, reg *registry.Registry, tr transport.Adapter, toolAdapter *adapters.Adapter, toolName string) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("graph service dependency is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if reg == nil {
		reg = registry.New()
	}
	if tr == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if toolAdapter == nil {
		return nil, fmt.Errorf("tool adapter is required")
	}
	if strings.TrimSpace(toolName) == "" {
		toolName = contracts.ToolNameMovieGraph
	}

	return &Server{
		cfg:       cfg,
		deps:      deps,
		registry:  reg,
		transport: tr,
		adapter:   toolAdapter,
		toolName:  toolName,
	}, nil
}

func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		<-ctx.Done()
		return ctx.Err()
	}
	s.running = true
	s.mu.Unlock()

	s.deps.Logger.Info("mcp runtime active", "transport", s.cfg.Server.Transport, "tool", s.toolName)

	if err := s.registerDefaultTool(); err != nil {
		return err
	}

	err := s.transport.Start(ctx, s.handleToolCall)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	return err
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	return s.transport.Stop()
}

func (s *Server) Run(ctx context.Context) error {
	return s.Start(ctx)
}

func (s *Server) registerDefaultTool() error {
	if _, ok := s.registry.HandlerFor(s.toolName); ok {
		return nil
	}
	return s.registry.Register(s.toolName, func(ctx context.Context, input any) (any, error) {
		raw, ok := input.(map[string]any)
		if !ok {
			return nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "tool args must be an object"}
		}
		return s.dispatchOperation(ctx, raw)
	})
}

func (s *Server) handleToolCall(ctx context.Context, tool string, raw map[string]any) (any, error) {
	if strings.TrimSpace(tool) == "" {
		return nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "tool is required"}
	}
	if !strings.EqualFold(tool, s.toolName) {
		return nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("unsupported tool: %s", tool)}
	}

	handler, ok := s.registry.HandlerFor(s.toolName)
	if !ok {
		return nil, contracts.ToolError{Code: contracts.ErrorUnavailable, Message: "tool handler not registered"}
	}

	timeout := s.cfg.Server.RequestTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	out, err := handler(ctx, raw)
	if err != nil {
		toolErr := toToolError(err)
		observability.APIRequestsTotal.WithLabelValues(string(toolErr.Code)).Inc()
		return nil, toolErr
	}
	observability.APIRequestsTotal.WithLabelValues("ok").Inc()
	return out, nil
}

func (s *Server) limits() validate.Limits {
	return validate.Limits{
		DefaultPageSize:  s.cfg.Limits.DefaultPageSize,
		MaxPageSize:      s.cfg.Limits.MaxPageSize,
		TopNMax:          s.cfg.Limits.TopNMax,
		SearchMaxResults: s.cfg.Limits.SearchMaxResults,
	}
}

func (s *Server) dispatchOperation(ctx context.Context, raw map[string]any) (any, error) {
	operation, input, err := validate.ParseToolArgs(s.toolName, raw, s.limits())
	if err != nil {
		return nil, err
	}

	switch operation {
	case contracts.OperationUpsertMovie:
		out, err := s.adapter.UpsertMovie(ctx, input.(contracts.UpsertMovieInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationGetMovie:
		out, err := s.adapter.GetMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationListMovies:
		out, err := s.adapter.ListMovies(ctx, input.(contracts.ListInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationDeleteMovie:
		out, err := s.adapter.DeleteMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err

	case contracts.OperationUpsertPerson:
		out, err := s.adapter.UpsertPerson(ctx, input.(contracts.UpsertPersonInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationGetPerson:
		out, err := s.adapter.GetPerson(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err
	case contracts.OperationListPeople:
		out, err := s.adapter.ListPeople(ctx, input.(contracts.ListInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationDeletePerson:
		out, err := s.adapter.DeletePerson(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err

	case contracts.OperationUpsertGenre:
		out, err := s.adapter.UpsertGenre(ctx, input.(contracts.UpsertGenreInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationListGenres:
		out, err := s.adapter.ListGenres(ctx, input.(contracts.ListInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationDeleteGenre:
		out, err := s.adapter.DeleteGenre(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err

	case contracts.OperationUpsertStudio:
		out, err := s.adapter.UpsertStudio(ctx, input.(contracts.UpsertStudioInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationListStudios:
		out, err := s.adapter.ListStudios(ctx, input.(contracts.ListInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationDeleteStudio:
		out, err := s.adapter.DeleteStudio(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err

	case contracts.OperationSetActedIn:
		out, err := s.adapter.SetActedIn(ctx, input.(contracts.ActedInInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRemoveActedIn:
		out, err := s.adapter.RemoveActedIn(ctx, input.(contracts.CreditInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationSetDirected:
		out, err := s.adapter.SetDirected(ctx, input.(contracts.CreditInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRemoveDirected:
		out, err := s.adapter.RemoveDirected(ctx, input.(contracts.CreditInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationSetGenre:
		out, err := s.adapter.SetGenre(ctx, input.(contracts.GenreTagInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRemoveGenre:
		out, err := s.adapter.RemoveGenre(ctx, input.(contracts.GenreTagInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationSetProduced:
		out, err := s.adapter.SetProduced(ctx, input.(contracts.ProducedInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRemoveProduced:
		out, err := s.adapter.RemoveProduced(ctx, input.(contracts.ProducedInput))
		return wrapToolResult(operation, out), err

	case contracts.OperationMoviesByActor:
		out, err := s.adapter.MoviesByActor(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err
	case contracts.OperationCastOfMovie:
		out, err := s.adapter.CastOfMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationMoviesByDirector:
		out, err := s.adapter.MoviesByDirector(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err
	case contracts.OperationDirectorsOfMovie:
		out, err := s.adapter.DirectorsOfMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationMoviesByGenre:
		out, err := s.adapter.MoviesByGenre(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err
	case contracts.OperationGenresOfMovie:
		out, err := s.adapter.GenresOfMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationStudioOfMovie:
		out, err := s.adapter.StudioOfMovie(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationMoviesByStudio:
		out, err := s.adapter.MoviesByStudio(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err

	case contracts.OperationCoActors:
		out, err := s.adapter.CoActors(ctx, input.(contracts.NameInput).Name)
		return wrapToolResult(operation, out), err
	case contracts.OperationSharedMovies:
		out, err := s.adapter.SharedMovies(ctx, input.(contracts.ActorPairInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationShortestPath:
		out, err := s.adapter.ShortestPath(ctx, input.(contracts.ShortestPathInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRecommendByGenre:
		out, err := s.adapter.RecommendByGenre(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationRecommendByPeople:
		out, err := s.adapter.RecommendByPeople(ctx, input.(contracts.TitleInput).Title)
		return wrapToolResult(operation, out), err
	case contracts.OperationTopPeople:
		out, err := s.adapter.TopPeople(ctx, input.(contracts.TopPeopleInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationCommonDirectors:
		out, err := s.adapter.CommonDirectors(ctx, input.(contracts.ActorPairInput))
		return wrapToolResult(operation, out), err

	case contracts.OperationSearchMovies:
		out, err := s.adapter.SearchMovies(ctx, input.(contracts.SearchInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationSearchPeople:
		out, err := s.adapter.SearchPeople(ctx, input.(contracts.SearchInput))
		return wrapToolResult(operation, out), err
	case contracts.OperationRecentChanges:
		out, err := s.adapter.RecentChanges(ctx, input.(contracts.RecentChangesInput).Limit)
		return wrapToolResult(operation, out), err
	case contracts.OperationGraphStats:
		out, err := s.adapter.GraphStats(ctx)
		return wrapToolResult(operation, out), err

	default:
		return nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("unsupported operation: %s", operation)}
	}
}

func wrapToolResult(operation contracts.OperationID, payload any) any {
	return map[string]any{
		"version":   contracts.ContractVersion,
		"operation": operation,
		"result":    payload,
	}
}

// toToolError maps domain errors onto the wire error envelope. Domain codes
// translate directly; context expiry surfaces as unavailable rather than
// internal.
func toToolError(err error) contracts.ToolError {
	var toolErr contracts.ToolError
	if stderrors.As(err, &toolErr) {
		return toolErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return contracts.ToolError{Code: contracts.ErrorUnavailable, Message: "request timed out"}
	}
	if stderrors.Is(err, context.Canceled) {
		return contracts.ToolError{Code: contracts.ErrorUnavailable, Message: "request cancelled"}
	}

	msg := err.Error()
	var details map[string]any
	var de *errors.DomainError
	if stderrors.As(err, &de) {
		msg = de.Message
		if len(de.Context) > 0 {
			details = de.Context
		}
	}

	code := contracts.ErrorInternal
	switch errors.CodeOf(err) {
	case errors.CodeValidationError:
		code = contracts.ErrorInvalidArgument
	case errors.CodeNotFound:
		code = contracts.ErrorNotFound
	case errors.CodeConflict:
		code = contracts.ErrorConflict
	case errors.CodeUnavailable:
		code = contracts.ErrorUnavailable
	}
	return contracts.ToolError{Code: code, Message: msg, Details: details}
}

// Package validate parses raw tool arguments into typed operation inputs
// and enforces argument shape and limits before anything reaches the graph.
// Keys are passed through byte-for-byte; presence is checked, spelling is not.
package validate

import (
	"encoding/json"
	"fmt"
	"strings"

	"cinegraph/internal/mcp/contracts"
)

const (
	maxRoleCount     = 64
	maxPatternLength = 256
	maxChangesLimit  = 500
)

// Limits carries the configurable caps. The zero value is unusable; call
// DefaultLimits or fill it from the loaded configuration.
type Limits struct {
	DefaultPageSize  int
	MaxPageSize      int
	TopNMax          int
	SearchMaxResults int
}

func DefaultLimits() Limits {
	return Limits{
		DefaultPageSize:  20,
		MaxPageSize:      100,
		TopNMax:          100,
		SearchMaxResults: 50,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = d.DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = d.MaxPageSize
	}
	if l.TopNMax <= 0 {
		l.TopNMax = d.TopNMax
	}
	if l.SearchMaxResults <= 0 {
		l.SearchMaxResults = d.SearchMaxResults
	}
	return l
}

// ParseToolArgs checks the tool envelope, resolves the operation, and
// decodes the params into the operation's input type with defaults applied.
func ParseToolArgs(tool string, raw map[string]any, limits Limits) (contracts.OperationID, any, error) {
	if strings.TrimSpace(tool) == "" {
		return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "tool name is required"}
	}
	if tool != contracts.ToolNameMovieGraph {
		return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("unsupported tool: %s", tool)}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	limits = limits.withDefaults()

	operationRaw, ok := raw["operation"].(string)
	if !ok || strings.TrimSpace(operationRaw) == "" {
		return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "operation is required"}
	}
	operation := contracts.OperationID(strings.TrimSpace(operationRaw))

	params := map[string]any{}
	if rawParams, ok := raw["params"]; ok && rawParams != nil {
		if typed, ok := rawParams.(map[string]any); ok {
			params = typed
		} else {
			return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "params must be an object"}
		}
	}

	switch operation {
	case contracts.OperationUpsertMovie:
		var input contracts.UpsertMovieInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Title == "" {
			return "", nil, requiredError("title")
		}
		return operation, input, nil

	case contracts.OperationUpsertPerson:
		var input contracts.UpsertPersonInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Name == "" {
			return "", nil, requiredError("name")
		}
		return operation, input, nil

	case contracts.OperationUpsertGenre:
		var input contracts.UpsertGenreInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Name == "" {
			return "", nil, requiredError("name")
		}
		return operation, input, nil

	case contracts.OperationUpsertStudio:
		var input contracts.UpsertStudioInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Name == "" {
			return "", nil, requiredError("name")
		}
		return operation, input, nil

	case contracts.OperationGetMovie, contracts.OperationDeleteMovie,
		contracts.OperationCastOfMovie, contracts.OperationDirectorsOfMovie,
		contracts.OperationGenresOfMovie, contracts.OperationStudioOfMovie,
		contracts.OperationRecommendByGenre, contracts.OperationRecommendByPeople:
		var input contracts.TitleInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Title == "" {
			return "", nil, requiredError("title")
		}
		return operation, input, nil

	case contracts.OperationGetPerson, contracts.OperationDeletePerson,
		contracts.OperationDeleteGenre, contracts.OperationDeleteStudio,
		contracts.OperationMoviesByActor, contracts.OperationMoviesByDirector,
		contracts.OperationMoviesByGenre, contracts.OperationMoviesByStudio,
		contracts.OperationCoActors:
		var input contracts.NameInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Name == "" {
			return "", nil, requiredError("name")
		}
		return operation, input, nil

	case contracts.OperationListMovies, contracts.OperationListPeople,
		contracts.OperationListGenres, contracts.OperationListStudios:
		var input contracts.ListInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Page < 0 {
			return "", nil, rangeError("page")
		}
		if input.Page == 0 {
			input.Page = 1
		}
		if input.PageSize < 0 || input.PageSize > limits.MaxPageSize {
			return "", nil, rangeError("pageSize")
		}
		if input.PageSize == 0 {
			input.PageSize = limits.DefaultPageSize
		}
		return operation, input, nil

	case contracts.OperationSetActedIn:
		var input contracts.ActedInInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Person == "" {
			return "", nil, requiredError("person")
		}
		if input.Movie == "" {
			return "", nil, requiredError("movie")
		}
		if len(input.Roles) > maxRoleCount {
			return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "too many roles"}
		}
		return operation, input, nil

	case contracts.OperationRemoveActedIn, contracts.OperationSetDirected,
		contracts.OperationRemoveDirected:
		var input contracts.CreditInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Person == "" {
			return "", nil, requiredError("person")
		}
		if input.Movie == "" {
			return "", nil, requiredError("movie")
		}
		return operation, input, nil

	case contracts.OperationSetGenre, contracts.OperationRemoveGenre:
		var input contracts.GenreTagInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Movie == "" {
			return "", nil, requiredError("movie")
		}
		if input.Genre == "" {
			return "", nil, requiredError("genre")
		}
		return operation, input, nil

	case contracts.OperationSetProduced, contracts.OperationRemoveProduced:
		var input contracts.ProducedInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Studio == "" {
			return "", nil, requiredError("studio")
		}
		if input.Movie == "" {
			return "", nil, requiredError("movie")
		}
		return operation, input, nil

	case contracts.OperationSharedMovies, contracts.OperationCommonDirectors:
		var input contracts.ActorPairInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Actor1 == "" {
			return "", nil, requiredError("actor1")
		}
		if input.Actor2 == "" {
			return "", nil, requiredError("actor2")
		}
		return operation, input, nil

	case contracts.OperationShortestPath:
		var input contracts.ShortestPathInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.From == "" {
			return "", nil, requiredError("from")
		}
		if input.To == "" {
			return "", nil, requiredError("to")
		}
		return operation, input, nil

	case contracts.OperationTopPeople:
		var input contracts.TopPeopleInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		role := strings.ToLower(strings.TrimSpace(input.Role))
		switch role {
		case "acted", "directed":
		default:
			return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "role must be one of: acted, directed"}
		}
		input.Role = role
		if input.N < 0 || input.N > limits.TopNMax {
			return "", nil, rangeError("n")
		}
		if input.N == 0 {
			input.N = 10
		}
		return operation, input, nil

	case contracts.OperationSearchMovies, contracts.OperationSearchPeople:
		var input contracts.SearchInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if len(input.Pattern) > maxPatternLength {
			return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "pattern is too long"}
		}
		if input.Limit < 0 || input.Limit > limits.SearchMaxResults {
			return "", nil, rangeError("limit")
		}
		if input.Limit == 0 {
			input.Limit = limits.SearchMaxResults
		}
		return operation, input, nil

	case contracts.OperationRecentChanges:
		var input contracts.RecentChangesInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		if input.Limit < 0 || input.Limit > maxChangesLimit {
			return "", nil, rangeError("limit")
		}
		if input.Limit == 0 {
			input.Limit = 20
		}
		return operation, input, nil

	case contracts.OperationGraphStats:
		var input contracts.GraphStatsInput
		if err := decodeParams(params, &input); err != nil {
			return "", nil, err
		}
		return operation, input, nil

	default:
		return "", nil, contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("unsupported operation: %s", operation)}
	}
}

func decodeParams(params map[string]any, out any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "invalid params encoding"}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: "invalid params", Details: map[string]any{"error": err.Error()}}
	}
	return nil
}

func requiredError(field string) error {
	return contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("%s is required", field)}
}

func rangeError(field string) error {
	return contracts.ToolError{Code: contracts.ErrorInvalidArgument, Message: fmt.Sprintf("%s is out of range", field)}
}

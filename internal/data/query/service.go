// # internal/data/query/service.go
//
// Glob-filtered catalog search over the in-memory graph. Patterns use
// gobwas/glob syntax and match case-insensitively against the full key.
package query

import (
	"context"
	"strings"

	"github.com/gobwas/glob"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/engine/graph"
)

const defaultMaxResults = 50

type Service struct {
	graph      *graph.Graph
	maxResults int
}

func NewService(g *graph.Graph, maxResults int) *Service {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Service{
		graph:      g,
		maxResults: maxResults,
	}
}

// SearchMovies returns movies whose title matches pattern, title-ascending,
// capped at limit. An empty pattern matches everything.
func (s *Service) SearchMovies(ctx context.Context, pattern string, limit int) ([]*graph.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matcher, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	limit = s.capLimit(limit)
	matches := make([]*graph.Movie, 0, limit)
	for _, title := range s.graph.MovieTitles() {
		if !matcher.Match(strings.ToLower(title)) {
			continue
		}
		if m, ok := s.graph.GetMovie(title); ok {
			matches = append(matches, m)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

// SearchPeople returns people whose name matches pattern, name-ascending,
// capped at limit. An empty pattern matches everything.
func (s *Service) SearchPeople(ctx context.Context, pattern string, limit int) ([]*graph.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matcher, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}

	limit = s.capLimit(limit)
	matches := make([]*graph.Person, 0, limit)
	for _, name := range s.graph.PersonNames() {
		if !matcher.Match(strings.ToLower(name)) {
			continue
		}
		if p, ok := s.graph.GetPerson(name); ok {
			matches = append(matches, p)
		}
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (s *Service) capLimit(limit int) int {
	if limit <= 0 || limit > s.maxResults {
		return s.maxResults
	}
	return limit
}

func compilePattern(pattern string) (glob.Glob, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		pattern = "*"
	}
	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		wrapped := errors.Wrap(err, errors.CodeValidationError, "invalid search pattern")
		wrapped = errors.AddContext(wrapped, errors.CtxKey, pattern)
		return nil, wrapped
	}
	return g, nil
}

// # internal/engine/graph/rank.go
package graph

import (
	"sort"

	"cinegraph/internal/core/errors"
	"cinegraph/internal/shared/util"
)

// maxRecommendations caps both recommendation queries.
const maxRecommendations = 10

// CoActors counts, for every other person, the distinct movies they share
// with the named actor via ACTED_IN. The anchor never appears in its own
// result. Sorted by shared-movie count descending, then name ascending; an
// unknown actor yields an empty result.
func (g *Graph) CoActors(name string) []CoActor {
	g.mu.RLock()
	defer g.mu.RUnlock()

	anchor := NodeRef{Kind: KindPerson, Key: name}
	counts := make(map[string]int)
	for movie := range g.out[anchor][EdgeActedIn] {
		for other := range g.in[movie][EdgeActedIn] {
			if other == anchor {
				continue
			}
			// Edge uniqueness makes each (movie, person) pair appear once,
			// so this is a distinct-movie count.
			counts[other.Key]++
		}
	}

	result := make([]CoActor, 0, len(counts))
	for coActor, shared := range counts {
		result = append(result, CoActor{Name: coActor, SharedMovies: shared})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].SharedMovies != result[j].SharedMovies {
			return result[i].SharedMovies > result[j].SharedMovies
		}
		return result[i].Name < result[j].Name
	})
	return result
}

// SharedMovies intersects the ACTED_IN filmographies of two actors,
// title-ascending.
func (g *Graph) SharedMovies(actor1, actor2 string) []*Movie {
	g.mu.RLock()
	defer g.mu.RUnlock()

	first := NodeRef{Kind: KindPerson, Key: actor1}
	second := NodeRef{Kind: KindPerson, Key: actor2}

	var result []*Movie
	for movie := range g.out[first][EdgeActedIn] {
		if _, ok := g.out[second][EdgeActedIn][movie]; !ok {
			continue
		}
		if m, ok := g.movies[movie.Key]; ok {
			result = append(result, cloneMovie(m))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return result
}

// RecommendByGenres suggests movies sharing at least one genre with the
// anchor, scored by the number of distinct shared genres. Reasons carry the
// shared genre names, ascending. Capped at maxRecommendations.
func (g *Graph) RecommendByGenres(title string) []Recommendation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	anchor := NodeRef{Kind: KindMovie, Key: title}
	if !g.hasNodeLocked(anchor) {
		return nil
	}
	if recs, ok := g.analytics.getRecommendations(g.generation, "genre", title); ok {
		return recs
	}

	shared := make(map[string][]string)
	for genre := range g.out[anchor][EdgeHasGenre] {
		for other := range g.in[genre][EdgeHasGenre] {
			if other == anchor {
				continue
			}
			shared[other.Key] = append(shared[other.Key], genre.Key)
		}
	}

	recs := g.rankSharedLocked(shared)
	g.analytics.putRecommendations(g.generation, "genre", title, recs)
	return recs
}

// RecommendByCastCrew suggests movies sharing actors or directors with the
// anchor, scored by the number of distinct shared people. A person who both
// acted in and directed a movie counts once. Reasons carry the shared
// people's names, ascending. Capped at maxRecommendations.
func (g *Graph) RecommendByCastCrew(title string) []Recommendation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	anchor := NodeRef{Kind: KindMovie, Key: title}
	if !g.hasNodeLocked(anchor) {
		return nil
	}
	if recs, ok := g.analytics.getRecommendations(g.generation, "people", title); ok {
		return recs
	}

	people := make(map[NodeRef]bool)
	for _, kind := range []EdgeKind{EdgeActedIn, EdgeDirected} {
		for p := range g.in[anchor][kind] {
			people[p] = true
		}
	}

	sharedSets := make(map[string]map[string]bool)
	for p := range people {
		for _, kind := range []EdgeKind{EdgeActedIn, EdgeDirected} {
			for other := range g.out[p][kind] {
				if other == anchor {
					continue
				}
				if sharedSets[other.Key] == nil {
					sharedSets[other.Key] = make(map[string]bool)
				}
				sharedSets[other.Key][p.Key] = true
			}
		}
	}

	shared := make(map[string][]string, len(sharedSets))
	for movie, names := range sharedSets {
		shared[movie] = util.SortedStringKeys(names)
	}

	recs := g.rankSharedLocked(shared)
	g.analytics.putRecommendations(g.generation, "people", title, recs)
	return recs
}

// rankSharedLocked turns a movie -> shared-attribute map into a ranked,
// capped recommendation list. Score is the attribute count; ties break by
// title ascending.
func (g *Graph) rankSharedLocked(shared map[string][]string) []Recommendation {
	recs := make([]Recommendation, 0, len(shared))
	for title, reasons := range shared {
		m, ok := g.movies[title]
		if !ok {
			continue
		}
		sort.Strings(reasons)
		recs = append(recs, Recommendation{Movie: cloneMovie(m), Score: len(reasons), Reasons: reasons})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Movie.Title < recs[j].Movie.Title
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// TopPeople ranks people by distinct movie count for one role. People with no
// edges of that role are excluded. Sorted by count descending, then name
// ascending, truncated to n.
func (g *Graph) TopPeople(role Role, n int) ([]RoleRank, error) {
	if n < 1 {
		return nil, errors.Newf(errors.CodeValidationError, "n must be >= 1, got %d", n)
	}
	var kind EdgeKind
	switch role {
	case RoleActed:
		kind = EdgeActedIn
	case RoleDirected:
		kind = EdgeDirected
	default:
		return nil, errors.Newf(errors.CodeValidationError, "unknown role: %s", role)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	ranks := make([]RoleRank, 0, len(g.people))
	for name := range g.people {
		count := len(g.out[NodeRef{Kind: KindPerson, Key: name}][kind])
		if count == 0 {
			continue
		}
		ranks = append(ranks, RoleRank{Name: name, MovieCount: count})
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].MovieCount != ranks[j].MovieCount {
			return ranks[i].MovieCount > ranks[j].MovieCount
		}
		return ranks[i].Name < ranks[j].Name
	})
	if len(ranks) > n {
		ranks = ranks[:n]
	}
	return ranks, nil
}

// CommonDirectors intersects the director sets of two actors' filmographies.
// Names are deduplicated and sorted ascending.
func (g *Graph) CommonDirectors(actor1, actor2 string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	first := g.filmographyDirectorsLocked(NodeRef{Kind: KindPerson, Key: actor1})
	second := g.filmographyDirectorsLocked(NodeRef{Kind: KindPerson, Key: actor2})

	var result []string
	for name := range first {
		if second[name] {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

func (g *Graph) filmographyDirectorsLocked(actor NodeRef) map[string]bool {
	directors := make(map[string]bool)
	for movie := range g.out[actor][EdgeActedIn] {
		for d := range g.in[movie][EdgeDirected] {
			directors[d.Key] = true
		}
	}
	return directors
}

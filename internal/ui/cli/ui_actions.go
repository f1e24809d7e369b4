package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyActions(msg tea.KeyMsg, m model) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.mode == panelChanges {
			m.mode = panelMovies
		} else {
			m.mode = panelChanges
		}
		return m, nil
	case "r":
		return m, refreshCmd(m.svc)
	}

	if m.mode != panelMovies {
		var cmd tea.Cmd
		m.changeList, cmd = m.changeList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		return openMovieDetails(m)
	case "esc", "backspace":
		m.hasDetails = false
		m.detailsErr = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

// openMovieDetails queries the service in place. The backing graph is
// in-process, so the blocking calls return fast enough for key handling.
func openMovieDetails(m model) (model, tea.Cmd) {
	if m.svc == nil || len(m.movies) == 0 {
		return m, nil
	}
	idx := m.movieList.Index()
	if idx < 0 || idx >= len(m.movies) {
		idx = 0
	}
	title := m.movies[idx].Title

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	details := movieDetails{movie: *m.movies[idx]}

	cast, err := m.svc.CastOfMovie(ctx, title)
	if err != nil {
		m.details = details
		m.detailsErr = err.Error()
		m.hasDetails = true
		return m, nil
	}
	details.cast = cast

	if directors, err := m.svc.DirectorsOfMovie(ctx, title); err == nil {
		for _, d := range directors {
			details.directors = append(details.directors, d.Name)
		}
	}
	if genres, err := m.svc.GenresOfMovie(ctx, title); err == nil {
		for _, g := range genres {
			details.genres = append(details.genres, g.Name)
		}
	}
	if studio, err := m.svc.StudioOfMovie(ctx, title); err == nil && studio != nil {
		details.studio = studio.Name
	}

	m.details = details
	m.detailsErr = ""
	m.hasDetails = true
	return m, nil
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cinegraph/internal/core/ports"
	"cinegraph/internal/engine/graph"
	"cinegraph/internal/shared/util"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	refreshInterval    = 2 * time.Second
	refreshTimeout     = 2 * time.Second
	moviePageSize      = 50
	recentChangesLimit = 50
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type panel int

const (
	panelChanges panel = iota
	panelMovies
)

type changeItem struct {
	change ports.Change
}

func (i changeItem) Title() string {
	return fmt.Sprintf("%s %s", i.change.Operation, i.change.Kind)
}

func (i changeItem) Description() string {
	parts := []string{i.change.Key}
	if i.change.Detail != "" {
		// Seed-load details carry the full per-kind counts; keep the row on
		// one line.
		parts = append(parts, util.Truncate(i.change.Detail, 60))
	}
	parts = append(parts, i.change.At.Local().Format("15:04:05"))
	return strings.Join(parts, " | ")
}

func (i changeItem) FilterValue() string { return i.change.Key + i.change.Detail }

type movieItem struct {
	movie *graph.Movie
}

func (i movieItem) Title() string { return i.movie.Title }

func (i movieItem) Description() string {
	desc := fmt.Sprintf("released %d", i.movie.Released)
	if i.movie.Tagline != "" {
		desc += " | " + i.movie.Tagline
	}
	return desc
}

func (i movieItem) FilterValue() string { return i.movie.Title + i.movie.Tagline }

type movieDetails struct {
	movie     graph.Movie
	cast      []graph.CastMember
	directors []string
	genres    []string
	studio    string
}

type model struct {
	svc ports.GraphService

	mode       panel
	changeList list.Model
	movieList  list.Model
	movies     []*graph.Movie

	stats       graph.Stats
	lastRefresh time.Time
	refreshErr  string

	hasDetails bool
	details    movieDetails
	detailsErr string
}

type tickMsg time.Time

type refreshMsg struct {
	stats   graph.Stats
	changes []ports.Change
	movies  []*graph.Movie
	err     error
}

func (m model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.svc), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshCmd(svc ports.GraphService) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return refreshMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		stats, err := svc.GraphStats(ctx)
		if err != nil {
			return refreshMsg{err: err}
		}
		changes, err := svc.RecentChanges(ctx, recentChangesLimit)
		if err != nil {
			return refreshMsg{stats: stats, err: err}
		}
		movies, _, err := svc.ListMovies(ctx, 1, moviePageSize)
		if err != nil {
			return refreshMsg{stats: stats, changes: changes, err: err}
		}
		return refreshMsg{stats: stats, changes: changes, movies: movies}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyActions(msg, m)
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.changeList.SetSize(msg.Width-h, msg.Height-v-4)
		m.movieList.SetSize(msg.Width-h, msg.Height-v-4)
	case tickMsg:
		return m, tea.Batch(refreshCmd(m.svc), tickCmd())
	case refreshMsg:
		if msg.err != nil {
			m.refreshErr = msg.err.Error()
		} else {
			m.refreshErr = ""
		}
		m.stats = msg.stats
		m.movies = msg.movies
		m.lastRefresh = time.Now()

		changeItems := make([]list.Item, 0, len(msg.changes))
		for _, c := range msg.changes {
			changeItems = append(changeItems, changeItem{change: c})
		}
		m.changeList.SetItems(changeItems)

		movieItems := make([]list.Item, 0, len(msg.movies))
		for _, mv := range msg.movies {
			movieItems = append(movieItems, movieItem{movie: mv})
		}
		m.movieList.SetItems(movieItems)
	}

	var cmd tea.Cmd
	if m.mode == panelMovies {
		m.movieList, cmd = m.movieList.Update(msg)
	} else {
		m.changeList, cmd = m.changeList.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last refresh: %s | generation %d",
		m.lastRefresh.Format("15:04:05"), m.stats.Generation))

	edges := 0
	for _, count := range m.stats.Edges {
		edges += count
	}
	counts := countStyle.Render(fmt.Sprintf("%d movies | %d people | %d genres | %d studios | %d edges",
		m.stats.Nodes[graph.KindMovie],
		m.stats.Nodes[graph.KindPerson],
		m.stats.Nodes[graph.KindGenre],
		m.stats.Nodes[graph.KindStudio],
		edges))

	header := fmt.Sprintf("%s\n%s\n%s\n", titleStyle("Movie Graph Monitor"), status, counts)
	if m.refreshErr != "" {
		header += errorStyle.Render("refresh failed: "+m.refreshErr) + "\n"
	}

	if m.hasDetails {
		return docStyle.Render(header + "\n" + renderMovieDetails(m))
	}

	if m.mode == panelMovies {
		return docStyle.Render(header + "\n" + m.movieList.View())
	}
	return docStyle.Render(header + "\n" + m.changeList.View())
}

func renderMovieDetails(m model) string {
	var b strings.Builder
	b.WriteString(titleStyle(m.details.movie.Title) + "\n")
	if m.detailsErr != "" {
		b.WriteString(errorStyle.Render(m.detailsErr) + "\n")
		return b.String()
	}

	if m.details.movie.Released != 0 {
		b.WriteString(fmt.Sprintf("Released: %d\n", m.details.movie.Released))
	}
	if m.details.movie.Tagline != "" {
		b.WriteString(fmt.Sprintf("Tagline: %s\n", m.details.movie.Tagline))
	}
	if m.details.studio != "" {
		b.WriteString(fmt.Sprintf("Studio: %s\n", m.details.studio))
	}
	if len(m.details.genres) > 0 {
		b.WriteString("Genres: " + strings.Join(m.details.genres, ", ") + "\n")
	}
	if len(m.details.directors) > 0 {
		b.WriteString("Directed by: " + strings.Join(m.details.directors, ", ") + "\n")
	}
	if len(m.details.cast) > 0 {
		b.WriteString(fmt.Sprintf("Cast (%d):\n", len(m.details.cast)))
		for _, member := range m.details.cast {
			line := "  " + member.Person.Name
			if len(member.Roles) > 0 {
				line += " as " + strings.Join(member.Roles, ", ")
			}
			b.WriteString(line + "\n")
		}
	}
	b.WriteString("\n" + statusStyle.Render("esc to go back"))
	return b.String()
}

func initialModel(svc ports.GraphService) model {
	changes := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	changes.Title = "Recent Changes"
	changes.SetShowStatusBar(false)
	changes.SetFilteringEnabled(true)

	movies := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	movies.Title = "Movies"
	movies.SetShowStatusBar(false)
	movies.SetFilteringEnabled(true)

	return model{
		svc:         svc,
		changeList:  changes,
		movieList:   movies,
		lastRefresh: time.Now(),
	}
}

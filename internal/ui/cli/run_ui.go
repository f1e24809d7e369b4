package cli

import (
	"cinegraph/internal/core/ports"

	tea "github.com/charmbracelet/bubbletea"
)

func runUI(service ports.GraphService) error {
	m := initialModel(service)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

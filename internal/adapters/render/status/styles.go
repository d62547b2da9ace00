package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	game    lipgloss.Style
	detail  lipgloss.Style
	running lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	meta    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		game:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		running: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

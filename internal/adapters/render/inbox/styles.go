package inbox

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	unread   lipgloss.Style
	read     lipgloss.Style
	detail   lipgloss.Style
	empty    lipgloss.Style
	key      lipgloss.Style
	barFill  lipgloss.Style
	barEmpty lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		unread:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		read:     lipgloss.NewStyle().Faint(true),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:    lipgloss.NewStyle().Faint(true),
		key:      lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		barFill:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		barEmpty: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}

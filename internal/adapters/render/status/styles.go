package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	lesson    lipgloss.Style
	detail    lipgloss.Style
	dirty     lipgloss.Style
	synced    lipgloss.Style
	section   lipgloss.Style
	empty     lipgloss.Style
	cacheFull lipgloss.Style
	cacheNone lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		lesson:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		dirty:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		synced:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		section:   lipgloss.NewStyle().MarginTop(1),
		empty:     lipgloss.NewStyle().Faint(true),
		cacheFull: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		cacheNone: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

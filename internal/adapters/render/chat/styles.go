package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	speaker  lipgloss.Style
	user     lipgloss.Style
	reply    lipgloss.Style
	badge    lipgloss.Style
	reject   lipgloss.Style
	fallback lipgloss.Style
	artifact lipgloss.Style
	missing  lipgloss.Style
	section  lipgloss.Style
	empty    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		speaker:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("183")),
		user:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		reply:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		reject:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		fallback: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		artifact: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		missing:  lipgloss.NewStyle().Faint(true),
		section:  lipgloss.NewStyle().MarginTop(1),
		empty:    lipgloss.NewStyle().Faint(true),
	}
}

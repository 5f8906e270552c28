package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	muted      lipgloss.Style
	cursor     lipgloss.Style
	selected   lipgloss.Style
	done       lipgloss.Style
	errorText  lipgloss.Style
	blockLabel lipgloss.Style
	paneBorder lipgloss.Style
	activePane lipgloss.Style
	bar        lipgloss.Style
	modal      lipgloss.Style
}

func newStyles(theme string) styles {
	fg, muted, accent, border := lipgloss.Color("235"), lipgloss.Color("244"), lipgloss.Color("25"), lipgloss.Color("250")
	if theme == "dark" {
		fg, muted, accent, border = lipgloss.Color("252"), lipgloss.Color("242"), lipgloss.Color("75"), lipgloss.Color("238")
	}

	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1)
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:      lipgloss.NewStyle().Foreground(muted),
		cursor:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:       lipgloss.NewStyle().Foreground(muted).Strikethrough(true),
		errorText:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		blockLabel: lipgloss.NewStyle().Foreground(muted).Italic(true),
		paneBorder: pane,
		activePane: pane.BorderForeground(accent),
		bar:        lipgloss.NewStyle().Reverse(true).Padding(0, 1),
		modal:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(1, 2),
	}
}

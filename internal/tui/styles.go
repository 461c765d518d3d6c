package tui

import (
	"filechooser/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles used by the chooser view.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Crumb     lipgloss.Style
	Cursor    lipgloss.Style
	File      lipgloss.Style
	Directory lipgloss.Style
	Symlink   lipgloss.Style
	Selected  lipgloss.Style
	Disabled  lipgloss.Style
	Detail    lipgloss.Style
	Status    lipgloss.Style
	Partial   lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

// NewStyles builds styles from a theme palette.
func NewStyles(theme config.ThemeConfig) Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Primary)),
		Crumb: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Emphasis)),
		Cursor: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Primary)),
		File: lipgloss.NewStyle(),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Info)).
			Bold(true),
		Symlink: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Info)).
			Italic(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Success)).
			Bold(true),
		Disabled: lipgloss.NewStyle().
			Faint(true),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Border)).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Emphasis)),
		Partial: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Error)),
		Help: lipgloss.NewStyle().
			Faint(true),
	}
}

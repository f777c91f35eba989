package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#FF8C42")
	muted  = lipgloss.Color("#6B7280")
	warm   = lipgloss.Color("#FFB84D")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warm)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	CheckedStyle = lipgloss.NewStyle().
			Foreground(warm).
			Bold(true)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1F1F1F")).
			Background(accent).
			Padding(0, 1)

	TabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4757")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(warm).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)

	TableBorderStyle = lipgloss.NewStyle().Foreground(muted)

	// SeriesStyles colour chart bars by series index.
	SeriesStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(accent),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#4DA3FF")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#7BD88F")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("#C792EA")),
	}
)

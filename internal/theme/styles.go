package theme

import "github.com/charmbracelet/lipgloss"

// Plan output styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Width(14)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary).
			MarginTop(1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Marker styles
var (
	BlockedStyle = lipgloss.NewStyle().
			Foreground(ColorBlocked).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorDone)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ReadOnlyStyle = lipgloss.NewStyle().
			Foreground(ColorReadOnly)
)

// StatusStyle returns the style for a status rendered in color
func StatusStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

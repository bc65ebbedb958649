package display

import "github.com/charmbracelet/lipgloss"

const (
	colorPurple = lipgloss.Color("#7C3AED")
	colorBlue   = lipgloss.Color("#3B82F6")
	colorGreen  = lipgloss.Color("#10B981")
	colorAmber  = lipgloss.Color("#F59E0B")
	colorRed    = lipgloss.Color("#EF4444")
	colorGray   = lipgloss.Color("#6B7280")
	colorPanel  = lipgloss.Color("#1F2937")
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPurple).
		Background(colorPanel).
		Padding(0, 1)

	headingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorBlue)

	cardStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(colorGray).
		Padding(0, 1)

	errorCardStyle = cardStyle.
		BorderForeground(colorRed).
		Align(lipgloss.Center)

	readyCardStyle = cardStyle.
		BorderForeground(colorPurple).
		Align(lipgloss.Center)

	mutedStyle = lipgloss.NewStyle().Foreground(colorGray)
	valueStyle = lipgloss.NewStyle().Bold(true)

	upStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	downStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	flatStyle = lipgloss.NewStyle().Foreground(colorAmber).Bold(true)

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorPurple).
		Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorGray).
		Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)
)

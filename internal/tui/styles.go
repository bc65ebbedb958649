package tui

import "github.com/charmbracelet/lipgloss"

var (
	appTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED"))

	sidebarStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 1)

	labelStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
	focusedLabelStyle = labelStyle.Foreground(lipgloss.Color("#F59E0B"))
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)

	buttonStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#7C3AED")).
		Padding(0, 2)

	disabledButtonStyle = buttonStyle.
		Background(lipgloss.Color("#374151")).
		Foreground(lipgloss.Color("#9CA3AF"))

	noticeStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(0, 1)

	destructiveNoticeStyle = noticeStyle.
		BorderForeground(lipgloss.Color("#EF4444"))
)

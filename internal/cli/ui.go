package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dyike/cortexdash/internal/dashboard"
)

var (
	bannerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(0, 2).
		Align(lipgloss.Center).
		Width(64)

	taglineStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true)

	sectionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner(w io.Writer) {
	fmt.Fprintln(w, bannerStyle.Render("📊 CortexDash "+Version+"\nTechnical Analysis Dashboard"))
	fmt.Fprintln(w, taglineStyle.Render("Price metrics, indicators and recommendations from your analysis service"))
	fmt.Fprintln(w)
}

// DisplaySection prints a heading followed by a rule of the same width.
func DisplaySection(w io.Writer, title string) {
	fmt.Fprintln(w, sectionStyle.Render(title))
	fmt.Fprintln(w, mutedStyle.Render(strings.Repeat("═", lipgloss.Width(title)+8)))
}

func DisplayError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("❌ Error: %s", err.Error())))
}

func DisplayWarning(w io.Writer, message string) {
	fmt.Fprintln(w, warningStyle.Render(fmt.Sprintf("⚠️  %s", message)))
}

func DisplayInfo(w io.Writer, message string) {
	fmt.Fprintln(w, infoStyle.Render(fmt.Sprintf("ℹ️  %s", message)))
}

func DisplaySuccess(w io.Writer, message string) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf("✅ %s", message)))
}

// consoleNotifier prints dashboard notices as one-line messages.
type consoleNotifier struct {
	w io.Writer
}

func (n consoleNotifier) Notify(notice dashboard.Notice) {
	text := notice.Title
	if notice.Description != "" {
		text += ": " + notice.Description
	}

	switch {
	case notice.Variant == dashboard.VariantDestructive:
		fmt.Fprintln(n.w, errorStyle.Render("❌ "+text))
	case notice.Title == "Analysis Complete":
		DisplaySuccess(n.w, text)
	default:
		DisplayInfo(n.w, text)
	}
}

// displayKeyValues prints aligned "key: value" rows.
func displayKeyValues(w io.Writer, rows [][2]string) {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-*s  %s\n", width+1, row[0]+":", row[1])
	}
}

// displayList prints items in columns that fit within 72 characters.
func displayList(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (none)"))
		return
	}
	width := 0
	for _, item := range items {
		width = max(width, len(item))
	}
	perRow := max(72/(width+4), 1)
	for i, item := range items {
		fmt.Fprintf(w, "  • %-*s", width, item)
		if (i+1)%perRow == 0 || i == len(items)-1 {
			fmt.Fprintln(w)
		}
	}
}

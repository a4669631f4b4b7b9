package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"docq/internal/api"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF00")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D700")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)
)

// StatusBadge renders a colored, upper-cased status label.
func StatusBadge(s api.Status) string {
	label := strings.ToUpper(string(s))
	switch s {
	case api.StatusDone:
		return doneStyle.Render(label)
	case api.StatusError:
		return errorStyle.Render(label)
	default:
		return pendingStyle.Render(label)
	}
}

// Gate renders the availability of a download action.
func Gate(enabled bool) string {
	if enabled {
		return doneStyle.Render("available")
	}
	return subtleStyle.Render("waiting")
}

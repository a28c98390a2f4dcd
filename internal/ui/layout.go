package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/tasknest/internal/model"
	"github.com/nhle/tasknest/internal/theme"
)

// MaxToasts caps how many notifications the footer shows at once.
const MaxToasts = 3

// Layout manages the terminal layout dimensions.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	ToastHeight     int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header, toasts and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight - l.ToastHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the top header bar with a title and a status string.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderToasts stacks the newest notifications, most recent last.
// It returns "" when there is nothing to show.
func (l Layout) RenderToasts(notes []model.Notification) string {
	if len(notes) == 0 {
		return ""
	}
	if len(notes) > MaxToasts {
		notes = notes[len(notes)-MaxToasts:]
	}

	width := l.Width - 2
	if width > 60 {
		width = 60
	}

	rows := make([]string, 0, len(notes))
	for _, n := range notes {
		title := lipgloss.NewStyle().Bold(true).Render(n.Title)
		body := title
		if n.Message != "" {
			body = title + "  " + n.Message
		}
		rows = append(rows, theme.NotificationStyle(n.Type).Width(width).Render(body))
	}
	return lipgloss.PlaceHorizontal(l.Width, lipgloss.Right,
		lipgloss.JoinVertical(lipgloss.Right, rows...))
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, toasts, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	toasts string,
	statusBar string,
) string {
	parts := []string{header, content}
	if toasts != "" {
		parts = append(parts, toasts)
	}
	parts = append(parts, statusBar)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

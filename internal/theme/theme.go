package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/nhle/tasknest/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorPink    = lipgloss.AdaptiveColor{Dark: "#F783AC", Light: "#B83280"}
	ColorIndigo  = lipgloss.AdaptiveColor{Dark: "#748FFC", Light: "#4C51BF"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Apply switches lipgloss between the light and dark halves of the palette.
// ThemeSystem asks the terminal for its background colour.
func Apply(t model.Theme) {
	lipgloss.SetHasDarkBackground(IsDark(t))
}

// IsDark reports whether t renders with the dark palette.
func IsDark(t model.Theme) bool {
	switch t {
	case model.ThemeDark:
		return true
	case model.ThemeLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps boxed content such as the analytics cards.
var PanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// DropTargetStyle marks the row a dragged task would land on.
var DropTargetStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Foreground(ColorYellow).
	Border(lipgloss.ThickBorder(), false, false, false, true).
	BorderForeground(ColorYellow)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

var (
	DimmedStyle  = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	OverdueStyle = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	DueDateStyle = lipgloss.NewStyle().Foreground(ColorGray)
	TagStyle     = lipgloss.NewStyle().Foreground(ColorMagenta)
)

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch p {
	case model.PriorityUrgent:
		return base.Foreground(ColorRed)
	case model.PriorityHigh:
		return base.Foreground(ColorOrange)
	case model.PriorityMedium:
		return base.Foreground(ColorYellow)
	case model.PriorityLow:
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProjectColor maps a palette colour onto the adaptive terminal colours.
func ProjectColor(c model.Color) lipgloss.AdaptiveColor {
	switch c {
	case model.ColorBlue:
		return ColorBlue
	case model.ColorGreen:
		return ColorGreen
	case model.ColorRed:
		return ColorRed
	case model.ColorYellow:
		return ColorYellow
	case model.ColorPurple:
		return ColorMagenta
	case model.ColorPink:
		return ColorPink
	case model.ColorIndigo:
		return ColorIndigo
	default:
		return ColorGray
	}
}

// NotificationStyle returns the toast style for a notification type.
func NotificationStyle(t model.NotificationType) lipgloss.Style {
	base := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	switch t {
	case model.NotifySuccess:
		return base.BorderForeground(ColorGreen)
	case model.NotifyError:
		return base.BorderForeground(ColorRed)
	case model.NotifyWarning:
		return base.BorderForeground(ColorYellow)
	default:
		return base.BorderForeground(ColorBlue)
	}
}

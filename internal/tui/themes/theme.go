// Package themes holds the color schemes of the watch screen.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles of the watch screen chrome. The dashboard body
// is rendered by the terminal renderer and keeps its own palette.
type Theme struct {
	Spinner       lipgloss.Style
	StatusBar     lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusPending lipgloss.Style
	Help          lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Background    lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

func newTheme(primary, muted, background, errColor, warning, success lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Muted:      muted,
		Background: background,
		Error:      errColor,
		Warning:    warning,
		Success:    success,

		Spinner: lipgloss.NewStyle().
			Foreground(primary),
		StatusBar: lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusPending: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(muted),
	}
}

// Neon is green on black, matching the dashboard page.
var Neon = newTheme(
	lipgloss.Color("#00ff00"),
	lipgloss.Color("#3a7d3a"),
	lipgloss.Color("#000000"),
	lipgloss.Color("#ff3b3b"),
	lipgloss.Color("#ffd600"),
	lipgloss.Color("#00ff00"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#1e1e2e"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#a6e3a1"),
)

// Default is the theme used when none is chosen.
var Default = Neon

// ByName returns the named theme and whether it exists.
func ByName(name string) (Theme, bool) {
	switch name {
	case "", "neon":
		return Neon, true
	case "mocha", "catppuccin":
		return CatppuccinMocha, true
	default:
		return Theme{}, false
	}
}

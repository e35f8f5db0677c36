// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color (neon green).
	PrimaryColor = lipgloss.Color("#00FF00")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#00FF00")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFE66D") // Yellow
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#FF4136") // Red
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#66FF66") // Light green
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#1F7A1F") // Dim green

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// TileStyle is used for the metric tiles.
	TileStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(PrimaryColor).
			Foreground(PrimaryColor).
			Padding(0, 1).
			Width(34)

	// TileValueStyle renders the big number inside a tile.
	TileValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// BarStyle is used for horizontal chart bars.
	BarStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(PrimaryColor).
				PaddingRight(2)

	// TableCellStyle formats table cells with appropriate padding.
	TableCellStyle = lipgloss.NewStyle().
			Foreground(InfoColor).
			PaddingRight(2)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	RocketIcon  = "🚀"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the rocket icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(RocketIcon + " " + title)
}

// FormatNotice picks the icon and color for the notice level and prefixes
// the source when there is one.
func FormatNotice(n model.Notice) string {
	msg := n.Message
	if n.Source != "" {
		msg = n.Source + ": " + msg
	}
	switch n.Level {
	case model.LevelError:
		return FormatError(msg)
	case model.LevelWarning:
		return FormatWarning(msg)
	default:
		return FormatInfo(msg)
	}
}

// RenderTile renders one labelled metric.
func RenderTile(label, value string) string {
	return TileStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		SubtleStyle.Render(label),
		TileValueStyle.Render(value),
	))
}

package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/mission-control/internal/cli"
	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// DefaultTerminalWidth is used when the terminal size is unknown.
const DefaultTerminalWidth = 100

// Terminal writes the dashboard as styled text.
func Terminal(w io.Writer, v *View, width int) error {
	_, err := io.WriteString(w, TerminalString(v, width)+"\n")
	return err
}

// TerminalString renders the dashboard for a terminal of the given width.
func TerminalString(v *View, width int) string {
	if width <= 0 {
		width = DefaultTerminalWidth
	}

	sections := []string{cli.FormatTitle(v.Title)}

	if len(v.Notices) > 0 {
		sections = append(sections, renderNotices(v.Notices))
	}

	sections = append(sections, renderTiles(v), "")

	for _, t := range v.Tables {
		sections = append(sections, renderRawTable(t), "")
	}

	if v.Chart != nil {
		sections = append(sections, renderBars(*v.Chart, width), "")
	} else {
		sections = append(sections, cli.SubtleStyle.Render(v.ChartFallback(ChartBar)), "")
	}

	sections = append(sections,
		renderBars(v.Summary, width),
		cli.SubtleStyle.Render("Generated "+v.GeneratedAt.Format("2006-01-02 15:04:05 MST")))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderNotices(notices []model.Notice) string {
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		lines = append(lines, cli.FormatNotice(n))
	}
	return strings.Join(lines, "\n")
}

func renderTiles(v *View) string {
	cols := v.TileColumns()
	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		tiles := make([]string, 0, len(col))
		for _, tile := range col {
			tiles = append(tiles, cli.RenderTile(tile.Label, tile.Value))
		}
		rendered = append(rendered, lipgloss.JoinVertical(lipgloss.Left, tiles...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderRawTable(t RawTable) string {
	title := cli.TitleStyle.UnsetMargins().Render("Raw Data: " + t.Name)
	if t.Table.Empty() {
		return lipgloss.JoinVertical(lipgloss.Left, title, cli.SubtleStyle.Render(model.MessageNoData))
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(cli.PrimaryColor)).
		Headers(t.Table.Headers...).
		Rows(t.Table.Records()...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cli.TableHeaderStyle
			}
			return cli.TableCellStyle
		})

	return lipgloss.JoinVertical(lipgloss.Left, title, tbl.Render())
}

// renderBars draws m as horizontal bars scaled to the largest value.
func renderBars(m ChartModel, width int) string {
	title := cli.TitleStyle.UnsetMargins().Render(cli.ChartIcon + " " + m.Title)
	if len(m.Slices) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, cli.SubtleStyle.Render("Nothing to plot."))
	}

	labelWidth := 0
	maxValue := 0.0
	for _, s := range m.Slices {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
		maxValue = max(maxValue, s.Value)
	}

	barSpace := max(width-labelWidth-16, 10)
	lines := []string{title}
	for _, s := range m.Slices {
		n := 0
		if maxValue > 0 && s.Value > 0 {
			n = int(s.Value / maxValue * float64(barSpace))
		}
		value := metrics.FormatPoints(s.Value)
		if s.Percent > 0 {
			value = fmt.Sprintf("%s (%.1f%%)", value, s.Percent)
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelWidth, s.Label,
			cli.BarStyle.Render(strings.Repeat("█", n)),
			value))
	}
	return strings.Join(lines, "\n")
}

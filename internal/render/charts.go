package render

import (
	"errors"
	"fmt"
	"html"
	"io"
	"math"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToPlot is returned when a chart has no positive values.
var ErrNothingToPlot = errors.New("nothing to plot")

// Chart kinds served by the dashboard.
const (
	ChartPie     = "pie"
	ChartBar     = "bar"
	ChartSummary = "summary"
)

// Default semantic columns of the Charts table.
const (
	DefaultCategoryColumn = "MetricName"
	DefaultValueColumn    = "MetricValue"
)

// ChartColumns names the (category, value) pair a chart is keyed by.
type ChartColumns struct {
	Category string `json:"category" yaml:"category" mapstructure:"category"`
	Value    string `json:"value" yaml:"value" mapstructure:"value"`
}

// DefaultChartColumns returns the MetricName/MetricValue pair.
func DefaultChartColumns() ChartColumns {
	return ChartColumns{Category: DefaultCategoryColumn, Value: DefaultValueColumn}
}

// Slice is one category of a chart. Percent is the share of the total of
// positive values.
type Slice struct {
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// ChartModel is the data behind the pie and bar charts.
type ChartModel struct {
	Title   string       `json:"title" yaml:"title"`
	Columns ChartColumns `json:"columns" yaml:"columns"`
	Slices  []Slice      `json:"slices" yaml:"slices"`
}

// Total returns the sum of positive slice values.
func (m ChartModel) Total() float64 {
	var total float64
	for _, s := range m.Slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	return total
}

// PieSlices builds one slice per row, labelled by the category column.
// Non-numeric values count as 0. Negative values are kept but excluded from
// the percentages, which sum to 100 whenever the total is positive.
func PieSlices(table model.Table, category, value string) []Slice {
	slices := make([]Slice, 0, table.Len())
	var total float64
	for _, row := range table.Rows {
		v := metrics.CoerceOrZero(row[value])
		if v > 0 {
			total += v
		}
		slices = append(slices, Slice{Label: row[category], Value: v})
	}

	if total > 0 {
		for i := range slices {
			if slices[i].Value > 0 {
				slices[i].Percent = slices[i].Value / total * 100
			}
		}
	}
	return slices
}

// ChartFromTable builds the chart model for table. It returns a
// *common.SchemaError when either column of the pair is absent.
func ChartFromTable(table model.Table, cols ChartColumns) (ChartModel, error) {
	if missing := table.MissingColumns(cols.Category, cols.Value); len(missing) > 0 {
		return ChartModel{}, &common.SchemaError{Context: "charts", Missing: missing}
	}
	return ChartModel{
		Title:   cols.Value + " by " + cols.Category,
		Columns: cols,
		Slices:  PieSlices(table, cols.Category, cols.Value),
	}, nil
}

// FallbackMessage is the text shown in place of a chart of the given kind
// when the column pair is absent.
func FallbackMessage(cols ChartColumns, kind string) string {
	return fmt.Sprintf("Columns '%s'/'%s' not found, cannot plot %s chart.", cols.Category, cols.Value, kind)
}

// SummaryChart models the three scalar metrics as bars.
func SummaryChart(ms model.MetricSet) ChartModel {
	slices := make([]Slice, 0, len(model.MetricNames))
	for _, name := range model.MetricNames {
		slices = append(slices, Slice{Label: name, Value: ms.Get(name)})
	}
	return ChartModel{Title: "Summary", Slices: slices}
}

var (
	neonGreen  = drawing.ColorFromHex("00ff00")
	background = drawing.ColorFromHex("000000")
	palette    = []drawing.Color{
		drawing.ColorFromHex("00ff00"),
		drawing.ColorFromHex("00b300"),
		drawing.ColorFromHex("66ff66"),
		drawing.ColorFromHex("008000"),
		drawing.ColorFromHex("ccffcc"),
		drawing.ColorFromHex("33cc33"),
	}
)

func sliceStyle(i int) chart.Style {
	return chart.Style{
		FillColor:   palette[i%len(palette)],
		StrokeColor: background,
		StrokeWidth: 1,
		FontColor:   neonGreen,
	}
}

func textStyle() chart.Style {
	return chart.Style{FontColor: neonGreen, StrokeColor: neonGreen, FillColor: background}
}

// RenderPie writes m as an SVG pie chart. Slices without a positive value
// are left out.
func RenderPie(w io.Writer, m ChartModel, width, height int) error {
	values := make([]chart.Value, 0, len(m.Slices))
	for i, s := range m.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: svgText(fmt.Sprintf("%s %.1f%%", s.Label, s.Percent)),
			Value: s.Value,
			Style: sliceStyle(i),
		})
	}
	if len(values) == 0 {
		return ErrNothingToPlot
	}

	pie := chart.PieChart{
		Title:      svgText(m.Title),
		TitleStyle: textStyle(),
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: background},
		Canvas:     chart.Style{FillColor: background},
		SliceStyle: chart.Style{FontColor: neonGreen},
		Values:     values,
	}
	return pie.Render(chart.SVG, w)
}

// RenderBar writes m as an SVG bar chart in neon green on black.
func RenderBar(w io.Writer, m ChartModel, width, height int) error {
	if len(m.Slices) == 0 {
		return ErrNothingToPlot
	}

	bars := make([]chart.Value, 0, len(m.Slices))
	lo, hi := 0.0, 0.0
	for _, s := range m.Slices {
		lo = math.Min(lo, s.Value)
		hi = math.Max(hi, s.Value)
		bars = append(bars, chart.Value{
			Label: svgText(s.Label),
			Value: s.Value,
			Style: chart.Style{FillColor: neonGreen, StrokeColor: neonGreen, StrokeWidth: 1},
		})
	}
	if hi <= lo {
		hi = lo + 1
	}

	bar := chart.BarChart{
		Title:      svgText(m.Title),
		TitleStyle: textStyle(),
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(width, len(bars)),
		Background: chart.Style{FillColor: background, Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		Canvas:     chart.Style{FillColor: background},
		XAxis:      textStyle(),
		YAxis: chart.YAxis{
			Style:          textStyle(),
			Range:          &chart.ContinuousRange{Min: lo, Max: hi * 1.1},
			ValueFormatter: pointsFormatter,
		},
		Bars: bars,
	}
	return bar.Render(chart.SVG, w)
}

// svgText escapes sheet text for go-chart, which writes <text> bodies verbatim.
func svgText(s string) string {
	return html.EscapeString(s)
}

func pointsFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return metrics.FormatPoints(math.Round(f))
	}
	return ""
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	w := width / (n * 2)
	switch {
	case w > 120:
		return 120
	case w < 10:
		return 10
	default:
		return w
	}
}

// ErrUnknownChart is returned by SVG for a kind it does not draw.
var ErrUnknownChart = errors.New("unknown chart")

// ErrChartUnavailable is returned by SVG when the Charts table could not be
// charted. The error text carries the fallback message.
var ErrChartUnavailable = errors.New("chart unavailable")

// SVG writes the chart of the given kind for v.
func SVG(w io.Writer, v *View, kind string, width, height int) error {
	switch kind {
	case ChartSummary:
		return RenderBar(w, v.Summary, width, height)
	case ChartPie, ChartBar:
		if v.Chart == nil {
			return fmt.Errorf("%w: %s", ErrChartUnavailable, v.ChartFallback(kind))
		}
		if kind == ChartPie {
			return RenderPie(w, *v.Chart, width, height)
		}
		return RenderBar(w, *v.Chart, width, height)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, kind)
	}
}

// Package render turns a dashboard View into HTML, SVG charts, terminal
// output, workbooks and structured encodings.
package render

import (
	"time"

	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
)

// DefaultTitle is the page and terminal heading.
const DefaultTitle = "ISV Sankirtan Mission Control"

// Names of the two fetched ranges.
const (
	TableNumbers = "Numbers"
	TableCharts  = "Charts"
)

// RawTable is a fetched range as shown in the raw-data view.
type RawTable struct {
	FetchedAt time.Time        `json:"fetched_at" yaml:"fetched_at"`
	Name      string           `json:"name" yaml:"name"`
	Range     model.SheetRange `json:"range" yaml:"range"`
	Table     model.Table      `json:"table" yaml:"table"`
	Cached    bool             `json:"cached" yaml:"cached"`
}

// View is everything the presentation layer needs for one render pass.
// Chart is nil when the Charts table could not be charted; the matching
// notice explains why.
type View struct {
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Chart       *ChartModel     `json:"chart,omitempty" yaml:"chart,omitempty"`
	Title       string          `json:"title" yaml:"title"`
	Countdown   string          `json:"-" yaml:"-"`
	Metrics     model.MetricSet `json:"metrics" yaml:"metrics"`
	Tables      []RawTable      `json:"tables" yaml:"tables"`
	Notices     []model.Notice  `json:"notices" yaml:"notices"`
	Summary     ChartModel      `json:"summary" yaml:"summary"`
	Columns     ChartColumns    `json:"chart_columns" yaml:"chart_columns"`
	Derived     metrics.Derived `json:"derived" yaml:"derived"`
}

// Tile is one scalar shown on the dashboard.
type Tile struct {
	Label string
	Value string
}

// TileColumns groups the tiles into the three side-by-side columns: the two
// year-to-date totals, the goal, and the percentage reached.
func (v *View) TileColumns() [3][]Tile {
	return [3][]Tile{
		{
			{Label: model.MetricISVScore, Value: metrics.FormatPoints(v.Metrics.Score())},
			{Label: model.MetricMayapurScore, Value: metrics.FormatPoints(v.Metrics.Rival())},
		},
		{
			{Label: model.MetricISVGoal, Value: metrics.FormatPoints(v.Metrics.Goal())},
		},
		{
			{Label: "Percentage Goal Reached", Value: metrics.FormatPercent(v.Derived.PercentReached)},
		},
	}
}

// HasErrors reports whether any notice is at error level.
func (v *View) HasErrors() bool {
	for _, n := range v.Notices {
		if n.Level == model.LevelError {
			return true
		}
	}
	return false
}

// Table returns the raw table with the given name.
func (v *View) Table(name string) (RawTable, bool) {
	for _, t := range v.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return RawTable{}, false
}

// ChartFallback returns the text shown instead of a chart of the given kind,
// or "" when the chart is available.
func (v *View) ChartFallback(kind string) string {
	if v.Chart != nil {
		return ""
	}
	if t, ok := v.Table(TableCharts); !ok || len(t.Table.Headers) == 0 {
		return model.MessageNoData
	}
	return FallbackMessage(v.Columns, kind)
}

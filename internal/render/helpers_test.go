package render

import (
	"testing"
	"time"

	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/stretchr/testify/require"
)

func chartsTable() model.Table {
	return model.NewTableFromStrings([][]string{
		{"MetricName", "MetricValue"},
		{"Books", "60"},
		{"Magazines", "30"},
		{"Sets", "10"},
	})
}

func sampleView(t *testing.T) *View {
	t.Helper()

	ms := model.NewMetricSet()
	require.NoError(t, ms.Set(model.MetricISVScore, 12500))
	require.NoError(t, ms.Set(model.MetricISVGoal, 20000))
	require.NoError(t, ms.Set(model.MetricMayapurScore, 15000))

	chart, err := ChartFromTable(chartsTable(), DefaultChartColumns())
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	return &View{
		GeneratedAt: now,
		Title:       DefaultTitle,
		Countdown:   `<div id="countdown"><script>startCountdown("2024-12-31")</script></div>`,
		Metrics:     ms,
		Derived:     metrics.Derive(ms),
		Columns:     DefaultChartColumns(),
		Chart:       &chart,
		Summary:     SummaryChart(ms),
		Tables: []RawTable{
			{
				Name:      TableNumbers,
				Range:     model.NewSheetRange("sheet-123", "Numbers!A1:C2"),
				Table:     model.NewTableFromStrings([][]string{{"ISV Score", "ISV Goal", "Mayapur Score"}, {"12500", "20000", "15000"}}),
				FetchedAt: now,
			},
			{
				Name:      TableCharts,
				Range:     model.NewSheetRange("sheet-123", "Charts!A1:B10"),
				Table:     chartsTable(),
				FetchedAt: now,
			},
		},
	}
}

const markupLabel = "R&D <script>alert(1)</script>"

// markupView is sampleView with markup in a category cell.
func markupView(t *testing.T) *View {
	t.Helper()

	table := model.NewTableFromStrings([][]string{
		{"MetricName", "MetricValue"},
		{markupLabel, "10"},
		{"Books", "30"},
	})
	chart, err := ChartFromTable(table, DefaultChartColumns())
	require.NoError(t, err)

	v := sampleView(t)
	v.Chart = &chart
	v.Tables[1].Table = table
	return v
}

package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	v := sampleView(t)

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v))
	page := buf.String()

	assert.Contains(t, page, "<title>ISV Sankirtan Mission Control</title>")
	assert.Contains(t, page, v.Countdown, "countdown must be embedded verbatim")
	assert.Contains(t, page, "12,500")
	assert.Contains(t, page, "20,000")
	assert.Contains(t, page, "15,000")
	assert.Contains(t, page, "62.50%")
	assert.Contains(t, page, "Raw Data: Numbers")
	assert.Contains(t, page, "<td>Magazines</td>")
	assert.Equal(t, 3, strings.Count(page, "<svg"))
	assert.Contains(t, page, "#00ff00")

	// ISV and Mayapur share the first column, ahead of the goal.
	assert.Less(t, strings.Index(page, model.MetricMayapurScore), strings.Index(page, model.MetricISVGoal))
}

func TestHTML_Fallbacks(t *testing.T) {
	v := sampleView(t)
	v.Chart = nil
	v.Countdown = ""
	v.Tables[1].Table = model.NewTableFromStrings([][]string{{"MetricName"}, {"Books"}})
	v.Notices = []model.Notice{
		{Level: model.LevelWarning, Kind: model.KindSchema, Source: "Charts!A1:B10", Message: "charts: columns not found: 'MetricValue'"},
		{Level: model.LevelWarning, Kind: model.KindAsset, Message: "countdown asset <missing>"},
	}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v))
	page := buf.String()

	assert.Contains(t, page, "Columns &#39;MetricName&#39;/&#39;MetricValue&#39; not found, cannot plot pie chart.")
	assert.Contains(t, page, "cannot plot bar chart.")
	assert.Contains(t, page, `class="notice notice-warning" data-kind="asset"`)
	assert.Contains(t, page, "countdown asset &lt;missing&gt;")
	assert.Equal(t, 1, strings.Count(page, "<svg"), "only the summary chart renders")
}

func TestHTML_EmptyCharts(t *testing.T) {
	v := sampleView(t)
	v.Chart = nil
	v.Tables[1].Table = model.EmptyTable()

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, v))
	assert.Contains(t, buf.String(), "No data found in the specified range.")
	assert.NotContains(t, buf.String(), "cannot plot")
}

func TestHTML_EscapesSheetText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, markupView(t)))
	page := buf.String()

	assert.NotContains(t, page, "<script>alert(1)</script>")
	assert.Contains(t, page, "R&amp;D")
	assert.Equal(t, 3, strings.Count(page, "<svg"))
}

package render

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"log/slog"
)

// Chart sizes used on the HTML page.
const (
	ChartWidth  = 640
	ChartHeight = 400
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { background-color: #000000; color: #00ff00; font-family: "Courier New", monospace; margin: 0 auto; max-width: 1400px; padding: 1rem; }
h1, h2, h3 { color: #00ff00; }
h2 { margin-bottom: .5rem; }
.tiles { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; margin-bottom: 1.5rem; }
.tile { border: 1px solid #00ff00; padding: .75rem; margin-bottom: .75rem; }
.tile .label { font-size: .8rem; text-transform: uppercase; }
.tile .value { font-size: 2rem; font-weight: 700; }
.notice { border-left: 4px solid #00ff00; padding: .5rem .75rem; margin-bottom: .5rem; background: #111111; }
.notice-warning { border-color: #ffe66d; color: #ffe66d; }
.notice-error { border-color: #ff4136; color: #ff4136; }
.charts { display: grid; grid-template-columns: repeat(2, 1fr); gap: 1rem; margin-bottom: 1.5rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #00ff00; padding: .25rem .75rem; text-align: left; }
footer { font-size: .75rem; opacity: .7; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>

<section id="countdown">
<h2>Time Left to Beat Mayapur</h2>
{{.CountdownHTML}}
</section>

{{range .Notices}}<div class="notice notice-{{.Level}}" data-kind="{{.Kind}}">{{if .Source}}<strong>{{.Source}}</strong>: {{end}}{{.Message}}</div>
{{end}}
<section class="tiles" id="tiles">
{{range .Tiles}}<div class="column">
{{range .}}  <div class="tile"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>
{{end}}</section>

{{range .Tables}}<section class="raw">
<h2>Raw Data: {{.Name}}</h2>
{{if .Table.Empty}}<p>No data found in the specified range.</p>{{else}}<table>
<thead><tr>{{range .Table.Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Records}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
</section>
{{end}}
<section class="charts" id="charts">
<div><h2>Pie Chart</h2>{{if .PieSVG}}{{.PieSVG}}{{else}}<p>{{.PieFallback}}</p>{{end}}</div>
<div><h2>Bar Chart</h2>{{if .BarSVG}}{{.BarSVG}}{{else}}<p>{{.BarFallback}}</p>{{end}}</div>
<div><h2>Summary</h2>{{if .SummarySVG}}{{.SummarySVG}}{{else}}<p>Nothing to plot.</p>{{end}}</div>
</section>

<footer>Generated {{.GeneratedAt.Format "2006-01-02 15:04:05 MST"}}</footer>
</body>
</html>
`

var pageTmpl = template.Must(template.New("dashboard").Parse(pageTemplate))

type page struct {
	*View
	Tiles         [3][]Tile
	CountdownHTML template.HTML
	PieSVG        template.HTML
	BarSVG        template.HTML
	SummarySVG    template.HTML
	PieFallback   string
	BarFallback   string
}

// HTML writes the dashboard page. The countdown snippet is embedded
// verbatim. Charts that cannot be drawn are replaced by a fallback line.
func HTML(w io.Writer, v *View) error {
	p := page{
		View:          v,
		Tiles:         v.TileColumns(),
		CountdownHTML: template.HTML(v.Countdown), //nolint:gosec // trusted local asset
	}

	if v.Chart != nil {
		p.PieSVG, p.PieFallback = inlineSVG(RenderPie, *v.Chart, ChartPie)
		p.BarSVG, p.BarFallback = inlineSVG(RenderBar, *v.Chart, ChartBar)
	} else {
		p.PieFallback = v.ChartFallback(ChartPie)
		p.BarFallback = v.ChartFallback(ChartBar)
	}
	p.SummarySVG, _ = inlineSVG(RenderBar, v.Summary, ChartSummary)

	return pageTmpl.Execute(w, p)
}

type svgRenderer func(w io.Writer, m ChartModel, width, height int) error

func inlineSVG(fn svgRenderer, m ChartModel, kind string) (template.HTML, string) {
	var buf bytes.Buffer
	if err := fn(&buf, m, ChartWidth, ChartHeight); err != nil {
		if !errors.Is(err, ErrNothingToPlot) {
			slog.Warn("failed to render chart", "chart", kind, "error", err)
		}
		return "", "Nothing to plot."
	}
	return template.HTML(buf.String()), "" //nolint:gosec // generated by go-chart
}

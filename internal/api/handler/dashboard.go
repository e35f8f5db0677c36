package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/julienschmidt/httprouter"
)

// DashboardPage renders the HTML dashboard.
func DashboardPage(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := services.Dashboard.Build(r.Context())

		var buf bytes.Buffer
		if err := render.HTML(&buf, view); err != nil {
			services.logger().Error("failed to render dashboard", "error", err)
			apierrors.WriteError(w, apierrors.ErrRender, "failed to render dashboard")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	}
}

// DashboardJSON returns the view as JSON. Degraded views are still 200;
// clients read the notices.
func DashboardJSON(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := services.Dashboard.Build(r.Context())
		if err := writeJSON(w, http.StatusOK, view); err != nil {
			services.logger().Warn("failed to write dashboard", "error", err)
		}
	}
}

// ChartSVG serves one chart (pie, bar or summary) as SVG.
func ChartSVG(services Services) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := httprouter.ParamsFromContext(r.Context()).ByName("name")
		view := services.Dashboard.Build(r.Context())

		var buf bytes.Buffer
		err := render.SVG(&buf, view, name, render.ChartWidth, render.ChartHeight)
		switch {
		case err == nil:
		case errors.Is(err, render.ErrUnknownChart):
			apierrors.WriteError(w, apierrors.ErrNotFound, err.Error())
			return
		case errors.Is(err, render.ErrChartUnavailable):
			apierrors.WriteError(w, apierrors.ErrNotFound, view.ChartFallback(name))
			return
		case errors.Is(err, render.ErrNothingToPlot):
			apierrors.WriteError(w, apierrors.ErrNotFound, err.Error())
			return
		default:
			services.logger().Error("failed to render chart", "chart", name, "error", err)
			apierrors.WriteError(w, apierrors.ErrRender, "failed to render chart")
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = buf.WriteTo(w)
	}
}

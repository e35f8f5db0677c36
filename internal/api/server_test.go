package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
	"github.com/Veraticus/mission-control/internal/api/handler"
	"github.com/Veraticus/mission-control/internal/api/middleware"
	"github.com/Veraticus/mission-control/internal/cache"
	"github.com/Veraticus/mission-control/internal/dashboard"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/scheduler"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/Veraticus/mission-control/internal/storage"
	"github.com/Veraticus/mission-control/internal/testutil"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	numbersRange = testutil.NumbersRange
	chartsRange  = testutil.ChartsRange
	quietLogger  = testutil.QuietLogger
)

type fixture struct {
	fetcher *sheets.StaticFetcher
	cache   *cache.Fetcher
	store   *storage.SnapshotStore
	handler http.Handler
}

func newFixture(t *testing.T, charts model.Table) *fixture {
	t.Helper()

	fetcher := testutil.SampleFetcher(charts)

	cached := cache.New(fetcher, time.Minute)
	t.Cleanup(cached.Close)

	store := testutil.SetupStore(t)

	svc := dashboard.NewService(cached,
		dashboard.Config{Numbers: numbersRange, Charts: chartsRange},
		dashboard.WithRecorder(store),
		dashboard.WithLogger(quietLogger()))

	return &fixture{
		fetcher: fetcher,
		cache:   cached,
		store:   store,
		handler: Handler(handler.Services{
			Dashboard: svc,
			Cache:     cached,
			History:   store,
			Logger:    quietLogger(),
		}),
	}
}

func defaultCharts() model.Table {
	return testutil.ChartsTable()
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func TestDashboardPage(t *testing.T) {
	f := newFixture(t, defaultCharts())

	rec := serve(f.handler, http.MethodGet, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, render.DefaultTitle)
	assert.Contains(t, body, "Percentage Goal Reached")
	assert.Contains(t, body, "62.50%")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestDashboardJSON(t *testing.T) {
	f := newFixture(t, defaultCharts())

	rec := serve(f.handler, http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Metrics map[string]float64 `json:"metrics"`
		Derived struct {
			PercentReached float64 `json:"percent_reached"`
		} `json:"derived"`
		Notices []model.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 12500.0, got.Metrics[model.MetricISVScore])
	assert.Equal(t, 62.5, got.Derived.PercentReached)
	assert.Empty(t, got.Notices)
}

func TestDashboardJSON_DegradesOnFetchFailure(t *testing.T) {
	f := newFixture(t, defaultCharts())
	f.fetcher.SetError(numbersRange, assert.AnError)

	rec := serve(f.handler, http.MethodGet, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Notices []model.Notice `json:"notices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Notices, 1)
	assert.Equal(t, model.KindTransport, got.Notices[0].Kind)
	assert.Equal(t, model.LevelError, got.Notices[0].Level)
}

func TestChartSVG(t *testing.T) {
	f := newFixture(t, defaultCharts())

	for _, name := range []string{"pie", "bar", "summary"} {
		t.Run(name, func(t *testing.T) {
			rec := serve(f.handler, http.MethodGet, "/charts/"+name)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "<svg")
		})
	}

	t.Run("unknown", func(t *testing.T) {
		rec := serve(f.handler, http.MethodGet, "/charts/radar")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apierrors.ErrNotFound, decodeError(t, rec).Code)
	})
}

func TestChartSVG_MissingColumns(t *testing.T) {
	f := newFixture(t, model.NewTableFromStrings([][]string{
		{"MetricName", "Amount"},
		{"Books", "75"},
	}))

	rec := serve(f.handler, http.MethodGet, "/charts/pie")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t,
		"Columns 'MetricName'/'MetricValue' not found, cannot plot pie chart.",
		decodeError(t, rec).Message)
}

func TestRefreshCache(t *testing.T) {
	f := newFixture(t, defaultCharts())

	serve(f.handler, http.MethodGet, "/api/dashboard")
	serve(f.handler, http.MethodGet, "/api/dashboard")
	assert.Equal(t, 2, f.fetcher.CallCount())

	rec := serve(f.handler, http.MethodPost, "/api/cache/refresh")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, f.fetcher.CallCount())

	rec = serve(f.handler, http.MethodGet, "/api/cache/stats")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Entries)
}

func TestHistory(t *testing.T) {
	f := newFixture(t, defaultCharts())

	serve(f.handler, http.MethodGet, "/api/dashboard")
	serve(f.handler, http.MethodGet, "/api/dashboard")

	rec := serve(f.handler, http.MethodGet, "/api/history?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Snapshots []model.Snapshot `json:"snapshots"`
		Count     int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	require.Len(t, got.Snapshots, 1)
	assert.Equal(t, 62.5, got.Snapshots[0].PercentReached)

	rec = serve(f.handler, http.MethodGet, "/api/history?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.ErrInvalidRequest, decodeError(t, rec).Code)
}

func TestDisabledFeatures(t *testing.T) {
	svc := dashboard.NewService(sheets.NewStaticFetcher(),
		dashboard.Config{Numbers: numbersRange, Charts: chartsRange},
		dashboard.WithLogger(quietLogger()))
	h := Handler(handler.Services{Dashboard: svc, Logger: quietLogger()})

	tests := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/history"},
		{http.MethodPost, "/api/cache/refresh"},
		{http.MethodGet, "/api/cache/stats"},
		{http.MethodPost, "/api/sync/run"},
		{http.MethodGet, "/api/sync/status"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := serve(h, tt.method, tt.target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, apierrors.ErrFeatureDisabled, decodeError(t, rec).Code)
		})
	}
}

func TestSyncRoutes(t *testing.T) {
	f := newFixture(t, defaultCharts())
	svc := dashboard.NewService(f.cache,
		dashboard.Config{Numbers: numbersRange, Charts: chartsRange},
		dashboard.WithLogger(quietLogger()))
	refresher := scheduler.NewRefreshService(svc, scheduler.Config{}, quietLogger())
	h := Handler(handler.Services{Dashboard: svc, Sync: refresher, Logger: quietLogger()})

	rec := serve(h, http.MethodPost, "/api/sync/run")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	refresher.Wait()

	rec = serve(h, http.MethodGet, "/api/sync/status")
	require.Equal(t, http.StatusOK, rec.Code)
	var status scheduler.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, uint64(1), status.Runs)
	assert.Equal(t, scheduler.DefaultCron, status.Cron)
}

func TestRoutingErrors(t *testing.T) {
	f := newFixture(t, defaultCharts())

	rec := serve(f.handler, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.ErrNotFound, decodeError(t, rec).Code)

	rec = serve(f.handler, http.MethodDelete, "/api/dashboard")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, apierrors.ErrMethodNotAllowed, decodeError(t, rec).Code)
}

func TestHealthcheck(t *testing.T) {
	f := newFixture(t, defaultCharts())

	rec := serve(f.handler, http.MethodGet, "/healthcheck")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestLogPanic(t *testing.T) {
	h := middleware.Logging(quietLogger())(middleware.LogPanic(quietLogger())(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }),
	))

	rec := serve(h, http.MethodGet, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierrors.ErrInternalServer, decodeError(t, rec).Code)
}

func TestServerRunShutsDownOnCancel(t *testing.T) {
	svc := dashboard.NewService(sheets.NewStaticFetcher(),
		dashboard.Config{Numbers: numbersRange, Charts: chartsRange},
		dashboard.WithLogger(quietLogger()))
	srv, err := New(Config{Host: "127.0.0.1", Port: "0", ShutdownTimeout: time.Second},
		handler.Services{Dashboard: svc, Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewRequiresDashboard(t *testing.T) {
	_, err := New(DefaultConfig(), handler.Services{})
	assert.Error(t, err)
}

func TestNewWithTLS(t *testing.T) {
	svc := dashboard.NewService(sheets.NewStaticFetcher(),
		dashboard.Config{Numbers: numbersRange, Charts: chartsRange},
		dashboard.WithLogger(quietLogger()))
	services := handler.Services{Dashboard: svc, Logger: quietLogger()}

	srv, err := New(Config{Host: "localhost", Port: "0", TLS: TLSConfig{Enabled: true, CertDir: t.TempDir()}}, services)
	require.NoError(t, err)
	assert.Equal(t, "https", srv.Scheme())

	_, err = New(Config{Host: "localhost", Port: "0", TLS: TLSConfig{Enabled: true}}, services)
	assert.ErrorContains(t, err, "cert_dir")

	plain, err := New(DefaultConfig(), services)
	require.NoError(t, err)
	assert.Equal(t, "http", plain.Scheme())
}

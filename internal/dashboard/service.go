// Package dashboard runs the fetch, extract, derive and chart pipeline that
// produces a render.View.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/sheets"
)

// SnapshotRecorder persists metric snapshots.
type SnapshotRecorder interface {
	SaveSnapshot(ctx context.Context, snap model.Snapshot) (int64, error)
}

// Config selects the ranges, columns and assets of the dashboard.
type Config struct {
	Columns       metrics.ColumnMap
	Title         string
	CountdownPath string
	Numbers       model.SheetRange
	Charts        model.SheetRange
	ChartColumns  render.ChartColumns
}

// Service builds views. It holds no per-request state and is safe for
// concurrent use if the fetcher and recorder are.
type Service struct {
	fetcher sheets.Fetcher
	store   SnapshotRecorder
	logger  *slog.Logger
	now     func() time.Time
	config  Config
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder records a snapshot for every successful Numbers fetch.
func WithRecorder(store SnapshotRecorder) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service reading through fetcher.
func NewService(fetcher sheets.Fetcher, config Config, opts ...Option) *Service {
	if config.Title == "" {
		config.Title = render.DefaultTitle
	}
	if config.Columns == nil {
		config.Columns = metrics.DefaultColumns()
	}
	if config.ChartColumns == (render.ChartColumns{}) {
		config.ChartColumns = render.DefaultChartColumns()
	}

	s := &Service{
		fetcher: fetcher,
		config:  config,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.config
}

// Build runs the whole pipeline. Fetch, schema and asset failures become
// notices on the returned view; Build never fails.
func (s *Service) Build(ctx context.Context) *render.View {
	start := s.now()
	view := &render.View{
		GeneratedAt: start,
		Title:       s.config.Title,
		Columns:     s.config.ChartColumns,
		Metrics:     model.NewMetricSet(),
		Tables:      make([]render.RawTable, 0, 2),
		Notices:     []model.Notice{},
	}

	if s.config.CountdownPath != "" {
		html, err := LoadAsset(s.config.CountdownPath)
		if err != nil {
			s.logger.Warn("failed to load countdown asset", "path", s.config.CountdownPath, "error", err)
			view.Notices = append(view.Notices, assetNotice(s.config.CountdownPath, err))
		}
		view.Countdown = html
	}

	numbers := s.fetch(ctx, view, render.TableNumbers, s.config.Numbers)
	charts := s.fetch(ctx, view, render.TableCharts, s.config.Charts)

	ms, err := metrics.Extract(numbers.Table, s.config.Columns)
	if err != nil && hasHeaders(numbers) {
		view.Notices = append(view.Notices, schemaNotice(numbers.Range, err))
	}
	view.Metrics = ms
	view.Derived = metrics.Derive(ms)
	view.Summary = render.SummaryChart(ms)

	if hasHeaders(charts) {
		chart, err := render.ChartFromTable(charts.Table, s.config.ChartColumns)
		if err != nil {
			view.Notices = append(view.Notices, schemaNotice(charts.Range, err))
		} else {
			view.Chart = &chart
		}
	}

	if s.store != nil && numbers.OK() && !numbers.Empty() {
		s.record(ctx, view)
	}

	s.logger.Debug("built dashboard",
		"notices", len(view.Notices),
		"percent_reached", view.Derived.PercentReached,
		"duration", s.now().Sub(start))

	return view
}

func (s *Service) fetch(ctx context.Context, view *render.View, name string, rng model.SheetRange) sheets.FetchResult {
	res := s.fetcher.Fetch(ctx, rng)
	if res.Table.Headers == nil {
		res.Table = model.EmptyTable()
	}

	view.Tables = append(view.Tables, render.RawTable{
		Name:      name,
		Range:     rng,
		Table:     res.Table,
		FetchedAt: res.FetchedAt,
		Cached:    res.Cached,
	})

	if notice, ok := res.Notice(); ok {
		view.Notices = append(view.Notices, notice)
	}
	return res
}

func (s *Service) record(ctx context.Context, view *render.View) {
	snap := model.Snapshot{
		TakenAt:        view.GeneratedAt,
		Metrics:        view.Metrics,
		PercentReached: view.Derived.PercentReached,
	}
	if _, err := s.store.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Warn("failed to record snapshot", "error", err)
	}
}

func hasHeaders(res sheets.FetchResult) bool {
	return res.OK() && len(res.Table.Headers) > 0
}

func schemaNotice(rng model.SheetRange, err error) model.Notice {
	level := model.LevelWarning
	var schemaErr *common.SchemaError
	if !errors.As(err, &schemaErr) {
		level = model.LevelError
	}
	return model.Notice{
		Level:   level,
		Kind:    model.KindSchema,
		Source:  rng.Range,
		Message: err.Error(),
	}
}

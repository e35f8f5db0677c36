package dashboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/Veraticus/mission-control/internal/sheets/mocks"
	"github.com/Veraticus/mission-control/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	numbersRange = testutil.NumbersRange
	chartsRange  = testutil.ChartsRange
	fixedNow     = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
)

func testConfig() Config {
	return Config{Numbers: numbersRange, Charts: chartsRange}
}

func numbersTable() model.Table {
	return testutil.NumbersTable("12500", "20000", "15000")
}

func chartsTable() model.Table {
	return testutil.ChartsTable()
}

type recorder struct {
	err   error
	snaps []model.Snapshot
	mu    sync.Mutex
}

func (r *recorder) SaveSnapshot(_ context.Context, snap model.Snapshot) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.snaps = append(r.snaps, snap)
	return int64(len(r.snaps)), nil
}

func TestBuild_HappyPath(t *testing.T) {
	fetcher := sheets.NewStaticFetcher()
	fetcher.SetTable(numbersRange, numbersTable())
	fetcher.SetTable(chartsRange, chartsTable())
	rec := &recorder{}

	svc := NewService(fetcher, testConfig(), WithRecorder(rec), WithClock(func() time.Time { return fixedNow }))
	view := svc.Build(context.Background())

	assert.Empty(t, view.Notices)
	assert.Equal(t, render.DefaultTitle, view.Title)
	assert.Equal(t, map[string]float64{
		model.MetricISVScore:     12500,
		model.MetricISVGoal:      20000,
		model.MetricMayapurScore: 15000,
	}, view.Metrics.Map())
	assert.Equal(t, 62.5, view.Derived.PercentReached)
	require.NotNil(t, view.Chart)
	assert.Equal(t, []string{"Books", "Sets"}, []string{view.Chart.Slices[0].Label, view.Chart.Slices[1].Label})
	assert.Len(t, view.Summary.Slices, 3)

	require.Len(t, view.Tables, 2)
	assert.Equal(t, render.TableNumbers, view.Tables[0].Name)
	assert.Equal(t, render.TableCharts, view.Tables[1].Name)

	assert.Equal(t, []model.SheetRange{numbersRange, chartsRange}, fetcher.Calls)

	require.Len(t, rec.snaps, 1)
	assert.Equal(t, fixedNow, rec.snaps[0].TakenAt)
	assert.Equal(t, 62.5, rec.snaps[0].PercentReached)
}

func TestBuild_EmptyResponse(t *testing.T) {
	fetcher := sheets.NewStaticFetcher()
	fetcher.SetTable(numbersRange, numbersTable())
	fetcher.SetTable(chartsRange, model.EmptyTable())

	view := NewService(fetcher, testConfig()).Build(context.Background())

	require.Len(t, view.Notices, 1)
	assert.Equal(t, model.Notice{
		Level:   model.LevelInfo,
		Kind:    model.KindEmpty,
		Source:  "Charts!A1:B10",
		Message: "No data found in the specified range.",
	}, view.Notices[0])
	assert.Nil(t, view.Chart)
	assert.Equal(t, model.MessageNoData, view.ChartFallback(render.ChartPie))
}

func TestBuild_ChartsMissingValueColumn(t *testing.T) {
	fetcher := sheets.NewStaticFetcher()
	fetcher.SetTable(numbersRange, numbersTable())
	fetcher.SetTable(chartsRange, model.NewTableFromStrings([][]string{{"MetricName", "Count"}, {"Books", "1"}}))

	view := NewService(fetcher, testConfig()).Build(context.Background())

	assert.Nil(t, view.Chart)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, model.KindSchema, view.Notices[0].Kind)
	assert.Equal(t, model.LevelWarning, view.Notices[0].Level)
	assert.Contains(t, view.Notices[0].Message, "'MetricValue'")
	assert.Equal(t, "Columns 'MetricName'/'MetricValue' not found, cannot plot bar chart.", view.ChartFallback(render.ChartBar))
	assert.Equal(t, 62.5, view.Derived.PercentReached)
}

func TestBuild_NumbersSchemaError(t *testing.T) {
	fetcher := sheets.NewStaticFetcher()
	fetcher.SetTable(numbersRange, model.NewTableFromStrings([][]string{
		{"ISV Score", "Mayapur Score"},
		{"N/A", "15000"},
	}))
	fetcher.SetTable(chartsRange, chartsTable())
	rec := &recorder{err: errors.New("disk full")}

	view := NewService(fetcher, testConfig(), WithRecorder(rec)).Build(context.Background())

	require.Len(t, view.Notices, 1)
	assert.Equal(t, model.KindSchema, view.Notices[0].Kind)
	assert.Equal(t, "numbers: columns not found: 'ISV Goal'", view.Notices[0].Message)
	assert.Equal(t, 0.0, view.Metrics.Score())
	assert.Equal(t, 15000.0, view.Metrics.Rival())
	assert.Equal(t, 0.0, view.Derived.PercentReached)
}

func TestBuild_TransportFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)
	rec := &recorder{}

	fetcher.EXPECT().Fetch(gomock.Any(), numbersRange).
		Return(sheets.Failure(numbersRange, errors.New("403 permission denied"), fixedNow))
	fetcher.EXPECT().Fetch(gomock.Any(), chartsRange).
		Return(sheets.Failure(chartsRange, errors.New("timeout"), fixedNow))

	view := NewService(fetcher, testConfig(), WithRecorder(rec)).Build(context.Background())

	require.Len(t, view.Notices, 2)
	for _, n := range view.Notices {
		assert.Equal(t, model.LevelError, n.Level)
		assert.Equal(t, model.KindTransport, n.Kind)
	}
	assert.Contains(t, view.Notices[0].Message, "failed to fetch Numbers!A1:C2")
	assert.True(t, view.HasErrors())
	assert.Equal(t, 0.0, view.Derived.PercentReached)
	assert.Nil(t, view.Chart)
	assert.Empty(t, rec.snaps)
	for _, tbl := range view.Tables {
		assert.NotNil(t, tbl.Table.Headers)
		assert.True(t, tbl.Table.Empty())
	}
}

func TestBuild_Countdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "countdown.html")
	snippet := "<div id=\"timer\"></div>\n<script>tick()</script>\n"
	require.NoError(t, os.WriteFile(path, []byte(snippet), 0o600))

	fetcher := sheets.NewStaticFetcher()
	fetcher.SetTable(numbersRange, numbersTable())
	fetcher.SetTable(chartsRange, chartsTable())

	cfg := testConfig()
	cfg.CountdownPath = path
	view := NewService(fetcher, cfg).Build(context.Background())
	assert.Equal(t, snippet, view.Countdown)
	assert.Empty(t, view.Notices)

	cfg.CountdownPath = filepath.Join(dir, "missing.html")
	view = NewService(fetcher, cfg).Build(context.Background())
	assert.Empty(t, view.Countdown)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, model.KindAsset, view.Notices[0].Kind)
	assert.Equal(t, model.LevelWarning, view.Notices[0].Level)
}

func TestLoadAsset(t *testing.T) {
	_, err := LoadAsset(filepath.Join(t.TempDir(), "nope.html"))
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestBuild_RecordsIntoSnapshotStore(t *testing.T) {
	store := testutil.SetupStore(t)
	svc := NewService(testutil.SampleFetcher(chartsTable()), testConfig(),
		WithRecorder(store), WithLogger(testutil.QuietLogger()))

	view := svc.Build(context.Background())
	require.Empty(t, view.Notices)

	snaps, err := store.ListSnapshots(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 62.5, snaps[0].PercentReached)
	assert.Equal(t, 15000.0, snaps[0].Metrics.Rival())
}

// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/Veraticus/mission-control/internal/storage"
	"github.com/stretchr/testify/require"
)

// SpreadsheetID is the id used by the sample ranges.
const SpreadsheetID = "sheet-123"

// Sample ranges matching the default configuration.
var (
	NumbersRange = model.NewSheetRange(SpreadsheetID, "Numbers!A1:C2")
	ChartsRange  = model.NewSheetRange(SpreadsheetID, "Charts!A1:B10")
)

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NumbersTable is a Numbers range with the given row values.
func NumbersTable(score, goal, mayapur string) model.Table {
	return model.NewTableFromStrings([][]string{
		{"ISV Score", "ISV Goal", "Mayapur Score"},
		{score, goal, mayapur},
	})
}

// ChartsTable is a two-category Charts range.
func ChartsTable() model.Table {
	return model.NewTableFromStrings([][]string{
		{"MetricName", "MetricValue"},
		{"Books", "75"},
		{"Sets", "25"},
	})
}

// SampleFetcher serves NumbersTable(12500, 20000, 15000) and charts.
func SampleFetcher(charts model.Table) *sheets.StaticFetcher {
	f := sheets.NewStaticFetcher()
	f.SetTable(NumbersRange, NumbersTable("12500", "20000", "15000"))
	f.SetTable(ChartsRange, charts)
	return f
}

// SetupStore opens a migrated in-memory snapshot store closed with the test.
func SetupStore(t *testing.T) *storage.SnapshotStore {
	t.Helper()

	store, err := storage.Open(storage.Config{Driver: storage.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

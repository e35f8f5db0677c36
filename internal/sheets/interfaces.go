package sheets

import (
	"context"
	"time"

	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks . Fetcher

// Fetcher reads one range and reports the outcome as a FetchResult. It never
// panics and never returns a nil table.
type Fetcher interface {
	Fetch(ctx context.Context, rng model.SheetRange) FetchResult
}

// FetchResult carries either the fetched table or the failure that replaced
// it. On failure Table is a valid empty table.
type FetchResult struct {
	FetchedAt time.Time        `json:"fetched_at" yaml:"fetched_at"`
	Err       error            `json:"-" yaml:"-"`
	Range     model.SheetRange `json:"range" yaml:"range"`
	Table     model.Table      `json:"table" yaml:"table"`
	Cached    bool             `json:"cached" yaml:"cached"`
}

// OK reports whether the fetch succeeded, even if it returned no rows.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// Empty reports whether the result holds no data rows.
func (r FetchResult) Empty() bool {
	return r.Table.Empty()
}

// Success builds a successful result.
func Success(rng model.SheetRange, table model.Table, at time.Time) FetchResult {
	return FetchResult{Range: rng, Table: table, FetchedAt: at}
}

// Failure builds a degraded result holding an empty table and a
// TransportError for rng.
func Failure(rng model.SheetRange, err error, at time.Time) FetchResult {
	return FetchResult{
		Range:     rng,
		Table:     model.EmptyTable(),
		Err:       &common.TransportError{Range: rng.Range, Err: err},
		FetchedAt: at,
	}
}

// Notice describes a failed or empty fetch. It reports false for a
// successful fetch that returned rows.
func (r FetchResult) Notice() (model.Notice, bool) {
	switch {
	case r.Err != nil:
		return model.Notice{
			Level:   model.LevelError,
			Kind:    model.KindTransport,
			Source:  r.Range.Range,
			Message: r.Err.Error(),
		}, true
	case r.Table.Empty():
		return model.Notice{
			Level:   model.LevelInfo,
			Kind:    model.KindEmpty,
			Source:  r.Range.Range,
			Message: model.MessageNoData,
		}, true
	default:
		return model.Notice{}, false
	}
}

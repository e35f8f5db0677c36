package sheets

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Veraticus/mission-control/internal/model"
)

// ErrNoFixture is returned by StaticFetcher for ranges it was not given.
var ErrNoFixture = errors.New("no fixture for range")

// StaticFetcher serves fixed tables per range. It is used by tests and by
// the offline demo mode.
type StaticFetcher struct {
	FetchFunc func(ctx context.Context, rng model.SheetRange) FetchResult
	Tables    map[string]model.Table
	Errors    map[string]error
	Calls     []model.SheetRange
	mu        sync.Mutex
}

var _ Fetcher = (*StaticFetcher)(nil)

// NewStaticFetcher creates a fetcher with no fixtures.
func NewStaticFetcher() *StaticFetcher {
	return &StaticFetcher{
		Tables: make(map[string]model.Table),
		Errors: make(map[string]error),
	}
}

// SetTable registers the table returned for rng.
func (f *StaticFetcher) SetTable(rng model.SheetRange, table model.Table) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tables[rng.String()] = table
}

// SetError makes fetches of rng fail with err.
func (f *StaticFetcher) SetError(rng model.SheetRange, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors[rng.String()] = err
}

// Fetch implements Fetcher.
func (f *StaticFetcher) Fetch(ctx context.Context, rng model.SheetRange) FetchResult {
	f.mu.Lock()
	f.Calls = append(f.Calls, rng)
	fn := f.FetchFunc
	table, hasTable := f.Tables[rng.String()]
	err, hasErr := f.Errors[rng.String()]
	f.mu.Unlock()

	if fn != nil {
		return fn(ctx, rng)
	}

	now := time.Now()
	switch {
	case hasErr:
		return Failure(rng, err, now)
	case hasTable:
		return Success(rng, table, now)
	default:
		return Failure(rng, ErrNoFixture, now)
	}
}

// CallCount returns how many fetches were made.
func (f *StaticFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

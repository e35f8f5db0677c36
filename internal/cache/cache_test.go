package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct {
	now time.Time
	mu  sync.Mutex
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	numbers = model.NewSheetRange("sheet-123", "Numbers!A1:C2")
	charts  = model.NewSheetRange("sheet-123", "Charts!A1:B10")
)

func numbersTable() model.Table {
	return model.NewTableFromStrings([][]string{
		{"ISV Score", "ISV Goal", "Mayapur Score"},
		{"12500", "20000", "15000"},
	})
}

func TestFetcher(t *testing.T) {
	defer goleak.VerifyNone(t)

	t.Run("hit after miss", func(t *testing.T) {
		upstream := sheets.NewStaticFetcher()
		upstream.SetTable(numbers, numbersTable())

		c := New(upstream, time.Minute)
		defer c.Close()

		first := c.Fetch(context.Background(), numbers)
		require.True(t, first.OK())
		assert.False(t, first.Cached)

		second := c.Fetch(context.Background(), numbers)
		require.True(t, second.OK())
		assert.True(t, second.Cached)
		assert.Equal(t, first.Table, second.Table)

		assert.Equal(t, 1, upstream.CallCount())
		assert.Equal(t, Stats{Hits: 1, Misses: 1, Entries: 1}, c.Stats())
	})

	t.Run("failures are not cached", func(t *testing.T) {
		upstream := sheets.NewStaticFetcher()
		upstream.SetError(charts, errors.New("unavailable"))

		c := New(upstream, time.Minute)
		defer c.Close()

		assert.False(t, c.Fetch(context.Background(), charts).OK())
		assert.False(t, c.Fetch(context.Background(), charts).OK())
		assert.Equal(t, 2, upstream.CallCount())
		assert.Equal(t, 0, c.Len())
	})

	t.Run("expiration", func(t *testing.T) {
		upstream := sheets.NewStaticFetcher()
		upstream.SetTable(numbers, numbersTable())

		clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
		c := New(upstream, time.Minute)
		c.now = clock.Now
		defer c.Close()

		c.Fetch(context.Background(), numbers)
		clock.Advance(30 * time.Second)
		assert.True(t, c.Fetch(context.Background(), numbers).Cached)

		clock.Advance(31 * time.Second)
		assert.False(t, c.Fetch(context.Background(), numbers).Cached)
		assert.Equal(t, 2, upstream.CallCount())

		clock.Advance(2 * time.Minute)
		c.sweep()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("invalidate and purge", func(t *testing.T) {
		upstream := sheets.NewStaticFetcher()
		upstream.SetTable(numbers, numbersTable())
		upstream.SetTable(charts, model.EmptyTable())

		c := New(upstream, 0)
		defer c.Close()
		assert.Equal(t, DefaultTTL, c.TTL())

		c.Fetch(context.Background(), numbers)
		c.Fetch(context.Background(), charts)
		assert.Equal(t, 2, c.Len())

		c.Invalidate(numbers)
		assert.Equal(t, 1, c.Len())

		c.Purge()
		assert.Equal(t, 0, c.Len())
	})

	t.Run("concurrent misses collapse", func(t *testing.T) {
		var calls atomic.Int32
		release := make(chan struct{})
		upstream := sheets.NewStaticFetcher()
		upstream.FetchFunc = func(_ context.Context, rng model.SheetRange) sheets.FetchResult {
			calls.Add(1)
			<-release
			return sheets.Success(rng, numbersTable(), time.Now())
		}

		c := New(upstream, time.Minute)
		defer c.Close()

		var wg sync.WaitGroup
		results := make([]sheets.FetchResult, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = c.Fetch(context.Background(), numbers)
			}(i)
		}

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, res := range results {
			assert.True(t, res.OK())
			assert.Equal(t, 1, res.Table.Len())
		}
	})
}

func TestFetcher_CloseTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(sheets.NewStaticFetcher(), time.Minute)
	c.Close()
	c.Close()
}

func TestFetcher_CanceledCallerDoesNotFailOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})
	upstream := sheets.NewStaticFetcher()
	upstream.FetchFunc = func(ctx context.Context, rng model.SheetRange) sheets.FetchResult {
		once.Do(func() { close(started) })
		select {
		case <-release:
			return sheets.Success(rng, numbersTable(), time.Now())
		case <-ctx.Done():
			return sheets.Failure(rng, ctx.Err(), time.Now())
		}
	}

	c := New(upstream, time.Minute)
	defer c.Close()

	ctxA, cancelA := context.WithCancel(context.Background())
	resA := make(chan sheets.FetchResult, 1)
	go func() { resA <- c.Fetch(ctxA, numbers) }()
	<-started

	resB := make(chan sheets.FetchResult, 1)
	go func() { resB <- c.Fetch(context.Background(), numbers) }()
	require.Eventually(t, func() bool { return c.Stats().Misses == 2 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	cancelA()
	a := <-resA
	assert.False(t, a.OK())
	assert.ErrorIs(t, a.Err, context.Canceled)

	close(release)
	b := <-resB
	require.True(t, b.OK(), "caller with a live context gets the shared result: %v", b.Err)
	assert.Equal(t, 1, b.Table.Len())
	assert.Equal(t, 1, c.Len())
}

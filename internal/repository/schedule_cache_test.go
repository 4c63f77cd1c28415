package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

type countingObserver struct {
	hits, misses atomic.Int32
}

func (o *countingObserver) ObserveCacheLookup(hit bool) {
	if hit {
		o.hits.Add(1)
	} else {
		o.misses.Add(1)
	}
}

func newTestCache(t *testing.T) (*ScheduleCache, *fakeClock, *countingObserver, func() int) {
	t.Helper()

	gw := newScheduleGateway(
		[]string{"Базовый", "3", "2025-03-10", "10:00", "", "Активно"},
	)
	repo := NewScheduleRepository(gw, testSchedule, zap.NewNop())
	observer := &countingObserver{}
	cache := NewScheduleCache(repo, time.Minute, observer, zap.NewNop())

	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	cache.SetClock(clock.Now)

	loads := func() int { return gw.Calls("get_all_rows") }
	return cache, clock, observer, loads
}

func TestScheduleCacheServesWithinTTL(t *testing.T) {
	cache, clock, observer, loads := newTestCache(t)
	ctx := context.Background()

	first, err := cache.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	clock.Advance(59 * time.Second)
	_, err = cache.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loads())

	clock.Advance(time.Second)
	_, err = cache.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loads(), "snapshot older than TTL must be refetched")

	assert.Equal(t, int32(1), observer.hits.Load())
	assert.Equal(t, int32(2), observer.misses.Load())
}

func TestScheduleCacheInvalidateForcesReload(t *testing.T) {
	cache, _, _, loads := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Snapshot(ctx)
	require.NoError(t, err)

	cache.Invalidate()

	_, err = cache.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loads())
}

type stubLoader struct {
	mu    sync.Mutex
	rows  []*model.ScheduleRow
	err   error
	calls int
	gate  chan struct{}
}

func (l *stubLoader) LoadSchedule(ctx context.Context) ([]*model.ScheduleRow, error) {
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	return l.rows, l.err
}

func (l *stubLoader) set(rows []*model.ScheduleRow, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows, l.err = rows, err
}

func TestScheduleCacheDoesNotServeStaleSnapshotOnFailure(t *testing.T) {
	loader := &stubLoader{rows: []*model.ScheduleRow{{Number: 2}}}
	cache := NewScheduleCache(loader, time.Minute, nil, zap.NewNop())
	clock := &fakeClock{now: time.Now()}
	cache.SetClock(clock.Now)
	ctx := context.Background()

	rows, err := cache.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	clock.Advance(2 * time.Minute)
	loader.set(nil, errors.New("sheets down"))

	rows, err = cache.Snapshot(ctx)
	assert.Error(t, err)
	assert.Empty(t, rows)

	// восстановление: следующий вызов снова идёт в таблицу
	loader.set([]*model.ScheduleRow{{Number: 2}, {Number: 3}}, nil)
	rows, err = cache.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestScheduleCacheCoalescesConcurrentMisses(t *testing.T) {
	loader := &stubLoader{
		rows: []*model.ScheduleRow{{Number: 2}},
		gate: make(chan struct{}),
	}
	cache := NewScheduleCache(loader, time.Minute, nil, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rows, err := cache.Snapshot(context.Background())
			assert.NoError(t, err)
			assert.Len(t, rows, 1)
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, 1, loader.calls)
}

func TestScheduleCacheLoadStartedBeforeInvalidateIsNotCached(t *testing.T) {
	loader := &stubLoader{
		rows: []*model.ScheduleRow{{Number: 2}},
		gate: make(chan struct{}),
	}
	cache := NewScheduleCache(loader, time.Minute, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = cache.Snapshot(context.Background())
	}()

	time.Sleep(20 * time.Millisecond)
	cache.Invalidate()
	close(loader.gate)
	<-done

	_, err := cache.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "a load racing with a write must not repopulate the cache")
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL - сколько живёт снимок расписания без явной инвалидации
const DefaultCacheTTL = 5 * time.Minute

const snapshotKey = "schedule"

// ScheduleLoader загружает свежий снимок расписания
type ScheduleLoader interface {
	LoadSchedule(ctx context.Context) ([]*model.ScheduleRow, error)
}

// CacheObserver получает попадания и промахи кэша
type CacheObserver interface {
	ObserveCacheLookup(hit bool)
}

// ScheduleCache - read-through кэш снимка расписания.
// Снимок общий для всех читателей и не должен изменяться.
type ScheduleCache struct {
	loader   ScheduleLoader
	ttl      time.Duration
	now      func() time.Time
	observer CacheObserver
	logger   *zap.Logger

	group singleflight.Group

	mu         sync.RWMutex
	rows       []*model.ScheduleRow
	fetchedAt  time.Time
	loaded     bool
	generation uint64
}

// NewScheduleCache создаёт кэш; ttl <= 0 означает DefaultCacheTTL
func NewScheduleCache(loader ScheduleLoader, ttl time.Duration, observer CacheObserver, logger *zap.Logger) *ScheduleCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ScheduleCache{
		loader:   loader,
		ttl:      ttl,
		now:      time.Now,
		observer: observer,
		logger:   logger,
	}
}

// SetClock подменяет часы (для тестов)
func (c *ScheduleCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Snapshot возвращает снимок расписания из кэша или загружает свежий.
// При ошибке загрузки устаревший снимок не используется: он сбрасывается, ошибка возвращается.
func (c *ScheduleCache) Snapshot(ctx context.Context) ([]*model.ScheduleRow, error) {
	c.mu.RLock()
	if c.loaded && c.now().Sub(c.fetchedAt) < c.ttl {
		rows := c.rows
		c.mu.RUnlock()
		c.observe(true)
		return rows, nil
	}
	c.mu.RUnlock()
	c.observe(false)

	// один запрос к таблице на всех одновременно промахнувшихся читателей
	v, err, _ := c.group.Do(snapshotKey, func() (interface{}, error) {
		c.mu.RLock()
		generation := c.generation
		c.mu.RUnlock()

		rows, err := c.loader.LoadSchedule(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()

		if err != nil {
			c.rows = nil
			c.loaded = false
			return nil, err
		}

		// инвалидация во время загрузки: результат отдаём, но не кэшируем
		if c.generation == generation {
			c.rows = rows
			c.fetchedAt = c.now()
			c.loaded = true
		}
		return rows, nil
	})
	if err != nil {
		c.logger.Error("Failed to load schedule snapshot", zap.Error(err))
		return nil, fmt.Errorf("schedule snapshot: %w", err)
	}

	rows := v.([]*model.ScheduleRow)
	c.logger.Debug("Schedule snapshot loaded", zap.Int("rows", len(rows)))
	return rows, nil
}

// Invalidate полностью сбрасывает снимок. Вызывается после подтверждённой записи.
func (c *ScheduleCache) Invalidate() {
	c.mu.Lock()
	c.rows = nil
	c.loaded = false
	c.generation++
	c.mu.Unlock()

	// новые читатели не должны присоединяться к загрузке, начатой до записи
	c.group.Forget(snapshotKey)

	c.logger.Debug("Schedule cache invalidated")
}

func (c *ScheduleCache) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveCacheLookup(hit)
	}
}

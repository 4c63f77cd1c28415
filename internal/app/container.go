package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sheets_booking_bot/internal/config"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"go.uber.org/zap"
)

// Container собирает хранилища и сервисы приложения
type Container struct {
	Metrics *service.MetricsService

	Gateway  base.Gateway
	Schedule *repository.ScheduleRepository
	Settings *repository.SettingsRepository
	Cache    *repository.ScheduleCache

	Availability *service.AvailabilityService
	Eligibility  *service.EligibilityService
	Booking      *service.BookingService
	Reminders    *service.ReminderService

	closers []func()
	logger  *zap.Logger
}

// Options - режим сборки контейнера
type Options struct {
	// Memory - таблица в памяти с демонстрационным расписанием вместо Google Sheets
	Memory bool
}

// NewContainer подключается к таблице и опциональным хранилищам (Redis, PostgreSQL)
func NewContainer(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*Container, error) {
	c := &Container{
		Metrics: service.NewMetricsService(),
		logger:  logger,
	}

	// 1. Таблица
	if err := c.initGateway(ctx, cfg, opts); err != nil {
		return nil, err
	}

	c.Schedule = repository.NewScheduleRepository(c.Gateway, cfg.Sheets.ScheduleSheet, logger)
	c.Settings = repository.NewSettingsRepository(c.Gateway, cfg.Sheets.SettingsSheet, logger)
	c.Cache = repository.NewScheduleCache(c.Schedule, cfg.Cache.TTL, c.Metrics, logger)

	// 2. Блокировка строк
	locker, err := c.initLocker(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 3. Журнал напоминаний
	store, err := c.initReminderStore(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	// 4. Сервисы
	c.Eligibility = service.NewEligibilityService(c.Cache, logger)
	c.Availability = service.NewAvailabilityService(c.Cache, c.Settings, c.Eligibility, cfg.Location, logger)
	c.Booking = service.NewBookingService(
		c.Schedule,
		c.Cache,
		c.Cache,
		c.Eligibility,
		c.Availability,
		locker,
		c.Metrics,
		cfg.Location,
		logger,
	)
	c.Reminders = service.NewReminderService(c.Cache, store, cfg.Reminder.SendInterval, c.Metrics, cfg.Location, logger)

	return c, nil
}

func (c *Container) initGateway(ctx context.Context, cfg *config.Config, opts Options) error {
	if opts.Memory {
		gw := base.NewMemoryGateway()
		SeedDemoSchedule(gw, cfg, nowIn(cfg.Location))
		c.Gateway = gw
		c.logger.Warn("Using in-memory spreadsheet with demo schedule")
		return nil
	}

	if err := cfg.ValidateSheets(); err != nil {
		return err
	}

	gw, err := base.NewSheetsGateway(ctx, base.SheetsConfig{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		CredentialsJSON: cfg.Sheets.CredentialsJSON,
		Timeout:         cfg.Sheets.RequestTimeout,
	}, c.Metrics, c.logger)
	if err != nil {
		return fmt.Errorf("connect to spreadsheet: %w", err)
	}
	c.Gateway = gw
	return nil
}

func (c *Container) initLocker(ctx context.Context, cfg *config.Config) (repository.RowLocker, error) {
	if cfg.Lock.RedisURL == "" {
		c.logger.Info("Using in-process row locks")
		return repository.NewLocalRowLocker(), nil
	}

	client, err := NewRedis(ctx, cfg.Lock.RedisURL, c.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	c.closers = append(c.closers, func() { _ = client.Close() })

	return repository.NewRedisRowLocker(client, cfg.Lock.TTL, c.logger), nil
}

func (c *Container) initReminderStore(ctx context.Context, cfg *config.Config) (service.ReminderStore, error) {
	if cfg.DBDSN == "" {
		c.logger.Warn("DB_DSN is not set, reminder log is kept in memory")
		return repository.NewMemoryReminderLog(), nil
	}

	pool, err := NewPostgresPool(ctx, cfg.DBDSN, c.logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	c.closers = append(c.closers, pool.Close)

	return repository.NewReminderRepository(pool), nil
}

// Close освобождает соединения в обратном порядке
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	scheduleSheet = "Расписание"
	settingsSheet = "Настройки"
)

// 5 марта 2025, 12:00 UTC
var testNow = time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

type fixture struct {
	gw           *base.MemoryGateway
	schedule     *repository.ScheduleRepository
	cache        *repository.ScheduleCache
	eligibility  *EligibilityService
	availability *AvailabilityService
	booking      *BookingService
}

func scheduleRow(tariff, week, date, clock, status string, seats ...string) []string {
	return append([]string{tariff, week, date, clock, "Ольга", status}, seats...)
}

// slowWriteGateway задерживает запись в ячейку, расширяя окно гонки между записями
type slowWriteGateway struct {
	*base.MemoryGateway
	delay time.Duration
}

func (g *slowWriteGateway) SetCell(ctx context.Context, sheet string, row, col int, value string) error {
	time.Sleep(g.delay)
	return g.MemoryGateway.SetCell(ctx, sheet, row, col, value)
}

func newFixture(t *testing.T, practiceWeek, trainingWeek string, rows ...[]string) *fixture {
	t.Helper()
	return newFixtureWithWriteDelay(t, 0, practiceWeek, trainingWeek, rows...)
}

func newFixtureWithWriteDelay(t *testing.T, delay time.Duration, practiceWeek, trainingWeek string, rows ...[]string) *fixture {
	t.Helper()

	header := []string{
		model.HeaderTariff, model.HeaderWeek, model.HeaderDate,
		model.HeaderTime, model.HeaderMentor, model.HeaderStatus,
	}
	for i := 1; i <= model.MaxSeats; i++ {
		header = append(header, model.HeaderSeat+strconv.Itoa(i))
	}

	gw := base.NewMemoryGateway()
	gw.SetSheet(scheduleSheet, append([][]string{header}, rows...))
	gw.SetSheet(settingsSheet, [][]string{
		{"Параметр", "Значение"},
		{"", ""},
		{"Неделя практик", practiceWeek},
		{"Неделя тренингов", trainingWeek},
	})

	var gateway base.Gateway = gw
	if delay > 0 {
		gateway = &slowWriteGateway{MemoryGateway: gw, delay: delay}
	}

	logger := zap.NewNop()
	schedule := repository.NewScheduleRepository(gateway, scheduleSheet, logger)
	settings := repository.NewSettingsRepository(gateway, settingsSheet, logger)
	cache := repository.NewScheduleCache(schedule, repository.DefaultCacheTTL, nil, logger)

	eligibility := NewEligibilityService(cache, logger)
	availability := NewAvailabilityService(cache, settings, eligibility, time.UTC, logger)
	availability.SetClock(func() time.Time { return testNow })

	booking := NewBookingService(
		schedule, cache, cache, eligibility, availability,
		repository.NewLocalRowLocker(), nil, time.UTC, logger,
	)
	booking.SetClock(func() time.Time { return testNow })

	return &fixture{
		gw:           gw,
		schedule:     schedule,
		cache:        cache,
		eligibility:  eligibility,
		availability: availability,
		booking:      booking,
	}
}

func (f *fixture) cell(t *testing.T, row, col int) string {
	t.Helper()
	value, err := f.gw.GetCell(context.Background(), scheduleSheet, row, col)
	require.NoError(t, err)
	return value
}

func identity(id int64) model.Identity {
	return model.Identity{UserID: id, FullName: "User " + strconv.FormatInt(id, 10), Username: "user" + strconv.FormatInt(id, 10)}
}

package app

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/config"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryContainerServesDemoSchedule(t *testing.T) {
	cfg := &config.Config{
		Sheets: config.SheetsConfig{
			ScheduleSheet: "Расписание",
			SettingsSheet: "Настройки",
		},
		Location: time.UTC,
	}

	c, err := NewContainer(context.Background(), cfg, Options{Memory: true}, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	tariffs, err := c.Availability.ListTariffs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{model.TariffBasic, model.TariffMain}, tariffs)

	week, err := c.Availability.CurrentWeek(ctx)
	require.NoError(t, err)
	assert.Equal(t, demoWeek, week)

	slots, err := c.Availability.ListSlots(ctx, model.TariffBasic, week)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	outcome, err := c.Booking.AttemptBooking(ctx, slots[0].RowNumber, model.Identity{UserID: 7, FullName: "Тест"})
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeClaimed, outcome)

	bookings, err := c.Booking.ListUserBookings(ctx, model.Identity{UserID: 7})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

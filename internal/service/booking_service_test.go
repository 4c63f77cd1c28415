package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookPracticeSlotTwiceIsAlreadyClaimed(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно"),
	)
	ctx := context.Background()
	user := identity(42)

	outcome, err := f.booking.AttemptBooking(ctx, 2, user)
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeClaimed, outcome)
	assert.Equal(t, "42|User 42|user42", f.cell(t, 2, model.SeatColumn(1)))

	outcome, err = f.booking.AttemptBooking(ctx, 2, user)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Equal(t, model.OutcomeAlreadyClaimed, outcome)

	// кэш после записи отражает новую запись
	rows, err := f.cache.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, rows[0].HasClaimBy(42))
}

func TestBookPracticeSlotIneligibleSameWeek(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно", "42|Иван|ivan"),
		scheduleRow(model.TariffMain, "3", "2025-03-11", "10:00", "Активно"),
	)

	err := f.booking.BookPracticeSlot(context.Background(), 3, identity(42))
	assert.ErrorIs(t, err, ErrIneligible)
	assert.Equal(t, model.OutcomeIneligible, OutcomeOf(err))
	assert.Empty(t, f.cell(t, 3, model.SeatColumn(1)))
}

func TestBookPracticeSlotFillsFirstEmptySeat(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно", "1|A|a", "", "3|C|c"),
	)

	require.NoError(t, f.booking.BookPracticeSlot(context.Background(), 2, identity(42)))
	assert.Equal(t, "42|User 42|user42", f.cell(t, 2, model.SeatColumn(2)))
}

func TestBookPracticeSlotNoSeats(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffMain, "3", "2025-03-10", "10:00", "Активно", "1|A|a", "2|B|b", "3|C|c"),
	)

	err := f.booking.BookPracticeSlot(context.Background(), 2, identity(42))
	assert.ErrorIs(t, err, ErrNoSeatAvailable)
	assert.Empty(t, f.cell(t, 2, model.SeatColumn(4)), "seats beyond tariff capacity stay untouched")
}

func TestBookPracticeSlotStaleSelection(t *testing.T) {
	f := newFixture(t, "3", "3",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Отменено"),
		scheduleRow(model.TariffBasic, "3", "2025-03-01", "10:00", "Активно"),
		scheduleRow(model.TariffTraining, "3", "2025-03-10", "18:00", "Активно"),
		scheduleRow(model.TariffBasic, "", "2025-03-10", "10:00", "Активно"),
	)
	ctx := context.Background()

	for _, row := range []int{2, 3, 4, 5, 40} {
		err := f.booking.BookPracticeSlot(ctx, row, identity(42))
		assert.Equal(t, model.OutcomeStaleSelection, OutcomeOf(err), "row %d", row)
	}
}

func TestBookTrainingSlot(t *testing.T) {
	f := newFixture(t, "3", "4",
		scheduleRow(model.TariffTraining, "4", "2025-03-12", "18:00", "Активно"),
		scheduleRow(model.TariffTraining, "3", "2025-03-06", "18:00", "Активно"),
	)
	ctx := context.Background()

	outcome, err := f.booking.AttemptBooking(ctx, 2, identity(42))
	require.NoError(t, err)
	assert.Equal(t, model.OutcomeClaimed, outcome)
	assert.Equal(t, "42|User 42|user42", f.cell(t, 2, model.ColFirstSeat))

	// тренинг не текущей недели тренингов
	outcome, _ = f.booking.AttemptBooking(ctx, 3, identity(43))
	assert.Equal(t, model.OutcomeStaleSelection, outcome)
}

func TestBookTrainingSlotBlockedByPractice(t *testing.T) {
	f := newFixture(t, "4", "4",
		scheduleRow(model.TariffBasic, "4", "2025-03-10", "10:00", "Активно", "42|Иван|ivan"),
		scheduleRow(model.TariffTraining, "4", "2025-03-12", "18:00", "Активно"),
	)

	err := f.booking.BookTrainingSlot(context.Background(), 3, identity(42))
	assert.ErrorIs(t, err, ErrIneligible)
}

func TestAttemptBookingBackendFailure(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно"),
	)
	f.gw.FailWith(errors.New("connection reset"))

	outcome, err := f.booking.AttemptBooking(context.Background(), 2, identity(42))
	assert.Error(t, err)
	assert.Equal(t, model.OutcomeBackendFailure, outcome)
}

func TestConcurrentBookingsRespectCapacity(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно"),
	)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		claimed int
		full    int
	)
	for i := 1; i <= 12; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			outcome, _ := f.booking.AttemptBooking(ctx, 2, identity(id))

			mu.Lock()
			defer mu.Unlock()
			switch outcome {
			case model.OutcomeClaimed:
				claimed++
			case model.OutcomeNoSeatAvailable:
				full++
			}
		}(int64(i))
	}
	wg.Wait()

	assert.Equal(t, 4, claimed)
	assert.Equal(t, 8, full)

	row, err := f.schedule.GetRow(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, row.BookedSeats())
	assert.Empty(t, row.Seats[4])
}

func TestConcurrentBookingsSameUserSameWeek(t *testing.T) {
	f := newFixtureWithWriteDelay(t, 50*time.Millisecond, "3", "",
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно"),
		scheduleRow(model.TariffBasic, "3", "2025-03-11", "10:00", "Активно"),
	)
	ctx := context.Background()

	// тёплый кэш: оба запроса видят снимок без записей пользователя
	_, err := f.cache.Snapshot(ctx)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes []model.BookingOutcome
	)
	for _, rowNumber := range []int{2, 3} {
		wg.Add(1)
		go func(rowNumber int) {
			defer wg.Done()
			outcome, _ := f.booking.AttemptBooking(ctx, rowNumber, identity(42))

			mu.Lock()
			defer mu.Unlock()
			outcomes = append(outcomes, outcome)
		}(rowNumber)
	}
	wg.Wait()

	assert.ElementsMatch(t, []model.BookingOutcome{model.OutcomeClaimed, model.OutcomeIneligible}, outcomes)

	rows, err := f.schedule.LoadSchedule(ctx)
	require.NoError(t, err)
	booked := 0
	for _, row := range rows {
		if row.HasClaimBy(42) {
			booked++
		}
	}
	assert.Equal(t, 1, booked)
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, model.OutcomeClaimed, OutcomeOf(nil))
	assert.Equal(t, model.OutcomeStaleSelection, OutcomeOf(repository.ErrMalformedRow))
	assert.Equal(t, model.OutcomeBackendFailure, OutcomeOf(repository.ErrLockTimeout))
	assert.Equal(t, model.OutcomeBackendFailure, OutcomeOf(errors.New("boom")))
}

func TestListUserBookings(t *testing.T) {
	f := newFixture(t, "3", "",
		scheduleRow(model.TariffMain, "4", "2025-03-17", "10:00:00", "Активно", "42|Иван Петров|ivan"),
		scheduleRow(model.TariffBasic, "3", "2025-03-10", "10:00", "Активно", "312|Другой|other"),
		scheduleRow(model.TariffTraining, "3", "2025-03-12", "18:00", "Активно", "?|Иван Петров|@Ivan"),
		scheduleRow(model.TariffBasic, "3", "2025-03-11", "11:00", "Активно", "вручную|иван петров"),
	)

	bookings, err := f.booking.ListUserBookings(context.Background(), model.Identity{
		UserID:   42,
		FullName: "Иван Петров",
		Username: "ivan",
	})
	require.NoError(t, err)
	require.Len(t, bookings, 3)

	assert.Equal(t, 4, bookings[0].RowNumber)
	assert.Equal(t, 5, bookings[1].RowNumber)
	assert.Equal(t, 2, bookings[2].RowNumber)
	assert.Equal(t, "17 марта", bookings[2].Date)
	assert.Equal(t, "10:00", bookings[2].Time)
}

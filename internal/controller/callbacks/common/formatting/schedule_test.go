package formatting

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPluralizeSeats(t *testing.T) {
	assert.Equal(t, "место", PluralizeSeats(1))
	assert.Equal(t, "места", PluralizeSeats(3))
	assert.Equal(t, "мест", PluralizeSeats(5))
	assert.Equal(t, "мест", PluralizeSeats(11))
	assert.Equal(t, "места", PluralizeSeats(22))
}

func TestFormatWeek(t *testing.T) {
	assert.Equal(t, "3", FormatWeek(3))
	assert.Equal(t, "3.50", FormatWeek(3.5))
}

func TestFormatSlotsList(t *testing.T) {
	text := FormatSlotsList(model.TariffBasic, 3, []model.Slot{
		{RowNumber: 2, Date: "10 марта", Time: "10:00", Booked: 1, Capacity: 4},
	})

	assert.Contains(t, text, "неделя 3")
	assert.Contains(t, text, "1. 10 марта 10:00 (3/4 места)")
}

func TestFormatBookingsGroupsByWeek(t *testing.T) {
	text := FormatBookings([]model.UserBooking{
		{Week: 4, Date: "17 марта", Time: "10:00", Tariff: model.TariffMain},
		{Week: 3, Date: "10 марта", Time: "10:00", Tariff: model.TariffBasic},
		{Week: 3, Date: "12 марта", Time: "18:00", Tariff: model.TariffTraining},
	})

	assert.True(t, strings.HasPrefix(text, "📋 <b>Ваши записи:</b> 3 записи"))
	assert.Less(t, strings.Index(text, "<b>Неделя 3:</b>"), strings.Index(text, "<b>Неделя 4:</b>"))
	assert.Contains(t, text, "  2. 12 марта 18:00 🎓 тренинг")
	assert.Contains(t, text, "  1. 17 марта 10:00")
}

func TestFormatBookingsEmpty(t *testing.T) {
	assert.Equal(t, "📭 <b>У вас пока нет записей на практики.</b>", FormatBookings(nil))
}

func TestFormatReminder(t *testing.T) {
	eventAt := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)

	practice := FormatReminder(model.Reminder{Tariff: model.TariffBasic, EventAt: eventAt, Time: "10:00"})
	assert.Equal(t, "⏰ <b>НАПОМИНАНИЕ О ПРАКТИКЕ</b>\n\nЗавтра <b>10 марта</b> в <b>10:00</b>\n", practice)

	training := FormatReminder(model.Reminder{Tariff: model.TariffTraining, EventAt: eventAt, Time: "10:00"})
	assert.Contains(t, training, "НАПОМИНАНИЕ О ТРЕНИНГЕ")
}

package formatting

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
)

// FormatWeek печатает номер недели без дробной части, если она нулевая
func FormatWeek(week float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.2f", week), ".00")
}

// FormatSlotsList форматирует список слотов практики на неделю
func FormatSlotsList(tariff string, week int, slots []model.Slot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 <b>Практика %s, неделя %d</b>\n\n", html.EscapeString(strings.ToLower(tariff)), week))

	for i, slot := range slots {
		sb.WriteString(fmt.Sprintf("%d. %s %s (%d/%d %s)\n",
			i+1, slot.Date, slot.Time, slot.Available(), slot.Capacity, PluralizeSeats(slot.Capacity)))
	}

	sb.WriteString("\nВыберите удобное время:")
	return sb.String()
}

// FormatSlotConfirmation - вопрос перед записью на слот
func FormatSlotConfirmation(slot model.Slot) string {
	text := fmt.Sprintf("📝 <b>Подтверждение записи</b>\n\n"+
		"Тариф: %s\nДата: <b>%s</b>\nВремя: <b>%s</b>\n",
		html.EscapeString(slot.Tariff), slot.Date, slot.Time)
	if slot.Mentor != "" {
		text += fmt.Sprintf("Ментор: %s\n", html.EscapeString(slot.Mentor))
	}
	text += fmt.Sprintf("Свободно: %d %s\n\nЗаписаться?", slot.Available(), PluralizeSeats(slot.Available()))
	return text
}

// FormatTrainingsList форматирует список тренингов недели
func FormatTrainingsList(week int, trainings []model.Slot) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🎓 <b>Доступные тренинги (неделя %d):</b>\n\n", week))

	for i, slot := range trainings {
		sb.WriteString(fmt.Sprintf("%d. %s %s", i+1, slot.Date, slot.Time))
		if slot.Mentor != "" {
			sb.WriteString(" · " + html.EscapeString(slot.Mentor))
		}
		sb.WriteString(fmt.Sprintf(" (%d/%d %s)\n", slot.Available(), slot.Capacity, PluralizeSeats(slot.Capacity)))
	}

	sb.WriteString("\nВыберите тренинг:")
	return sb.String()
}

// FormatBookings форматирует записи пользователя, сгруппированные по неделям
func FormatBookings(bookings []model.UserBooking) string {
	if len(bookings) == 0 {
		return "📭 <b>У вас пока нет записей на практики.</b>"
	}

	byWeek := make(map[string][]model.UserBooking)
	var weeks []float64
	seen := make(map[string]bool)
	for _, booking := range bookings {
		key := FormatWeek(booking.Week)
		if !seen[key] {
			seen[key] = true
			weeks = append(weeks, booking.Week)
		}
		byWeek[key] = append(byWeek[key], booking)
	}
	sort.Float64s(weeks)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 <b>Ваши записи:</b> %d %s\n", len(bookings), PluralizeBookings(len(bookings))))

	for _, week := range weeks {
		key := FormatWeek(week)
		sb.WriteString(fmt.Sprintf("\n<b>Неделя %s:</b>\n", key))
		for i, booking := range byWeek[key] {
			sb.WriteString(fmt.Sprintf("  %d. %s %s", i+1, booking.Date, booking.Time))
			if model.IsTraining(booking.Tariff) {
				sb.WriteString(" 🎓 тренинг")
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FormatReminder - текст напоминания за сутки до занятия
func FormatReminder(reminder model.Reminder) string {
	kind := "ПРАКТИКЕ"
	if reminder.IsTraining() {
		kind = "ТРЕНИНГЕ"
	}

	return fmt.Sprintf("⏰ <b>НАПОМИНАНИЕ О %s</b>\n\nЗавтра <b>%s</b> в <b>%s</b>\n",
		kind, model.FormatDay(reminder.EventAt), reminder.Time)
}

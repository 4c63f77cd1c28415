package app

import (
	"strconv"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/config"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
)

const demoWeek = 1

func nowIn(loc *time.Location) time.Time {
	if loc == nil {
		return time.Now()
	}
	return time.Now().In(loc)
}

// SeedDemoSchedule заполняет таблицу в памяти расписанием на ближайшие дни
func SeedDemoSchedule(gw *base.MemoryGateway, cfg *config.Config, now time.Time) {
	header := []string{
		model.HeaderTariff, model.HeaderWeek, model.HeaderDate,
		model.HeaderTime, model.HeaderMentor, model.HeaderStatus,
	}
	for i := 1; i <= model.MaxSeats; i++ {
		header = append(header, model.HeaderSeat+strconv.Itoa(i))
	}

	week := strconv.Itoa(demoWeek)
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	gw.SetSheet(cfg.Sheets.ScheduleSheet, [][]string{
		header,
		{model.TariffBasic, week, day(1), "10:00", "Ольга", model.StatusActive},
		{model.TariffBasic, week, day(2), "12:00", "Ольга", model.StatusActive},
		{model.TariffMain, week, day(1), "18:00", "Пётр", model.StatusActive},
		{model.TariffMain, week, day(3), "19:00", "Пётр", model.StatusActive},
		{model.TariffTraining, week, day(2), "18:00", "Анна", model.StatusActive},
		{model.TariffMain, strconv.Itoa(demoWeek + 1), day(8), "18:00", "Пётр", model.StatusActive},
	})

	gw.SetSheet(cfg.Sheets.SettingsSheet, [][]string{
		{"Параметр", "Значение"},
		{"", ""},
		{"Неделя практик", week},
		{"Неделя тренингов", week},
	})
}

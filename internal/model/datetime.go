package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Форматы дат, которые встречаются в таблице
var dateLayouts = []string{
	"2006-1-2", // 2025-03-10
	"2.1.2006", // 10.03.2025
	"2/1/2006", // 10/03/2025
}

// Для отображения дополнительно принимаем 10-03-2025
var displayDateLayouts = append(append([]string{}, dateLayouts...), "2-1-2006")

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// firstToken отрезает хвост вида " 00:00:00", который таблица добавляет к датам
func firstToken(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parseWithLayouts(raw string, layouts []string, loc *time.Location) (time.Time, error) {
	part := firstToken(raw)
	if part == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, part, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// ParseDate разбирает дату из таблицы (YYYY-MM-DD, DD.MM.YYYY, DD/MM/YYYY)
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return parseWithLayouts(raw, dateLayouts, loc)
}

// NormalizeTime оставляет от значения колонки "Время" только ЧЧ:ММ
func NormalizeTime(raw string) string {
	part := firstToken(raw)
	if len(part) > 5 {
		part = part[:5]
	}
	return part
}

// EventTime собирает момент начала занятия из даты и времени.
// Если время не разбирается, берётся полночь.
func EventTime(date, clock string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	t, err := time.Parse("15:04", NormalizeTime(clock))
	if err != nil {
		return day, nil
	}

	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// FormatDate форматирует дату для пользователя: "2025-03-10" -> "10 марта".
// Неразобранное значение возвращается как есть.
func FormatDate(raw string) string {
	d, err := parseWithLayouts(raw, displayDateLayouts, time.UTC)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return FormatDay(d)
}

// FormatDay форматирует момент как "10 марта"
func FormatDay(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), monthsGenitive[t.Month()-1])
}

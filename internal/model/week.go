package model

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// WeekTolerance - допуск при сравнении номеров недель (в таблице они бывают дробными)
const WeekTolerance = 0.01

var ErrInvalidWeek = errors.New("invalid week value")

// SameWeek сравнивает недели с допуском WeekTolerance
func SameWeek(a, b float64) bool {
	return math.Abs(a-b) <= WeekTolerance
}

// ParseWeek разбирает значение колонки "Неделя".
// Таблица может отдавать "3", "3.0" или "3,0" в зависимости от локали.
func ParseWeek(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrInvalidWeek
	}
	week, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || math.IsNaN(week) || math.IsInf(week, 0) {
		return 0, ErrInvalidWeek
	}
	return week, nil
}

package model

import "strings"

// Тарифы в том виде, в котором они записаны в таблице
const (
	TariffBasic    = "Базовый"
	TariffMain     = "Основной"
	TariffTraining = "Тренинг"
)

// StatusActive - значение колонки "Статус" у открытых строк (сравнивается без учёта регистра)
const StatusActive = "Активно"

// Заголовки листа расписания
const (
	HeaderTariff = "Тариф"
	HeaderWeek   = "Неделя"
	HeaderDate   = "Дата"
	HeaderTime   = "Время"
	HeaderMentor = "Наставник"
	HeaderStatus = "Статус"
	HeaderSeat   = "Студент" // Студент1..Студент25
)

// Номера колонок листа расписания (1-based, как в API таблиц)
const (
	ColTariff    = 1
	ColWeek      = 2
	ColDate      = 3
	ColTime      = 4
	ColMentor    = 5
	ColStatus    = 6
	ColFirstSeat = 7
)

// MaxSeats - число колонок мест в таблице (Студент1..Студент25)
const MaxSeats = 25

// CapacityFor возвращает лимит мест для тарифа
func CapacityFor(tariff string) int {
	switch strings.TrimSpace(tariff) {
	case TariffBasic:
		return 4
	case TariffMain:
		return 3
	case TariffTraining:
		return MaxSeats
	default:
		return 1
	}
}

// IsTraining проверяет, относится ли тариф к тренингам
func IsTraining(tariff string) bool {
	return strings.TrimSpace(tariff) == TariffTraining
}

// IsActiveStatus сравнивает статус строки с "Активно" без учёта регистра
func IsActiveStatus(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusActive)
}

// SeatColumn возвращает номер колонки таблицы для места seat (1-based)
func SeatColumn(seat int) int {
	return ColFirstSeat + seat - 1
}

// ScheduleRow - одна строка листа расписания
type ScheduleRow struct {
	Number int // номер строки в листе, заголовок - строка 1
	Tariff string
	Status string
	Week   float64
	Date   string
	Time   string
	Mentor string
	Seats  []string // сырые значения Студент1..СтудентN
}

// IsActive проверяет статус строки
func (r *ScheduleRow) IsActive() bool {
	return IsActiveStatus(r.Status)
}

// Capacity возвращает лимит мест строки по её тарифу
func (r *ScheduleRow) Capacity() int {
	return CapacityFor(r.Tariff)
}

// BookedSeats считает занятые места среди первых Capacity() колонок
func (r *ScheduleRow) BookedSeats() int {
	capacity := r.Capacity()
	booked := 0
	for i := 0; i < capacity && i < len(r.Seats); i++ {
		if strings.TrimSpace(r.Seats[i]) != "" {
			booked++
		}
	}
	return booked
}

// HasAnyClaim проверяет, есть ли в строке хоть одна запись
func (r *ScheduleRow) HasAnyClaim() bool {
	for _, cell := range r.Seats {
		if strings.TrimSpace(cell) != "" {
			return true
		}
	}
	return false
}

// Claims возвращает все корректные записи строки (по всем колонкам мест)
func (r *ScheduleRow) Claims() []Claim {
	var claims []Claim
	for _, cell := range r.Seats {
		claim, err := ParseClaim(cell)
		if err != nil {
			continue
		}
		claims = append(claims, claim)
	}
	return claims
}

// HasClaimBy проверяет, записан ли пользователь в эту строку
func (r *ScheduleRow) HasClaimBy(userID int64) bool {
	return SeatsContainUser(r.Seats, userID)
}

// SeatsContainUser ищет запись пользователя среди ячеек мест
func SeatsContainUser(seats []string, userID int64) bool {
	for _, cell := range seats {
		claim, err := ParseClaim(cell)
		if err != nil {
			continue
		}
		if claim.UserID == userID {
			return true
		}
	}
	return false
}

package callbacktypes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidCallback - callback data не разбирается
var ErrInvalidCallback = errors.New("invalid callback format")

// Тариф передаётся индексом в отсортированном списке тарифов:
// название из таблицы может содержать ':' и не влезть в 64 байта callback data.

// TariffData кодирует выбор тарифа: "tariff:<index>"
func TariffData(index int) string {
	return Tariff + strconv.Itoa(index)
}

// ParseTariffData разбирает "tariff:<index>"
func ParseTariffData(data string) (int, error) {
	raw, ok := strings.CutPrefix(data, Tariff)
	if !ok {
		return 0, ErrInvalidCallback
	}
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, ErrInvalidCallback
	}
	return index, nil
}

// SlotCallback - выбранный слот практики: "slot:<tariff index>:<week>:<row>"
type SlotCallback struct {
	TariffIndex int
	Week        int
	Row         int
}

// Data сериализует выбор слота в callback data
func (s SlotCallback) Data() string {
	return fmt.Sprintf("%s%d:%d:%d", Slot, s.TariffIndex, s.Week, s.Row)
}

// ParseSlotCallback разбирает "slot:<tariff index>:<week>:<row>"
func ParseSlotCallback(data string) (SlotCallback, error) {
	raw, ok := strings.CutPrefix(data, Slot)
	if !ok {
		return SlotCallback{}, ErrInvalidCallback
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return SlotCallback{}, ErrInvalidCallback
	}

	index, err := strconv.Atoi(parts[0])
	if err != nil || index < 0 {
		return SlotCallback{}, ErrInvalidCallback
	}
	week, err := strconv.Atoi(parts[1])
	if err != nil {
		return SlotCallback{}, ErrInvalidCallback
	}
	row, err := strconv.Atoi(parts[2])
	if err != nil || row < 1 {
		return SlotCallback{}, ErrInvalidCallback
	}

	return SlotCallback{TariffIndex: index, Week: week, Row: row}, nil
}

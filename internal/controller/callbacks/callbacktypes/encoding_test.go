package callbacktypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotCallback(t *testing.T) {
	slot, err := ParseSlotCallback("slot:1:3:12")
	require.NoError(t, err)
	assert.Equal(t, SlotCallback{TariffIndex: 1, Week: 3, Row: 12}, slot)
	assert.Equal(t, "slot:1:3:12", slot.Data())

	for _, data := range []string{
		"slot:1:3",
		"slot::3:12",
		"slot:-1:3:12",
		"slot:Базовый:3:12",
		"slot:Тариф:с:двоеточием:3:12",
		"slot:1:x:12",
		"slot:1:3:0",
		"tariff:1",
	} {
		_, err := ParseSlotCallback(data)
		assert.ErrorIs(t, err, ErrInvalidCallback, data)
	}
}

func TestSlotCallbackFitsTelegramLimit(t *testing.T) {
	// callback_data в Telegram ограничен 64 байтами
	data := SlotCallback{TariffIndex: 99, Week: 52, Row: 99999}.Data()
	assert.LessOrEqual(t, len(data), 64)

	parsed, err := ParseSlotCallback(data)
	require.NoError(t, err)
	assert.Equal(t, 99999, parsed.Row)
}

func TestTariffData(t *testing.T) {
	assert.Equal(t, "tariff:2", TariffData(2))

	index, err := ParseTariffData(TariffData(2))
	require.NoError(t, err)
	assert.Equal(t, 2, index)

	for _, data := range []string{"tariff:", "tariff:-1", "tariff:" + strings.Repeat("Я", 40), "slot:1"} {
		_, err := ParseTariffData(data)
		assert.ErrorIs(t, err, ErrInvalidCallback, data)
	}
}

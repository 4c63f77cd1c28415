package keyboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/go-telegram/bot/models"
)

// BackToMainButton создаёт кнопку "В главное меню"
func BackToMainButton() models.InlineKeyboardButton {
	return Button("🏠 В главное меню", callbacktypes.MenuBackToMain)
}

// BackToTariffsButton создаёт кнопку возврата к выбору тарифа
func BackToTariffsButton() models.InlineKeyboardButton {
	return Button("⬅️ К тарифам", callbacktypes.MenuBackToTariffs)
}

// AddBackToMainButton добавляет кнопку "В главное меню" к builder
func (b *Builder) AddBackToMainButton() *Builder {
	return b.Row(BackToMainButton())
}

// MainMenu - главное меню бота
func MainMenu() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("🧑‍🏫 Запись на практику", callbacktypes.BookPractice)).
		Row(Button("🎓 Запись на тренинг", callbacktypes.BookTraining)).
		Row(Button("📋 Мои записи", callbacktypes.MyBookings)).
		Row(Button("ℹ️ Помощь", callbacktypes.Help)).
		Build()
}

// TariffsKeyboard создаёт клавиатуру выбора тарифа практики
func TariffsKeyboard(tariffs []string) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(tariffs))
	for i, tariff := range tariffs {
		buttons = append(buttons, Button("Практика "+strings.ToLower(tariff), callbacktypes.TariffData(i)))
	}
	return NewBuilder().Column(buttons).AddBackToMainButton().Build()
}

// SlotsKeyboard - по кнопке на каждый слот недели; tariffIndex - позиция тарифа в TariffsKeyboard
func SlotsKeyboard(tariffIndex, week int, slots []model.Slot) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		data := callbacktypes.SlotCallback{TariffIndex: tariffIndex, Week: week, Row: slot.RowNumber}.Data()
		buttons = append(buttons, Button(fmt.Sprintf("%s %s", slot.Date, slot.Time), data))
	}
	return NewBuilder().Column(buttons).Row(BackToTariffsButton()).Build()
}

// ConfirmKeyboard - подтверждение записи на выбранную строку
func ConfirmKeyboard(rowNumber int) *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("✅ Да, записаться", callbacktypes.Confirm+strconv.Itoa(rowNumber)),
			Button("❌ Нет, отменить", callbacktypes.MenuCancelBooking),
		).
		Build()
}

// TrainingsKeyboard - список тренингов текущей недели тренингов
func TrainingsKeyboard(trainings []model.Slot) *models.InlineKeyboardMarkup {
	buttons := make([]models.InlineKeyboardButton, 0, len(trainings))
	for _, slot := range trainings {
		text := fmt.Sprintf("%s %s", slot.Date, slot.Time)
		if slot.Mentor != "" {
			text += " · " + slot.Mentor
		}
		buttons = append(buttons, Button(text, callbacktypes.Training+strconv.Itoa(slot.RowNumber)))
	}
	return NewBuilder().Column(buttons).AddBackToMainButton().Build()
}

// BackToMainKeyboard - единственная кнопка возврата в меню
func BackToMainKeyboard() *models.InlineKeyboardMarkup {
	return NewBuilder().AddBackToMainButton().Build()
}

package student

import (
	"context"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleConfirm записывает пользователя на строку после подтверждения.
// Все проверки повторяются по свежей строке таблицы, тип занятия определяется тарифом строки.
func HandleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	row, err := common.ParseRowFromCallback(callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	hc.Answer("⏳ Записываем...")

	outcome, err := h.BookingService.AttemptBooking(ctx, row, hc.Identity())
	if err != nil {
		hc.Logger().Info("Booking attempt finished without a seat",
			zap.Int("row", row),
			zap.String("outcome", string(outcome)))
	}

	if outcome.IsSuccess() {
		hc.Show(common.OutcomeMessage(outcome), keyboard.MainMenu())
		return
	}
	hc.Show(common.OutcomeMessage(outcome), keyboard.BackToMainKeyboard())
}

// HandleMyBookings показывает записи пользователя
func HandleMyBookings(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")

	bookings, err := h.BookingService.ListUserBookings(ctx, hc.Identity())
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}

	hc.Show(formatting.FormatBookings(bookings), keyboard.BackToMainKeyboard())
}

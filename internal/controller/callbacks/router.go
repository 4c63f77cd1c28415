package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/student"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Меню =====
	case data == callbacktypes.MenuBackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == callbacktypes.MenuCancelBooking:
		common.HandleCancelBooking(ctx, b, callback, h)
	case data == callbacktypes.Help:
		common.HandleHelp(ctx, b, callback, h)
	case data == callbacktypes.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Практики =====
	case data == callbacktypes.BookPractice:
		student.HandleBookPractice(ctx, b, callback, h)
	case data == callbacktypes.MenuBackToTariffs:
		student.HandleBackToTariffs(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.Tariff):
		student.HandleTariff(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.Slot):
		student.HandleSlot(ctx, b, callback, h)

	// ===== Тренинги =====
	case data == callbacktypes.BookTraining:
		student.HandleBookTraining(ctx, b, callback, h)
	case strings.HasPrefix(data, callbacktypes.Training):
		student.HandleTraining(ctx, b, callback, h)

	// ===== Запись =====
	case strings.HasPrefix(data, callbacktypes.Confirm):
		student.HandleConfirm(ctx, b, callback, h)
	case data == callbacktypes.MyBookings:
		student.HandleMyBookings(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}

package callbacks

import (
	"context"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	availabilityService *service.AvailabilityService,
	eligibilityService *service.EligibilityService,
	bookingService *service.BookingService,
	logger *zap.Logger,
) *Handler {
	inner := &callbacktypes.Handler{
		AvailabilityService: availabilityService,
		EligibilityService:  eligibilityService,
		BookingService:      bookingService,
		Logger:              logger,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - точка входа для всех нажатий на inline-кнопки
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	Route(ctx, b, update.CallbackQuery, h.Handler)
}

package callbacktypes

import (
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"go.uber.org/zap"
)

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	AvailabilityService *service.AvailabilityService
	EligibilityService  *service.EligibilityService
	BookingService      *service.BookingService
	Logger              *zap.Logger
}

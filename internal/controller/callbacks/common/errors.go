package common

import (
	"errors"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = callbacktypes.ErrInvalidCallback
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrAlreadyClaimed):
		return "❌ Вы уже записаны на это занятие"
	case errors.Is(err, service.ErrIneligible):
		return "❌ Вы уже записаны на занятие на этой неделе"
	case errors.Is(err, service.ErrNoSeatAvailable):
		return "❌ Все места уже заняты"
	case errors.Is(err, service.ErrStaleSelection), errors.Is(err, repository.ErrMalformedRow):
		return "❌ Этот слот больше не доступен"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	default:
		return "❌ Не удалось выполнить операцию. Попробуйте позже"
	}
}

// OutcomeMessage возвращает текст итога попытки записи
func OutcomeMessage(outcome model.BookingOutcome) string {
	switch outcome {
	case model.OutcomeClaimed:
		return "✅ <b>Вы записаны!</b>\n\nНапоминание придёт за сутки до занятия."
	case model.OutcomeAlreadyClaimed:
		return "❌ Вы уже записаны на это занятие"
	case model.OutcomeIneligible:
		return "❌ Вы уже записаны на занятие этого типа на этой неделе"
	case model.OutcomeNoSeatAvailable:
		return "❌ Все места уже заняты"
	case model.OutcomeStaleSelection:
		return "❌ Этот слот больше не доступен"
	default:
		return "❌ <b>Не удалось завершить запись.</b>\n\nОшибка подключения к таблице, попробуйте позже"
	}
}

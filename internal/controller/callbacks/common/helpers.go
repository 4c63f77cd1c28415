package common

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// IsMessageNotModifiedError - Telegram отказывается редактировать сообщение тем же текстом
func IsMessageNotModifiedError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

// IdentityFromUser собирает данные пользователя для записи в таблицу
func IdentityFromUser(user models.User) model.Identity {
	fullName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	return model.Identity{
		UserID:   user.ID,
		FullName: fullName,
		Username: user.Username,
	}
}

// ParseRowFromCallback извлекает номер строки из callback data
// Например: "confirm:12" -> 12
func ParseRowFromCallback(data string) (int, error) {
	parts := strings.Split(data, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidFormat
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil || row < 1 {
		return 0, ErrInvalidFormat
	}
	return row, nil
}

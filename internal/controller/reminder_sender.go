package controller

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// TelegramReminderSender доставляет напоминания личным сообщением
type TelegramReminderSender struct {
	bot *bot.Bot
}

func NewTelegramReminderSender(b *bot.Bot) *TelegramReminderSender {
	return &TelegramReminderSender{bot: b}
}

// SendReminder отправляет напоминание пользователю
func (s *TelegramReminderSender) SendReminder(ctx context.Context, reminder model.Reminder) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    reminder.UserID,
		Text:      formatting.FormatReminder(reminder),
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send reminder to %d: %w", reminder.UserID, err)
	}
	return nil
}

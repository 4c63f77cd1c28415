package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.logger.Info("User started bot",
		zap.Int64("user_id", update.Message.From.ID),
		zap.String("username", update.Message.From.Username))

	h.sendMessage(ctx, b, update.Message.Chat.ID, common.MainMenuText, keyboard.MainMenu())
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, common.HelpText, keyboard.BackToMainKeyboard())
}

// HandleChatID отвечает идентификатором чата (нужен администратору для настройки)
func (h *Handlers) HandleChatID(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("Chat ID: <code>%d</code>", chatID), nil)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	identity := common.IdentityFromUser(*update.Message.From)
	bookings, err := h.bookingService.ListUserBookings(ctx, identity)
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.FormatBookings(bookings), keyboard.BackToMainKeyboard())
}

// HandleTextMessage отвечает на любой другой текст главным меню
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, common.MainMenuText, keyboard.MainMenu())
}

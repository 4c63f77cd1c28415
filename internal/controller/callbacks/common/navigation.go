package common

import (
	"context"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Тексты общих экранов
const (
	MainMenuText = "👋 <b>Добро пожаловать!</b>\n\n" +
		"Здесь можно записаться на практику или тренинг.\n" +
		"Выберите действие:"

	HelpText = "ℹ️ <b>Помощь</b>\n\n" +
		"🧑‍🏫 <b>Запись на практику</b> - выбрать тариф и удобный слот текущей недели\n" +
		"🎓 <b>Запись на тренинг</b> - записаться на тренинг недели\n" +
		"📋 <b>Мои записи</b> - посмотреть свои записи\n\n" +
		"На одной неделе можно записаться только на одну практику и один тренинг.\n" +
		"Напоминание придёт за сутки до занятия.\n\n" +
		"По всем вопросам, в том числе и для отмены записи, обращайтесь к администратору"

	RateLimitText = "⚠️ <b>Слишком много запросов</b>\nПожалуйста, подождите 1 минуту."
)

// HandleBackToMain возвращает пользователя к главному меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	hc.Show(MainMenuText, keyboard.MainMenu())
}

// HandleCancelBooking - пользователь отказался от записи на экране подтверждения
func HandleCancelBooking(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.Answer("Запись отменена")
	hc.Show("❌ Запись отменена.\n\n"+MainMenuText, keyboard.MainMenu())
}

// HandleHelp показывает справку
func HandleHelp(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	hc.Show(HelpText, keyboard.BackToMainKeyboard())
}

package student

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBookPractice показывает выбор тарифа практики
func HandleBookPractice(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")
	showTariffs(hc)
}

// HandleBackToTariffs возвращает к выбору тарифа со списка слотов
func HandleBackToTariffs(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	HandleBookPractice(ctx, b, callback, h)
}

func showTariffs(hc *common.HandlerContext) {
	tariffs, err := hc.Handler.AvailabilityService.ListTariffs(hc.Ctx)
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}
	if len(tariffs) == 0 {
		hc.Show("📭 Сейчас нет доступных практик.", keyboard.BackToMainKeyboard())
		return
	}

	hc.Show("🧑‍🏫 <b>Выберите тариф практики:</b>", keyboard.TariffsKeyboard(tariffs))
}

// HandleTariff показывает свободные слоты тарифа на текущую неделю
func HandleTariff(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	index, err := callbacktypes.ParseTariffData(callback.Data)
	if err != nil {
		hc.Logger().Warn("Invalid tariff callback", zap.Error(err))
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	tariff, err := resolveTariff(hc, index)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	hc.Answer("")

	week, err := h.AvailabilityService.CurrentWeek(ctx)
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}
	if week <= 0 {
		hc.Show("🔒 Запись на практики сейчас закрыта.", keyboard.BackToMainKeyboard())
		return
	}

	slots, err := h.AvailabilityService.ListSlotsForUser(ctx, tariff, week, hc.UserID)
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}

	if len(slots) == 0 {
		back := keyboard.NewBuilder().Row(keyboard.BackToTariffsButton()).AddBackToMainButton().Build()

		if !h.EligibilityService.CanBookWeek(ctx, hc.UserID, float64(week), true) {
			hc.Show(fmt.Sprintf("❌ Вы уже записаны на практику на неделе %d!", week), back)
			return
		}

		text := fmt.Sprintf("❌ На неделе %d для тарифа '%s' нет свободных слотов.", week, html.EscapeString(tariff))
		text += nearestWeekHint(hc, tariff, week)
		hc.Show(text, back)
		return
	}

	hc.Show(formatting.FormatSlotsList(tariff, week, slots), keyboard.SlotsKeyboard(index, week, slots))
}

// resolveTariff находит тариф по позиции в списке, показанном пользователю.
// Список изменился и позиции больше нет - выбор устарел.
func resolveTariff(hc *common.HandlerContext, index int) (string, error) {
	tariffs, err := hc.Handler.AvailabilityService.ListTariffs(hc.Ctx)
	if err != nil {
		return "", err
	}
	if index >= len(tariffs) {
		return "", fmt.Errorf("%w: tariff index %d of %d", service.ErrStaleSelection, index, len(tariffs))
	}
	return tariffs[index], nil
}

// nearestWeekHint подсказывает ближайшую неделю, где у тарифа есть пустые слоты
func nearestWeekHint(hc *common.HandlerContext, tariff string, week int) string {
	nearest, ok, err := hc.Handler.AvailabilityService.NearestAvailableWeek(hc.Ctx, tariff)
	if err != nil || !ok || nearest <= float64(week) {
		return ""
	}
	return fmt.Sprintf("\n\nБлижайшая неделя со свободными слотами: %s", formatting.FormatWeek(nearest))
}

// HandleSlot показывает подтверждение записи на выбранный слот
func HandleSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	selected, err := callbacktypes.ParseSlotCallback(callback.Data)
	if err != nil {
		hc.Logger().Warn("Invalid slot callback", zap.Error(err))
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	tariff, err := resolveTariff(hc, selected.TariffIndex)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	slot, err := h.AvailabilityService.SelectSlot(ctx, tariff, selected.Week, selected.Row)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	hc.Answer("")

	hc.Show(formatting.FormatSlotConfirmation(slot), keyboard.ConfirmKeyboard(slot.RowNumber))
}

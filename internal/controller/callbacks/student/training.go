package student

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBookTraining показывает тренинги текущей недели тренингов
func HandleBookTraining(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)
	hc.Answer("")

	week, err := h.AvailabilityService.TrainingWeek(ctx)
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}
	if week <= 0 {
		hc.Show("🔒 Запись на тренинги сейчас закрыта.", keyboard.BackToMainKeyboard())
		return
	}

	trainings, err := h.AvailabilityService.ListTrainings(ctx, hc.UserID)
	if err != nil {
		hc.Show(common.ErrorMessage(err), keyboard.BackToMainKeyboard())
		return
	}

	if len(trainings) == 0 {
		if !h.EligibilityService.CanBookWeek(ctx, hc.UserID, float64(week), false) {
			hc.Show(fmt.Sprintf("❌ Вы уже записаны на тренинг на неделе %d!", week), keyboard.BackToMainKeyboard())
			return
		}
		hc.Show(fmt.Sprintf("❌ На неделе %d нет доступных тренингов.", week), keyboard.BackToMainKeyboard())
		return
	}

	hc.Show(formatting.FormatTrainingsList(week, trainings), keyboard.TrainingsKeyboard(trainings))
}

// HandleTraining показывает подтверждение записи на тренинг
func HandleTraining(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	row, err := common.ParseRowFromCallback(callback.Data)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	week, err := h.AvailabilityService.TrainingWeek(ctx)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}

	slot, err := h.AvailabilityService.SelectSlot(ctx, model.TariffTraining, week, row)
	if err != nil {
		hc.AnswerAlert(common.ErrorMessage(err))
		return
	}
	hc.Answer("")

	hc.Show(formatting.FormatSlotConfirmation(slot), keyboard.ConfirmKeyboard(slot.RowNumber))
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"go.uber.org/zap"
)

// Управляющие ячейки листа настроек
const (
	practiceWeekRow = 3 // B3 - текущая неделя практик
	trainingWeekRow = 4 // B4 - текущая неделя тренингов
	weekCol         = 2
)

// SettingsRepository читает управляющие ячейки листа настроек
type SettingsRepository struct {
	gateway base.Gateway
	sheet   string
	logger  *zap.Logger
}

func NewSettingsRepository(gateway base.Gateway, sheet string, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{
		gateway: gateway,
		sheet:   sheet,
		logger:  logger,
	}
}

// PracticeWeek читает B3. ok=false, если ячейка пустая или не число.
func (r *SettingsRepository) PracticeWeek(ctx context.Context) (week int, ok bool, err error) {
	return r.readWeek(ctx, practiceWeekRow)
}

// TrainingWeek читает B4. ok=false, если ячейка пустая или не число.
func (r *SettingsRepository) TrainingWeek(ctx context.Context) (week int, ok bool, err error) {
	return r.readWeek(ctx, trainingWeekRow)
}

func (r *SettingsRepository) readWeek(ctx context.Context, row int) (int, bool, error) {
	raw, err := r.gateway.GetCell(ctx, r.sheet, row, weekCol)
	if err != nil {
		return 0, false, fmt.Errorf("read week from %s%d: %w", base.ColumnLetter(weekCol), row, err)
	}

	if strings.TrimSpace(raw) == "" {
		r.logger.Debug("Week cell is empty", zap.Int("row", row))
		return 0, false, nil
	}

	week, err := model.ParseWeek(raw)
	if err != nil {
		r.logger.Warn("Week cell is not a number",
			zap.Int("row", row),
			zap.String("value", raw))
		return 0, false, nil
	}

	// в ячейке может оказаться "3.0" - номер недели целый
	return int(week), true, nil
}

package service

import (
	"context"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"go.uber.org/zap"
)

// EligibilityService решает, может ли пользователь записаться на неделю
type EligibilityService struct {
	schedule SnapshotReader
	logger   *zap.Logger
}

func NewEligibilityService(schedule SnapshotReader, logger *zap.Logger) *EligibilityService {
	return &EligibilityService{
		schedule: schedule,
		logger:   logger,
	}
}

// CanBookWeek проверяет, нет ли у пользователя записи на эту неделю.
// practiceOnly=true - запись на практику, существующие тренинги не мешают.
// practiceOnly=false - запись на тренинг, мешает любая запись недели.
// Ошибка чтения таблицы не блокирует запись.
func (s *EligibilityService) CanBookWeek(ctx context.Context, userID int64, week float64, practiceOnly bool) bool {
	rows, err := s.schedule.Snapshot(ctx)
	if err != nil {
		return failOpen(s.logger, "can_book_week", err)
	}

	blocking := blockingRow(rows, userID, week, practiceOnly)
	if blocking != nil {
		s.logger.Debug("Week already booked by user",
			zap.Int64("user_id", userID),
			zap.Float64("week", week),
			zap.Int("row", blocking.Number),
			zap.String("tariff", blocking.Tariff))
		return false
	}

	return true
}

// blockingRow возвращает первую строку недели, где пользователь уже записан
func blockingRow(rows []*model.ScheduleRow, userID int64, week float64, practiceOnly bool) *model.ScheduleRow {
	for _, row := range rows {
		if !model.SameWeek(row.Week, week) {
			continue
		}
		if practiceOnly && model.IsTraining(row.Tariff) {
			continue
		}
		if row.HasClaimBy(userID) {
			return row
		}
	}
	return nil
}

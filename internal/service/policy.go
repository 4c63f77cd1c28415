package service

import (
	"context"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"go.uber.org/zap"
)

// SnapshotReader отдаёт снимок расписания (обычно через кэш)
type SnapshotReader interface {
	Snapshot(ctx context.Context) ([]*model.ScheduleRow, error)
}

// WeekSettings читает управляющие ячейки с номерами недель
type WeekSettings interface {
	PracticeWeek(ctx context.Context) (week int, ok bool, err error)
	TrainingWeek(ctx context.Context) (week int, ok bool, err error)
}

// failClosed - политика листинга: ошибка чтения означает "ничего нет".
// Вызывающий получает пустой список и ошибку, устаревшие данные не показываются.
func failClosed[T any](logger *zap.Logger, op string, err error) ([]T, error) {
	logger.Error("Read failed, returning empty listing",
		zap.String("op", op),
		zap.Error(err))
	return nil, err
}

// failOpen - политика проверки права записи: ошибка чтения не блокирует пользователя.
func failOpen(logger *zap.Logger, op string, err error) bool {
	logger.Error("Read failed, allowing by default (possible double booking)",
		zap.String("op", op),
		zap.Error(err))
	return true
}

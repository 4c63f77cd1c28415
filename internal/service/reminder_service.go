package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Окно напоминаний: занятие через (23ч, 25ч) от момента проверки
const (
	ReminderWindowFrom = 23 * time.Hour
	ReminderWindowTo   = 25 * time.Hour
)

// DefaultReminderSendInterval - пауза между отправками напоминаний
const DefaultReminderSendInterval = 300 * time.Millisecond

// ReminderSender доставляет напоминание пользователю
type ReminderSender interface {
	SendReminder(ctx context.Context, reminder model.Reminder) error
}

// ReminderStore - журнал уже отправленных напоминаний
type ReminderStore interface {
	IsSent(ctx context.Context, userID int64, eventAt time.Time) (bool, error)
	MarkSent(ctx context.Context, reminder model.Reminder) error
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// ReminderObserver получает результат каждой отправки
type ReminderObserver interface {
	ObserveReminder(result string)
}

// DispatchReport - итог одного прохода рассылки
type DispatchReport struct {
	Found   int
	Sent    int
	Skipped int // уже отправлялись раньше
	Failed  int
}

type ReminderService struct {
	schedule SnapshotReader
	store    ReminderStore
	limiter  *rate.Limiter
	observer ReminderObserver
	loc      *time.Location
	logger   *zap.Logger
}

func NewReminderService(
	schedule SnapshotReader,
	store ReminderStore,
	sendInterval time.Duration,
	observer ReminderObserver,
	loc *time.Location,
	logger *zap.Logger,
) *ReminderService {
	if loc == nil {
		loc = time.Local
	}

	limit := rate.Inf
	if sendInterval > 0 {
		limit = rate.Every(sendInterval)
	}

	return &ReminderService{
		schedule: schedule,
		store:    store,
		limiter:  rate.NewLimiter(limit, 1),
		observer: observer,
		loc:      loc,
		logger:   logger,
	}
}

// ScanForReminders находит все записи, занятие которых наступит через (23ч, 25ч) от now
func (s *ReminderService) ScanForReminders(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	rows, err := s.schedule.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan for reminders: %w", err)
	}

	reminders := make([]model.Reminder, 0)
	for _, row := range rows {
		claims := row.Claims()
		if len(claims) == 0 {
			continue
		}

		at, err := model.EventTime(row.Date, row.Time, s.loc)
		if err != nil {
			s.logger.Warn("Skipping row with unparseable date",
				zap.Int("row", row.Number),
				zap.String("date", row.Date))
			continue
		}

		if !InReminderWindow(at, now) {
			continue
		}

		for _, claim := range claims {
			reminders = append(reminders, model.Reminder{
				UserID:    claim.UserID,
				RowNumber: row.Number,
				Tariff:    row.Tariff,
				EventAt:   at,
				Time:      model.NormalizeTime(row.Time),
			})
		}
	}

	return reminders, nil
}

// InReminderWindow проверяет, что событие строго в будущем и в открытом окне (now+23ч, now+25ч)
func InReminderWindow(eventAt, now time.Time) bool {
	if !eventAt.After(now) {
		return false
	}
	until := eventAt.Sub(now)
	return until > ReminderWindowFrom && until < ReminderWindowTo
}

// Dispatch отправляет найденные напоминания.
// Ошибка отправки одному пользователю не прерывает рассылку остальным.
func (s *ReminderService) Dispatch(ctx context.Context, now time.Time, sender ReminderSender) (DispatchReport, error) {
	var report DispatchReport

	reminders, err := s.ScanForReminders(ctx, now)
	if err != nil {
		s.logger.Error("Failed to scan schedule for reminders", zap.Error(err))
		return report, err
	}
	report.Found = len(reminders)

	for _, reminder := range reminders {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		logger := s.logger.With(
			zap.Int64("user_id", reminder.UserID),
			zap.Int("row", reminder.RowNumber),
			zap.Time("event_at", reminder.EventAt),
		)

		sent, err := s.store.IsSent(ctx, reminder.UserID, reminder.EventAt)
		if err != nil {
			// журнал недоступен: отправляем, возможен повтор
			logger.Warn("Failed to check reminder log", zap.Error(err))
		}
		if sent {
			report.Skipped++
			s.observe("skipped")
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return report, err
		}

		if err := sender.SendReminder(ctx, reminder); err != nil {
			report.Failed++
			s.observe("failed")
			logger.Error("Failed to send reminder", zap.Error(err))
			continue
		}

		report.Sent++
		s.observe("sent")
		logger.Info("Reminder sent")

		if err := s.store.MarkSent(ctx, reminder); err != nil {
			logger.Warn("Failed to record sent reminder", zap.Error(err))
		}
	}

	s.logger.Info("Reminder dispatch finished",
		zap.Int("found", report.Found),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	return report, nil
}

// Cleanup удаляет из журнала записи о прошедших занятиях
func (s *ReminderService) Cleanup(ctx context.Context, now time.Time) error {
	deleted, err := s.store.DeleteBefore(ctx, now.Add(-ReminderWindowTo))
	if err != nil {
		return fmt.Errorf("cleanup reminder log: %w", err)
	}
	if deleted > 0 {
		s.logger.Debug("Reminder log cleaned", zap.Int64("deleted", deleted))
	}
	return nil
}

func (s *ReminderService) observe(result string) {
	if s.observer != nil {
		s.observer.ObserveReminder(result)
	}
}

// IsDispatchCanceled сообщает, что рассылка прервана остановкой процесса
func IsDispatchCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

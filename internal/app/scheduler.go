package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"go.uber.org/zap"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	reminderService *service.ReminderService
	sender          service.ReminderSender
	interval        time.Duration
	now             func() time.Time
	logger          *zap.Logger
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	reminderService *service.ReminderService,
	sender service.ReminderSender,
	interval time.Duration,
	logger *zap.Logger,
) *Scheduler {
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &Scheduler{
		reminderService: reminderService,
		sender:          sender,
		interval:        interval,
		now:             time.Now,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("reminder_interval", s.interval))

	s.wg.Add(1)
	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runReminderTask периодически рассылает напоминания о занятиях
func (s *Scheduler) runReminderTask(ctx context.Context) {
	defer s.wg.Done()

	// Первый запуск сразу при старте
	s.sendReminders(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// sendReminders выполняет один проход рассылки
func (s *Scheduler) sendReminders(ctx context.Context) {
	now := s.now()

	_, err := s.reminderService.Dispatch(ctx, now, s.sender)
	if err != nil {
		if service.IsDispatchCanceled(err) {
			return
		}
		s.logger.Error("Failed to dispatch reminders", zap.Error(err))
		return
	}

	if err := s.reminderService.Cleanup(ctx, now); err != nil {
		s.logger.Warn("Failed to clean reminder log", zap.Error(err))
	}
}

package app

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"github.com/Freeeeeet/sheets_booking_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type chanSender struct {
	mu   sync.Mutex
	sent []model.Reminder
	ch   chan struct{}
}

func (s *chanSender) SendReminder(_ context.Context, reminder model.Reminder) error {
	s.mu.Lock()
	s.sent = append(s.sent, reminder)
	s.mu.Unlock()
	s.ch <- struct{}{}
	return nil
}

func TestSchedulerSendsRemindersOnStart(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)

	header := []string{"Тариф", "Неделя", "Дата", "Время", "Наставник", "Статус"}
	for i := 1; i <= model.MaxSeats; i++ {
		header = append(header, model.HeaderSeat+strconv.Itoa(i))
	}
	gw := base.NewMemoryGateway()
	gw.SetSheet("Расписание", [][]string{
		header,
		{model.TariffBasic, "3", "2025-03-06", "12:00", "", "Активно", "42|Иван|ivan"},
	})

	logger := zap.NewNop()
	schedule := repository.NewScheduleRepository(gw, "Расписание", logger)
	cache := repository.NewScheduleCache(schedule, time.Minute, nil, logger)
	reminders := service.NewReminderService(cache, repository.NewMemoryReminderLog(), 0, nil, time.UTC, logger)

	sender := &chanSender{ch: make(chan struct{}, 1)}
	scheduler := NewScheduler(reminders, sender, time.Hour, logger)
	scheduler.now = func() time.Time { return now }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)

	select {
	case <-sender.ch:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder was not sent")
	}

	scheduler.Stop()
	scheduler.Stop()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].UserID)
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderRepository - журнал отправленных напоминаний в PostgreSQL
type ReminderRepository struct {
	*base.Repository
}

func NewReminderRepository(pool *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{Repository: base.NewRepository(pool)}
}

// IsSent проверяет, отправлялось ли напоминание о занятии пользователю
func (r *ReminderRepository) IsSent(ctx context.Context, userID int64, eventAt time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM reminder_log
			WHERE user_id = $1 AND event_at = $2
		)
	`

	var exists bool
	err := r.QueryRow(ctx, query, userID, eventAt.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reminder log: %w", err)
	}

	return exists, nil
}

// MarkSent записывает отправленное напоминание; повторная запись игнорируется
func (r *ReminderRepository) MarkSent(ctx context.Context, reminder model.Reminder) error {
	query := `
		INSERT INTO reminder_log (user_id, event_at, sheet_row, tariff)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, event_at) DO NOTHING
	`

	_, err := r.ExecAffected(ctx, query,
		reminder.UserID,
		reminder.EventAt.UTC(),
		reminder.RowNumber,
		reminder.Tariff,
	)
	if err != nil {
		return fmt.Errorf("insert reminder log: %w", err)
	}

	return nil
}

// DeleteBefore удаляет записи о прошедших занятиях
func (r *ReminderRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM reminder_log WHERE event_at < $1`

	deleted, err := r.ExecAffected(ctx, query, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete reminder log: %w", err)
	}

	return deleted, nil
}

type reminderKey struct {
	userID  int64
	eventAt int64
}

// MemoryReminderLog - журнал напоминаний в памяти, когда БД не настроена.
// Защищает от повторов только в пределах жизни процесса.
type MemoryReminderLog struct {
	mu   sync.Mutex
	sent map[reminderKey]time.Time
}

func NewMemoryReminderLog() *MemoryReminderLog {
	return &MemoryReminderLog{sent: make(map[reminderKey]time.Time)}
}

func (l *MemoryReminderLog) IsSent(_ context.Context, userID int64, eventAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, ok := l.sent[reminderKey{userID: userID, eventAt: eventAt.Unix()}]
	return ok, nil
}

func (l *MemoryReminderLog) MarkSent(_ context.Context, reminder model.Reminder) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sent[reminderKey{userID: reminder.UserID, eventAt: reminder.EventAt.Unix()}] = reminder.EventAt
	return nil
}

func (l *MemoryReminderLog) DeleteBefore(_ context.Context, before time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var deleted int64
	for key, eventAt := range l.sent {
		if eventAt.Before(before) {
			delete(l.sent, key)
			deleted++
		}
	}
	return deleted, nil
}

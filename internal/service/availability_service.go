package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"go.uber.org/zap"
)

// ErrStaleSelection - выбранная строка больше не доступна для записи
var ErrStaleSelection = errors.New("selected slot is no longer available")

// AvailabilityService строит списки доступных для записи занятий
type AvailabilityService struct {
	schedule    SnapshotReader
	settings    WeekSettings
	eligibility *EligibilityService
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewAvailabilityService(
	schedule SnapshotReader,
	settings WeekSettings,
	eligibility *EligibilityService,
	loc *time.Location,
	logger *zap.Logger,
) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{
		schedule:    schedule,
		settings:    settings,
		eligibility: eligibility,
		loc:         loc,
		now:         time.Now,
		logger:      logger,
	}
}

// SetClock подменяет часы (для тестов)
func (s *AvailabilityService) SetClock(now func() time.Time) {
	s.now = now
}

// ListTariffs возвращает отсортированный список тарифов практик (без тренингов)
func (s *AvailabilityService) ListTariffs(ctx context.Context) ([]string, error) {
	rows, err := s.schedule.Snapshot(ctx)
	if err != nil {
		return failClosed[string](s.logger, "list_tariffs", err)
	}

	seen := make(map[string]struct{})
	tariffs := make([]string, 0)
	for _, row := range rows {
		if row.Tariff == "" || model.IsTraining(row.Tariff) {
			continue
		}
		if _, ok := seen[row.Tariff]; ok {
			continue
		}
		seen[row.Tariff] = struct{}{}
		tariffs = append(tariffs, row.Tariff)
	}

	sort.Strings(tariffs)
	return tariffs, nil
}

// CurrentWeek возвращает текущую неделю практик.
// 0 - "ничего не открыто", пустая или нечисловая ячейка тоже даёт 0.
func (s *AvailabilityService) CurrentWeek(ctx context.Context) (int, error) {
	week, ok, err := s.settings.PracticeWeek(ctx)
	if err != nil {
		s.logger.Error("Failed to read practice week", zap.Error(err))
		return 0, fmt.Errorf("read practice week: %w", err)
	}
	if !ok {
		return 0, nil
	}
	return week, nil
}

// TrainingWeek возвращает текущую неделю тренингов; пустая ячейка - неделя практик
func (s *AvailabilityService) TrainingWeek(ctx context.Context) (int, error) {
	week, ok, err := s.settings.TrainingWeek(ctx)
	if err != nil {
		s.logger.Error("Failed to read training week", zap.Error(err))
		return 0, fmt.Errorf("read training week: %w", err)
	}
	if !ok {
		return s.CurrentWeek(ctx)
	}
	return week, nil
}

// ListSlots возвращает занятия тарифа на неделю, на которые ещё можно записаться
func (s *AvailabilityService) ListSlots(ctx context.Context, tariff string, week int) ([]model.Slot, error) {
	rows, err := s.bookableRows(ctx, tariff, week)
	if err != nil {
		return failClosed[model.Slot](s.logger, "list_slots", err)
	}
	return slotsFromRows(rows), nil
}

// ListSlotsForUser - ListSlots без строк, где пользователь уже записан,
// и пустой список, если неделя у пользователя уже занята
func (s *AvailabilityService) ListSlotsForUser(ctx context.Context, tariff string, week int, userID int64) ([]model.Slot, error) {
	rows, err := s.bookableRows(ctx, tariff, week)
	if err != nil {
		return failClosed[model.Slot](s.logger, "list_slots_for_user", err)
	}
	if len(rows) == 0 {
		return []model.Slot{}, nil
	}

	practiceOnly := !model.IsTraining(tariff)
	if !s.eligibility.CanBookWeek(ctx, userID, float64(week), practiceOnly) {
		return []model.Slot{}, nil
	}

	filtered := make([]*model.ScheduleRow, 0, len(rows))
	for _, row := range rows {
		if row.HasClaimBy(userID) {
			continue
		}
		filtered = append(filtered, row)
	}

	return slotsFromRows(filtered), nil
}

// ListTrainings возвращает тренинги текущей недели тренингов, доступные пользователю
func (s *AvailabilityService) ListTrainings(ctx context.Context, userID int64) ([]model.Slot, error) {
	week, err := s.TrainingWeek(ctx)
	if err != nil {
		return failClosed[model.Slot](s.logger, "list_trainings", err)
	}
	return s.ListSlotsForUser(ctx, model.TariffTraining, week, userID)
}

// SelectSlot проверяет, что выбранная строка всё ещё в списке доступных
func (s *AvailabilityService) SelectSlot(ctx context.Context, tariff string, week, rowNumber int) (model.Slot, error) {
	slots, err := s.ListSlots(ctx, tariff, week)
	if err != nil {
		return model.Slot{}, err
	}

	for _, slot := range slots {
		if slot.RowNumber == rowNumber {
			return slot, nil
		}
	}

	return model.Slot{}, fmt.Errorf("%w: row %d", ErrStaleSelection, rowNumber)
}

// NearestAvailableWeek - минимальная неделя среди активных строк тарифа без единой записи.
// Подсказка для пользователя, в записи не участвует.
func (s *AvailabilityService) NearestAvailableWeek(ctx context.Context, tariff string) (float64, bool, error) {
	rows, err := s.schedule.Snapshot(ctx)
	if err != nil {
		s.logger.Error("Failed to read schedule for nearest week", zap.Error(err))
		return 0, false, fmt.Errorf("nearest available week: %w", err)
	}

	tariff = strings.TrimSpace(tariff)
	var (
		nearest float64
		found   bool
	)
	for _, row := range rows {
		if row.Tariff != tariff || !row.IsActive() || row.HasAnyClaim() {
			continue
		}
		if !found || row.Week < nearest {
			nearest = row.Week
			found = true
		}
	}

	return nearest, found, nil
}

// bookableRows отбирает строки: тариф, неделя, статус, время в будущем, есть места
func (s *AvailabilityService) bookableRows(ctx context.Context, tariff string, week int) ([]*model.ScheduleRow, error) {
	// неделя 0 - запись закрыта
	if week <= 0 {
		return nil, nil
	}

	rows, err := s.schedule.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	tariff = strings.TrimSpace(tariff)
	now := s.now()
	result := make([]*model.ScheduleRow, 0)
	for _, row := range rows {
		if row.Tariff != tariff || !model.SameWeek(row.Week, float64(week)) || !row.IsActive() {
			continue
		}
		if !s.isUpcoming(row, now) {
			continue
		}
		if row.BookedSeats() >= row.Capacity() {
			continue
		}
		result = append(result, row)
	}

	return result, nil
}

// isUpcoming проверяет, что занятие строго в будущем.
// Неразборчивая дата считается будущей.
func (s *AvailabilityService) isUpcoming(row *model.ScheduleRow, now time.Time) bool {
	at, err := model.EventTime(row.Date, row.Time, s.loc)
	if err != nil {
		s.logger.Debug("Unparseable date, treating slot as upcoming",
			zap.Int("row", row.Number),
			zap.String("date", row.Date))
		return true
	}
	return at.After(now)
}

func slotsFromRows(rows []*model.ScheduleRow) []model.Slot {
	slots := make([]model.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, slotFromRow(row))
	}
	return slots
}

func slotFromRow(row *model.ScheduleRow) model.Slot {
	return model.Slot{
		RowNumber: row.Number,
		Tariff:    row.Tariff,
		Week:      row.Week,
		Date:      model.FormatDate(row.Date),
		Time:      model.NormalizeTime(row.Time),
		Mentor:    row.Mentor,
		Booked:    row.BookedSeats(),
		Capacity:  row.Capacity(),
	}
}

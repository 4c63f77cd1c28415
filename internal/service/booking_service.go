package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrIneligible      = errors.New("user already has a booking this week")
	ErrNoSeatAvailable = errors.New("no seats left")
	ErrAlreadyClaimed  = errors.New("user already booked this slot")
)

// RowStore - прямой доступ к строкам расписания в обход кэша
type RowStore interface {
	Sheet() string
	GetRow(ctx context.Context, number int) (*model.ScheduleRow, error)
	GetTariff(ctx context.Context, number int) (string, error)
	SetSeat(ctx context.Context, number, seat int, claim model.Claim) error
}

// CacheInvalidator сбрасывает кэш расписания после записи
type CacheInvalidator interface {
	Invalidate()
}

// BookingObserver получает итог каждой попытки записи
type BookingObserver interface {
	ObserveBooking(outcome model.BookingOutcome)
}

type BookingService struct {
	rows         RowStore
	cache        CacheInvalidator
	snapshot     SnapshotReader
	eligibility  *EligibilityService
	availability *AvailabilityService
	locker       repository.RowLocker
	observer     BookingObserver
	loc          *time.Location
	now          func() time.Time
	logger       *zap.Logger
}

func NewBookingService(
	rows RowStore,
	cache CacheInvalidator,
	snapshot SnapshotReader,
	eligibility *EligibilityService,
	availability *AvailabilityService,
	locker repository.RowLocker,
	observer BookingObserver,
	loc *time.Location,
	logger *zap.Logger,
) *BookingService {
	if loc == nil {
		loc = time.Local
	}
	return &BookingService{
		rows:         rows,
		cache:        cache,
		snapshot:     snapshot,
		eligibility:  eligibility,
		availability: availability,
		locker:       locker,
		observer:     observer,
		loc:          loc,
		now:          time.Now,
		logger:       logger,
	}
}

// SetClock подменяет часы (для тестов)
func (s *BookingService) SetClock(now func() time.Time) {
	s.now = now
}

// OutcomeOf переводит ошибку записи в итог попытки
func OutcomeOf(err error) model.BookingOutcome {
	switch {
	case err == nil:
		return model.OutcomeClaimed
	case errors.Is(err, ErrAlreadyClaimed):
		return model.OutcomeAlreadyClaimed
	case errors.Is(err, ErrIneligible):
		return model.OutcomeIneligible
	case errors.Is(err, ErrNoSeatAvailable):
		return model.OutcomeNoSeatAvailable
	case errors.Is(err, ErrStaleSelection), errors.Is(err, repository.ErrMalformedRow):
		return model.OutcomeStaleSelection
	default:
		return model.OutcomeBackendFailure
	}
}

// AttemptBooking записывает пользователя на строку, выбирая сценарий по тарифу строки
func (s *BookingService) AttemptBooking(ctx context.Context, rowNumber int, identity model.Identity) (model.BookingOutcome, error) {
	tariff, err := s.rows.GetTariff(ctx, rowNumber)
	if err != nil {
		s.logger.Error("Failed to read row tariff",
			zap.Int("row", rowNumber),
			zap.Error(err))
		s.observe(model.OutcomeBackendFailure)
		return model.OutcomeBackendFailure, err
	}

	if model.IsTraining(tariff) {
		err = s.BookTrainingSlot(ctx, rowNumber, identity)
	} else {
		err = s.BookPracticeSlot(ctx, rowNumber, identity)
	}

	return OutcomeOf(err), err
}

// BookPracticeSlot записывает пользователя на практику
func (s *BookingService) BookPracticeSlot(ctx context.Context, rowNumber int, identity model.Identity) error {
	return s.book(ctx, rowNumber, identity, false)
}

// BookTrainingSlot записывает пользователя на тренинг текущей недели тренингов
func (s *BookingService) BookTrainingSlot(ctx context.Context, rowNumber int, identity model.Identity) error {
	return s.book(ctx, rowNumber, identity, true)
}

func (s *BookingService) book(ctx context.Context, rowNumber int, identity model.Identity, training bool) error {
	attemptID := uuid.NewString()
	logger := s.logger.With(
		zap.String("attempt_id", attemptID),
		zap.Int64("user_id", identity.UserID),
		zap.Int("row", rowNumber),
		zap.Bool("training", training),
	)

	seat, err := s.claimSeat(ctx, rowNumber, identity, training, logger)
	outcome := OutcomeOf(err)
	s.observe(outcome)

	if err != nil {
		if outcome == model.OutcomeBackendFailure {
			logger.Error("Booking failed", zap.Error(err))
		} else {
			logger.Info("Booking rejected", zap.String("outcome", string(outcome)), zap.Error(err))
		}
		return err
	}

	logger.Info("Seat booked", zap.Int("seat", seat))
	return nil
}

// claimSeat выполняет проверки по свежей строке и занимает первое свободное место.
// Порядок блокировок: сначала пользователь, затем строка.
func (s *BookingService) claimSeat(ctx context.Context, rowNumber int, identity model.Identity, training bool, logger *zap.Logger) (int, error) {
	unlockUser, err := s.locker.Lock(ctx, repository.UserLockKey(identity.UserID))
	if err != nil {
		return 0, fmt.Errorf("lock user %d: %w", identity.UserID, err)
	}
	defer unlockUser()

	unlock, err := s.locker.Lock(ctx, repository.RowLockKey(s.rows.Sheet(), rowNumber))
	if err != nil {
		return 0, fmt.Errorf("lock row %d: %w", rowNumber, err)
	}
	defer unlock()

	// Читаем строку напрямую, кэш для решения о записи не используется
	row, err := s.rows.GetRow(ctx, rowNumber)
	if err != nil {
		return 0, err
	}

	if model.IsTraining(row.Tariff) != training {
		return 0, fmt.Errorf("%w: row %d has tariff %q", ErrStaleSelection, rowNumber, row.Tariff)
	}

	if !row.IsActive() {
		return 0, fmt.Errorf("%w: row %d is not active", ErrStaleSelection, rowNumber)
	}

	at, err := model.EventTime(row.Date, row.Time, s.loc)
	if err == nil && !at.After(s.now()) {
		return 0, fmt.Errorf("%w: row %d already started", ErrStaleSelection, rowNumber)
	}

	// Тренинг можно взять только на текущей неделе тренингов
	if training {
		week, err := s.availability.TrainingWeek(ctx)
		if err != nil {
			return 0, err
		}
		if !model.SameWeek(row.Week, float64(week)) {
			return 0, fmt.Errorf("%w: row %d week %v, training week %d", ErrStaleSelection, rowNumber, row.Week, week)
		}
	}

	// Повторное нажатие: пользователь уже в этой строке
	if row.HasClaimBy(identity.UserID) {
		return 0, fmt.Errorf("%w: row %d", ErrAlreadyClaimed, rowNumber)
	}

	// Под блокировкой пользователя недельное правило проверяется по свежему снимку:
	// запись могла прийти из другого процесса
	s.cache.Invalidate()
	if !s.eligibility.CanBookWeek(ctx, identity.UserID, row.Week, !training) {
		return 0, fmt.Errorf("%w: week %v", ErrIneligible, row.Week)
	}

	seat := firstEmptySeat(row)
	if seat == 0 {
		return 0, fmt.Errorf("%w: row %d capacity %d", ErrNoSeatAvailable, rowNumber, row.Capacity())
	}

	if err := s.rows.SetSeat(ctx, rowNumber, seat, identity.Claim()); err != nil {
		return 0, err
	}

	// Запись подтверждена, сбрасываем кэш
	s.cache.Invalidate()
	logger.Debug("Schedule cache invalidated after write")

	return seat, nil
}

// firstEmptySeat возвращает номер первого пустого места в пределах лимита тарифа (0 - мест нет)
func firstEmptySeat(row *model.ScheduleRow) int {
	capacity := row.Capacity()
	for i := 0; i < capacity; i++ {
		if i >= len(row.Seats) || strings.TrimSpace(row.Seats[i]) == "" {
			return i + 1
		}
	}
	return 0
}

// ListUserBookings возвращает все записи пользователя из снимка расписания.
// Записи, внесённые вручную без числового id, сопоставляются по username или имени.
func (s *BookingService) ListUserBookings(ctx context.Context, identity model.Identity) ([]model.UserBooking, error) {
	rows, err := s.snapshot.Snapshot(ctx)
	if err != nil {
		return failClosed[model.UserBooking](s.logger, "list_user_bookings", err)
	}

	bookings := make([]model.UserBooking, 0)
	for _, row := range rows {
		if !rowHasIdentity(row, identity) {
			continue
		}
		bookings = append(bookings, model.UserBooking{
			RowNumber: row.Number,
			Tariff:    row.Tariff,
			Week:      row.Week,
			Date:      model.FormatDate(row.Date),
			Time:      model.NormalizeTime(row.Time),
			Mentor:    row.Mentor,
		})
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Week != bookings[j].Week {
			return bookings[i].Week < bookings[j].Week
		}
		return bookings[i].RowNumber < bookings[j].RowNumber
	})

	return bookings, nil
}

func rowHasIdentity(row *model.ScheduleRow, identity model.Identity) bool {
	for _, cell := range row.Seats {
		claim, err := model.ParseClaim(cell)
		switch {
		case err == nil:
			if claim.UserID == identity.UserID {
				return true
			}
		case errors.Is(err, model.ErrInvalidClaim):
			if matchesManualClaim(claim, identity) {
				return true
			}
		}
	}
	return false
}

// matchesManualClaim сравнивает ручную запись по @username или полному имени
func matchesManualClaim(claim model.Claim, identity model.Identity) bool {
	handle := normalizeHandle(identity.Username)
	if handle != "" && claim.HasUsername() && normalizeHandle(claim.Username) == handle {
		return true
	}

	name := strings.TrimSpace(identity.FullName)
	return name != "" && strings.EqualFold(strings.TrimSpace(claim.FullName), name)
}

func normalizeHandle(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

func (s *BookingService) observe(outcome model.BookingOutcome) {
	if s.observer != nil {
		s.observer.ObserveBooking(outcome)
	}
}

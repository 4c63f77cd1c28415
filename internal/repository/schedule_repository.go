package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/Freeeeeet/sheets_booking_bot/internal/repository/base"
	"go.uber.org/zap"
)

// ErrMalformedRow - в строке не разбирается номер недели
var ErrMalformedRow = errors.New("malformed schedule row")

// ScheduleRepository читает и пишет лист расписания напрямую, без кэша
type ScheduleRepository struct {
	gateway base.Gateway
	sheet   string
	logger  *zap.Logger
}

func NewScheduleRepository(gateway base.Gateway, sheet string, logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		gateway: gateway,
		sheet:   sheet,
		logger:  logger,
	}
}

// Sheet возвращает имя листа расписания
func (r *ScheduleRepository) Sheet() string {
	return r.sheet
}

// LoadSchedule читает лист целиком.
// Строки с неразборчивой неделей пропускаются и логируются, пустые строки пропускаются молча.
func (r *ScheduleRepository) LoadSchedule(ctx context.Context) ([]*model.ScheduleRow, error) {
	records, err := r.gateway.GetAllRows(ctx, r.sheet)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	rows := make([]*model.ScheduleRow, 0, len(records))
	skipped := 0
	for i, record := range records {
		number := base.FirstDataRow + i
		if isBlankRecord(record) {
			continue
		}

		row, err := rowFromRecord(number, record)
		if err != nil {
			skipped++
			r.logger.Debug("Skipping malformed schedule row",
				zap.Int("row", number),
				zap.String("week", record[model.HeaderWeek]),
				zap.Error(err))
			continue
		}
		rows = append(rows, row)
	}

	if skipped > 0 {
		r.logger.Warn("Schedule contains malformed rows", zap.Int("skipped", skipped))
	}

	return rows, nil
}

// GetRow читает одну строку напрямую из таблицы
func (r *ScheduleRepository) GetRow(ctx context.Context, number int) (*model.ScheduleRow, error) {
	values, err := r.gateway.GetRowValues(ctx, r.sheet, number)
	if err != nil {
		return nil, fmt.Errorf("get schedule row %d: %w", number, err)
	}

	row, err := rowFromValues(number, values)
	if err != nil {
		return nil, fmt.Errorf("get schedule row %d: %w", number, err)
	}
	return row, nil
}

// GetTariff читает колонку "Тариф" строки напрямую из таблицы
func (r *ScheduleRepository) GetTariff(ctx context.Context, number int) (string, error) {
	tariff, err := r.gateway.GetCell(ctx, r.sheet, number, model.ColTariff)
	if err != nil {
		return "", fmt.Errorf("get tariff of row %d: %w", number, err)
	}
	return strings.TrimSpace(tariff), nil
}

// SetSeat записывает claim в место seat (1-based) строки
func (r *ScheduleRepository) SetSeat(ctx context.Context, number, seat int, claim model.Claim) error {
	if seat < 1 || seat > model.MaxSeats {
		return fmt.Errorf("set seat %d of row %d: seat out of range", seat, number)
	}

	err := r.gateway.SetCell(ctx, r.sheet, number, model.SeatColumn(seat), claim.Encode())
	if err != nil {
		return fmt.Errorf("set seat %d of row %d: %w", seat, number, err)
	}
	return nil
}

func isBlankRecord(record map[string]string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func seatHeader(seat int) string {
	return model.HeaderSeat + strconv.Itoa(seat)
}

func rowFromRecord(number int, record map[string]string) (*model.ScheduleRow, error) {
	week, err := model.ParseWeek(record[model.HeaderWeek])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	seats := make([]string, model.MaxSeats)
	for i := range seats {
		seats[i] = strings.TrimSpace(record[seatHeader(i+1)])
	}

	return &model.ScheduleRow{
		Number: number,
		Tariff: strings.TrimSpace(record[model.HeaderTariff]),
		Status: strings.TrimSpace(record[model.HeaderStatus]),
		Week:   week,
		Date:   strings.TrimSpace(record[model.HeaderDate]),
		Time:   strings.TrimSpace(record[model.HeaderTime]),
		Mentor: strings.TrimSpace(record[model.HeaderMentor]),
		Seats:  seats,
	}, nil
}

func rowFromValues(number int, values []string) (*model.ScheduleRow, error) {
	cell := func(col int) string {
		if col-1 < len(values) {
			return strings.TrimSpace(values[col-1])
		}
		return ""
	}

	week, err := model.ParseWeek(cell(model.ColWeek))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}

	seats := make([]string, model.MaxSeats)
	for i := range seats {
		seats[i] = cell(model.SeatColumn(i + 1))
	}

	return &model.ScheduleRow{
		Number: number,
		Tariff: cell(model.ColTariff),
		Status: cell(model.ColStatus),
		Week:   week,
		Date:   cell(model.ColDate),
		Time:   cell(model.ColTime),
		Mentor: cell(model.ColMentor),
		Seats:  seats,
	}, nil
}

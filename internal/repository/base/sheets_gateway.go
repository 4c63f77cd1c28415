package base

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// CallObserver получает длительность и результат каждого обращения к таблице
type CallObserver interface {
	ObserveGatewayCall(op string, duration time.Duration, err error)
}

// SheetsConfig параметры подключения к Google Sheets
type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON []byte
	Timeout         time.Duration
}

// SheetsGateway реализует Gateway поверх Google Sheets API
type SheetsGateway struct {
	service       *sheets.Service
	spreadsheetID string
	timeout       time.Duration
	observer      CallObserver
	logger        *zap.Logger
}

// NewSheetsGateway подключается к таблице сервисным аккаунтом
func NewSheetsGateway(ctx context.Context, cfg SheetsConfig, observer CallObserver, logger *zap.Logger) (*SheetsGateway, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger.Info("Connected to Google Sheets", zap.String("spreadsheet_id", cfg.SpreadsheetID))

	return &SheetsGateway{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       timeout,
		observer:      observer,
		logger:        logger,
	}, nil
}

// GetAllRows читает весь лист и возвращает строки данных по заголовкам
func (g *SheetsGateway) GetAllRows(ctx context.Context, sheet string) ([]map[string]string, error) {
	values, err := g.getValues(ctx, "get_all_rows", quoteSheet(sheet))
	if err != nil {
		return nil, fmt.Errorf("%w: get all rows %s: %w", ErrBackendUnavailable, sheet, err)
	}
	return recordsFromValues(values), nil
}

// GetCell читает одну ячейку, пустая ячейка - пустая строка
func (g *SheetsGateway) GetCell(ctx context.Context, sheet string, row, col int) (string, error) {
	rng := cellRange(sheet, row, col)
	values, err := g.getValues(ctx, "get_cell", rng)
	if err != nil {
		return "", fmt.Errorf("%w: get cell %s: %w", ErrBackendUnavailable, rng, err)
	}
	if len(values) == 0 || len(values[0]) == 0 {
		return "", nil
	}
	return values[0][0], nil
}

// SetCell записывает значение в ячейку как есть (RAW)
func (g *SheetsGateway) SetCell(ctx context.Context, sheet string, row, col int, value string) error {
	rng := cellRange(sheet, row, col)

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	_, err := g.service.Spreadsheets.Values.
		Update(g.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	g.observe("set_cell", start, err)
	if err != nil {
		return fmt.Errorf("%w: set cell %s: %w", ErrBackendUnavailable, rng, err)
	}

	g.logger.Debug("Cell updated", zap.String("range", rng))
	return nil
}

// GetRowValues читает строку целиком, хвостовые пустые ячейки API не возвращает
func (g *SheetsGateway) GetRowValues(ctx context.Context, sheet string, row int) ([]string, error) {
	rng := fmt.Sprintf("%s!%d:%d", quoteSheet(sheet), row, row)
	values, err := g.getValues(ctx, "get_row_values", rng)
	if err != nil {
		return nil, fmt.Errorf("%w: get row %s: %w", ErrBackendUnavailable, rng, err)
	}
	if len(values) == 0 {
		return []string{}, nil
	}
	return values[0], nil
}

func (g *SheetsGateway) getValues(ctx context.Context, op, rng string) ([][]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.service.Spreadsheets.Values.
		Get(g.spreadsheetID, rng).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	g.observe(op, start, err)
	if err != nil {
		return nil, err
	}

	result := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		result[i] = cells
	}
	return result, nil
}

func (g *SheetsGateway) observe(op string, start time.Time, err error) {
	if g.observer != nil {
		g.observer.ObserveGatewayCall(op, time.Since(start), err)
	}
}

// quoteSheet экранирует имя листа для A1-нотации: 'Лист''1'
func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func cellRange(sheet string, row, col int) string {
	return fmt.Sprintf("%s!%s%d", quoteSheet(sheet), ColumnLetter(col), row)
}

// ColumnLetter переводит номер колонки в буквы: 1 -> A, 27 -> AA
func ColumnLetter(col int) string {
	if col < 1 {
		return ""
	}
	var letters []byte
	for col > 0 {
		col--
		letters = append([]byte{byte('A' + col%26)}, letters...)
		col /= 26
	}
	return string(letters)
}

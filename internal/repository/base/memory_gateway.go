package base

import (
	"context"
	"fmt"
	"sync"
)

// MemoryGateway - таблица в памяти процесса.
// Используется в тестах и в демо-режиме бота без Google Sheets.
type MemoryGateway struct {
	mu     sync.RWMutex
	sheets map[string][][]string
	calls  map[string]int
	err    error
}

// NewMemoryGateway создаёт пустую таблицу
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		sheets: make(map[string][][]string),
		calls:  make(map[string]int),
	}
}

// SetSheet заменяет содержимое листа; первая строка - заголовки
func (g *MemoryGateway) SetSheet(sheet string, rows [][]string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	g.sheets[sheet] = copied
}

// FailWith заставляет все последующие вызовы возвращать ошибку; nil снимает отказ
func (g *MemoryGateway) FailWith(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Calls возвращает число вызовов операции (get_all_rows, get_cell, set_cell, get_row_values)
func (g *MemoryGateway) Calls(op string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.calls[op]
}

func (g *MemoryGateway) begin(ctx context.Context, op string) error {
	g.calls[op]++
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, err)
	}
	if g.err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBackendUnavailable, op, g.err)
	}
	return nil
}

func (g *MemoryGateway) GetAllRows(ctx context.Context, sheet string) ([]map[string]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, "get_all_rows"); err != nil {
		return nil, err
	}
	return recordsFromValues(g.sheets[sheet]), nil
}

func (g *MemoryGateway) GetCell(ctx context.Context, sheet string, row, col int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, "get_cell"); err != nil {
		return "", err
	}
	rows := g.sheets[sheet]
	if row < 1 || row > len(rows) || col < 1 || col > len(rows[row-1]) {
		return "", nil
	}
	return rows[row-1][col-1], nil
}

func (g *MemoryGateway) SetCell(ctx context.Context, sheet string, row, col int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, "set_cell"); err != nil {
		return err
	}
	if row < 1 || col < 1 {
		return fmt.Errorf("set cell %s R%dC%d: invalid coordinates", sheet, row, col)
	}

	rows := g.sheets[sheet]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = value
	g.sheets[sheet] = rows
	return nil
}

func (g *MemoryGateway) GetRowValues(ctx context.Context, sheet string, row int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.begin(ctx, "get_row_values"); err != nil {
		return nil, err
	}
	rows := g.sheets[sheet]
	if row < 1 || row > len(rows) {
		return []string{}, nil
	}
	return append([]string(nil), rows[row-1]...), nil
}

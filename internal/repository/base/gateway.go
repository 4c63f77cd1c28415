package base

import (
	"context"
	"errors"
	"strings"
)

// ErrBackendUnavailable - любая ошибка сети, авторизации или таймаута при работе с таблицей.
// Повторы не делаются: операция завершается ошибкой.
var ErrBackendUnavailable = errors.New("backend unavailable")

// Gateway - построчный доступ к таблице без бизнес-логики.
// Номера строк и колонок 1-based, первая строка листа - заголовки.
type Gateway interface {
	// GetAllRows возвращает строки листа как словари "заголовок -> значение"
	GetAllRows(ctx context.Context, sheet string) ([]map[string]string, error)
	GetCell(ctx context.Context, sheet string, row, col int) (string, error)
	SetCell(ctx context.Context, sheet string, row, col int, value string) error
	GetRowValues(ctx context.Context, sheet string, row int) ([]string, error)
}

// IsBackendUnavailable проверяет, что ошибка пришла от недоступной таблицы
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// FirstDataRow - номер первой строки с данными (после заголовка)
const FirstDataRow = 2

// recordsFromValues превращает сырые значения листа в словари по заголовкам.
// Хвостовые пустые ячейки, которых нет в ответе, становятся пустыми строками.
func recordsFromValues(values [][]string) []map[string]string {
	if len(values) == 0 {
		return nil
	}

	headers := values[0]
	records := make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			key := strings.TrimSpace(header)
			if key == "" {
				continue
			}
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}

	return records
}

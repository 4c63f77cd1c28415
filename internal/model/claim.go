package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ClaimDelimiter разделяет поля записи в ячейке места
const ClaimDelimiter = "|"

// UsernamePlaceholder пишется вместо username, если его нет
const UsernamePlaceholder = "нет"

var (
	ErrEmptyClaim   = errors.New("empty seat cell")
	ErrInvalidClaim = errors.New("invalid claim")
)

// Claim - запись пользователя на место.
// В таблице хранится строкой "user_id|full_name|username".
type Claim struct {
	UserID   int64
	FullName string
	Username string
}

// Encode сериализует запись в формат ячейки таблицы
func (c Claim) Encode() string {
	username := strings.TrimSpace(c.Username)
	if username == "" {
		username = UsernamePlaceholder
	}
	return fmt.Sprintf("%d%s%s%s%s",
		c.UserID, ClaimDelimiter,
		sanitizeClaimField(c.FullName), ClaimDelimiter,
		sanitizeClaimField(username))
}

// HasUsername сообщает, указан ли у записи настоящий username
func (c Claim) HasUsername() bool {
	return c.Username != "" && c.Username != UsernamePlaceholder
}

// ParseClaim разбирает ячейку места.
// Пустая ячейка - ErrEmptyClaim, нечисловой user_id или меньше трёх полей - ErrInvalidClaim
// (в этом случае возвращаются поля, которые удалось прочитать).
func ParseClaim(cell string) (Claim, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return Claim{}, ErrEmptyClaim
	}

	parts := strings.Split(cell, ClaimDelimiter)
	claim := Claim{}
	if len(parts) > 1 {
		claim.FullName = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		claim.Username = strings.TrimSpace(parts[2])
	}
	if len(parts) < 3 {
		return claim, fmt.Errorf("%w: %q", ErrInvalidClaim, cell)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return claim, fmt.Errorf("%w: user id %q", ErrInvalidClaim, parts[0])
	}
	claim.UserID = id

	return claim, nil
}

// в имени не должно быть разделителя, иначе ячейку не прочитать обратно
func sanitizeClaimField(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, ClaimDelimiter, "/"))
}

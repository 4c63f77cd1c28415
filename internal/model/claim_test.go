package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimEncode(t *testing.T) {
	claim := Claim{UserID: 42, FullName: "Иван Петров", Username: "ivan"}
	assert.Equal(t, "42|Иван Петров|ivan", claim.Encode())

	noUsername := Claim{UserID: 7, FullName: "Анна"}
	assert.Equal(t, "7|Анна|нет", noUsername.Encode())

	pipes := Claim{UserID: 1, FullName: "A|B", Username: "x|y"}
	assert.Equal(t, "1|A/B|x/y", pipes.Encode())
}

func TestParseClaim(t *testing.T) {
	claim, err := ParseClaim(" 42|Иван Петров|ivan ")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claim.UserID)
	assert.Equal(t, "Иван Петров", claim.FullName)
	assert.True(t, claim.HasUsername())

	claim, err = ParseClaim("7|Анна|нет")
	require.NoError(t, err)
	assert.False(t, claim.HasUsername())

	_, err = ParseClaim("   ")
	assert.ErrorIs(t, err, ErrEmptyClaim)

	_, err = ParseClaim("42|only two")
	assert.ErrorIs(t, err, ErrInvalidClaim)

	manual, err := ParseClaim("?|Мария Иванова|@maria")
	assert.ErrorIs(t, err, ErrInvalidClaim)
	assert.Equal(t, "Мария Иванова", manual.FullName)
	assert.Equal(t, "@maria", manual.Username)
}

func TestSeatsContainUserMatchesWholeID(t *testing.T) {
	seats := []string{"312|Someone|nick", "", "5|Other|нет"}

	assert.False(t, SeatsContainUser(seats, 12), "id 12 must not match 312")
	assert.True(t, SeatsContainUser(seats, 312))
	assert.True(t, SeatsContainUser(seats, 5))
}

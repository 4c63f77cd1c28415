package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/sheets_booking_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestCanBookWeekTrainingClaim(t *testing.T) {
	f := newFixture(t, "5", "5",
		scheduleRow(model.TariffTraining, "5", "2025-03-12", "18:00", "Активно", "42|Иван|ivan"),
	)
	ctx := context.Background()

	assert.True(t, f.eligibility.CanBookWeek(ctx, 42, 5, true), "training claim does not block practice")
	assert.False(t, f.eligibility.CanBookWeek(ctx, 42, 5, false), "training claim blocks another training")
}

func TestCanBookWeekPracticeClaim(t *testing.T) {
	f := newFixture(t, "5", "",
		scheduleRow(model.TariffBasic, "5.004", "2025-03-12", "18:00", "Неактивно", "", "42|Иван|ivan"),
	)
	ctx := context.Background()

	assert.False(t, f.eligibility.CanBookWeek(ctx, 42, 5, true), "weeks within tolerance are the same week")
	assert.False(t, f.eligibility.CanBookWeek(ctx, 42, 5, false))
	assert.True(t, f.eligibility.CanBookWeek(ctx, 42, 6, true))
	assert.True(t, f.eligibility.CanBookWeek(ctx, 4, 5, true), "id 4 must not match 42")
}

func TestCanBookWeekWithoutRows(t *testing.T) {
	f := newFixture(t, "5", "")
	assert.True(t, f.eligibility.CanBookWeek(context.Background(), 42, 5, false))
}

func TestCanBookWeekFailsOpen(t *testing.T) {
	f := newFixture(t, "5", "",
		scheduleRow(model.TariffBasic, "5", "2025-03-12", "18:00", "Активно", "42|Иван|ivan"),
	)
	f.gw.FailWith(errors.New("network"))

	assert.True(t, f.eligibility.CanBookWeek(context.Background(), 42, 5, true))
}

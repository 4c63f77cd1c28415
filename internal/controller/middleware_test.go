package controller

import (
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestLimiter(perMinute int) (*RateLimiter, *time.Time) {
	now := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(perMinute, nil, zap.NewNop())
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterAllow(t *testing.T) {
	rl, now := newTestLimiter(3)

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow(1)
		assert.True(t, allowed, "request %d", i)
	}

	allowed, notify := rl.Allow(1)
	assert.False(t, allowed)
	assert.True(t, notify, "first rejection warns the user")

	allowed, notify = rl.Allow(1)
	assert.False(t, allowed)
	assert.False(t, notify, "warning is sent once per minute")

	allowed, _ = rl.Allow(2)
	assert.True(t, allowed, "limits are per user")

	*now = now.Add(20 * time.Second)
	allowed, _ = rl.Allow(1)
	assert.True(t, allowed, "tokens refill over the minute")
}

func TestRateLimiterDisabled(t *testing.T) {
	rl, _ := newTestLimiter(0)
	for i := 0; i < 100; i++ {
		allowed, _ := rl.Allow(1)
		assert.True(t, allowed)
	}
}

func TestRateLimiterPrunesIdleVisitors(t *testing.T) {
	rl, now := newTestLimiter(3)
	rl.Allow(1)

	*now = now.Add(visitorIdleTTL + time.Minute)
	rl.Allow(2)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, int64(1))
	assert.Contains(t, rl.visitors, int64(2))
}

func TestUpdateSender(t *testing.T) {
	userID, chatID := updateSender(&models.Update{
		Message: &models.Message{From: &models.User{ID: 5}, Chat: models.Chat{ID: 7}},
	})
	assert.Equal(t, int64(5), userID)
	assert.Equal(t, int64(7), chatID)

	userID, chatID = updateSender(&models.Update{
		CallbackQuery: &models.CallbackQuery{From: models.User{ID: 9}},
	})
	assert.Equal(t, int64(9), userID)
	assert.Equal(t, int64(9), chatID)

	userID, _ = updateSender(&models.Update{})
	assert.Zero(t, userID)
}

package controller

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/sheets_booking_bot/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

// UpdateObserver считает обработанные обновления
type UpdateObserver interface {
	ObserveUpdate(result string)
}

type visitor struct {
	limiter    *rate.Limiter
	lastSeen   time.Time
	notifiedAt time.Time
}

// RateLimiter ограничивает число обновлений от одного пользователя в минуту
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[int64]*visitor
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time

	observer UpdateObserver
	logger   *zap.Logger
}

// NewRateLimiter создаёт ограничитель; perMinute <= 0 отключает ограничение
func NewRateLimiter(perMinute int, observer UpdateObserver, logger *zap.Logger) *RateLimiter {
	limit := rate.Inf
	burst := 1
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
		burst = perMinute
	}

	return &RateLimiter{
		visitors: make(map[int64]*visitor),
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		observer: observer,
		logger:   logger,
	}
}

// Allow сообщает, можно ли обработать обновление пользователя,
// и нужно ли предупредить его о превышении лимита (не чаще раза в минуту)
func (rl *RateLimiter) Allow(userID int64) (allowed bool, notify bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.pruneLocked(now)

	v, ok := rl.visitors[userID]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[userID] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return true, false
	}

	if now.Sub(v.notifiedAt) >= time.Minute {
		v.notifiedAt = now
		return false, true
	}
	return false, false
}

// pruneLocked удаляет пользователей, не писавших дольше visitorIdleTTL
func (rl *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(rl.lastPrune) < visitorIdleTTL {
		return
	}
	rl.lastPrune = now

	for id, v := range rl.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(rl.visitors, id)
		}
	}
}

// Middleware - bot.Middleware с ограничением частоты и учётом обновлений
func (rl *RateLimiter) Middleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		userID, chatID := updateSender(update)
		if userID == 0 {
			next(ctx, b, update)
			return
		}

		allowed, notify := rl.Allow(userID)
		if !allowed {
			rl.observe("rate_limited")
			rl.logger.Warn("Rate limit exceeded", zap.Int64("user_id", userID))
			if notify {
				rl.warn(ctx, b, update, chatID)
			} else if update.CallbackQuery != nil {
				common.AnswerCallback(ctx, b, update.CallbackQuery.ID, "")
			}
			return
		}

		rl.observe("handled")
		next(ctx, b, update)
	}
}

func (rl *RateLimiter) warn(ctx context.Context, b *bot.Bot, update *models.Update, chatID int64) {
	if update.CallbackQuery != nil {
		plain := strings.NewReplacer("<b>", "", "</b>", "").Replace(common.RateLimitText)
		common.AnswerCallbackAlert(ctx, b, update.CallbackQuery.ID, plain)
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      common.RateLimitText,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		rl.logger.Error("Failed to send rate limit warning", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (rl *RateLimiter) observe(result string) {
	if rl.observer != nil {
		rl.observer.ObserveUpdate(result)
	}
}

// updateSender извлекает отправителя и чат из обновления
func updateSender(update *models.Update) (userID, chatID int64) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, update.Message.Chat.ID
	case update.CallbackQuery != nil:
		chatID = update.CallbackQuery.From.ID
		if msg := common.GetMessageFromCallback(update.CallbackQuery); msg != nil {
			chatID = msg.Chat.ID
		}
		return update.CallbackQuery.From.ID, chatID
	default:
		return 0, 0
	}
}

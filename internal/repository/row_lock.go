package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockTimeout - не удалось дождаться блокировки строки
var ErrLockTimeout = errors.New("row lock timeout")

// RowLocker сериализует запись в одну строку таблицы
type RowLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// RowLockKey строит ключ блокировки для (лист, строка)
func RowLockKey(sheet string, row int) string {
	return fmt.Sprintf("row_lock:%s:%d", sheet, row)
}

// UserLockKey - ключ блокировки пользователя: его записи на разные строки идут по очереди
func UserLockKey(userID int64) string {
	return fmt.Sprintf("user_lock:%d", userID)
}

// ========================
// In-process lock
// ========================

type rowLock struct {
	ch   chan struct{}
	refs int
}

// LocalRowLocker - мьютекс на каждую строку в пределах одного процесса
type LocalRowLocker struct {
	mu    sync.Mutex
	locks map[string]*rowLock
}

func NewLocalRowLocker() *LocalRowLocker {
	return &LocalRowLocker{locks: make(map[string]*rowLock)}
}

// Lock ждёт блокировку ключа или отмену контекста
func (l *LocalRowLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &rowLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-lock.ch
				l.release(key, lock)
			})
		}, nil
	case <-ctx.Done():
		l.release(key, lock)
		return nil, fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, ctx.Err())
	}
}

func (l *LocalRowLocker) release(key string, lock *rowLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}

// ========================
// Redis lock (несколько процессов)
// ========================

// удаляем ключ, только если он всё ещё наш
var releaseLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRowLocker - распределённая блокировка строки через SET NX с TTL
type RedisRowLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
	logger *zap.Logger
}

func NewRedisRowLocker(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisRowLocker {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &RedisRowLocker{
		client: client,
		ttl:    ttl,
		retry:  100 * time.Millisecond,
		logger: logger,
	}
}

// Lock пытается занять ключ, пока не истечёт TTL блокировки или контекст
func (l *RedisRowLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	for {
		acquired, err := l.client.SetNX(waitCtx, key, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, waitCtx.Err())
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if acquired {
			return func() { l.unlock(key, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrLockTimeout, key, waitCtx.Err())
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisRowLocker) unlock(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := releaseLockScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		l.logger.Error("Failed to release row lock", zap.String("key", key), zap.Error(err))
	}
}

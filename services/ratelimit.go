package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrLoginLocked = errors.New("account temporarily locked")

// LoginLimiter counts failed logins per email in Redis and locks the account
// out after too many. It is constructed once in main with an injected client
// and closed on shutdown; a nil client disables it, so auth keeps working
// when Redis is down.
type LoginLimiter struct {
	rdb         *redis.Client
	MaxAttempts int
	Lockout     time.Duration
	Window      time.Duration
}

func NewLoginLimiter(rdb *redis.Client) *LoginLimiter {
	return &LoginLimiter{
		rdb:         rdb,
		MaxAttempts: 3,
		Lockout:     1 * time.Minute,
		Window:      24 * time.Hour,
	}
}

func attemptsKey(email string) string {
	return "login_attempts:" + email
}

func lockKey(email string) string {
	return "login_lock:" + email
}

// Check returns ErrLoginLocked with the remaining lockout when the account
// is locked.
func (l *LoginLimiter) Check(ctx context.Context, email string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, lockKey(email)).Result()
	if err != nil {
		log.Println("login limiter check error:", err)
		return nil
	}
	if ttl > 0 {
		return fmt.Errorf("%w: try again in %d minute(s)", ErrLoginLocked, int(ttl.Minutes())+1)
	}
	return nil
}

// RecordFailure bumps the failure counter and returns ErrLoginLocked when
// the attempt crosses the limit.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	if l == nil || l.rdb == nil {
		return nil
	}

	count, err := l.rdb.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		log.Println("login limiter record error:", err)
		return nil
	}
	if count == 1 {
		l.rdb.Expire(ctx, attemptsKey(email), l.Window)
	}

	if count >= int64(l.MaxAttempts) {
		l.rdb.Set(ctx, lockKey(email), "1", l.Lockout)
		l.rdb.Del(ctx, attemptsKey(email))
		return fmt.Errorf("%w for %d minute(s)", ErrLoginLocked, int(l.Lockout.Minutes()))
	}
	return nil
}

func (l *LoginLimiter) Clear(ctx context.Context, email string) {
	if l == nil || l.rdb == nil {
		return
	}
	l.rdb.Del(ctx, attemptsKey(email), lockKey(email))
}

func (l *LoginLimiter) Close() error {
	if l == nil || l.rdb == nil {
		return nil
	}
	return l.rdb.Close()
}

package service

import (
	"context"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/school-management/internal/config"
)

// LockoutService tracks failed login attempts per account in Redis.
// Each failure bumps a counter that lives for the policy window; when
// the counter reaches the threshold a lock key is set and Locked reports
// true until it expires.  A successful login clears both keys.  With no
// Redis client, or with the policy disabled, the service never locks
// anyone out and every call is a no-op — the same graceful degradation
// the rest of the application applies when Redis is down.
type LockoutService struct {
	rdb *redis.Client
	cfg config.LockoutConfig
}

// NewLockoutService builds the service.  rdb may be nil.
func NewLockoutService(rdb *redis.Client, cfg config.LockoutConfig) *LockoutService {
	return &LockoutService{rdb: rdb, cfg: cfg}
}

func (l *LockoutService) enabled() bool {
	return l != nil && l.rdb != nil && l.cfg.Enabled && l.cfg.MaxAttempts > 0
}

func (l *LockoutService) attemptsKey(email string) string {
	return l.cfg.Prefix + ":attempts:" + strings.ToLower(strings.TrimSpace(email))
}

func (l *LockoutService) lockKey(email string) string {
	return l.cfg.Prefix + ":locked:" + strings.ToLower(strings.TrimSpace(email))
}

// Locked reports whether the account is currently locked out.  Redis
// errors count as not locked so an outage never blocks logins.
func (l *LockoutService) Locked(ctx context.Context, email string) bool {
	if !l.enabled() {
		return false
	}
	n, err := l.rdb.Exists(ctx, l.lockKey(email)).Result()
	if err != nil {
		log.Printf("lockout: redis exists: %v", err)
		return false
	}
	return n > 0
}

// Failure records one failed attempt.  The first failure in a window
// starts the window clock; reaching the threshold sets the lock key for
// the configured duration.
func (l *LockoutService) Failure(ctx context.Context, email string) {
	if !l.enabled() {
		return
	}
	key := l.attemptsKey(email)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("lockout: redis incr: %v", err)
		return
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.cfg.Window).Err(); err != nil {
			log.Printf("lockout: redis expire: %v", err)
		}
	}
	if count >= int64(l.cfg.MaxAttempts) {
		if err := l.rdb.Set(ctx, l.lockKey(email), "1", l.cfg.Duration).Err(); err != nil {
			log.Printf("lockout: redis set lock: %v", err)
		}
	}
}

// Reset clears the failure counter and any lock after a successful
// login.
func (l *LockoutService) Reset(ctx context.Context, email string) {
	if !l.enabled() {
		return
	}
	if err := l.rdb.Del(ctx, l.attemptsKey(email), l.lockKey(email)).Err(); err != nil {
		log.Printf("lockout: redis del: %v", err)
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-management/internal/config"
)

func lockoutPolicy() config.LockoutConfig {
	return config.LockoutConfig{
		Enabled:     true,
		MaxAttempts: 5,
		Window:      15 * time.Minute,
		Duration:    15 * time.Minute,
		Prefix:      "lockout",
	}
}

func TestLockoutNilServiceIsNoOp(t *testing.T) {
	var l *LockoutService
	ctx := context.Background()

	// A nil service must be safe to call from the login flow.
	assert.False(t, l.Locked(ctx, "jane@example.com"))
	l.Failure(ctx, "jane@example.com")
	l.Reset(ctx, "jane@example.com")
}

func TestLockoutWithoutRedisNeverLocks(t *testing.T) {
	l := NewLockoutService(nil, lockoutPolicy())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		l.Failure(ctx, "jane@example.com")
	}
	assert.False(t, l.Locked(ctx, "jane@example.com"))
}

func TestLockoutDisabledPolicy(t *testing.T) {
	cfg := lockoutPolicy()
	cfg.Enabled = false
	l := NewLockoutService(nil, cfg)

	assert.False(t, l.Locked(context.Background(), "jane@example.com"))
}

func TestLockoutKeysNormalizeEmail(t *testing.T) {
	l := NewLockoutService(nil, lockoutPolicy())

	assert.Equal(t, "lockout:attempts:jane@example.com", l.attemptsKey(" Jane@Example.COM "))
	assert.Equal(t, "lockout:locked:jane@example.com", l.lockKey("JANE@EXAMPLE.COM"))
}

func newLockoutWithRedis(t *testing.T, cfg config.LockoutConfig) (*LockoutService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLockoutService(client, cfg), mr
}

func TestLockoutTripsAtThreshold(t *testing.T) {
	cfg := lockoutPolicy()
	cfg.MaxAttempts = 3
	l, _ := newLockoutWithRedis(t, cfg)
	ctx := context.Background()

	l.Failure(ctx, "jane@example.com")
	l.Failure(ctx, "jane@example.com")
	assert.False(t, l.Locked(ctx, "jane@example.com"), "below threshold must not lock")

	l.Failure(ctx, "jane@example.com")
	assert.True(t, l.Locked(ctx, "jane@example.com"), "reaching the threshold must lock")

	// Other accounts are unaffected.
	assert.False(t, l.Locked(ctx, "john@example.com"))
}

func TestLockoutResetClearsLock(t *testing.T) {
	cfg := lockoutPolicy()
	cfg.MaxAttempts = 2
	l, _ := newLockoutWithRedis(t, cfg)
	ctx := context.Background()

	l.Failure(ctx, "jane@example.com")
	l.Failure(ctx, "jane@example.com")
	require.True(t, l.Locked(ctx, "jane@example.com"))

	l.Reset(ctx, "jane@example.com")
	assert.False(t, l.Locked(ctx, "jane@example.com"))
	// The attempt counter restarts from zero after a reset.
	l.Failure(ctx, "jane@example.com")
	assert.False(t, l.Locked(ctx, "jane@example.com"))
}

func TestLockoutExpiresAfterDuration(t *testing.T) {
	cfg := lockoutPolicy()
	cfg.MaxAttempts = 1
	cfg.Duration = time.Minute
	l, mr := newLockoutWithRedis(t, cfg)
	ctx := context.Background()

	l.Failure(ctx, "jane@example.com")
	require.True(t, l.Locked(ctx, "jane@example.com"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, l.Locked(ctx, "jane@example.com"))
}

func TestLoginLockedOutEvenWithCorrectPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := lockoutPolicy()
	cfg.MaxAttempts = 2
	lockout, _ := newLockoutWithRedis(t, cfg)
	svc := NewAuthService(db, testConfig(), lockout, nil)
	ctx := context.Background()

	lockout.Failure(ctx, "jane@example.com")
	lockout.Failure(ctx, "jane@example.com")

	res := svc.Login(ctx, "jane@example.com", "password123")
	assert.False(t, res.Success)
	assert.Equal(t, CodeLocked, res.Code)
	// The locked account is rejected before credentials are even read,
	// so a correct password makes no difference.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginFailuresAccumulateToLockout(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := lockoutPolicy()
	cfg.MaxAttempts = 2
	lockout, _ := newLockoutWithRedis(t, cfg)
	svc := NewAuthService(db, testConfig(), lockout, nil)
	ctx := context.Background()
	hash := mustHash(t, "password123")

	// Two wrong-password logins trip the policy.
	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
			WillReturnRows(userRow(3, "jane@example.com", hash, true))
		mock.ExpectCommit()

		res := svc.Login(ctx, "jane@example.com", "wrong-password")
		assert.Equal(t, CodeUnauthorized, res.Code)
	}

	res := svc.Login(ctx, "jane@example.com", "password123")
	assert.Equal(t, CodeLocked, res.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

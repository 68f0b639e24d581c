package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-management/internal/utils"
)

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	svc, mock, _ := newTestService(t)

	ok, err := svc.ChangePassword(context.Background(), 3, "password123", "short")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	svc, mock, _ := newTestService(t)
	hash := mustHash(t, "password123")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(userRow(3, "jane@example.com", hash, true))
	mock.ExpectCommit()

	ok, err := svc.ChangePassword(context.Background(), 3, "wrong-password", "replacement1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChangePasswordSuccess(t *testing.T) {
	svc, mock, _ := newTestService(t)
	hash := mustHash(t, "password123")

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(userRow(3, "jane@example.com", hash, true))
	mock.ExpectExec("UPDATE users SET password_hash=").
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := svc.ChangePassword(context.Background(), 3, "password123", "replacement1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, mock, pub := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	found, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	// Unknown address: nothing is stored and no event goes out.
	assert.False(t, found)
	assert.Empty(t, pub.resets)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordStoresTokenAndPublishes(t *testing.T) {
	svc, mock, pub := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectExec("INSERT INTO password_resets").
		WithArgs(uint64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	found, err := svc.ForgotPassword(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, found)

	require.Len(t, pub.resets, 1)
	assert.Equal(t, uint64(3), pub.resets[0].UserID)
	// The event carries the raw token for the notification pipeline; the
	// database row only holds its hash.
	assert.NotEmpty(t, pub.resets[0].ResetToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc, mock, _ := newTestService(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectQuery("SELECT .+ FROM password_resets WHERE token_hash=").
		WithArgs(utils.HashTokenRaw("reset-token"), uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "token_hash", "created_at", "expires_at", "used_at",
		}).AddRow(5, 3, utils.HashTokenRaw("reset-token"), now, now.Add(time.Hour), nil))
	mock.ExpectExec("UPDATE users SET password_hash=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE password_resets SET used_at=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE refresh_tokens SET is_revoked=1").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	ok, err := svc.ResetPassword(context.Background(), "jane@example.com", "reset-token", "replacement1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, mock, _ := newTestService(t)

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectQuery("SELECT .+ FROM password_resets WHERE token_hash=").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "token_hash", "created_at", "expires_at", "used_at",
		}).AddRow(5, 3, "hash", now.Add(-2*time.Hour), now.Add(-time.Hour), nil))
	mock.ExpectCommit()

	ok, err := svc.ResetPassword(context.Background(), "jane@example.com", "reset-token", "replacement1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

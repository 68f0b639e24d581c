package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/school-management/internal/model"
)

func tokenRows(t model.RefreshToken) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "token_hash", "jwt_id", "is_used", "is_revoked", "created_at", "expires_at",
	}).AddRow(t.ID, t.UserID, t.TokenHash, t.JWTID, t.IsUsed, t.IsRevoked, t.CreatedAt, t.ExpiresAt)
}

func TestTokenStoreSetsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO refresh_tokens (user_id, token_hash, jwt_id, is_used, is_revoked, expires_at) VALUES (?,?,?,?,?,?)")).
		WithArgs(uint64(5), "hash", "jti-1", false, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	row := model.RefreshToken{
		UserID:    5,
		TokenHash: "hash",
		JWTID:     "jti-1",
		ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, repo.Store(context.Background(), &row))
	assert.Equal(t, uint64(12), row.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenGetValidHappyPath(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	want := model.RefreshToken{
		ID: 12, UserID: 5, TokenHash: "hash", JWTID: "jti-1",
		CreatedAt: time.Now().UTC(), ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	mock.ExpectQuery("SELECT .+ FROM refresh_tokens WHERE token_hash=").
		WithArgs("hash", uint64(5)).
		WillReturnRows(tokenRows(want))

	got, err := repo.GetValid(context.Background(), "hash", 5)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "jti-1", got.JWTID)
}

func TestTokenGetValidRejectsUsed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	row := model.RefreshToken{
		ID: 12, UserID: 5, TokenHash: "hash", JWTID: "jti-1", IsUsed: true,
		CreatedAt: time.Now().UTC(), ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	mock.ExpectQuery("SELECT .+ FROM refresh_tokens WHERE token_hash=").
		WillReturnRows(tokenRows(row))

	_, err := repo.GetValid(context.Background(), "hash", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenGetValidRejectsExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	row := model.RefreshToken{
		ID: 12, UserID: 5, TokenHash: "hash", JWTID: "jti-1",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	mock.ExpectQuery("SELECT .+ FROM refresh_tokens WHERE token_hash=").
		WillReturnRows(tokenRows(row))

	_, err := repo.GetValid(context.Background(), "hash", 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenMarkUsedAlreadyConsumed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	// The guarded UPDATE matches zero rows when the token was already
	// used or revoked.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET is_used=1 WHERE id=? AND is_used=0 AND is_revoked=0")).
		WithArgs(uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkUsed(context.Background(), 12)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenRevokeAllIsIdempotent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	// No live tokens: zero rows affected is still success.
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET is_revoked=1 WHERE user_id=? AND is_revoked=0")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.RevokeAllForUser(context.Background(), 5))
}

func TestTokenDeleteExpiredReportsCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTokenRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires_at <= ?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteInTransactionCommits(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUnitOfWork(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET is_revoked=1 WHERE user_id=? AND is_revoked=0")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		return uow.Tokens().RevokeAllForUser(ctx, 5)
	})
	require.NoError(t, err)
	assert.False(t, uow.InTransaction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteInTransactionRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUnitOfWork(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, uow.InTransaction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteInTransactionRollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUnitOfWork(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
			panic("kaboom")
		})
	})
	assert.False(t, uow.InTransaction())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteInTransactionJoinsAmbient(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUnitOfWork(db)

	// One begin, one commit: the inner call joins the outer transaction
	// instead of opening its own.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE refresh_tokens SET is_revoked=1 WHERE user_id=? AND is_revoked=0")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		require.True(t, uow.InTransaction())
		return uow.ExecuteInTransaction(ctx, func(ctx context.Context) error {
			return uow.Tokens().RevokeAllForUser(ctx, 5)
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoriesRebindAcrossTransactionScope(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUnitOfWork(db)

	before := uow.Users()
	// Repeated access inside one scope yields the cached instance.
	assert.Same(t, before, uow.Users())

	mock.ExpectBegin()
	mock.ExpectCommit()

	var inside *UserRepo
	err := uow.ExecuteInTransaction(context.Background(), func(ctx context.Context) error {
		inside = uow.Users()
		assert.Same(t, inside, uow.Users())
		return nil
	})
	require.NoError(t, err)

	// Opening and closing the transaction rebinds the repositories to
	// the current handle.
	assert.NotSame(t, before, inside)
	assert.NotSame(t, inside, uow.Users())
}

package repository

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories.  Both
// *sql.DB and *sql.Tx satisfy this interface, which lets the same
// repository code run against the pool or inside an open transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UnitOfWork owns the database handle for one logical request scope.
// Repositories are created lazily, cached, and bound to the current
// handle: the open transaction when one exists, otherwise the pool.
// Construct one per request scope and discard it afterwards; nothing
// here is safe for concurrent use and nothing persists across requests.
type UnitOfWork struct {
	db *sql.DB
	tx *sql.Tx

	users    *UserRepo
	roles    *RoleRepo
	tokens   *TokenRepo
	resets   *ResetRepo
	students *StudentRepo
	teachers *TeacherRepo
}

// NewUnitOfWork returns a UnitOfWork bound to the given pool.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// InTransaction reports whether a transaction is currently open.
func (u *UnitOfWork) InTransaction() bool { return u.tx != nil }

// handle returns the executor repositories should use right now.
func (u *UnitOfWork) handle() DBTX {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

// reset drops all cached repositories so the next accessor call rebinds
// them.  Called whenever the handle changes (transaction begin/end).
func (u *UnitOfWork) reset() {
	u.users = nil
	u.roles = nil
	u.tokens = nil
	u.resets = nil
	u.students = nil
	u.teachers = nil
}

// Users returns the user repository bound to the current handle.
func (u *UnitOfWork) Users() *UserRepo {
	if u.users == nil {
		u.users = NewUserRepo(u.handle())
	}
	return u.users
}

// Roles returns the role repository bound to the current handle.
func (u *UnitOfWork) Roles() *RoleRepo {
	if u.roles == nil {
		u.roles = NewRoleRepo(u.handle())
	}
	return u.roles
}

// Tokens returns the refresh-token ledger bound to the current handle.
func (u *UnitOfWork) Tokens() *TokenRepo {
	if u.tokens == nil {
		u.tokens = NewTokenRepo(u.handle())
	}
	return u.tokens
}

// Resets returns the password-reset repository bound to the current handle.
func (u *UnitOfWork) Resets() *ResetRepo {
	if u.resets == nil {
		u.resets = NewResetRepo(u.handle())
	}
	return u.resets
}

// Students returns the student repository bound to the current handle.
func (u *UnitOfWork) Students() *StudentRepo {
	if u.students == nil {
		u.students = NewStudentRepo(u.handle())
	}
	return u.students
}

// Teachers returns the teacher repository bound to the current handle.
func (u *UnitOfWork) Teachers() *TeacherRepo {
	if u.teachers == nil {
		u.teachers = NewTeacherRepo(u.handle())
	}
	return u.teachers
}

// ExecuteInTransaction runs fn with a transaction open on this
// UnitOfWork.  If a transaction is already open the fn simply joins it —
// there are no nested transactions, and only the outermost call commits
// or rolls back.  Otherwise a transaction is begun, committed when fn
// returns nil, and rolled back when fn returns an error or panics
// (the panic is rethrown after rollback).
func (u *UnitOfWork) ExecuteInTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if u.tx != nil {
		// Ambient transaction: join it, leave commit/rollback to the owner.
		return fn(ctx)
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	u.tx = tx
	u.reset()

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			u.tx = nil
			u.reset()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
		u.tx = nil
		u.reset()
	}()

	err = fn(ctx)
	return err
}

package service

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByIDMissing(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnError(sql.ErrNoRows)

	u, err := svc.GetUserByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetUserByIDWithRoles(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectQuery("SELECT ro.name FROM roles ro JOIN user_roles").
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Student").AddRow("Teacher"))

	u, err := svc.GetUserByID(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Jane Doe", u.FullName)
	assert.Equal(t, []string{"Student", "Teacher"}, u.Roles)
}

func TestAssignRoleCreatesRoleOnDemand(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM roles WHERE name=? LIMIT 1")).
		WithArgs("Librarian").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roles (name) VALUES (?)")).
		WithArgs("Librarian").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec("INSERT IGNORE INTO user_roles").
		WithArgs(uint64(3), uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := svc.AssignRole(context.Background(), 3, "Librarian")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRoleUnknownUser(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	ok, err := svc.AssignRole(context.Background(), 404, "Admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveRoleNotHeld(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=").
		WillReturnRows(userRow(3, "jane@example.com", "hash", true))
	mock.ExpectExec("DELETE ur FROM user_roles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := svc.RemoveRole(context.Background(), 3, "Admin")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetUserRolesEmptyForUnknownUser(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectQuery("SELECT ro.name FROM roles ro JOIN user_roles").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))

	roles, err := svc.GetUserRoles(context.Background(), 404)
	require.NoError(t, err)
	assert.NotNil(t, roles)
	assert.Empty(t, roles)
}

func TestDeactivateUnknownUser(t *testing.T) {
	svc, mock, _ := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET is_active=").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := svc.DeactivateAccount(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

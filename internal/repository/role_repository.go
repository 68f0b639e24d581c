package repository

import (
	"context"
	"database/sql"
	"strings"
)

// RoleRepo manages the 'roles' table and the 'user_roles' membership set.
type RoleRepo struct{ DB DBTX }

func NewRoleRepo(db DBTX) *RoleRepo { return &RoleRepo{DB: db} }

// Ensure returns the id of the named role, creating the row the first
// time the name is referenced.  A concurrent creator losing the insert
// race falls back to reading the winner's row.
func (r *RoleRepo) Ensure(ctx context.Context, name string) (uint64, error) {
	name = strings.TrimSpace(name)
	var id uint64
	err := r.DB.QueryRowContext(ctx, "SELECT id FROM roles WHERE name=? LIMIT 1", name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx, "INSERT INTO roles (name) VALUES (?)", name)
	if err != nil {
		if isDuplicateKey(err) {
			err = r.DB.QueryRowContext(ctx, "SELECT id FROM roles WHERE name=? LIMIT 1", name).Scan(&id)
			return id, err
		}
		return 0, err
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(newID), nil
}

// Assign adds the user to the role.  Re-assigning an already held role
// is a no-op.
func (r *RoleRepo) Assign(ctx context.Context, userID, roleID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT IGNORE INTO user_roles (user_id, role_id) VALUES (?,?)", userID, roleID)
	return err
}

// Remove drops the user's membership in the named role.  Returns
// ErrNotFound when the user did not hold the role.
func (r *RoleRepo) Remove(ctx context.Context, userID uint64, name string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE ur FROM user_roles ur JOIN roles ro ON ro.id=ur.role_id WHERE ur.user_id=? AND ro.name=?",
		userID, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ForUser returns the role names held by the user, ordered by name.
func (r *RoleRepo) ForUser(ctx context.Context, userID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT ro.name FROM roles ro JOIN user_roles ur ON ur.role_id=ro.id WHERE ur.user_id=? ORDER BY ro.name",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

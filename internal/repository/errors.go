// Package repository implements the data-access layer: one thin
// repository per entity, all speaking through the DBTX handle owned by a
// UnitOfWork.  Sentinel errors defined here let the service layer
// distinguish failure scenarios without inspecting driver error text.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when inserting a user whose email collides
// with an existing row.  The unique index on users.email is the final
// arbiter; a concurrent duplicate registration loses with this error.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicate is returned when an insert or update violates a unique
// constraint other than the user email (e.g. a student number).
var ErrDuplicate = errors.New("duplicate record")

// ErrNotFound is returned when an update or delete matched no rows.
var ErrNotFound = errors.New("record not found")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

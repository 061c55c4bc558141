// Package repository implements the MySQL persistence layer.  The
// stores satisfy the interfaces declared by internal/booking and
// return that package's sentinel errors for missing rows so callers
// do not need to know about database/sql.
package repository

import "errors"

// ErrEmailExists is returned when registering a user with an email
// that is already taken.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.  Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

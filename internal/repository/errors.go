// Package repository implements persistence for users, photos, tags
// and comments over database/sql. Sentinel errors defined here let
// handlers distinguish failure scenarios without matching on driver
// error strings themselves.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when a user insert or update collides
// with the unique constraint on users.email. Handlers translate it
// into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrTagExists is returned when a tag rename collides with the unique
// constraint on tags.title. Handlers translate it into an HTTP 409
// response.
var ErrTagExists = errors.New("tag already exists")

// isDuplicate reports whether err is a MySQL duplicate-entry error (1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

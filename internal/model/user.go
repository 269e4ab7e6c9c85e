package model

import (
	"time"

	"photoshare/internal/auth"
)

// User represents a row in the `users` table. Roles are stored in the
// database as a comma-joined string; the repository converts to and
// from auth.RoleSet at the boundary so the rest of the code only ever
// sees the set form.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – display name, not unique.
//	Email        – unique email address; also the token subject.
//	PasswordHash – bcrypt hashed password.
//	Roles        – set of roles held by the account.
//	IsActive     – false when the account is banned; rows are never
//	               physically deleted by the normal flow.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Roles        auth.RoleSet
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

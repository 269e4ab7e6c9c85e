package repository

import (
	"context"
	"database/sql"
	"strings"

	"photoshare/internal/auth"
	"photoshare/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,username,email,password_hash,roles,is_active,created_at,updated_at"

// Create inserts a user and returns its ID. The password must already
// be hashed; roles are serialized to the column form here and nowhere
// else.
func (r *UserRepo) Create(ctx context.Context, username, email, passwordHash string, roles auth.RoleSet) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, roles, is_active) VALUES (?,?,?,?,1)",
		username, email, passwordHash, roles.String())
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
	return scanUser(row)
}

// SetActive flips the ban flag. Returns sql.ErrNoRows when the user
// does not exist.
func (r *UserRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_active=? WHERE id=?", active, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProfile applies the non-nil fields to the user row. A nil
// field leaves the column untouched. Email collisions surface as
// ErrEmailExists.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, username, email, passwordHash *string) error {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	if username != nil {
		sets = append(sets, "username=?")
		args = append(args, *username)
	}
	if email != nil {
		sets = append(sets, "email=?")
		args = append(args, strings.ToLower(strings.TrimSpace(*email)))
	}
	if passwordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *passwordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if isDuplicate(err) {
		return ErrEmailExists
	}
	return err
}

// SetRoles replaces the user's role set.
func (r *UserRepo) SetRoles(ctx context.Context, id uint64, roles auth.RoleSet) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET roles=? WHERE id=?", roles.String(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var roles string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &roles, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Roles, err = auth.ParseRoleSet(roles)
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

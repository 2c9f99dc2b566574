package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/bookmarks/internal/apperror"
	"github.com/sakif/bookmarks/internal/model"
	"github.com/sakif/bookmarks/internal/repository"
)

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// UserStore reads and writes the users table.
type UserStore struct {
	db *DB
}

const userColumns = `id, email, password_hash, first_name, last_name, created_at, updated_at`

// Create inserts a new user and fills in ID and timestamps.
// Returns apperror.ErrConflict if the email is already registered.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	ts := now()
	user.CreatedAt = ts
	user.UpdatedAt = ts

	err := s.db.queryRow(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING id`,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email")
		}
		return fmt.Errorf("sqlstore: inserting user %s: %w", user.Email, err)
	}

	return nil
}

// GetUserByID retrieves a user by id.
// Returns apperror.ErrNotFound if no user exists with that id.
func (s *UserStore) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(s.db.queryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlstore: getting user %d: %w", id, err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by login email. The caller is expected to
// pass the email already normalized.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(s.db.queryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlstore: getting user by email: %w", err)
	}
	return u, nil
}

// Update writes the mutable profile fields (email, names) back to the row.
// password_hash and created_at are never touched here.
func (s *UserStore) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = now()

	result, err := s.db.exec(ctx,
		`UPDATE users
		 SET email = ?, first_name = ?, last_name = ?, updated_at = ?
		 WHERE id = ?`,
		user.Email,
		user.FirstName,
		user.LastName,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("user", "email")
		}
		return fmt.Errorf("sqlstore: updating user %d: %w", user.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlstore: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// scanUser reads one users row in userColumns order. NULL names scan into
// nil *string values.
func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

package store

import (
	"context"
	"fmt"

	"campus-market/internal/apperr"
	"campus-market/internal/models"
)

const userColumns = `id, username, password, email, role, created_at`

// CreateUser inserts a user and fills in its id and creation time
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.Role).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return apperr.Wrap(apperr.CodeConflict, err, "username already taken")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	if err != nil {
		return nil, notFound(err, "user", username)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE email = $1 LIMIT 1", email)
	if err != nil {
		return nil, notFound(err, "user", email)
	}
	return &user, nil
}

// UpdateUserRole updates a user's role
func (s *Store) UpdateUserRole(ctx context.Context, id int64, role models.Role) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = $1 WHERE id = $2", role, id)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}
	return rowsAffected(res, "user", id)
}

// UpdateUserEmail updates a user's email
func (s *Store) UpdateUserEmail(ctx context.Context, id int64, email string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET email = $1 WHERE id = $2", email, id)
	if err != nil {
		return fmt.Errorf("failed to update user email: %w", err)
	}
	return rowsAffected(res, "user", id)
}

// UpdateUserPassword stores a new password hash
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password = $1 WHERE id = $2", passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user password: %w", err)
	}
	return rowsAffected(res, "user", id)
}

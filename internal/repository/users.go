package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todo-services/internal/models"
	"todo-services/pkg/logger"
)

// UserRepository stores credentials in the users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts u. Email uniqueness is enforced by the table's unique index.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		logger.Error(ctx, "Repository CreateUser failed", "error", err)
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByEmail looks up a user by exact email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error(ctx, "Repository GetUserByEmail failed", "error", err)
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// users.go handles admin account database operations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Shimizu-Technology/wows-catalog/internal/models"
)

// CreateUser inserts a new user record.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at`

	return db.QueryRowContext(ctx, query,
		u.Username, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt)
}

// GetUserByUsername retrieves a user by username.
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := db.GetContext(ctx, &u, `SELECT * FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

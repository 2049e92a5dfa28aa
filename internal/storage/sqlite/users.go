package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/finchat/internal/models"
	"github.com/mmynk/finchat/internal/storage"
)

const userColumns = `id, email, display_name, password_hash, stage, created_at, updated_at`

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Stage == "" {
		user.Stage = models.StageStarted
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		string(user.Stage),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if cerr := classifyConstraint(err); cerr != nil {
			return fmt.Errorf("failed to create user: %w", cerr)
		}
		return dbError("create user", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get user by email", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, dbError("get user by ID", err)
	}

	return user, nil
}

// UpdateUserStage stores a new workflow stage for the user.
func (s *SQLiteStore) UpdateUserStage(ctx context.Context, userID string, stage models.Stage) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET stage = ?, updated_at = ? WHERE id = ?",
		string(stage), time.Now().Unix(), userID,
	)
	if err != nil {
		return dbError("update user stage", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return dbError("check updated rows", err)
	}
	if n == 0 {
		return fmt.Errorf("user %s: %w", userID, storage.ErrNotFound)
	}

	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var stage string
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&stage,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Stage = models.Stage(stage)
	return user, nil
}

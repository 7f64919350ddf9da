package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/apperrors"
	"github.com/hodltrack/Bitcoin-HODL-Backend/internal/model"
)

// UserRepository provides data access methods for the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// InsertUser creates a new user row. Email and username uniqueness is enforced
// by the schema; constraint violations are translated into the corresponding
// business errors.
func (s *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		u.ID,
		u.Email,
		u.Username,
		u.PasswordHash,
		u.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "users.email"):
			return apperrors.ErrEmailTaken
		case strings.Contains(msg, "users.username"):
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by primary key.
// Returns apperrors.ErrUserNotFound if no such user exists.
func (s *UserRepository) GetUserByID(ctx context.Context, id string) (model.User, error) {
	return s.getUser(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email address.
// Returns apperrors.ErrUserNotFound if no such user exists.
func (s *UserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.getUser(ctx, "email", email)
}

func (s *UserRepository) getUser(ctx context.Context, column, value string) (model.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE %s = ?
	`, column)

	var u model.User
	var createdAtStr string
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan users table results: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return u, nil
}

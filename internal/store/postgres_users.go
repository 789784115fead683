// internal/store/postgres_users.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"film-service/internal/domain"

	"github.com/lib/pq"
)

const userColumns = `user_id, email, login, name, birthday`

func (s *PostgresStore) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING user_id`
	s.logger.DebugContext(ctx, "Executing CreateUser query", slog.String("login", user.Login))
	if err := s.db.GetContext(ctx, &user.ID, query, user.Email, user.Login, user.Name, user.Birthday); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}
	s.logger.InfoContext(ctx, "User created successfully in DB", slog.Int64("userID", user.ID))
	return nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE user_id = $5`
	res, err := s.db.ExecContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", translateError(err))
	}
	return requireAffected(res, ErrUserNotFound, user.ID)
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "User not found by ID in DB", slog.Int64("userID", id))
			return nil, notFound(ErrUserNotFound, id)
		}
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUsers(ctx context.Context, ids []int64) ([]*domain.User, error) {
	users := []*domain.User{}
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1) ORDER BY user_id`
	if err := s.db.SelectContext(ctx, &users, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	if err := s.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY user_id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser удаляет пользователя. Зависимые строки удаляются каскадно.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := requireAffected(res, ErrUserNotFound, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted from DB", slog.Int64("userID", id))
	return nil
}

func (s *PostgresStore) UserExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, id)
}

// internal/store/postgres_store.go
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"film-service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// Коды ошибок PostgreSQL, которые обрабатываются отдельно
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// PostgresStore реализует Store для PostgreSQL.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore создает новый экземпляр PostgresStore.
func NewPostgresStore(db *sqlx.DB, logger *slog.Logger) (*PostgresStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresStore{db: db, logger: logger}, nil
}

// Migrate создает таблицы, если их нет, и заполняет справочники жанров и рейтингов.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	for _, r := range domain.DefaultMPA {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO mpa (mpa_id, name, description) VALUES ($1, $2, $3) ON CONFLICT (mpa_id) DO NOTHING`,
			r.ID, r.Name, r.Description); err != nil {
			return fmt.Errorf("failed to seed mpa %d: %w", r.ID, err)
		}
	}
	for _, g := range domain.DefaultGenres {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO genres (genre_id, name) VALUES ($1, $2) ON CONFLICT (genre_id) DO NOTHING`,
			g.ID, g.Name); err != nil {
			return fmt.Errorf("failed to seed genre %d: %w", g.ID, err)
		}
	}
	s.logger.InfoContext(ctx, "Database schema is up to date")
	return nil
}

// withTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
func (s *PostgresStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.ErrorContext(ctx, "Failed to rollback transaction", slog.String("error", rbErr.Error()))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// translateError сопоставляет ошибки PostgreSQL с ошибками хранилища.
func translateError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		if kind := foreignKeyKind(pqErr); kind != nil {
			return fmt.Errorf("%w: %s", kind, pqErr.Detail)
		}
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
	case pqSerializationFailure, pqDeadlockDetected:
		return fmt.Errorf("%w: %s", ErrEdgeConflict, pqErr.Message)
	}
	return err
}

// foreignKeyKind определяет отсутствующую сущность по имени нарушенного ограничения,
// например film_likes_user_id_fkey.
func foreignKeyKind(pqErr *pq.Error) error {
	c := pqErr.Constraint
	switch {
	case strings.Contains(c, "mpa_id"):
		return ErrMPANotFound
	case strings.Contains(c, "genre_id"):
		return ErrGenreNotFound
	case strings.Contains(c, "director_id"):
		return ErrDirectorNotFound
	case strings.Contains(c, "review_id"):
		return ErrReviewNotFound
	case strings.Contains(c, "film_id"):
		return ErrFilmNotFound
	case strings.Contains(c, "user_id"), strings.Contains(c, "friend_id"):
		return ErrUserNotFound
	}
	return nil
}

// exists выполняет запрос вида SELECT EXISTS(...).
func (s *PostgresStore) exists(ctx context.Context, query string, id int64) (bool, error) {
	var ok bool
	if err := s.db.GetContext(ctx, &ok, query, id); err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}

// requireAffected превращает пустое обновление или удаление в ошибку отсутствия.
func requireAffected(res sql.Result, kind error, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

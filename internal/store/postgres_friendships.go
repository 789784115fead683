// internal/store/postgres_friendships.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"film-service/internal/domain"

	"github.com/jmoiron/sqlx"
)

// pgEdges выполняет операции над ребрами через db или внутри транзакции.
type pgEdges struct {
	q sqlx.ExtContext
}

func (e pgEdges) Edge(ctx context.Context, from, to int64) (domain.FriendshipStatus, bool, error) {
	var status domain.FriendshipStatus
	err := sqlx.GetContext(ctx, e.q, &status,
		`SELECT status FROM friendships WHERE user_id = $1 AND friend_id = $2`, from, to)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get friendship edge: %w", translateError(err))
	}
	return status, true, nil
}

func (e pgEdges) UpsertEdge(ctx context.Context, from, to int64, status domain.FriendshipStatus) error {
	query := `INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, $3)
              ON CONFLICT (user_id, friend_id) DO UPDATE SET status = EXCLUDED.status`
	if _, err := e.q.ExecContext(ctx, query, from, to, status); err != nil {
		return fmt.Errorf("failed to upsert friendship edge: %w", translateError(err))
	}
	return nil
}

func (e pgEdges) DeleteEdge(ctx context.Context, from, to int64) error {
	if _, err := e.q.ExecContext(ctx,
		`DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`, from, to); err != nil {
		return fmt.Errorf("failed to delete friendship edge: %w", translateError(err))
	}
	return nil
}

func (s *PostgresStore) Edge(ctx context.Context, from, to int64) (domain.FriendshipStatus, bool, error) {
	return pgEdges{q: s.db}.Edge(ctx, from, to)
}

func (s *PostgresStore) UpsertEdge(ctx context.Context, from, to int64, status domain.FriendshipStatus) error {
	return pgEdges{q: s.db}.UpsertEdge(ctx, from, to, status)
}

func (s *PostgresStore) DeleteEdge(ctx context.Context, from, to int64) error {
	return pgEdges{q: s.db}.DeleteEdge(ctx, from, to)
}

func (s *PostgresStore) FriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids,
		`SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY friend_id`, userID); err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	return ids, nil
}

// WithPair открывает транзакцию и берет транзакционную advisory-блокировку
// на неупорядоченную пару (a, b). Отсутствующие строки нельзя заблокировать
// через FOR UPDATE, поэтому блокируется ключ пары, а не строки.
func (s *PostgresStore) WithPair(ctx context.Context, a, b int64, fn func(EdgeStore) error) error {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`, lo, hi); err != nil {
			s.logger.WarnContext(ctx, "Failed to lock friendship pair",
				slog.Int64("userID", a), slog.Int64("friendID", b), slog.String("error", err.Error()))
			return fmt.Errorf("failed to lock friendship pair: %w", translateError(err))
		}
		return fn(pgEdges{q: tx})
	})
}

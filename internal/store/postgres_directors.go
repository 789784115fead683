// internal/store/postgres_directors.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
)

func (s *PostgresStore) CreateDirector(ctx context.Context, director *domain.Director) error {
	if err := s.db.GetContext(ctx, &director.ID,
		`INSERT INTO directors (name) VALUES ($1) RETURNING director_id`, director.Name); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateDirector(ctx context.Context, director *domain.Director) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE directors SET name = $1 WHERE director_id = $2`, director.Name, director.ID)
	if err != nil {
		return fmt.Errorf("failed to update director: %w", err)
	}
	return requireAffected(res, ErrDirectorNotFound, director.ID)
}

func (s *PostgresStore) GetDirector(ctx context.Context, id int64) (*domain.Director, error) {
	var director domain.Director
	err := s.db.GetContext(ctx, &director, `SELECT director_id, name FROM directors WHERE director_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(ErrDirectorNotFound, id)
		}
		return nil, fmt.Errorf("failed to get director by ID: %w", err)
	}
	return &director, nil
}

func (s *PostgresStore) ListDirectors(ctx context.Context) ([]*domain.Director, error) {
	directors := []*domain.Director{}
	if err := s.db.SelectContext(ctx, &directors,
		`SELECT director_id, name FROM directors ORDER BY director_id`); err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

func (s *PostgresStore) DeleteDirector(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM directors WHERE director_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete director: %w", err)
	}
	return requireAffected(res, ErrDirectorNotFound, id)
}

// --- Справочники ---

func (s *PostgresStore) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	genres := []domain.Genre{}
	if err := s.db.SelectContext(ctx, &genres, `SELECT genre_id, name FROM genres ORDER BY genre_id`); err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

func (s *PostgresStore) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	var genre domain.Genre
	if err := s.db.GetContext(ctx, &genre, `SELECT genre_id, name FROM genres WHERE genre_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(ErrGenreNotFound, id)
		}
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &genre, nil
}

func (s *PostgresStore) ListMPA(ctx context.Context) ([]domain.MPA, error) {
	ratings := []domain.MPA{}
	if err := s.db.SelectContext(ctx, &ratings, `SELECT mpa_id, name, description FROM mpa ORDER BY mpa_id`); err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return ratings, nil
}

func (s *PostgresStore) GetMPA(ctx context.Context, id int64) (*domain.MPA, error) {
	var rating domain.MPA
	if err := s.db.GetContext(ctx, &rating, `SELECT mpa_id, name, description FROM mpa WHERE mpa_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(ErrMPANotFound, id)
		}
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return &rating, nil
}

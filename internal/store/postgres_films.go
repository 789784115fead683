// internal/store/postgres_films.go
package store

import (
	"context"
	"fmt"
	"log/slog"

	"film-service/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// filmSelect выбирает фильмы вместе со связанными сущностями. Массивы
// упорядочены по id, что дает жанры и режиссеров в порядке возрастания.
const filmSelect = `
SELECT f.film_id, f.name, f.description, f.release_date, f.duration,
       m.mpa_id, m.name AS mpa_name, m.description AS mpa_description,
       COALESCE((SELECT array_agg(g.genre_id ORDER BY g.genre_id)
                 FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id
                 WHERE fg.film_id = f.film_id), '{}') AS genre_ids,
       COALESCE((SELECT array_agg(g.name ORDER BY g.genre_id)
                 FROM film_genres fg JOIN genres g ON g.genre_id = fg.genre_id
                 WHERE fg.film_id = f.film_id), '{}') AS genre_names,
       COALESCE((SELECT array_agg(d.director_id ORDER BY d.director_id)
                 FROM film_directors fd JOIN directors d ON d.director_id = fd.director_id
                 WHERE fd.film_id = f.film_id), '{}') AS director_ids,
       COALESCE((SELECT array_agg(d.name ORDER BY d.director_id)
                 FROM film_directors fd JOIN directors d ON d.director_id = fd.director_id
                 WHERE fd.film_id = f.film_id), '{}') AS director_names,
       COALESCE((SELECT array_agg(fl.user_id ORDER BY fl.user_id)
                 FROM film_likes fl WHERE fl.film_id = f.film_id), '{}') AS likes
FROM films f
JOIN mpa m ON m.mpa_id = f.mpa_id`

func (s *PostgresStore) CreateFilm(ctx context.Context, film *domain.Film) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `INSERT INTO films (name, description, release_date, duration, mpa_id)
                  VALUES ($1, $2, $3, $4, $5) RETURNING film_id`
		if err := tx.GetContext(ctx, &film.ID, query,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID); err != nil {
			return translateError(err)
		}
		return replaceFilmLinks(ctx, tx, film)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create film: %w", err)
	}
	s.logger.InfoContext(ctx, "Film created successfully in DB", slog.Int64("filmID", film.ID))
	return nil
}

func (s *PostgresStore) UpdateFilm(ctx context.Context, film *domain.Film) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
                  WHERE film_id = $6`
		res, err := tx.ExecContext(ctx, query,
			film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID, film.ID)
		if err != nil {
			return translateError(err)
		}
		if err := requireAffected(res, ErrFilmNotFound, film.ID); err != nil {
			return err
		}
		return replaceFilmLinks(ctx, tx, film)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film: %w", err)
	}
	return nil
}

// replaceFilmLinks полностью заменяет жанры и режиссеров фильма.
func replaceFilmLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE film_id = $1`, film.ID); err != nil {
		return err
	}
	if ids := genreIDs(film); len(ids) > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_genres (film_id, genre_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			film.ID, pq.Array(ids)); err != nil {
			return translateError(err)
		}
	}
	if ids := directorIDs(film); len(ids) > 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_directors (film_id, director_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
			film.ID, pq.Array(ids)); err != nil {
			return translateError(err)
		}
	}
	return nil
}

func (s *PostgresStore) GetFilm(ctx context.Context, id int64) (*domain.Film, error) {
	var rows []filmRow
	if err := s.db.SelectContext(ctx, &rows, filmSelect+` WHERE f.film_id = $1`, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}
	if len(rows) == 0 {
		s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
		return nil, notFound(ErrFilmNotFound, id)
	}
	return rows[0].toFilm(), nil
}

func (s *PostgresStore) ListFilms(ctx context.Context) ([]*domain.Film, error) {
	var rows []filmRow
	if err := s.db.SelectContext(ctx, &rows, filmSelect+` ORDER BY f.film_id`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list films from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	films := make([]*domain.Film, 0, len(rows))
	for i := range rows {
		films = append(films, rows[i].toFilm())
	}
	return films, nil
}

func (s *PostgresStore) DeleteFilm(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM films WHERE film_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete film: %w", err)
	}
	if err := requireAffected(res, ErrFilmNotFound, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Film deleted from DB", slog.Int64("filmID", id))
	return nil
}

func (s *PostgresStore) FilmExists(ctx context.Context, id int64) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM films WHERE film_id = $1)`, id)
}

// --- Лайки ---

func (s *PostgresStore) AddLike(ctx context.Context, filmID, userID int64) error {
	query := `INSERT INTO film_likes (film_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, filmID, userID); err != nil {
		return fmt.Errorf("failed to add like: %w", translateError(err))
	}
	return nil
}

func (s *PostgresStore) RemoveLike(ctx context.Context, filmID, userID int64) error {
	ok, err := s.FilmExists(ctx, filmID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(ErrFilmNotFound, filmID)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM film_likes WHERE film_id = $1 AND user_id = $2`, filmID, userID); err != nil {
		return fmt.Errorf("failed to remove like: %w", err)
	}
	return nil
}

func (s *PostgresStore) LikesOf(ctx context.Context, filmID int64) ([]int64, error) {
	ok, err := s.FilmExists(ctx, filmID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, notFound(ErrFilmNotFound, filmID)
	}
	users := []int64{}
	if err := s.db.SelectContext(ctx, &users,
		`SELECT user_id FROM film_likes WHERE film_id = $1 ORDER BY user_id`, filmID); err != nil {
		return nil, fmt.Errorf("failed to get film likes: %w", err)
	}
	return users, nil
}

func (s *PostgresStore) FilmsLikedBy(ctx context.Context, userID int64) ([]int64, error) {
	films := []int64{}
	if err := s.db.SelectContext(ctx, &films,
		`SELECT film_id FROM film_likes WHERE user_id = $1 ORDER BY film_id`, userID); err != nil {
		return nil, fmt.Errorf("failed to get user likes: %w", err)
	}
	return films, nil
}

func (s *PostgresStore) LikeSets(ctx context.Context) (map[int64][]int64, error) {
	var rows []struct {
		UserID int64 `db:"user_id"`
		FilmID int64 `db:"film_id"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT user_id, film_id FROM film_likes ORDER BY user_id, film_id`); err != nil {
		return nil, fmt.Errorf("failed to get like sets: %w", err)
	}
	sets := make(map[int64][]int64)
	for _, r := range rows {
		sets[r.UserID] = append(sets[r.UserID], r.FilmID)
	}
	return sets, nil
}

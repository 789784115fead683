// internal/store/postgres_reviews.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
)

const reviewSelect = `
SELECT r.review_id, r.content, r.is_positive, r.user_id, r.film_id,
       COALESCE((SELECT SUM(CASE WHEN rr.is_like THEN 1 ELSE -1 END)
                 FROM review_ratings rr WHERE rr.review_id = r.review_id), 0) AS useful
FROM reviews r`

func (s *PostgresStore) CreateReview(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id) VALUES ($1, $2, $3, $4) RETURNING review_id`
	if err := s.db.GetContext(ctx, &review.ID, query,
		review.Content, review.IsPositive, review.UserID, review.FilmID); err != nil {
		s.logger.WarnContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", translateError(err))
	}
	review.Useful = 0
	return nil
}

func (s *PostgresStore) UpdateReview(ctx context.Context, review *domain.Review) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reviews SET content = $1, is_positive = $2 WHERE review_id = $3`,
		review.Content, review.IsPositive, review.ID)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return requireAffected(res, ErrReviewNotFound, review.ID)
}

func (s *PostgresStore) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	var review domain.Review
	if err := s.db.GetContext(ctx, &review, reviewSelect+` WHERE r.review_id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(ErrReviewNotFound, id)
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return &review, nil
}

func (s *PostgresStore) ListReviews(ctx context.Context, filmID int64, limit int) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	query := reviewSelect + ` WHERE ($1::bigint = 0 OR r.film_id = $1) ORDER BY useful DESC, r.review_id LIMIT $2`
	if err := s.db.SelectContext(ctx, &reviews, query, filmID, limit); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (s *PostgresStore) DeleteReview(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return requireAffected(res, ErrReviewNotFound, id)
}

func (s *PostgresStore) SetRating(ctx context.Context, reviewID, userID int64, isLike bool) error {
	query := `INSERT INTO review_ratings (review_id, user_id, is_like) VALUES ($1, $2, $3)
              ON CONFLICT (review_id, user_id) DO UPDATE SET is_like = EXCLUDED.is_like`
	if _, err := s.db.ExecContext(ctx, query, reviewID, userID, isLike); err != nil {
		return fmt.Errorf("failed to rate review: %w", translateError(err))
	}
	return nil
}

func (s *PostgresStore) RemoveRating(ctx context.Context, reviewID, userID int64, isLike bool) error {
	ok, err := s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE review_id = $1)`, reviewID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(ErrReviewNotFound, reviewID)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM review_ratings WHERE review_id = $1 AND user_id = $2 AND is_like = $3`,
		reviewID, userID, isLike); err != nil {
		return fmt.Errorf("failed to remove review rating: %w", err)
	}
	return nil
}

// --- Лента ---

func (s *PostgresStore) AddEvent(ctx context.Context, event *domain.FeedEvent) error {
	query := `INSERT INTO feed_events (user_id, entity_id, event_type, operation, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING event_id`
	if err := s.db.GetContext(ctx, &event.EventID, query,
		event.UserID, event.EntityID, event.EventType, event.Operation, event.Timestamp); err != nil {
		return fmt.Errorf("failed to add feed event: %w", translateError(err))
	}
	return nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, userID int64) ([]domain.FeedEvent, error) {
	events := []domain.FeedEvent{}
	query := `SELECT event_id, user_id, entity_id, event_type, operation, created_at
              FROM feed_events WHERE user_id = $1 ORDER BY event_id`
	if err := s.db.SelectContext(ctx, &events, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list feed events: %w", err)
	}
	return events, nil
}

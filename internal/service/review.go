// internal/service/review.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
	"film-service/internal/store"
)

// DefaultReviewLimit размер списка отзывов, если он не задан
const DefaultReviewLimit = 10

// ReviewService отзывы к фильмам и их оценки
type ReviewService struct {
	reviews store.ReviewStore
	users   store.UserStore
	films   store.FilmStore
	feed    EventEmitter
	logger  *slog.Logger
}

func NewReviewService(reviews store.ReviewStore, users store.UserStore, films store.FilmStore, feed EventEmitter, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, films: films, feed: feed, logger: logger}
}

func (s *ReviewService) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := requireUsers(ctx, s.users, review.UserID); err != nil {
		return nil, err
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, err
	}
	s.feed.Emit(ctx, review.UserID, review.ID, domain.EventReview, domain.OperationAdd)
	s.logger.InfoContext(ctx, "Review created",
		slog.Int64("reviewID", review.ID), slog.Int64("userID", review.UserID), slog.Int64("filmID", review.FilmID))
	return s.reviews.GetReview(ctx, review.ID)
}

// Update меняет текст и знак отзыва. Автор и фильм не меняются.
func (s *ReviewService) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	updated, err := s.reviews.GetReview(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	s.feed.Emit(ctx, updated.UserID, updated.ID, domain.EventReview, domain.OperationUpdate)
	s.logger.InfoContext(ctx, "Review updated", slog.Int64("reviewID", updated.ID))
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.reviews.GetReview(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.feed.Emit(ctx, review.UserID, review.ID, domain.EventReview, domain.OperationRemove)
	s.logger.InfoContext(ctx, "Review deleted", slog.Int64("reviewID", id))
	return nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*domain.Review, error) {
	return s.reviews.GetReview(ctx, id)
}

// List возвращает отзывы по убыванию полезности. filmID == 0 означает все фильмы,
// count <= 0 заменяется значением по умолчанию.
func (s *ReviewService) List(ctx context.Context, filmID int64, count int) ([]*domain.Review, error) {
	if count <= 0 {
		count = DefaultReviewLimit
	}
	if filmID != 0 {
		ok, err := s.films.FilmExists(ctx, filmID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: id %d", store.ErrFilmNotFound, filmID)
		}
	}
	return s.reviews.ListReviews(ctx, filmID, count)
}

func (s *ReviewService) Like(ctx context.Context, reviewID, userID int64) error {
	return s.rate(ctx, reviewID, userID, true)
}

func (s *ReviewService) Dislike(ctx context.Context, reviewID, userID int64) error {
	return s.rate(ctx, reviewID, userID, false)
}

func (s *ReviewService) RemoveLike(ctx context.Context, reviewID, userID int64) error {
	return s.unrate(ctx, reviewID, userID, true)
}

func (s *ReviewService) RemoveDislike(ctx context.Context, reviewID, userID int64) error {
	return s.unrate(ctx, reviewID, userID, false)
}

func (s *ReviewService) rate(ctx context.Context, reviewID, userID int64, isLike bool) error {
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return err
	}
	if err := s.reviews.SetRating(ctx, reviewID, userID, isLike); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Review rated",
		slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.Bool("like", isLike))
	return nil
}

func (s *ReviewService) unrate(ctx context.Context, reviewID, userID int64, isLike bool) error {
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return err
	}
	return s.reviews.RemoveRating(ctx, reviewID, userID, isLike)
}

// internal/domain/review.go
package domain

// Review отзыв пользователя о фильме. Useful равен сумме оценок отзыва:
// +1 за каждый лайк и -1 за каждый дизлайк.
type Review struct {
	ID         int64  `json:"reviewId" db:"review_id"`
	Content    string `json:"content" db:"content"`
	IsPositive bool   `json:"isPositive" db:"is_positive"`
	UserID     int64  `json:"userId" db:"user_id"`
	FilmID     int64  `json:"filmId" db:"film_id"`
	Useful     int    `json:"useful" db:"useful"`
}

// ReviewRequest тело запроса на создание или обновление отзыва
type ReviewRequest struct {
	ID         int64  `json:"reviewId"`
	Content    string `json:"content" validate:"required,notblank,max=1000"`
	IsPositive *bool  `json:"isPositive" validate:"required"`
	UserID     int64  `json:"userId" validate:"required"`
	FilmID     int64  `json:"filmId" validate:"required"`
}

// ToReview переносит поля запроса в модель.
func (r ReviewRequest) ToReview() *Review {
	rv := &Review{
		ID:      r.ID,
		Content: r.Content,
		UserID:  r.UserID,
		FilmID:  r.FilmID,
	}
	if r.IsPositive != nil {
		rv.IsPositive = *r.IsPositive
	}
	return rv
}

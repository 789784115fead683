// internal/api/reviews.go
package api

import (
	"context"
	"net/http"

	"film-service/internal/domain"
	"film-service/internal/service"
)

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	review, err := h.svc.Reviews.Create(r.Context(), req.ToReview())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, review)
}

// UpdateReview меняет текст и знак отзыва. reviewId передается в теле.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.ReviewRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: reviewId is required")
		return
	}
	review, err := h.svc.Reviews.Update(r.Context(), req.ToReview())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

func (h *Handler) GetReviewByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	review, err := h.svc.Reviews.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

// GetReviews GET /reviews?filmId=&count=
func (h *Handler) GetReviews(w http.ResponseWriter, r *http.Request) {
	filmID, _, err := queryInt64(r, "filmId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	count, err := queryCount(r, service.DefaultReviewLimit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	reviews, err := h.svc.Reviews.List(r.Context(), filmID, count)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, reviews)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Reviews.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// rateReview оборачивает операции с оценками отзыва вида /reviews/{id}/like/{userId}.
func (h *Handler) rateReview(op func(ctx context.Context, reviewID, userID int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := pathIDs(r, "id", "userId")
		if err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		if err := op(r.Context(), ids[0], ids[1]); err != nil {
			h.respondServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

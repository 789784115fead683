// internal/service/recommend.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
	"film-service/internal/metrics"
	"film-service/internal/store"
)

// Recommender подбирает фильмы по пользователю с наибольшим числом общих лайков.
type Recommender struct {
	films  store.FilmStore
	likes  store.LikeStore
	users  store.UserStore
	logger *slog.Logger
}

func NewRecommender(films store.FilmStore, likes store.LikeStore, users store.UserStore, logger *slog.Logger) *Recommender {
	return &Recommender{films: films, likes: likes, users: users, logger: logger}
}

// SelectNeighbor находит пользователя с максимальным пересечением лайков с
// target. При равенстве выбирается меньший id. Пользователи без общих
// лайков не рассматриваются.
func SelectNeighbor(target int64, likeSets map[int64][]int64) (neighbor int64, common int, ok bool) {
	mine := toSet(likeSets[target])
	for userID, liked := range likeSets {
		if userID == target {
			continue
		}
		n := 0
		for _, filmID := range liked {
			if _, hit := mine[filmID]; hit {
				n++
			}
		}
		if n == 0 {
			continue
		}
		if n > common || (n == common && userID < neighbor) {
			neighbor, common, ok = userID, n, true
		}
	}
	return neighbor, common, ok
}

// Recommend возвращает фильмы соседа, которых пользователь еще не лайкал,
// по убыванию общей популярности.
func (r *Recommender) Recommend(ctx context.Context, userID int64) ([]*domain.Film, error) {
	if err := requireUsers(ctx, r.users, userID); err != nil {
		return nil, err
	}
	likeSets, err := r.likes.LikeSets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load like sets: %w", err)
	}

	recommended := make([]*domain.Film, 0)
	if len(likeSets[userID]) == 0 {
		metrics.RecordRecommendation(metrics.OutcomeNoLikes)
		return recommended, nil
	}
	neighbor, common, ok := SelectNeighbor(userID, likeSets)
	if !ok {
		metrics.RecordRecommendation(metrics.OutcomeNoNeighbor)
		return recommended, nil
	}

	mine := toSet(likeSets[userID])
	candidates := make(map[int64]struct{})
	for _, filmID := range likeSets[neighbor] {
		if _, seen := mine[filmID]; !seen {
			candidates[filmID] = struct{}{}
		}
	}
	if len(candidates) > 0 {
		all, err := r.films.ListFilms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list films: %w", err)
		}
		for _, f := range all {
			if _, hit := candidates[f.ID]; hit {
				recommended = append(recommended, f)
			}
		}
		sortByPopularity(recommended)
	}

	metrics.RecordRecommendation(metrics.OutcomeRecommended)
	r.logger.InfoContext(ctx, "Recommendations computed",
		slog.Int64("userID", userID), slog.Int64("neighborID", neighbor),
		slog.Int("commonLikes", common), slog.Int("count", len(recommended)))
	return recommended, nil
}

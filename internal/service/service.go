// internal/service/service.go
package service

import (
	"log/slog"

	"film-service/internal/store"
)

// Services набор прикладных сервисов поверх одного хранилища
type Services struct {
	Catalog     *Catalog
	Friends     *FriendshipGraph
	Ranking     *RankingEngine
	Recommender *Recommender
	Reviews     *ReviewService
	Feed        *FeedService
}

// New связывает сервисы с хранилищем. Все изменения пишутся в ленту через FeedService.
func New(s store.Store, logger *slog.Logger) *Services {
	feed := NewFeedService(s, s, logger)
	return &Services{
		Catalog:     NewCatalog(s, feed, logger),
		Friends:     NewFriendshipGraph(s, s, feed, logger),
		Ranking:     NewRankingEngine(s, s, s, s, logger),
		Recommender: NewRecommender(s, s, s, logger),
		Reviews:     NewReviewService(s, s, s, feed, logger),
		Feed:        feed,
	}
}

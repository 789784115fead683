// internal/service/feed.go
package service

import (
	"context"
	"log/slog"
	"time"

	"film-service/internal/domain"
	"film-service/internal/store"
)

// EventEmitter получает уведомления о действиях пользователей.
// Ошибки записи не возвращаются вызывающему.
type EventEmitter interface {
	Emit(ctx context.Context, actorID, entityID int64, eventType domain.EventType, op domain.Operation)
}

// FeedService ведет журнал действий пользователей
type FeedService struct {
	events store.FeedStore
	users  store.UserStore
	logger *slog.Logger
	now    func() time.Time
}

func NewFeedService(events store.FeedStore, users store.UserStore, logger *slog.Logger) *FeedService {
	return &FeedService{events: events, users: users, logger: logger, now: time.Now}
}

func (s *FeedService) Emit(ctx context.Context, actorID, entityID int64, eventType domain.EventType, op domain.Operation) {
	event := &domain.FeedEvent{
		UserID:    actorID,
		EntityID:  entityID,
		EventType: eventType,
		Operation: op,
		Timestamp: s.now().UnixMilli(),
	}
	if err := s.events.AddEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record feed event",
			slog.Int64("userID", actorID), slog.Int64("entityID", entityID),
			slog.String("eventType", string(eventType)), slog.String("operation", string(op)),
			slog.String("error", err.Error()))
	}
}

// Feed возвращает события пользователя в порядке их появления.
func (s *FeedService) Feed(ctx context.Context, userID int64) ([]domain.FeedEvent, error) {
	if err := requireUsers(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.events.ListEvents(ctx, userID)
}

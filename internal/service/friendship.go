// internal/service/friendship.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
	"film-service/internal/metrics"
	"film-service/internal/store"
)

// FriendshipGraph ведет направленные ребра дружбы и их подтверждение.
// Ребро A->B становится CONFIRMED только вместе с B->A.
type FriendshipGraph struct {
	edges  store.FriendshipStore
	users  store.UserStore
	feed   EventEmitter
	logger *slog.Logger
}

func NewFriendshipGraph(edges store.FriendshipStore, users store.UserStore, feed EventEmitter, logger *slog.Logger) *FriendshipGraph {
	return &FriendshipGraph{edges: edges, users: users, feed: feed, logger: logger}
}

// RequestFriendship отправляет заявку userID -> targetID. Если встречная
// заявка уже ждет подтверждения, оба ребра становятся CONFIRMED.
// Уже подтвержденное исходящее ребро не меняется.
func (g *FriendshipGraph) RequestFriendship(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return fmt.Errorf("%w: id %d", ErrSelfFriendship, userID)
	}
	if err := requireUsers(ctx, g.users, userID, targetID); err != nil {
		return err
	}

	transition, err := g.applyRequest(ctx, userID, targetID)
	if errors.Is(err, domain.ErrConflict) {
		g.logger.WarnContext(ctx, "Friendship request lost a race, retrying",
			slog.Int64("userID", userID), slog.Int64("friendID", targetID))
		metrics.FriendshipConflictRetries.Inc()
		transition, err = g.applyRequest(ctx, userID, targetID)
	}
	if err != nil {
		g.logger.ErrorContext(ctx, "Failed to apply friendship request",
			slog.Int64("userID", userID), slog.Int64("friendID", targetID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to request friendship %d -> %d: %w", userID, targetID, err)
	}

	metrics.RecordFriendshipTransition(transition)
	g.feed.Emit(ctx, userID, targetID, domain.EventFriend, domain.OperationAdd)
	g.logger.InfoContext(ctx, "Friendship request applied",
		slog.Int64("userID", userID), slog.Int64("friendID", targetID), slog.String("transition", transition))
	return nil
}

// applyRequest выполняет проверку и запись обоих направлений под блокировкой пары.
func (g *FriendshipGraph) applyRequest(ctx context.Context, userID, targetID int64) (string, error) {
	var transition string
	err := g.edges.WithPair(ctx, userID, targetID, func(tx store.EdgeStore) error {
		forward, hasForward, err := tx.Edge(ctx, userID, targetID)
		if err != nil {
			return err
		}
		if hasForward && forward == domain.FriendshipConfirmed {
			transition = metrics.TransitionReasserted
			return nil
		}

		reverse, hasReverse, err := tx.Edge(ctx, targetID, userID)
		if err != nil {
			return err
		}
		switch {
		case hasReverse && reverse == domain.FriendshipUnconfirmed:
			if err := tx.UpsertEdge(ctx, targetID, userID, domain.FriendshipConfirmed); err != nil {
				return err
			}
			transition = metrics.TransitionConfirmed
			return tx.UpsertEdge(ctx, userID, targetID, domain.FriendshipConfirmed)
		case hasReverse && reverse == domain.FriendshipConfirmed:
			// Встречная сторона все еще считает дружбу подтвержденной.
			transition = metrics.TransitionConfirmed
			return tx.UpsertEdge(ctx, userID, targetID, domain.FriendshipConfirmed)
		default:
			transition = metrics.TransitionRequested
			return tx.UpsertEdge(ctx, userID, targetID, domain.FriendshipUnconfirmed)
		}
	})
	return transition, err
}

// RemoveFriendship удаляет только ребро userID -> targetID.
func (g *FriendshipGraph) RemoveFriendship(ctx context.Context, userID, targetID int64) error {
	if err := requireUsers(ctx, g.users, userID, targetID); err != nil {
		return err
	}
	if err := g.edges.DeleteEdge(ctx, userID, targetID); err != nil {
		return fmt.Errorf("failed to remove friendship %d -> %d: %w", userID, targetID, err)
	}
	metrics.RecordFriendshipTransition(metrics.TransitionRemoved)
	g.feed.Emit(ctx, userID, targetID, domain.EventFriend, domain.OperationRemove)
	g.logger.InfoContext(ctx, "Friendship removed", slog.Int64("userID", userID), slog.Int64("friendID", targetID))
	return nil
}

// Status возвращает состояние ребра from -> to и признак его наличия.
func (g *FriendshipGraph) Status(ctx context.Context, from, to int64) (domain.FriendshipStatus, bool, error) {
	return g.edges.Edge(ctx, from, to)
}

// ListFriends возвращает всех, на кого у пользователя есть исходящее ребро, по возрастанию id.
func (g *FriendshipGraph) ListFriends(ctx context.Context, userID int64) ([]*domain.User, error) {
	if err := requireUsers(ctx, g.users, userID); err != nil {
		return nil, err
	}
	ids, err := g.edges.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of %d: %w", userID, err)
	}
	return g.users.GetUsers(ctx, ids)
}

// ListCommonFriends возвращает пересечение списков друзей двух пользователей.
func (g *FriendshipGraph) ListCommonFriends(ctx context.Context, userID, otherID int64) ([]*domain.User, error) {
	if err := requireUsers(ctx, g.users, userID, otherID); err != nil {
		return nil, err
	}
	mine, err := g.edges.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of %d: %w", userID, err)
	}
	theirs, err := g.edges.FriendIDs(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of %d: %w", otherID, err)
	}
	return g.users.GetUsers(ctx, intersect(mine, theirs))
}

// intersect возвращает общие элементы двух списков в порядке первого.
func intersect(a, b []int64) []int64 {
	set := make(map[int64]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	common := make([]int64, 0)
	for _, id := range a {
		if _, ok := set[id]; ok {
			common = append(common, id)
		}
	}
	return common
}

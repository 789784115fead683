// internal/service/errors.go
package service

import (
	"context"
	"fmt"

	"film-service/internal/domain"
	"film-service/internal/store"
)

var (
	ErrSelfFriendship     = fmt.Errorf("%w: user cannot befriend themselves", domain.ErrInvalidArgument)
	ErrEmptySearchFields  = fmt.Errorf("%w: search fields must not be empty", domain.ErrInvalidArgument)
	ErrBlankQuery         = fmt.Errorf("%w: search query must not be blank", domain.ErrInvalidArgument)
	ErrUnknownSearchField = fmt.Errorf("%w: unknown search field", domain.ErrInvalidArgument)
	ErrUnsupportedSort    = fmt.Errorf("%w: unsupported sort key", domain.ErrInvalidArgument)
	ErrInvalidLimit       = fmt.Errorf("%w: limit must be positive", domain.ErrInvalidArgument)
)

// requireUsers возвращает ошибку отсутствия для первого несуществующего пользователя.
func requireUsers(ctx context.Context, users store.UserStore, ids ...int64) error {
	for _, id := range ids {
		ok, err := users.UserExists(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check user %d: %w", id, err)
		}
		if !ok {
			return fmt.Errorf("%w: id %d", store.ErrUserNotFound, id)
		}
	}
	return nil
}

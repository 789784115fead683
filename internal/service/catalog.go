// internal/service/catalog.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"film-service/internal/domain"
	"film-service/internal/store"
)

// Catalog операции над пользователями, фильмами, лайками, режиссерами и справочниками.
type Catalog struct {
	store  store.Store
	feed   EventEmitter
	logger *slog.Logger
}

func NewCatalog(s store.Store, feed EventEmitter, logger *slog.Logger) *Catalog {
	return &Catalog{store: s, feed: feed, logger: logger}
}

// --- Пользователи ---

func (c *Catalog) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.NormalizeName()
	if err := c.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID), slog.String("login", user.Login))
	return user, nil
}

func (c *Catalog) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.NormalizeName()
	if err := c.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "User updated", slog.Int64("userID", user.ID))
	return user, nil
}

func (c *Catalog) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return c.store.GetUser(ctx, id)
}

func (c *Catalog) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return c.store.ListUsers(ctx)
}

func (c *Catalog) DeleteUser(ctx context.Context, id int64) error {
	if err := c.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

func (c *Catalog) UserExists(ctx context.Context, id int64) (bool, error) {
	return c.store.UserExists(ctx, id)
}

// --- Фильмы ---

// CreateFilm сохраняет фильм и возвращает его с именами рейтинга, жанров и режиссеров.
func (c *Catalog) CreateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if err := c.store.CreateFilm(ctx, film); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "Film created", slog.Int64("filmID", film.ID), slog.String("name", film.Name))
	return c.store.GetFilm(ctx, film.ID)
}

// UpdateFilm полностью заменяет изменяемые поля фильма.
func (c *Catalog) UpdateFilm(ctx context.Context, film *domain.Film) (*domain.Film, error) {
	if err := c.store.UpdateFilm(ctx, film); err != nil {
		return nil, err
	}
	c.logger.InfoContext(ctx, "Film updated", slog.Int64("filmID", film.ID))
	return c.store.GetFilm(ctx, film.ID)
}

func (c *Catalog) GetFilm(ctx context.Context, id int64) (*domain.Film, error) {
	return c.store.GetFilm(ctx, id)
}

func (c *Catalog) ListFilms(ctx context.Context) ([]*domain.Film, error) {
	return c.store.ListFilms(ctx)
}

func (c *Catalog) DeleteFilm(ctx context.Context, id int64) error {
	if err := c.store.DeleteFilm(ctx, id); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

func (c *Catalog) FilmExists(ctx context.Context, id int64) (bool, error) {
	return c.store.FilmExists(ctx, id)
}

// AddLike ставит лайк. Повторный лайк ничего не меняет, но попадает в ленту.
func (c *Catalog) AddLike(ctx context.Context, filmID, userID int64) error {
	if err := requireUsers(ctx, c.store, userID); err != nil {
		return err
	}
	if err := c.store.AddLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("failed to add like %d -> film %d: %w", userID, filmID, err)
	}
	c.feed.Emit(ctx, userID, filmID, domain.EventLike, domain.OperationAdd)
	c.logger.InfoContext(ctx, "Like added", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

func (c *Catalog) RemoveLike(ctx context.Context, filmID, userID int64) error {
	if err := requireUsers(ctx, c.store, userID); err != nil {
		return err
	}
	if err := c.store.RemoveLike(ctx, filmID, userID); err != nil {
		return fmt.Errorf("failed to remove like %d -> film %d: %w", userID, filmID, err)
	}
	c.feed.Emit(ctx, userID, filmID, domain.EventLike, domain.OperationRemove)
	c.logger.InfoContext(ctx, "Like removed", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// --- Режиссеры ---

func (c *Catalog) CreateDirector(ctx context.Context, director *domain.Director) (*domain.Director, error) {
	if err := c.store.CreateDirector(ctx, director); err != nil {
		return nil, err
	}
	return director, nil
}

func (c *Catalog) UpdateDirector(ctx context.Context, director *domain.Director) (*domain.Director, error) {
	if err := c.store.UpdateDirector(ctx, director); err != nil {
		return nil, err
	}
	return director, nil
}

func (c *Catalog) GetDirector(ctx context.Context, id int64) (*domain.Director, error) {
	return c.store.GetDirector(ctx, id)
}

func (c *Catalog) ListDirectors(ctx context.Context) ([]*domain.Director, error) {
	return c.store.ListDirectors(ctx)
}

func (c *Catalog) DeleteDirector(ctx context.Context, id int64) error {
	return c.store.DeleteDirector(ctx, id)
}

// --- Справочники ---

func (c *Catalog) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	return c.store.ListGenres(ctx)
}

func (c *Catalog) GetGenre(ctx context.Context, id int64) (*domain.Genre, error) {
	return c.store.GetGenre(ctx, id)
}

func (c *Catalog) ListMPA(ctx context.Context) ([]domain.MPA, error) {
	return c.store.ListMPA(ctx)
}

func (c *Catalog) GetMPA(ctx context.Context, id int64) (*domain.MPA, error) {
	return c.store.GetMPA(ctx, id)
}

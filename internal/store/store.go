// internal/store/store.go
package store

import (
	"context"
	"fmt"

	"film-service/internal/domain"
)

var (
	ErrUserNotFound     = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrFilmNotFound     = fmt.Errorf("film %w", domain.ErrNotFound)
	ErrDirectorNotFound = fmt.Errorf("director %w", domain.ErrNotFound)
	ErrGenreNotFound    = fmt.Errorf("genre %w", domain.ErrNotFound)
	ErrMPANotFound      = fmt.Errorf("mpa rating %w", domain.ErrNotFound)
	ErrReviewNotFound   = fmt.Errorf("review %w", domain.ErrNotFound)

	// ErrEdgeConflict означает, что параллельная запись в ту же пару ребер
	// помешала завершить операцию. Операцию можно повторить.
	ErrEdgeConflict = fmt.Errorf("friendship edge %w", domain.ErrConflict)
)

// notFound добавляет к ошибке идентификатор отсутствующей сущности.
func notFound(kind error, id int64) error {
	return fmt.Errorf("%w: id %d", kind, id)
}

type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	// GetUsers возвращает существующих пользователей из ids по возрастанию id.
	GetUsers(ctx context.Context, ids []int64) ([]*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

type FilmStore interface {
	CreateFilm(ctx context.Context, film *domain.Film) error
	// UpdateFilm заменяет все изменяемые поля, включая жанры и режиссеров.
	UpdateFilm(ctx context.Context, film *domain.Film) error
	GetFilm(ctx context.Context, id int64) (*domain.Film, error)
	// ListFilms возвращает все фильмы с лайками, жанрами и режиссерами по возрастанию id.
	ListFilms(ctx context.Context) ([]*domain.Film, error)
	DeleteFilm(ctx context.Context, id int64) error
	FilmExists(ctx context.Context, id int64) (bool, error)
}

type LikeStore interface {
	// AddLike идемпотентна. Повторный лайк ничего не меняет.
	AddLike(ctx context.Context, filmID, userID int64) error
	RemoveLike(ctx context.Context, filmID, userID int64) error
	LikesOf(ctx context.Context, filmID int64) ([]int64, error)
	FilmsLikedBy(ctx context.Context, userID int64) ([]int64, error)
	// LikeSets возвращает множества лайков всех пользователей: userID -> filmIDs.
	LikeSets(ctx context.Context) (map[int64][]int64, error)
}

// EdgeStore операции над отдельными направленными ребрами дружбы
type EdgeStore interface {
	Edge(ctx context.Context, from, to int64) (domain.FriendshipStatus, bool, error)
	UpsertEdge(ctx context.Context, from, to int64, status domain.FriendshipStatus) error
	DeleteEdge(ctx context.Context, from, to int64) error
}

type FriendshipStore interface {
	EdgeStore
	// FriendIDs возвращает цели всех исходящих ребер пользователя по возрастанию id.
	FriendIDs(ctx context.Context, userID int64) ([]int64, error)
	// WithPair выполняет fn атомарно относительно любых других вызовов WithPair
	// для той же неупорядоченной пары пользователей.
	WithPair(ctx context.Context, a, b int64, fn func(EdgeStore) error) error
}

type DirectorStore interface {
	CreateDirector(ctx context.Context, director *domain.Director) error
	UpdateDirector(ctx context.Context, director *domain.Director) error
	GetDirector(ctx context.Context, id int64) (*domain.Director, error)
	ListDirectors(ctx context.Context) ([]*domain.Director, error)
	DeleteDirector(ctx context.Context, id int64) error
}

type ReferenceStore interface {
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenre(ctx context.Context, id int64) (*domain.Genre, error)
	ListMPA(ctx context.Context) ([]domain.MPA, error)
	GetMPA(ctx context.Context, id int64) (*domain.MPA, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *domain.Review) error
	// UpdateReview меняет только текст и знак отзыва.
	UpdateReview(ctx context.Context, review *domain.Review) error
	GetReview(ctx context.Context, id int64) (*domain.Review, error)
	// ListReviews сортирует по полезности по убыванию, затем по id.
	// filmID == 0 означает отзывы ко всем фильмам.
	ListReviews(ctx context.Context, filmID int64, limit int) ([]*domain.Review, error)
	DeleteReview(ctx context.Context, id int64) error
	// SetRating сохраняет единственную оценку пользователя для отзыва, заменяя прежнюю.
	SetRating(ctx context.Context, reviewID, userID int64, isLike bool) error
	// RemoveRating удаляет оценку, только если она того же вида.
	RemoveRating(ctx context.Context, reviewID, userID int64, isLike bool) error
}

type FeedStore interface {
	AddEvent(ctx context.Context, event *domain.FeedEvent) error
	ListEvents(ctx context.Context, userID int64) ([]domain.FeedEvent, error)
}

// Store объединяет все контракты хранилища
type Store interface {
	UserStore
	FilmStore
	LikeStore
	FriendshipStore
	DirectorStore
	ReferenceStore
	ReviewStore
	FeedStore
}

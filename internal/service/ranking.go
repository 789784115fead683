// internal/service/ranking.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"film-service/internal/domain"
	"film-service/internal/store"
)

// DefaultPopularLimit размер списка популярных фильмов, если он не задан
const DefaultPopularLimit = 10

// SortKey порядок фильмов режиссера
type SortKey string

const (
	SortByLikes SortKey = "likes"
	SortByYear  SortKey = "year"
)

// ParseSortKey разбирает параметр sortBy. Пустое значение означает likes.
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortByLikes, nil
	case SortByLikes, SortByYear:
		return key, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSort, s)
	}
}

// SearchField поле фильма, по которому идет поиск
type SearchField string

const (
	SearchByTitle    SearchField = "TITLE"
	SearchByDirector SearchField = "DIRECTOR"
)

// ParseSearchFields разбирает список полей вида "title,director".
func ParseSearchFields(s string) ([]SearchField, error) {
	var fields []SearchField
	seen := make(map[SearchField]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field := SearchField(strings.ToUpper(part))
		if field != SearchByTitle && field != SearchByDirector {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSearchField, part)
		}
		if !seen[field] {
			seen[field] = true
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil, ErrEmptySearchFields
	}
	return fields, nil
}

// PopularQuery параметры списка популярных фильмов. Nil фильтр не применяется.
type PopularQuery struct {
	Limit   int
	Year    *int
	GenreID *int64
}

// RankingEngine упорядочивает фильмы по популярности. Каждый вызов
// перечитывает данные из хранилища.
type RankingEngine struct {
	films     store.FilmStore
	likes     store.LikeStore
	users     store.UserStore
	directors store.DirectorStore
	logger    *slog.Logger
}

func NewRankingEngine(films store.FilmStore, likes store.LikeStore, users store.UserStore, directors store.DirectorStore, logger *slog.Logger) *RankingEngine {
	return &RankingEngine{films: films, likes: likes, users: users, directors: directors, logger: logger}
}

// sortByPopularity сортирует по числу лайков по убыванию, при равенстве по id.
func sortByPopularity(films []*domain.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		if films[i].LikeCount() != films[j].LikeCount() {
			return films[i].LikeCount() > films[j].LikeCount()
		}
		return films[i].ID < films[j].ID
	})
}

// sortByRelease сортирует по дате выхода по возрастанию, при равенстве по id.
func sortByRelease(films []*domain.Film) {
	sort.SliceStable(films, func(i, j int) bool {
		if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
			return films[i].ReleaseDate.Before(films[j].ReleaseDate.Time)
		}
		return films[i].ID < films[j].ID
	})
}

func (e *RankingEngine) filter(ctx context.Context, keep func(*domain.Film) bool) ([]*domain.Film, error) {
	all, err := e.films.ListFilms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", err)
	}
	films := make([]*domain.Film, 0, len(all))
	for _, f := range all {
		if keep(f) {
			films = append(films, f)
		}
	}
	return films, nil
}

// PopularFilms возвращает не более q.Limit самых популярных фильмов
// с учетом фильтров по году выхода и жанру.
func (e *RankingEngine) PopularFilms(ctx context.Context, q PopularQuery) ([]*domain.Film, error) {
	if q.Limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, q.Limit)
	}
	films, err := e.filter(ctx, func(f *domain.Film) bool {
		if q.Year != nil && f.ReleaseYear() != *q.Year {
			return false
		}
		if q.GenreID != nil && !f.HasGenre(*q.GenreID) {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sortByPopularity(films)
	if len(films) > q.Limit {
		films = films[:q.Limit]
	}
	e.logger.DebugContext(ctx, "Popular films computed", slog.Int("limit", q.Limit), slog.Int("count", len(films)))
	return films, nil
}

// FilmsByDirector возвращает фильмы режиссера в порядке sortBy.
func (e *RankingEngine) FilmsByDirector(ctx context.Context, directorID int64, sortBy SortKey) ([]*domain.Film, error) {
	if sortBy != SortByLikes && sortBy != SortByYear {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSort, sortBy)
	}
	if _, err := e.directors.GetDirector(ctx, directorID); err != nil {
		return nil, err
	}
	films, err := e.filter(ctx, func(f *domain.Film) bool {
		for _, d := range f.Directors {
			if d.ID == directorID {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	if sortBy == SortByYear {
		sortByRelease(films)
	} else {
		sortByPopularity(films)
	}
	return films, nil
}

// CommonFilms возвращает фильмы, которые понравились обоим пользователям.
func (e *RankingEngine) CommonFilms(ctx context.Context, userID, friendID int64) ([]*domain.Film, error) {
	if err := requireUsers(ctx, e.users, userID, friendID); err != nil {
		return nil, err
	}
	mine, err := e.likes.FilmsLikedBy(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes of user %d: %w", userID, err)
	}
	theirs, err := e.likes.FilmsLikedBy(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to get likes of user %d: %w", friendID, err)
	}
	common := toSet(intersect(mine, theirs))
	films, err := e.filter(ctx, func(f *domain.Film) bool {
		_, ok := common[f.ID]
		return ok
	})
	if err != nil {
		return nil, err
	}
	sortByPopularity(films)
	return films, nil
}

// SearchFilms ищет подстроку без учета регистра в названии и/или именах
// режиссеров. Фильм подходит, если совпало хотя бы одно поле.
func (e *RankingEngine) SearchFilms(ctx context.Context, query string, fields []SearchField) ([]*domain.Film, error) {
	if len(fields) == 0 {
		return nil, ErrEmptySearchFields
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, ErrBlankQuery
	}
	films, err := e.filter(ctx, func(f *domain.Film) bool {
		for _, field := range fields {
			if matchField(f, field, needle) {
				return true
			}
		}
		return false
	})
	if err != nil {
		return nil, err
	}
	sortByPopularity(films)
	e.logger.DebugContext(ctx, "Film search completed", slog.String("query", query), slog.Int("count", len(films)))
	return films, nil
}

func matchField(f *domain.Film, field SearchField, needle string) bool {
	switch field {
	case SearchByTitle:
		return strings.Contains(strings.ToLower(f.Name), needle)
	case SearchByDirector:
		for _, d := range f.Directors {
			if strings.Contains(strings.ToLower(d.Name), needle) {
				return true
			}
		}
	}
	return false
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

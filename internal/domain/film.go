// internal/domain/film.go
package domain

import "sort"

// Film представляет основную доменную модель фильма
type Film struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ReleaseDate Date       `json:"releaseDate"`
	Duration    int        `json:"duration"`
	MPA         MPA        `json:"mpa"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
	Likes       []int64    `json:"-"`
}

// LikeCount популярность фильма: число различных пользователей, поставивших лайк
func (f *Film) LikeCount() int {
	return len(f.Likes)
}

// HasGenre проверяет принадлежность жанра фильму.
func (f *Film) HasGenre(genreID int64) bool {
	for _, g := range f.Genres {
		if g.ID == genreID {
			return true
		}
	}
	return false
}

// ReleaseYear год выхода фильма
func (f *Film) ReleaseYear() int {
	return f.ReleaseDate.Year()
}

// Clone возвращает глубокую копию фильма.
func (f *Film) Clone() *Film {
	c := *f
	c.Genres = append([]Genre(nil), f.Genres...)
	c.Directors = append([]Director(nil), f.Directors...)
	c.Likes = append([]int64(nil), f.Likes...)
	return &c
}

// IDRef ссылка на справочную сущность по идентификатору
type IDRef struct {
	ID int64 `json:"id" validate:"required,gt=0"`
}

// FilmRequest тело запроса на создание или полное обновление фильма
type FilmRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"required,notblank,max=255"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate Date    `json:"releaseDate" validate:"required,releasedate"`
	Duration    int     `json:"duration" validate:"required,gt=0"`
	MPA         *IDRef  `json:"mpa" validate:"required"`
	Genres      []IDRef `json:"genres" validate:"omitempty,dive"`
	Directors   []IDRef `json:"directors" validate:"omitempty,dive"`
}

// ToFilm переносит поля запроса в модель. Повторяющиеся жанры и режиссеры
// схлопываются, списки упорядочиваются по возрастанию идентификатора.
func (r FilmRequest) ToFilm() *Film {
	f := &Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
	}
	if r.MPA != nil {
		f.MPA = MPA{ID: r.MPA.ID}
	}
	for _, id := range uniqueIDs(r.Genres) {
		f.Genres = append(f.Genres, Genre{ID: id})
	}
	for _, id := range uniqueIDs(r.Directors) {
		f.Directors = append(f.Directors, Director{ID: id})
	}
	return f
}

func uniqueIDs(refs []IDRef) []int64 {
	seen := make(map[int64]struct{}, len(refs))
	ids := make([]int64, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

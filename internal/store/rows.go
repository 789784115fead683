// internal/store/rows.go
package store

import (
	"film-service/internal/domain"

	"github.com/lib/pq"
)

// filmRow плоское представление фильма: связанные жанры, режиссеры и лайки
// приходят параллельными массивами, упорядоченными по id.
type filmRow struct {
	ID             int64          `db:"film_id"`
	Name           string         `db:"name"`
	Description    string         `db:"description"`
	ReleaseDate    domain.Date    `db:"release_date"`
	Duration       int            `db:"duration"`
	MPAID          int64          `db:"mpa_id"`
	MPAName        string         `db:"mpa_name"`
	MPADescription string         `db:"mpa_description"`
	GenreIDs       pq.Int64Array  `db:"genre_ids"`
	GenreNames     pq.StringArray `db:"genre_names"`
	DirectorIDs    pq.Int64Array  `db:"director_ids"`
	DirectorNames  pq.StringArray `db:"director_names"`
	Likes          pq.Int64Array  `db:"likes"`
}

func (r *filmRow) toFilm() *domain.Film {
	f := &domain.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		Duration:    r.Duration,
		MPA:         domain.MPA{ID: r.MPAID, Name: r.MPAName, Description: r.MPADescription},
		Genres:      make([]domain.Genre, 0, len(r.GenreIDs)),
		Directors:   make([]domain.Director, 0, len(r.DirectorIDs)),
		Likes:       make([]int64, 0, len(r.Likes)),
	}
	for i, id := range r.GenreIDs {
		g := domain.Genre{ID: id}
		if i < len(r.GenreNames) {
			g.Name = r.GenreNames[i]
		}
		f.Genres = append(f.Genres, g)
	}
	for i, id := range r.DirectorIDs {
		d := domain.Director{ID: id}
		if i < len(r.DirectorNames) {
			d.Name = r.DirectorNames[i]
		}
		f.Directors = append(f.Directors, d)
	}
	f.Likes = append(f.Likes, r.Likes...)
	return f
}

func genreIDs(f *domain.Film) []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func directorIDs(f *domain.Film) []int64 {
	ids := make([]int64, 0, len(f.Directors))
	for _, d := range f.Directors {
		ids = append(ids, d.ID)
	}
	return ids
}

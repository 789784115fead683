// internal/domain/reference.go
package domain

// Genre справочник жанров
type Genre struct {
	ID   int64  `json:"id" db:"genre_id"`
	Name string `json:"name,omitempty" db:"name"`
}

// MPA справочник возрастных рейтингов
type MPA struct {
	ID          int64  `json:"id" db:"mpa_id"`
	Name        string `json:"name,omitempty" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
}

// Director режиссер. Имя меняется независимо от фильмов.
type Director struct {
	ID   int64  `json:"id" db:"director_id"`
	Name string `json:"name" db:"name"`
}

// DirectorRequest тело запроса на создание или обновление режиссера
type DirectorRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required,notblank,max=255"`
}

// DefaultGenres начальное содержимое справочника жанров
var DefaultGenres = []Genre{
	{ID: 1, Name: "Комедия"},
	{ID: 2, Name: "Драма"},
	{ID: 3, Name: "Мультфильм"},
	{ID: 4, Name: "Триллер"},
	{ID: 5, Name: "Документальный"},
	{ID: 6, Name: "Боевик"},
}

// DefaultMPA начальное содержимое справочника рейтингов
var DefaultMPA = []MPA{
	{ID: 1, Name: "G", Description: "У фильма нет возрастных ограничений"},
	{ID: 2, Name: "PG", Description: "Детям рекомендуется смотреть фильм с родителями"},
	{ID: 3, Name: "PG-13", Description: "Детям до 13 лет просмотр не желателен"},
	{ID: 4, Name: "R", Description: "Лицам до 17 лет просматривать фильм можно только в присутствии взрослого"},
	{ID: 5, Name: "NC-17", Description: "Лицам до 18 лет просмотр запрещён"},
}

// internal/api/films.go
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"film-service/internal/domain"
	"film-service/internal/service"
)

// minPopularYear самый ранний год, допустимый в фильтре популярных фильмов
const minPopularYear = 1895

func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var req domain.FilmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	film, err := h.svc.Catalog.CreateFilm(r.Context(), req.ToFilm())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, film)
}

// UpdateFilm полностью заменяет фильм, включая жанры и режиссеров.
func (h *Handler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var req domain.FilmRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: id is required")
		return
	}
	film, err := h.svc.Catalog.UpdateFilm(r.Context(), req.ToFilm())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) GetFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.svc.Catalog.ListFilms(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

func (h *Handler) GetFilmByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	film, err := h.svc.Catalog.GetFilm(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeleteFilm(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddLike(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "id", "userId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Catalog.AddLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveLike(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "id", "userId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Catalog.RemoveLike(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Рейтинги и поиск ---

// GetPopularFilms GET /films/popular?count=&year=&genreId=
func (h *Handler) GetPopularFilms(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := queryCount(r, service.DefaultPopularLimit)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	q := service.PopularQuery{Limit: count}

	year, ok, err := queryInt64(r, "year")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if ok {
		if year < minPopularYear {
			h.respondServiceError(w, r, fmt.Errorf("%w: year must not be earlier than %d", errBadParam, minPopularYear))
			return
		}
		y := int(year)
		q.Year = &y
	}

	genreID, ok, err := queryInt64(r, "genreId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if ok {
		if genreID <= 0 {
			h.respondServiceError(w, r, fmt.Errorf("%w: genreId must be positive", errBadParam))
			return
		}
		q.GenreID = &genreID
	}

	h.logger.DebugContext(ctx, "GetPopularFilms endpoint hit", slog.Int("count", count), slog.String("query", r.URL.RawQuery))
	films, err := h.svc.Ranking.PopularFilms(ctx, q)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetCommonFilms GET /films/common?userId=&friendId=
func (h *Handler) GetCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, okUser, err := queryInt64(r, "userId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	friendID, okFriend, err := queryInt64(r, "friendId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if !okUser || !okFriend {
		h.respondServiceError(w, r, fmt.Errorf("%w: userId and friendId are required", errBadParam))
		return
	}
	films, err := h.svc.Ranking.CommonFilms(r.Context(), userID, friendID)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetDirectorFilms GET /films/director/{directorId}?sortBy=likes|year
func (h *Handler) GetDirectorFilms(w http.ResponseWriter, r *http.Request) {
	directorID, err := pathID(r, "directorId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	sortBy, err := service.ParseSortKey(r.URL.Query().Get("sortBy"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	films, err := h.svc.Ranking.FilmsByDirector(r.Context(), directorID, sortBy)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// SearchFilms GET /films/search?query=&by=title,director
func (h *Handler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fields, err := service.ParseSearchFields(params.Get("by"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	films, err := h.svc.Ranking.SearchFilms(r.Context(), params.Get("query"), fields)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// internal/api/directors.go
package api

import (
	"net/http"

	"film-service/internal/domain"
)

func (h *Handler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.DirectorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	director, err := h.svc.Catalog.CreateDirector(r.Context(), &domain.Director{Name: req.Name})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, director)
}

func (h *Handler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.DirectorRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: id is required")
		return
	}
	director, err := h.svc.Catalog.UpdateDirector(r.Context(), &domain.Director{ID: req.ID, Name: req.Name})
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, director)
}

func (h *Handler) GetDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.svc.Catalog.ListDirectors(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, directors)
}

func (h *Handler) GetDirectorByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	director, err := h.svc.Catalog.GetDirector(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, director)
}

func (h *Handler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeleteDirector(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Справочники ---

func (h *Handler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.svc.Catalog.ListGenres(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genres)
}

func (h *Handler) GetGenreByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	genre, err := h.svc.Catalog.GetGenre(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genre)
}

func (h *Handler) GetMPAList(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.svc.Catalog.ListMPA(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, ratings)
}

func (h *Handler) GetMPAByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	rating, err := h.svc.Catalog.GetMPA(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, rating)
}

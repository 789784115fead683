// internal/api/users.go
package api

import (
	"log/slog"
	"net/http"

	"film-service/internal/domain"
)

// CreateUser обрабатывает запрос на создание пользователя.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	user, err := h.svc.Catalog.CreateUser(r.Context(), req.ToUser())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, user)
}

// UpdateUser полностью заменяет данные пользователя. ID передается в теле.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UserRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.ID <= 0 {
		h.respondError(w, r, http.StatusBadRequest, "Validation failed: id is required")
		return
	}
	user, err := h.svc.Catalog.UpdateUser(r.Context(), req.ToUser())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Catalog.ListUsers(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

func (h *Handler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	user, err := h.svc.Catalog.GetUser(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Catalog.DeleteUser(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Дружба ---

// AddFriend отправляет или подтверждает заявку в друзья.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "id", "friendId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.logger.InfoContext(r.Context(), "AddFriend endpoint hit", slog.Int64("userID", ids[0]), slog.Int64("friendID", ids[1]))
	if err := h.svc.Friends.RequestFriendship(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "id", "friendId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	if err := h.svc.Friends.RemoveFriendship(r.Context(), ids[0], ids[1]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetFriends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	friends, err := h.svc.Friends.ListFriends(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

func (h *Handler) GetCommonFriends(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, "id", "otherId")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	friends, err := h.svc.Friends.ListCommonFriends(r.Context(), ids[0], ids[1])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

// --- Лента и рекомендации ---

func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	events, err := h.svc.Feed.Feed(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, events)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	films, err := h.svc.Recommender.Recommend(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

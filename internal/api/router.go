// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions настройки маршрутизатора
type RouterOptions struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// Числовые параметры пути
const (
	idPattern       = "/{id:[0-9]+}"
	userIDPattern   = "/{userId:[0-9]+}"
	friendIDPattern = "/{friendId:[0-9]+}"
)

// NewRouter создает и настраивает HTTP маршрутизатор сервиса.
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, h.RecoverMiddleware, h.AccessLogMiddleware)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Саб-роутер для /api префикса
	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(h.RateLimitMiddleware(opts.RateLimitRPS, opts.RateLimitBurst))

	// Пользователи, дружба, лента, рекомендации
	users := apiRouter.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("", h.GetUsers).Methods(http.MethodGet)
	users.HandleFunc(idPattern, h.GetUserByID).Methods(http.MethodGet)
	users.HandleFunc(idPattern, h.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc(idPattern+"/friends"+friendIDPattern, h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc(idPattern+"/friends"+friendIDPattern, h.RemoveFriend).Methods(http.MethodDelete)
	users.HandleFunc(idPattern+"/friends", h.GetFriends).Methods(http.MethodGet)
	users.HandleFunc(idPattern+"/friends/common/{otherId:[0-9]+}", h.GetCommonFriends).Methods(http.MethodGet)
	users.HandleFunc(idPattern+"/feed", h.GetFeed).Methods(http.MethodGet)
	users.HandleFunc(idPattern+"/recommendations", h.GetRecommendations).Methods(http.MethodGet)

	// Фильмы, лайки, рейтинги и поиск
	films := apiRouter.PathPrefix("/films").Subrouter()
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	films.HandleFunc("", h.GetFilms).Methods(http.MethodGet)
	films.HandleFunc("/popular", h.GetPopularFilms).Methods(http.MethodGet)
	films.HandleFunc("/common", h.GetCommonFilms).Methods(http.MethodGet)
	films.HandleFunc("/search", h.SearchFilms).Methods(http.MethodGet)
	films.HandleFunc("/director/{directorId:[0-9]+}", h.GetDirectorFilms).Methods(http.MethodGet)
	films.HandleFunc(idPattern, h.GetFilmByID).Methods(http.MethodGet)
	films.HandleFunc(idPattern, h.DeleteFilm).Methods(http.MethodDelete)
	films.HandleFunc(idPattern+"/like"+userIDPattern, h.AddLike).Methods(http.MethodPut)
	films.HandleFunc(idPattern+"/like"+userIDPattern, h.RemoveLike).Methods(http.MethodDelete)

	directors := apiRouter.PathPrefix("/directors").Subrouter()
	directors.HandleFunc("", h.CreateDirector).Methods(http.MethodPost)
	directors.HandleFunc("", h.UpdateDirector).Methods(http.MethodPut)
	directors.HandleFunc("", h.GetDirectors).Methods(http.MethodGet)
	directors.HandleFunc(idPattern, h.GetDirectorByID).Methods(http.MethodGet)
	directors.HandleFunc(idPattern, h.DeleteDirector).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/genres", h.GetGenres).Methods(http.MethodGet)
	apiRouter.HandleFunc("/genres"+idPattern, h.GetGenreByID).Methods(http.MethodGet)
	apiRouter.HandleFunc("/mpa", h.GetMPAList).Methods(http.MethodGet)
	apiRouter.HandleFunc("/mpa"+idPattern, h.GetMPAByID).Methods(http.MethodGet)

	reviews := apiRouter.PathPrefix("/reviews").Subrouter()
	reviews.HandleFunc("", h.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("", h.UpdateReview).Methods(http.MethodPut)
	reviews.HandleFunc("", h.GetReviews).Methods(http.MethodGet)
	reviews.HandleFunc(idPattern, h.GetReviewByID).Methods(http.MethodGet)
	reviews.HandleFunc(idPattern, h.DeleteReview).Methods(http.MethodDelete)
	reviews.HandleFunc(idPattern+"/like"+userIDPattern, h.rateReview(h.svc.Reviews.Like)).Methods(http.MethodPut)
	reviews.HandleFunc(idPattern+"/like"+userIDPattern, h.rateReview(h.svc.Reviews.RemoveLike)).Methods(http.MethodDelete)
	reviews.HandleFunc(idPattern+"/dislike"+userIDPattern, h.rateReview(h.svc.Reviews.Dislike)).Methods(http.MethodPut)
	reviews.HandleFunc(idPattern+"/dislike"+userIDPattern, h.rateReview(h.svc.Reviews.RemoveDislike)).Methods(http.MethodDelete)

	return router
}

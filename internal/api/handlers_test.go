package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"film-service/internal/domain"
	"film-service/internal/service"
	"film-service/internal/store"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiEnv struct {
	t      *testing.T
	router http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.NewMemoryStore(logger)
	h := NewHandler(service.New(st, logger), logger, domain.NewValidator())
	return &apiEnv{t: t, router: NewRouter(h, RouterOptions{})}
}

func (e *apiEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *apiEnv) createUser(login string) int64 {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/users", map[string]string{
		"email": login + "@example.com", "login": login, "birthday": "1990-05-01",
	})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.User](e.t, rec).ID
}

func (e *apiEnv) createFilm(name string, extra map[string]interface{}) int64 {
	e.t.Helper()
	body := map[string]interface{}{
		"name": name, "description": "", "releaseDate": "2001-01-01", "duration": 90,
		"mpa": map[string]int64{"id": 1},
	}
	for k, v := range extra {
		body[k] = v
	}
	rec := e.do(http.MethodPost, "/api/films", body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[domain.Film](e.t, rec).ID
}

func TestHealthAndRequestID(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	out := httptest.NewRecorder()
	env.router.ServeHTTP(out, req)
	assert.Equal(t, "fixed-id", out.Header().Get(RequestIDHeader))
}

func TestCreateUser_NameDefaultsToLogin(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodPost, "/api/users", map[string]string{
		"email": "neo@example.com", "login": "neo", "name": "  ", "birthday": "1990-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "neo", decode[domain.User](t, rec).Name)
}

func TestCreateUser_ValidationErrors(t *testing.T) {
	env := newAPIEnv(t)
	cases := map[string]map[string]string{
		"bad email":       {"email": "nope", "login": "neo", "birthday": "1990-01-01"},
		"login has space": {"email": "neo@example.com", "login": "n eo", "birthday": "1990-01-01"},
		"future birthday": {"email": "neo@example.com", "login": "neo", "birthday": "2999-01-01"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/users", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/api/users/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decode[map[string]string](t, rec)["error"], "not found")
}

func TestFriendshipFlow(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.createUser("alice")
	bob := env.createUser("bob")
	carol := env.createUser("carol")

	path := func(a, b int64) string {
		return "/api/users/" + itoa(a) + "/friends/" + itoa(b)
	}

	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, path(alice, bob), nil).Code)

	friends := decode[[]domain.User](t, env.do(http.MethodGet, "/api/users/"+itoa(alice)+"/friends", nil))
	require.Len(t, friends, 1)
	assert.Equal(t, bob, friends[0].ID)
	assert.Empty(t, decode[[]domain.User](t, env.do(http.MethodGet, "/api/users/"+itoa(bob)+"/friends", nil)))

	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, path(bob, alice), nil).Code)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, path(carol, bob), nil).Code)

	common := decode[[]domain.User](t, env.do(http.MethodGet, "/api/users/"+itoa(alice)+"/friends/common/"+itoa(carol), nil))
	require.Len(t, common, 1)
	assert.Equal(t, bob, common[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPut, path(alice, alice), nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, path(alice, 999), nil).Code)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, path(alice, bob), nil).Code)
	assert.Empty(t, decode[[]domain.User](t, env.do(http.MethodGet, "/api/users/"+itoa(alice)+"/friends", nil)))
	assert.Len(t, decode[[]domain.User](t, env.do(http.MethodGet, "/api/users/"+itoa(bob)+"/friends", nil)), 1)

	feed := decode[[]domain.FeedEvent](t, env.do(http.MethodGet, "/api/users/"+itoa(alice)+"/feed", nil))
	require.Len(t, feed, 2)
	assert.Equal(t, domain.OperationAdd, feed[0].Operation)
	assert.Equal(t, domain.OperationRemove, feed[1].Operation)
}

func TestPopularFilms(t *testing.T) {
	env := newAPIEnv(t)
	u1 := env.createUser("u1")
	u2 := env.createUser("u2")
	first := env.createFilm("First", nil)
	second := env.createFilm("Second", map[string]interface{}{
		"genres": []map[string]int64{{"id": 2}}, "releaseDate": "1999-03-31",
	})

	for _, u := range []int64{u1, u2} {
		require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, "/api/films/"+itoa(second)+"/like/"+itoa(u), nil).Code)
	}

	films := decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/popular", nil))
	require.Len(t, films, 2)
	assert.Equal(t, second, films[0].ID)
	assert.Equal(t, first, films[1].ID)

	films = decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/popular?count=1", nil))
	require.Len(t, films, 1)

	films = decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/popular?genreId=2&year=1999", nil))
	require.Len(t, films, 1)
	assert.Equal(t, second, films[0].ID)

	assert.Empty(t, decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/popular?year=2020", nil)))
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/popular?year=1800", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/popular?genreId=abc", nil).Code)
}

func TestSearchFilms(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodPost, "/api/directors", map[string]string{"name": "Christopher Nolan"})
	require.Equal(t, http.StatusCreated, rec.Code)
	director := decode[domain.Director](t, rec).ID

	byDirector := env.createFilm("Memento", map[string]interface{}{"directors": []map[string]int64{{"id": director}}})
	byTitle := env.createFilm("Nolans Guide", nil)
	env.createFilm("Other", nil)

	films := decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/search?query=NOLAN&by=title,director", nil))
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	assert.ElementsMatch(t, []int64{byDirector, byTitle}, ids)

	films = decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/search?query=nolan&by=director", nil))
	require.Len(t, films, 1)
	assert.Equal(t, byDirector, films[0].ID)
	require.Len(t, films[0].Directors, 1)
	assert.Equal(t, "Christopher Nolan", films[0].Directors[0].Name)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/search?query=x&by=genre", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/search?query=x", nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/search?query=%20&by=title", nil).Code)
}

func TestDirectorFilms(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodPost, "/api/directors", map[string]string{"name": "Kubrick"})
	require.Equal(t, http.StatusCreated, rec.Code)
	director := decode[domain.Director](t, rec).ID
	directors := []map[string]int64{{"id": director}}

	late := env.createFilm("Late", map[string]interface{}{"directors": directors, "releaseDate": "1980-01-01"})
	early := env.createFilm("Early", map[string]interface{}{"directors": directors, "releaseDate": "1964-01-01"})
	u := env.createUser("fan")
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, "/api/films/"+itoa(late)+"/like/"+itoa(u), nil).Code)

	base := "/api/films/director/" + itoa(director)
	byYear := decode[[]domain.Film](t, env.do(http.MethodGet, base+"?sortBy=year", nil))
	require.Len(t, byYear, 2)
	assert.Equal(t, early, byYear[0].ID)

	byLikes := decode[[]domain.Film](t, env.do(http.MethodGet, base+"?sortBy=likes", nil))
	require.Len(t, byLikes, 2)
	assert.Equal(t, late, byLikes[0].ID)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, base+"?sortBy=rating", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/films/director/999", nil).Code)
}

func TestFilmValidation(t *testing.T) {
	env := newAPIEnv(t)
	cases := map[string]map[string]interface{}{
		"blank name":      {"name": " ", "releaseDate": "2000-01-01", "duration": 90, "mpa": map[string]int64{"id": 1}},
		"too early":       {"name": "Old", "releaseDate": "1895-12-27", "duration": 90, "mpa": map[string]int64{"id": 1}},
		"zero duration":   {"name": "Zero", "releaseDate": "2000-01-01", "duration": 0, "mpa": map[string]int64{"id": 1}},
		"missing mpa":     {"name": "NoMPA", "releaseDate": "2000-01-01", "duration": 90},
		"long description": {"name": "Long", "description": strings.Repeat("x", 201), "releaseDate": "2000-01-01", "duration": 90, "mpa": map[string]int64{"id": 1}},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/films", body).Code)
		})
	}

	rec := env.do(http.MethodPost, "/api/films", map[string]interface{}{
		"name": "Bad MPA", "releaseDate": "2000-01-01", "duration": 90, "mpa": map[string]int64{"id": 99},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommonFilmsAndRecommendations(t *testing.T) {
	env := newAPIEnv(t)
	alice := env.createUser("alice")
	bob := env.createUser("bob")
	shared := env.createFilm("Shared", nil)
	extra := env.createFilm("Extra", nil)

	like := func(film, user int64) {
		require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, "/api/films/"+itoa(film)+"/like/"+itoa(user), nil).Code)
	}
	like(shared, alice)
	like(shared, bob)
	like(extra, bob)

	common := decode[[]domain.Film](t, env.do(http.MethodGet, "/api/films/common?userId="+itoa(alice)+"&friendId="+itoa(bob), nil))
	require.Len(t, common, 1)
	assert.Equal(t, shared, common[0].ID)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/films/common?userId="+itoa(alice), nil).Code)

	recs := decode[[]domain.Film](t, env.do(http.MethodGet, "/api/users/"+itoa(alice)+"/recommendations", nil))
	require.Len(t, recs, 1)
	assert.Equal(t, extra, recs[0].ID)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/users/999/recommendations", nil).Code)
}

func TestReviewsFlow(t *testing.T) {
	env := newAPIEnv(t)
	author := env.createUser("author")
	reader := env.createUser("reader")
	film := env.createFilm("Reviewed", nil)

	rec := env.do(http.MethodPost, "/api/reviews", map[string]interface{}{
		"content": "Great", "isPositive": true, "userId": author, "filmId": film,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	review := decode[domain.Review](t, rec)
	assert.Zero(t, review.Useful)

	base := "/api/reviews/" + itoa(review.ID)
	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, base+"/like/"+itoa(reader), nil).Code)
	assert.Equal(t, 1, decode[domain.Review](t, env.do(http.MethodGet, base, nil)).Useful)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodPut, base+"/dislike/"+itoa(reader), nil).Code)
	assert.Equal(t, -1, decode[domain.Review](t, env.do(http.MethodGet, base, nil)).Useful)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, base+"/dislike/"+itoa(reader), nil).Code)
	assert.Equal(t, 0, decode[domain.Review](t, env.do(http.MethodGet, base, nil)).Useful)

	list := decode[[]domain.Review](t, env.do(http.MethodGet, "/api/reviews?filmId="+itoa(film), nil))
	require.Len(t, list, 1)

	missingFlag := env.do(http.MethodPost, "/api/reviews", map[string]interface{}{
		"content": "No flag", "userId": author, "filmId": film,
	})
	assert.Equal(t, http.StatusBadRequest, missingFlag.Code)

	require.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, base, nil).Code)
}

func TestReferenceData(t *testing.T) {
	env := newAPIEnv(t)
	genres := decode[[]domain.Genre](t, env.do(http.MethodGet, "/api/genres", nil))
	assert.Len(t, genres, len(domain.DefaultGenres))
	mpa := decode[[]domain.MPA](t, env.do(http.MethodGet, "/api/mpa", nil))
	assert.Len(t, mpa, len(domain.DefaultMPA))
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/genres/99", nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/mpa/1", nil).Code)
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(service.New(store.NewMemoryStore(logger), logger), logger, domain.NewValidator())
	router := NewRouter(h, RouterOptions{RateLimitRPS: 0.001, RateLimitBurst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/genres", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)

	// /health и /metrics не ограничиваются
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	env.do(http.MethodGet, "/api/genres", nil)
	rec := env.do(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "film_service_http_requests_total")
}

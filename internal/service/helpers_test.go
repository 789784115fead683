package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"film-service/internal/domain"
	"film-service/internal/store"

	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store *store.MemoryStore
	svc   *Services
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore(discardLogger())
	return &testEnv{store: st, svc: New(st, discardLogger())}
}

func (e *testEnv) user(t *testing.T, login string) int64 {
	t.Helper()
	u, err := e.svc.Catalog.CreateUser(context.Background(), &domain.User{
		Email: login + "@example.com", Login: login, Birthday: domain.NewDate(1990, time.January, 1),
	})
	require.NoError(t, err)
	return u.ID
}

type filmParams struct {
	name      string
	released  domain.Date
	genres    []int64
	directors []int64
}

func (e *testEnv) film(t *testing.T, params filmParams) int64 {
	t.Helper()
	if params.released.IsZero() {
		params.released = domain.NewDate(2000, time.January, 1)
	}
	f := &domain.Film{Name: params.name, ReleaseDate: params.released, Duration: 100, MPA: domain.MPA{ID: 1}}
	for _, g := range params.genres {
		f.Genres = append(f.Genres, domain.Genre{ID: g})
	}
	for _, d := range params.directors {
		f.Directors = append(f.Directors, domain.Director{ID: d})
	}
	created, err := e.svc.Catalog.CreateFilm(context.Background(), f)
	require.NoError(t, err)
	return created.ID
}

func (e *testEnv) director(t *testing.T, name string) int64 {
	t.Helper()
	d, err := e.svc.Catalog.CreateDirector(context.Background(), &domain.Director{Name: name})
	require.NoError(t, err)
	return d.ID
}

// like ставит лайки фильму от каждого из пользователей.
func (e *testEnv) like(t *testing.T, filmID int64, userIDs ...int64) {
	t.Helper()
	for _, u := range userIDs {
		require.NoError(t, e.svc.Catalog.AddLike(context.Background(), filmID, u))
	}
}

// users создает n пользователей и возвращает их id по порядку.
func (e *testEnv) users(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, e.user(t, "user"+string(rune('a'+i))))
	}
	return ids
}

func filmIDs(films []*domain.Film) []int64 {
	ids := make([]int64, 0, len(films))
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	return ids
}

func userIDs(users []*domain.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

package grpc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"film-service/internal/domain"
	"film-service/internal/service"
	"film-service/internal/store"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type lookupEnv struct {
	svc    *service.Services
	client *Client
	conn   *grpc.ClientConn
	server *grpc.Server
}

func newLookupEnv(t *testing.T) *lookupEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewMemoryStore(logger), logger)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(LoggingInterceptor(logger)))
	RegisterFilmLookupServer(srv, NewServer(svc, logger))
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dialer := grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
	client, err := Dial("passthrough:///bufnet", logger, dialer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &lookupEnv{svc: svc, client: client, conn: client.conn, server: srv}
}

func TestCheckExists(t *testing.T) {
	env := newLookupEnv(t)
	ctx := context.Background()
	u, err := env.svc.Catalog.CreateUser(ctx, &domain.User{Email: "a@b.c", Login: "a", Birthday: domain.NewDate(1990, time.January, 1)})
	require.NoError(t, err)

	ok, err := env.client.CheckUserExists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.client.CheckUserExists(ctx, u.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = env.client.CheckFilmExists(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.client.CheckFilmExists(ctx, 0)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGetFilmInfo(t *testing.T) {
	env := newLookupEnv(t)
	ctx := context.Background()
	d, err := env.svc.Catalog.CreateDirector(ctx, &domain.Director{Name: "Sofia Coppola"})
	require.NoError(t, err)
	f, err := env.svc.Catalog.CreateFilm(ctx, &domain.Film{
		Name: "Lost in Translation", ReleaseDate: domain.NewDate(2003, time.August, 29), Duration: 102,
		MPA: domain.MPA{ID: 3}, Genres: []domain.Genre{{ID: 2}}, Directors: []domain.Director{{ID: d.ID}},
	})
	require.NoError(t, err)

	info, err := env.client.GetFilmInfo(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lost in Translation", info["name"])
	assert.Equal(t, "2003-08-29", info["releaseDate"])
	assert.EqualValues(t, 102, info["duration"])
	assert.Equal(t, []interface{}{"Sofia Coppola"}, info["directors"])

	_, err = env.client.GetFilmInfo(ctx, f.ID+1)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestGetRecommendations(t *testing.T) {
	env := newLookupEnv(t)
	ctx := context.Background()
	newUser := func(login string) int64 {
		u, err := env.svc.Catalog.CreateUser(ctx, &domain.User{Email: login + "@x.io", Login: login, Birthday: domain.NewDate(1990, time.January, 1)})
		require.NoError(t, err)
		return u.ID
	}
	newFilm := func(name string) int64 {
		f, err := env.svc.Catalog.CreateFilm(ctx, &domain.Film{Name: name, ReleaseDate: domain.NewDate(2000, time.January, 1), Duration: 90, MPA: domain.MPA{ID: 1}})
		require.NoError(t, err)
		return f.ID
	}
	target, neighbor := newUser("target"), newUser("neighbor")
	shared, extra := newFilm("Shared"), newFilm("Extra")
	require.NoError(t, env.svc.Catalog.AddLike(ctx, shared, target))
	require.NoError(t, env.svc.Catalog.AddLike(ctx, shared, neighbor))
	require.NoError(t, env.svc.Catalog.AddLike(ctx, extra, neighbor))

	films, err := env.client.GetRecommendations(ctx, target)
	require.NoError(t, err)
	require.Len(t, films, 1)
	assert.EqualValues(t, extra, films[0]["id"])

	_, err = env.client.GetRecommendations(ctx, 999)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestHealth(t *testing.T) {
	env := newLookupEnv(t)
	resp, err := healthpb.NewHealthClient(env.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.NotFound, status.Code(toStatus(store.ErrUserNotFound)))
	assert.Equal(t, codes.InvalidArgument, status.Code(toStatus(service.ErrSelfFriendship)))
	assert.Equal(t, codes.Aborted, status.Code(toStatus(store.ErrEdgeConflict)))
	assert.Equal(t, codes.Internal, status.Code(toStatus(io.ErrUnexpectedEOF)))
}

func TestClientBreakerOpensOnUnavailable(t *testing.T) {
	env := newLookupEnv(t)
	ctx := context.Background()

	// NotFound не считается сбоем
	for i := 0; i < breakerFailureThreshold+1; i++ {
		_, err := env.client.GetFilmInfo(ctx, 404)
		require.Equal(t, codes.NotFound, status.Code(err))
	}

	env.server.Stop()
	for i := 0; i < breakerFailureThreshold; i++ {
		_, err := env.client.CheckUserExists(ctx, 1)
		require.Error(t, err)
		require.False(t, errors.Is(err, gobreaker.ErrOpenState))
	}
	_, err := env.client.CheckUserExists(ctx, 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

package service

import (
	"context"
	"sync"
	"testing"

	"film-service/internal/domain"
	"film-service/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeOf(t *testing.T, g *FriendshipGraph, from, to int64) (domain.FriendshipStatus, bool) {
	t.Helper()
	status, ok, err := g.Status(context.Background(), from, to)
	require.NoError(t, err)
	return status, ok
}

func TestRequestFriendshipOneSided(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	a, b := ids[0], ids[1]
	g := env.svc.Friends

	require.NoError(t, g.RequestFriendship(context.Background(), a, b))

	status, ok := edgeOf(t, g, a, b)
	assert.True(t, ok)
	assert.Equal(t, domain.FriendshipUnconfirmed, status)
	_, ok = edgeOf(t, g, b, a)
	assert.False(t, ok, "reverse edge must stay absent")
}

func TestRequestFriendshipReciprocalConfirms(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	a, b := ids[0], ids[1]
	g := env.svc.Friends
	ctx := context.Background()

	require.NoError(t, g.RequestFriendship(ctx, a, b))
	require.NoError(t, g.RequestFriendship(ctx, b, a))

	ab, _ := edgeOf(t, g, a, b)
	ba, _ := edgeOf(t, g, b, a)
	assert.Equal(t, domain.FriendshipConfirmed, ab)
	assert.Equal(t, domain.FriendshipConfirmed, ba)
}

func TestRequestFriendshipWhenConfirmedIsNoop(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	a, b := ids[0], ids[1]
	g := env.svc.Friends
	ctx := context.Background()

	require.NoError(t, g.RequestFriendship(ctx, a, b))
	require.NoError(t, g.RequestFriendship(ctx, b, a))
	require.NoError(t, g.RequestFriendship(ctx, a, b))
	require.NoError(t, g.RequestFriendship(ctx, b, a))

	ab, _ := edgeOf(t, g, a, b)
	ba, _ := edgeOf(t, g, b, a)
	assert.Equal(t, domain.FriendshipConfirmed, ab)
	assert.Equal(t, domain.FriendshipConfirmed, ba)
}

func TestRequestFriendshipRepeatedWhileUnconfirmed(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	a, b := ids[0], ids[1]
	g := env.svc.Friends
	ctx := context.Background()

	require.NoError(t, g.RequestFriendship(ctx, a, b))
	require.NoError(t, g.RequestFriendship(ctx, a, b))

	ab, _ := edgeOf(t, g, a, b)
	assert.Equal(t, domain.FriendshipUnconfirmed, ab)
	_, ok := edgeOf(t, g, b, a)
	assert.False(t, ok)
}

func TestRemoveFriendshipIsAsymmetric(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	a, b := ids[0], ids[1]
	g := env.svc.Friends
	ctx := context.Background()

	require.NoError(t, g.RequestFriendship(ctx, a, b))
	require.NoError(t, g.RequestFriendship(ctx, b, a))
	require.NoError(t, g.RemoveFriendship(ctx, a, b))

	_, ok := edgeOf(t, g, a, b)
	assert.False(t, ok)
	ba, ok := edgeOf(t, g, b, a)
	assert.True(t, ok)
	assert.Equal(t, domain.FriendshipConfirmed, ba)

	// Повторная заявка восстанавливает подтвержденное ребро.
	require.NoError(t, g.RequestFriendship(ctx, a, b))
	ab, _ := edgeOf(t, g, a, b)
	assert.Equal(t, domain.FriendshipConfirmed, ab)
}

func TestRemoveFriendshipWithoutEdge(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	require.NoError(t, env.svc.Friends.RemoveFriendship(context.Background(), ids[0], ids[1]))
}

func TestFriendshipErrors(t *testing.T) {
	env := newTestEnv(t)
	a := env.user(t, "a")
	g := env.svc.Friends
	ctx := context.Background()

	err := g.RequestFriendship(ctx, a, a)
	assert.ErrorIs(t, err, ErrSelfFriendship)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	err = g.RequestFriendship(ctx, a, 404)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.ErrorIs(t, g.RequestFriendship(ctx, 404, a), domain.ErrNotFound)
	assert.ErrorIs(t, g.RemoveFriendship(ctx, a, 404), domain.ErrNotFound)

	_, err = g.ListFriends(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = g.ListCommonFriends(ctx, a, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListFriendsAndCommonFriends(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 4)
	a, b, c, d := ids[0], ids[1], ids[2], ids[3]
	g := env.svc.Friends
	ctx := context.Background()

	require.NoError(t, g.RequestFriendship(ctx, a, c))
	require.NoError(t, g.RequestFriendship(ctx, a, d))
	require.NoError(t, g.RequestFriendship(ctx, b, c))
	require.NoError(t, g.RequestFriendship(ctx, d, a))

	friends, err := g.ListFriends(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []int64{c, d}, userIDs(friends), "friends include unconfirmed and confirmed edges")

	common, err := g.ListCommonFriends(ctx, a, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{c}, userIDs(common))

	none, err := g.ListCommonFriends(ctx, c, d)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestConcurrentMutualRequestsConverge(t *testing.T) {
	env := newTestEnv(t)
	g := env.svc.Friends
	ctx := context.Background()

	const pairs = 20
	ids := env.users(t, pairs*2)
	var wg sync.WaitGroup
	for i := 0; i < pairs; i++ {
		a, b := ids[2*i], ids[2*i+1]
		wg.Add(2)
		go func() { defer wg.Done(); assert.NoError(t, g.RequestFriendship(ctx, a, b)) }()
		go func() { defer wg.Done(); assert.NoError(t, g.RequestFriendship(ctx, b, a)) }()
	}
	wg.Wait()

	for i := 0; i < pairs; i++ {
		a, b := ids[2*i], ids[2*i+1]
		ab, _ := edgeOf(t, g, a, b)
		ba, _ := edgeOf(t, g, b, a)
		assert.Equal(t, domain.FriendshipConfirmed, ab)
		assert.Equal(t, domain.FriendshipConfirmed, ba)
	}
}

// conflictingStore имитирует проигранную гонку на первой попытке.
type conflictingStore struct {
	*store.MemoryStore
	mu       sync.Mutex
	failures int
}

func (s *conflictingStore) WithPair(ctx context.Context, a, b int64, fn func(store.EdgeStore) error) error {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return store.ErrEdgeConflict
	}
	s.mu.Unlock()
	return s.MemoryStore.WithPair(ctx, a, b, fn)
}

func TestRequestFriendshipRetriesOnceOnConflict(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	ctx := context.Background()

	cs := &conflictingStore{MemoryStore: env.store, failures: 1}
	g := NewFriendshipGraph(cs, env.store, env.svc.Feed, discardLogger())
	require.NoError(t, g.RequestFriendship(ctx, ids[0], ids[1]))
	status, ok := edgeOf(t, g, ids[0], ids[1])
	assert.True(t, ok)
	assert.Equal(t, domain.FriendshipUnconfirmed, status)

	cs.failures = 2
	err := g.RequestFriendship(ctx, ids[1], ids[0])
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, ok = edgeOf(t, g, ids[1], ids[0])
	assert.False(t, ok)
}

func TestFriendshipEmitsFeedEvents(t *testing.T) {
	env := newTestEnv(t)
	ids := env.users(t, 2)
	ctx := context.Background()

	require.NoError(t, env.svc.Friends.RequestFriendship(ctx, ids[0], ids[1]))
	require.NoError(t, env.svc.Friends.RemoveFriendship(ctx, ids[0], ids[1]))

	events, err := env.svc.Feed.Feed(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventFriend, events[0].EventType)
	assert.Equal(t, domain.OperationAdd, events[0].Operation)
	assert.Equal(t, ids[1], events[0].EntityID)
	assert.Equal(t, domain.OperationRemove, events[1].Operation)
}

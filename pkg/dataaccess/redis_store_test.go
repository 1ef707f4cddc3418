package dataaccess

import (
	"context"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(testLogger(), client), srv
}

func TestRedisStore_LoadDefault(t *testing.T) {
	s, _ := newTestRedisStore(t)

	cfg, err := s.Load(context.Background(), "guild")
	require.NoError(t, err)
	require.Equal(t, entities.NewGuildTicketConfig("guild"), cfg)
}

func TestRedisStore_SaveIsPerGuild(t *testing.T) {
	s, _ := newTestRedisStore(t)
	ctx := context.Background()

	a := entities.NewGuildTicketConfig("a")
	a.TicketCategoryID = "cat-a"
	a.TranscriptChannelID = "archive-a"
	a.SupportRoleIDs = []string{"r1", "r2"}
	a.EntryMode = entities.EntryModeDropdown
	require.NoError(t, s.Save(ctx, a))

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, a, got)

	b, err := s.Load(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, entities.NewGuildTicketConfig("b"), b)
}

func TestRedisStore_LoadMalformed(t *testing.T) {
	s, srv := newTestRedisStore(t)
	require.NoError(t, srv.Set(redisConfigKeyPrefix+"guild", "{not json"))

	_, err := s.Load(context.Background(), "guild")
	require.ErrorIs(t, err, ErrMalformedState)
}

func TestRedisStore_Counter(t *testing.T) {
	s, srv := newTestRedisStore(t)
	ctx := context.Background()

	cur, err := s.Current(ctx, "guild")
	require.NoError(t, err)
	require.Zero(t, cur)

	for want := int64(1); want <= 3; want++ {
		n, err := s.Next(ctx, "guild")
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	cur, err = s.Current(ctx, "guild")
	require.NoError(t, err)
	require.Equal(t, int64(3), cur)

	other, err := s.Next(ctx, "other")
	require.NoError(t, err)
	require.Equal(t, int64(1), other)

	stored, err := srv.Get(redisCounterKeyPrefix + "guild")
	require.NoError(t, err)
	require.Equal(t, "3", stored)
}

func TestRedisStore_ConcurrentNextIsUnique(t *testing.T) {
	s, _ := newTestRedisStore(t)

	const n = 50
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool, n)
		errs []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.Next(context.Background(), "guild")

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			seen[v] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, seen, n)
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, srv := newTestRedisStore(t)
	srv.Close()

	_, err := s.Next(context.Background(), "guild")
	require.Error(t, err)

	_, err = s.Load(context.Background(), "guild")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMalformedState)
}

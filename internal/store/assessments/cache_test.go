package assessments

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSnapshotCache(client, time.Minute, logger.NewTestLogger(t)), mr
}

func terminalAssessment(id string) *models.Assessment {
	a := testAssessment()
	a.ID = id
	a.State = models.StateComplete
	a.Complete = true
	a.Profile = &models.CategorizedProfile{Goal: "family relocation"}
	return a
}

func TestSnapshotCache_PutAndGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	a := terminalAssessment("asmt-cache-1")
	require.NoError(t, cache.Put(ctx, a))

	got, err := cache.Get(ctx, "asmt-cache-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, models.StateComplete, got.State)
	assert.Equal(t, "family relocation", got.Profile.Goal)
}

func TestSnapshotCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Get(context.Background(), "never-stored")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_SkipsNonTerminal(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	a := testAssessment()
	a.State = models.StateAwaitingClarification
	require.NoError(t, cache.Put(ctx, a))

	assert.False(t, mr.Exists(cacheKeyPrefix+a.ID))
}

func TestSnapshotCache_DropsCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(cacheKeyPrefix+"broken", "{not json"))

	got, err := cache.Get(ctx, "broken")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(cacheKeyPrefix+"broken"))
}

func TestSnapshotCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, terminalAssessment("asmt-ttl")))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx, "asmt-ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCache_ReadErrorIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewSnapshotCache(client, time.Minute, logger.NewTestLogger(t))

	mock.ExpectGet(cacheKeyPrefix + "asmt-err").SetErr(assert.AnError)

	got, err := cache.Get(context.Background(), "asmt-err")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_ServesTerminalFromCache(t *testing.T) {
	cache, _ := newTestCache(t)
	backing := NewMemoryStore()
	store := NewCachedStore(backing, cache)
	ctx := context.Background()

	a := terminalAssessment("asmt-cached")
	require.NoError(t, backing.Create(ctx, a))

	// First read fills the cache from the backing store.
	first, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, first.ID)

	hit, err := cache.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)

	// Second read is served even if the backing row disappears.
	delete(backing.records, a.ID)
	second, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, second.ID)
}

func TestCachedStore_UpdateRoundPopulatesCacheOnCompletion(t *testing.T) {
	cache, _ := newTestCache(t)
	backing := NewMemoryStore()
	store := NewCachedStore(backing, cache)
	ctx := context.Background()

	a := testAssessment()
	require.NoError(t, backing.Create(ctx, a))

	a.State = models.StateComplete
	a.Complete = true
	require.NoError(t, store.UpdateRound(ctx, a, 1, models.StateCreated))

	hit, err := cache.Get(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.True(t, hit.Complete)
}

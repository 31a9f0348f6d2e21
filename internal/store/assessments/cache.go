package assessments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"relocation-advisor/internal/common/logger"
	"relocation-advisor/internal/models"
)

const (
	cacheKeyPrefix  = "assessment:snapshot:"
	defaultCacheTTL = 30 * time.Minute
)

// SnapshotCache keeps terminal assessments in Redis so repeated match and
// status reads skip the database. Only terminal records are cached: rows
// still moving through rounds change too often to be worth it.
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, log logger.Logger) *SnapshotCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &SnapshotCache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "snapshot-cache"}),
	}
}

// Get returns the cached snapshot or (nil, nil) on a miss. Cache errors are
// reported as misses; the store of record stays authoritative.
func (c *SnapshotCache) Get(ctx context.Context, id string) (*models.Assessment, error) {
	data, err := c.client.Get(ctx, cacheKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.WithError(err).Warn("snapshot read failed",
			map[string]interface{}{"assessmentId": id})
		return nil, nil
	}

	var a models.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		c.logger.WithError(err).Warn("snapshot corrupt, dropping",
			map[string]interface{}{"assessmentId": id})
		c.client.Del(ctx, cacheKeyPrefix+id)
		return nil, nil
	}
	return &a, nil
}

// Put stores a terminal assessment. Non-terminal records are ignored.
func (c *SnapshotCache) Put(ctx context.Context, a *models.Assessment) error {
	if !a.Terminal() {
		return nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", a.ID, err)
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+a.ID, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("snapshot write failed",
			map[string]interface{}{"assessmentId": a.ID})
		return err
	}
	return nil
}

// CachedStore layers the snapshot cache over a backing store.
type CachedStore struct {
	Store
	cache *SnapshotCache
}

func NewCachedStore(backing Store, cache *SnapshotCache) *CachedStore {
	return &CachedStore{Store: backing, cache: cache}
}

func (s *CachedStore) Get(ctx context.Context, id string) (*models.Assessment, error) {
	if hit, _ := s.cache.Get(ctx, id); hit != nil {
		return hit, nil
	}
	a, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Terminal() {
		_ = s.cache.Put(ctx, a)
	}
	return a, nil
}

func (s *CachedStore) UpdateRound(ctx context.Context, a *models.Assessment, expectedRound int, expectedState models.AssessmentState) error {
	if err := s.Store.UpdateRound(ctx, a, expectedRound, expectedState); err != nil {
		return err
	}
	if a.Terminal() {
		_ = s.cache.Put(ctx, a)
	}
	return nil
}

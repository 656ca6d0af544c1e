// Package cache wraps an internal/store.AspectStore with a Redis
// read-through cache, falling back to store-only operation when Redis is
// unreachable — the same dual-mode construction the teacher's
// collab.SessionManager uses for session state.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
	"github.com/TheDaniel418/isopgem-cores/internal/store"
)

const (
	keyPrefix   = "isopgem:aspects:"
	defaultTTL  = 24 * time.Hour
	pingTimeout = 2 * time.Second
)

// AspectCache answers aspect queries from Redis when available, falling
// through to the backing store on a miss and populating the cache
// (including a miss as an empty-slice answer, since absence of rows is a
// cacheable answer in its own right).
type AspectCache struct {
	backing  store.AspectStore
	redis    *redis.Client
	useRedis bool
}

// New builds an AspectCache over backing. If redisAddr is empty or the
// ping fails, the cache falls back to store-only operation.
func New(backing store.AspectStore, redisAddr, redisPassword string, redisDB int) *AspectCache {
	c := &AspectCache{backing: backing}

	if redisAddr == "" {
		log.Println("[cache] redis not configured, querying store directly")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis connection failed: %v (falling back to store-only)", err)
		return c
	}

	c.redis = client
	c.useRedis = true
	log.Printf("[cache] connected to redis at %s", redisAddr)
	return c
}

// StoreYear writes through to the backing store. It does not attempt to
// update cached query results; a subsequent Query naturally picks up new
// rows once its cache entry expires.
func (c *AspectCache) StoreYear(ctx context.Context, year int, aspects []store.Aspect) error {
	return c.backing.StoreYear(ctx, year, aspects)
}

// Query answers q from Redis if present, otherwise from the backing store,
// populating Redis (including empty results) for next time.
func (c *AspectCache) Query(ctx context.Context, q store.Query) ([]store.Aspect, error) {
	if !c.useRedis {
		return c.backing.Query(ctx, q)
	}

	key := cacheKey(q)
	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var aspects []store.Aspect
		if jsonErr := json.Unmarshal([]byte(cached), &aspects); jsonErr == nil {
			return aspects, nil
		}
	}

	aspects, err := c.backing.Query(ctx, q)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(aspects); err == nil {
		if err := c.redis.Set(ctx, key, payload, defaultTTL).Err(); err != nil {
			return aspects, apperrors.Wrap(apperrors.TransactionFailed, "cache write failed", err)
		}
	}
	return aspects, nil
}

// cacheKey derives a stable Redis key from the query shape.
func cacheKey(q store.Query) string {
	raw := fmt.Sprintf("%d|%d|%s|%s|%s", q.Start.Unix(), q.End.Unix(), q.Body1, q.Body2, q.Kind)
	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + hex.EncodeToString(sum[:])
}

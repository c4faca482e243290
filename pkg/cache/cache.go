// Package cache holds derived ownership timelines in Redis so the calendar
// grid and notification router do not recompute them on every read. The
// cache degrades to a no-op when Redis is unreachable; correctness never
// depends on it, only on invalidation after commits.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avops/roomops-api-go/pkg/models"
)

// NewRedisClient instantiates a Redis client from environment variables:
// REDIS_ADDR (or REDIS_HOST + REDIS_PORT), REDIS_PASSWORD, REDIS_DB and
// REDIS_TLS. Returns nil when no server responds, in which case callers
// run uncached.
func NewRedisClient() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	addr := os.Getenv("REDIS_ADDR")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if n, err := strconv.Atoi(dbStr); err == nil {
			dbNum = n
		}
	}
	var tlsConf *tls.Config
	if tlsEnv := os.Getenv("REDIS_TLS"); strings.EqualFold(tlsEnv, "true") || tlsEnv == "1" {
		tlsConf = &tls.Config{InsecureSkipVerify: true}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  os.Getenv("REDIS_PASSWORD"),
		DB:        dbNum,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}

// OwnershipCache caches resolved timelines keyed by event id, with a
// per-date index set so a committed change to one date can purge exactly
// the timelines it invalidates.
type OwnershipCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New builds a cache around rdb. A nil client yields a cache whose methods
// are all no-ops, so call sites stay unconditional.
func New(rdb *redis.Client, ttl time.Duration) *OwnershipCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &OwnershipCache{rdb: rdb, ttl: ttl}
}

func timelineKey(eventID string) string { return "ownership:event:" + eventID }
func dateIndexKey(date string) string   { return "ownership:date:" + date }

// Get returns the cached timeline for an event, with ok reporting a hit.
func (c *OwnershipCache) Get(ctx context.Context, eventID string) ([]models.OwnershipEntry, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, timelineKey(eventID)).Bytes()
	if err != nil {
		return nil, false
	}
	var timeline []models.OwnershipEntry
	if err := json.Unmarshal(raw, &timeline); err != nil {
		return nil, false
	}
	return timeline, true
}

// Put stores an event's timeline and registers it under the event's date so
// InvalidateDate can find it later. Failures are ignored; the next read
// just misses.
func (c *OwnershipCache) Put(ctx context.Context, date, eventID string, timeline []models.OwnershipEntry) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(timeline)
	if err != nil {
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, timelineKey(eventID), raw, c.ttl)
	pipe.SAdd(ctx, dateIndexKey(date), eventID)
	pipe.Expire(ctx, dateIndexKey(date), c.ttl)
	_, _ = pipe.Exec(ctx)
}

// InvalidateDate purges every cached timeline for a date. Called after any
// block commit, shift change or copy-forward touching the date; stale
// ownership must never be served once a change commits.
func (c *OwnershipCache) InvalidateDate(ctx context.Context, date string) {
	if c.rdb == nil {
		return
	}
	ids, err := c.rdb.SMembers(ctx, dateIndexKey(date)).Result()
	if err != nil {
		return
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, timelineKey(id))
	}
	keys = append(keys, dateIndexKey(date))
	_ = c.rdb.Del(ctx, keys...).Err()
}

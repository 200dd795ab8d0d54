package question

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bridgetime/bridgetime/internal/bridgetime"
)

const cacheTTL = 5 * time.Minute

// CachedLookup is a read-through Redis cache in front of another Lookup.
// Cache failures are invisible to the caller: the lookup contract stays
// total, and a broken Redis just means every read hits the bank.
type CachedLookup struct {
	next   Lookup
	rdb    *redis.Client
	logger *slog.Logger
}

func NewCachedLookup(next Lookup, rdb *redis.Client, logger *slog.Logger) *CachedLookup {
	return &CachedLookup{next: next, rdb: rdb, logger: logger}
}

func (c *CachedLookup) Get(ctx context.Context, id string, fallbackEra bridgetime.TimePeriod) bridgetime.Question {
	key := "bridgetime:question:" + id

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var q bridgetime.Question
		if err := json.Unmarshal(data, &q); err == nil {
			return q
		}
		c.logger.Debug("dropping bad question cache entry", "key", key)
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		c.logger.Debug("question cache read failed", "key", key, "error", err)
	}

	q := c.next.Get(ctx, id, fallbackEra)

	if data, err := json.Marshal(q); err == nil {
		if err := c.rdb.Set(ctx, key, data, cacheTTL).Err(); err != nil {
			c.logger.Debug("question cache write failed", "key", key, "error", err)
		}
	}
	return q
}

// Invalidate drops a cached entry after the authoring API changes it.
func (c *CachedLookup) Invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, "bridgetime:question:"+id).Err(); err != nil {
		c.logger.Debug("question cache invalidate failed", "id", id, "error", err)
	}
}

package services

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	mem "estatehub/pkg/memcache"
)

// ViewGuard decides whether a view by viewer should be counted.
type ViewGuard interface {
	FirstView(ctx context.Context, listingID, viewer string) bool
}

type viewGuard struct {
	rdb      *redis.Client
	fallback *mem.TTLStore
	window   time.Duration
	log      *zap.Logger
}

// NewViewGuard uses Redis when rdb is non-nil and the in-process store
// otherwise, or whenever Redis errors.
func NewViewGuard(rdb *redis.Client, fallback *mem.TTLStore, window time.Duration, log *zap.Logger) ViewGuard {
	return &viewGuard{rdb: rdb, fallback: fallback, window: window, log: log}
}

func viewKey(listingID, viewer string) string {
	return "views:" + listingID + ":" + viewer
}

func (g *viewGuard) FirstView(ctx context.Context, listingID, viewer string) bool {
	key := viewKey(listingID, viewer)
	if g.rdb != nil {
		ok, err := g.rdb.SetNX(ctx, key, 1, g.window).Result()
		if err == nil {
			return ok
		}
		g.log.Warn("redis view dedupe unavailable, using local store", zap.Error(err))
	}
	return g.fallback.SetIfAbsent(key, g.window)
}

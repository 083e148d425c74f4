package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	mem "estatehub/pkg/memcache"
)

const sweepInterval = 5 * time.Minute

var Module = fx.Provide(provideMemcacheClient, provideResetTokens)

func provideMemcacheClient(lc fx.Lifecycle, log *zap.Logger) *mem.TTLStore {
	store := mem.NewResetTokens()
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ticker := time.NewTicker(sweepInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if n := store.Sweep(); n > 0 {
							log.Debug("swept expired entries", zap.Int("count", n))
						}
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(done)
			return nil
		},
	})
	return store
}

func provideResetTokens(store *mem.TTLStore) mem.ResetTokenStore {
	return store
}

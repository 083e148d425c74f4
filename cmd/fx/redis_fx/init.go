package redis_fx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/infra"
)

var Module = fx.Provide(provideRedis)

// provideRedis yields a nil client when Redis is not configured; consumers
// fall back to in-process state.
func provideRedis(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	client, err := infra.InitRedis(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		log.Info("redis not configured, using in-process view de-duplication")
		return nil, nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

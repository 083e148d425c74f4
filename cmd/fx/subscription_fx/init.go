package subscription_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/repositories"
	"estatehub/internal/services"
)

var Module = fx.Provide(provideSubscriptionService)

func provideSubscriptionService(accountRepo repositories.AccountRepository, log *zap.Logger) services.SubscriptionServiceInterface {
	return services.NewSubscriptionService(accountRepo, log.Named("subscriptions"))
}

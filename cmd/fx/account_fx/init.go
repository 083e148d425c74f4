package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"estatehub/internal/config"
	"estatehub/internal/identity"
	"estatehub/internal/repositories"
	"estatehub/internal/services"
	mem "estatehub/pkg/memcache"
	"estatehub/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideJWTManager)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	listingRepo repositories.ListingRepository,
	mailService services.IMailService,
	images services.ImageManager,
	cfg *config.Config,
	memcache mem.ResetTokenStore,
	verifier identity.Verifier,
	jwt *utils.JWTManager,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, listingRepo, mailService, images, services.LimitsFromConfig(cfg), memcache, verifier, jwt, log.Named("accounts"))
}

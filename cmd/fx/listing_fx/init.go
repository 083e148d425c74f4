package listing_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"estatehub/internal/config"
	"estatehub/internal/repositories"
	"estatehub/internal/services"
	"estatehub/internal/storage"
	mem "estatehub/pkg/memcache"
)

var Module = fx.Provide(
	provideListingRepo,
	provideImageDeletionRepo,
	provideImageManager,
	provideViewGuard,
	provideListingService,
	provideSavedListingService,
)

func provideListingRepo(db *gorm.DB) repositories.ListingRepository {
	return repositories.NewListingRepository(db)
}

func provideImageDeletionRepo(db *gorm.DB) repositories.ImageDeletionRepository {
	return repositories.NewImageDeletionRepository(db)
}

func provideImageManager(store storage.ImageStore, pending repositories.ImageDeletionRepository, log *zap.Logger) services.ImageManager {
	return services.NewImageManager(store, pending, log.Named("images"))
}

func provideViewGuard(rdb *redis.Client, fallback *mem.TTLStore, cfg *config.Config, log *zap.Logger) services.ViewGuard {
	return services.NewViewGuard(rdb, fallback, cfg.Views.DedupeWindow, log.Named("views"))
}

func provideListingService(
	listingRepo repositories.ListingRepository,
	accountRepo repositories.AccountRepository,
	images services.ImageManager,
	subs services.SubscriptionServiceInterface,
	views services.ViewGuard,
	mail services.IMailService,
	cfg *config.Config,
	log *zap.Logger,
) services.ListingServiceInterface {
	return services.NewListingService(listingRepo, accountRepo, images, subs, views, mail, services.LimitsFromConfig(cfg), log.Named("listings"))
}

func provideSavedListingService(accountRepo repositories.AccountRepository, listingRepo repositories.ListingRepository, log *zap.Logger) services.SavedListingServiceInterface {
	return services.NewSavedListingService(accountRepo, listingRepo, log.Named("saved"))
}

package export_fx

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/repositories"
	"estatehub/internal/services"
)

var Module = fx.Provide(provideExportService)

func provideExportService(
	listingRepo repositories.ListingRepository,
	accountRepo repositories.AccountRepository,
	cfg *config.Config,
	log *zap.Logger,
) services.ExportServiceInterface {
	client := &http.Client{Timeout: cfg.Export.ImageTimeout}
	opts := services.ExportOptions{
		AppName:      cfg.SMTP.FromName,
		ImageTimeout: cfg.Export.ImageTimeout,
		MaxImages:    cfg.Export.MaxImages,
	}
	return services.NewExportService(listingRepo, accountRepo, services.HTTPImageFetcher(client, cfg.Uploads.MaxFileBytes), opts, log.Named("export"))
}

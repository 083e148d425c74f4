package contact_fx

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/services"
)

var Module = fx.Provide(provideContactService)

func provideContactService(cfg *config.Config, log *zap.Logger) services.ContactServiceInterface {
	if cfg.Contact.WebhookURL == "" {
		log.Warn("contact webhook not configured, contact form submissions will fail")
	}
	client := &http.Client{Timeout: cfg.Contact.Timeout}
	return services.NewContactService(cfg.Contact.WebhookURL, client, log.Named("contact"))
}

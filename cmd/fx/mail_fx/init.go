package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) (services.IMailService, error) {
	smtpCfg := services.SMTPConfigFrom(cfg)
	if smtpCfg.Host == "" {
		log.Warn("SMTP host not configured, outgoing mail will fail")
	}

	mailService, err := services.NewSMTPMailService(smtpCfg)
	if err != nil {
		log.Error("failed to initialize SMTP mail service", zap.Error(err))
		return nil, err
	}
	return mailService, nil
}

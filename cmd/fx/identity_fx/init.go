package identity_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/identity"
)

var Module = fx.Provide(provideVerifier)

func provideVerifier(cfg *config.Config, log *zap.Logger) (identity.Verifier, error) {
	if cfg.Firebase.ProjectID == "" {
		log.Warn("firebase not configured, federated login disabled")
	}
	return identity.NewFirebaseVerifier(context.Background(), cfg)
}

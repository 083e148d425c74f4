package config_fx

import (
	"go.uber.org/fx"

	"estatehub/internal/config"
	"estatehub/internal/infra"
)

var Module = fx.Provide(
	config.Load, infra.NewLogger)

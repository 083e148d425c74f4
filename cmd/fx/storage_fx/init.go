package storage_fx

import (
	"go.uber.org/fx"

	"estatehub/internal/storage"
)

var Module = fx.Provide(
	storage.NewS3Client, storage.NewS3Store)

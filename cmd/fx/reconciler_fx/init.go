package reconciler_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/internal/config"
	"estatehub/internal/repositories"
	"estatehub/internal/services"
	"estatehub/internal/storage"
)

var Module = fx.Options(
	fx.Provide(provideReconciler),
	fx.Invoke(registerReconciler),
)

func provideReconciler(pending repositories.ImageDeletionRepository, store storage.ImageStore, cfg *config.Config, log *zap.Logger) *services.ImageReconciler {
	opts := services.ReconcilerOptions{
		Interval:    cfg.Reconciler.Interval,
		MaxAttempts: cfg.Reconciler.MaxAttempts,
		BatchSize:   cfg.Reconciler.BatchSize,
	}
	return services.NewImageReconciler(pending, store, opts, log.Named("reconciler"))
}

func registerReconciler(lc fx.Lifecycle, r *services.ImageReconciler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			r.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			r.Stop()
			return nil
		},
	})
}

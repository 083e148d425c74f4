package dashboard

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"estatehub/internal/repositories"
	"estatehub/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepo, provideDashboardService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(dashboardRepo repositories.DashboardRepository, subs services.SubscriptionServiceInterface, log *zap.Logger) services.DashboardService {
	return services.NewDashboardService(dashboardRepo, subs, log.Named("dashboard"))
}

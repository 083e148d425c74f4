package admin_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"estatehub/internal/config"
	"estatehub/internal/identity"
	"estatehub/internal/repositories"
	"estatehub/internal/services"
	"estatehub/pkg/utils"
)

var Module = fx.Provide(
	provideAdminRepo, provideAdminService)

func provideAdminRepo(db *gorm.DB) repositories.AdminRepository {
	return repositories.NewAdminRepository(db)
}

func provideAdminService(
	adminRepo repositories.AdminRepository,
	accountRepo repositories.AccountRepository,
	mail services.IMailService,
	verifier identity.Verifier,
	jwt *utils.JWTManager,
	cfg *config.Config,
	log *zap.Logger,
) services.AdminServiceInterface {
	return services.NewAdminService(adminRepo, accountRepo, mail, verifier, jwt, cfg.Admin.SuperAdminEmails, log.Named("admin"))
}

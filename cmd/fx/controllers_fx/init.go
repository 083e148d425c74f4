package controllers_fx

import (
	"go.uber.org/fx"

	"estatehub/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewListingController),
	fx.Provide(controllers.NewSavedListingController),
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(controllers.NewExportController),
	fx.Provide(controllers.NewContactController))

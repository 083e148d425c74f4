package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"estatehub/cmd/fx/account_fx"
	"estatehub/cmd/fx/admin_fx"
	"estatehub/cmd/fx/config_fx"
	"estatehub/cmd/fx/contact_fx"
	"estatehub/cmd/fx/controllers_fx"
	"estatehub/cmd/fx/dashboard"
	"estatehub/cmd/fx/db_fx"
	"estatehub/cmd/fx/export_fx"
	"estatehub/cmd/fx/identity_fx"
	"estatehub/cmd/fx/listing_fx"
	"estatehub/cmd/fx/mail_fx"
	"estatehub/cmd/fx/memcache_fx"
	"estatehub/cmd/fx/reconciler_fx"
	"estatehub/cmd/fx/redis_fx"
	"estatehub/cmd/fx/storage_fx"
	"estatehub/cmd/fx/subscription_fx"
	"estatehub/internal/api/controllers"
	"estatehub/internal/config"
	"estatehub/internal/session"
	"estatehub/pkg/middleware"
	"estatehub/pkg/utils"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		redis_fx.Module,
		storage_fx.Module,
		identity_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		admin_fx.Module,
		subscription_fx.Module,
		listing_fx.Module,
		dashboard.Module,
		export_fx.Module,
		contact_fx.Module,
		reconciler_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

type routeControllers struct {
	fx.In

	Listings      *controllers.ListingController
	Saved         *controllers.SavedListingController
	Accounts      *controllers.AccountController
	Admin         *controllers.AdminController
	Subscriptions *controllers.SubscriptionController
	Dashboard     *controllers.DashboardController
	Export        *controllers.ExportController
	Contact       *controllers.ContactController
}

func ProvideRouter(cfg *config.Config, jwtManager *utils.JWTManager, ctrl routeControllers) *gin.Engine {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.TraceIDMiddleware())
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.MaxMultipartMemory = 32 << 20

	RegisterRoutes(r, jwtManager, ctrl)

	return r
}

func RegisterRoutes(r *gin.Engine, jwtManager *utils.JWTManager, ctrl routeControllers) {
	auth := middleware.JWTAuthMiddleware(jwtManager)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtManager)
	sellersOnly := middleware.KindMiddleware(session.KindAgent, session.KindAgency)
	adminsOnly := middleware.RoleMiddleware(session.RoleAdmin, session.RoleSuperAdmin)
	superAdminOnly := middleware.RoleMiddleware(session.RoleSuperAdmin)

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, nil, "ok")
	})

	accountsGroup := r.Group("/accounts")
	accountsGroup.POST("/register", ctrl.Accounts.Register)
	accountsGroup.POST("/login", ctrl.Accounts.Login)
	accountsGroup.POST("/login/federated", ctrl.Accounts.FederatedLogin)
	accountsGroup.POST("/forgot-password", ctrl.Accounts.ForgotPassword)
	accountsGroup.POST("/reset-password", ctrl.Accounts.ResetPassword)

	r.GET("/agents", ctrl.Accounts.ListAgents)
	r.GET("/agents/:id", ctrl.Accounts.GetAgent)
	r.GET("/agencies", ctrl.Accounts.ListAgencies)
	r.GET("/agencies/:id", ctrl.Accounts.GetAgency)
	r.GET("/packages", ctrl.Subscriptions.ListPackages)
	r.POST("/contact", ctrl.Contact.Submit)

	listingsGroup := r.Group("/listings")
	listingsGroup.GET("", ctrl.Listings.ListListings)
	listingsGroup.GET("/search", ctrl.Listings.Search)
	listingsGroup.GET("/:id", ctrl.Listings.GetListing)
	listingsGroup.GET("/:id/print", ctrl.Export.PrintView)
	listingsGroup.GET("/:id/pdf", ctrl.Export.DownloadPDF)
	listingsGroup.POST("/:id/views", optionalAuth, ctrl.Listings.RecordView)
	listingsGroup.POST("/:id/inquiries", ctrl.Listings.SubmitInquiry)
	listingsGroup.POST("", auth, sellersOnly, ctrl.Listings.CreateListing)
	listingsGroup.PUT("/:id", auth, ctrl.Listings.UpdateListing)
	listingsGroup.DELETE("/:id", auth, ctrl.Listings.DeleteListing)
	listingsGroup.PATCH("/:id/status", auth, ctrl.Listings.UpdateStatus)

	meGroup := r.Group("/me", auth)
	meGroup.GET("", ctrl.Accounts.GetProfile)
	meGroup.PATCH("", ctrl.Accounts.UpdateProfile)
	meGroup.PUT("/avatar", ctrl.Accounts.UploadAvatar)
	meGroup.PUT("/password", ctrl.Accounts.ChangePassword)
	meGroup.GET("/saved", ctrl.Saved.ListSaved)
	meGroup.PUT("/saved/:id", ctrl.Saved.SaveListing)
	meGroup.DELETE("/saved/:id", ctrl.Saved.UnsaveListing)
	meGroup.GET("/listings", sellersOnly, ctrl.Listings.ListMine)
	meGroup.GET("/subscription", sellersOnly, ctrl.Subscriptions.Current)
	meGroup.PUT("/subscription", sellersOnly, ctrl.Subscriptions.SelectPackage)
	meGroup.GET("/dashboard", sellersOnly, ctrl.Dashboard.GetSellerDashboard)

	r.POST("/admin/register", ctrl.Admin.Register)
	r.POST("/admin/login", ctrl.Admin.Login)

	adminGroup := r.Group("/admin", auth, adminsOnly)
	adminGroup.GET("/dashboard", ctrl.Dashboard.GetDashboard)
	adminGroup.GET("/admins", ctrl.Admin.ListAdmins)
	adminGroup.PATCH("/admins/:id/status", superAdminOnly, ctrl.Admin.UpdateAdminStatus)
	adminGroup.GET("/accounts", ctrl.Admin.ListAccounts)
	adminGroup.PATCH("/accounts/:id/status", ctrl.Admin.UpdateAccountStatus)
	adminGroup.DELETE("/listings/:id", ctrl.Admin.DeleteListing)
}

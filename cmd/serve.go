package cmd

import (
	"database/sql"
	"net"

	"github.com/vibast-solutions/ms-go-catalog/app/controller"
	"github.com/vibast-solutions/ms-go-catalog/app/middleware"
	"github.com/vibast-solutions/ms-go-catalog/app/repository"
	"github.com/vibast-solutions/ms-go-catalog/app/service"
	"github.com/vibast-solutions/ms-go-catalog/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	userRepo := repository.NewUserRepository(db)
	confirmationRepo := repository.NewConfirmationRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	itemRepo := repository.NewItemRepository(db)

	var mailer service.Mailer = service.LogMailer{}
	if cfg.Mailgun.Enabled() {
		mailer = service.NewMailgunMailer(cfg.Mailgun)
	} else {
		logrus.Warn("Mailgun is not configured, confirmation emails will be logged instead of sent")
	}

	blocklist := service.NewTokenBlocklist()
	authService := service.NewAuthService(userRepo, confirmationRepo, blocklist, mailer, cfg)
	confirmationService := service.NewConfirmationService(userRepo, confirmationRepo, mailer, cfg)
	catalogService := service.NewCatalogService(storeRepo, itemRepo)

	startHTTPServer(cfg, authService, confirmationService, catalogService)
}

func startHTTPServer(
	cfg *config.Config,
	authService *service.AuthService,
	confirmationService *service.ConfirmationService,
	catalogService *service.CatalogService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(authService)
	confirmationController := controller.NewConfirmationController(confirmationService)
	storeController := controller.NewStoreController(catalogService)
	itemController := controller.NewItemController(catalogService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	e.POST("/register", authController.Register)
	e.POST("/login", authController.Login)
	e.POST("/logout", authController.Logout, authMiddleware.RequireAccessToken)
	e.POST("/refresh", authController.Refresh, authMiddleware.RequireRefreshToken)

	e.GET("/user/:user_id", userController.Get)
	e.DELETE("/user/:user_id", userController.Delete)

	e.GET("/confirmation/:confirmation_id", confirmationController.Confirm)
	e.GET("/confirmation/user/:user_id", confirmationController.ListByUser)
	e.POST("/confirmation/user/:user_id", confirmationController.Resend)

	e.GET("/stores", storeController.List)
	e.GET("/store/:name", storeController.Get)
	e.POST("/store/:name", storeController.Create, authMiddleware.RequireFreshAccessToken)
	e.DELETE("/store/:name", storeController.Delete, authMiddleware.RequireAccessToken)

	e.GET("/items", itemController.List)
	e.GET("/item/:name", itemController.Get)
	e.POST("/item/:name", itemController.Create, authMiddleware.RequireFreshAccessToken)
	e.PUT("/item/:name", itemController.Upsert)
	e.DELETE("/item/:name", itemController.Delete, authMiddleware.RequireAccessToken)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}

func configureLogging(cfg *config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

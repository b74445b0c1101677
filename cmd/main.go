package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/josamcode/last-backend-ecommerce/config"
	"github.com/josamcode/last-backend-ecommerce/internal/delivery"
	"github.com/josamcode/last-backend-ecommerce/internal/mailer"
	"github.com/josamcode/last-backend-ecommerce/internal/middleware"
	"github.com/josamcode/last-backend-ecommerce/internal/repository"
	"github.com/josamcode/last-backend-ecommerce/internal/usecase"
	"github.com/josamcode/last-backend-ecommerce/pkg/db"
	"github.com/josamcode/last-backend-ecommerce/pkg/metrics"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)
	logger.Info("Starting e-commerce backend...")
	logger.Infof("Log level set to: %s", logLevel.String())

	database, err := db.Connect(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("FATAL: could not connect to database: %v", err)
	}
	defer database.Close()

	var mail mailer.EmailSender = mailer.NopSender{}
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		}, logger)
		logger.Infof("SMTP sender initialized for host %s", cfg.SMTPHost)
	}

	serverMetrics := metrics.NewServerMetrics("backend")

	// --- Dependency Injection ---
	userRepo := repository.NewPostgresUserRepository(database, logger)
	productRepo := repository.NewPostgresProductRepository(database, logger)
	cartRepo := repository.NewPostgresCartRepository(database, logger)
	orderRepo := repository.NewPostgresOrderRepository(database, logger)
	couponRepo := repository.NewPostgresCouponRepository(database, logger)
	messageRepo := repository.NewPostgresMessageRepository(database, logger)
	subscriberRepo := repository.NewPostgresSubscriberRepository(database, logger)
	logger.Info("Repositories initialized.")

	userUseCase := usecase.NewUserUseCase(userRepo, mail, cfg.JWTSecret, cfg.BaseURL, logger)
	productUseCase := usecase.NewProductUseCase(productRepo, logger)
	cartUseCase := usecase.NewCartUseCase(cartRepo, productRepo, logger)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, productRepo, couponRepo, userRepo, cartUseCase, mail, cfg.AdminEmail, logger)
	couponUseCase := usecase.NewCouponUseCase(couponRepo, logger)
	messageUseCase := usecase.NewMessageUseCase(messageRepo, logger)
	subscriberUseCase := usecase.NewSubscriberUseCase(subscriberRepo, logger)
	logger.Info("Use cases initialized.")

	userHandler := delivery.NewUserHandler(userUseCase, logger)
	productHandler := delivery.NewProductHandler(productUseCase, logger)
	cartHandler := delivery.NewCartHandler(cartUseCase, logger)
	orderHandler := delivery.NewOrderHandler(orderUseCase, logger)
	couponHandler := delivery.NewCouponHandler(couponUseCase, logger)
	messageHandler := delivery.NewMessageHandler(messageUseCase, logger)
	subscriberHandler := delivery.NewSubscriberHandler(subscriberUseCase, logger)
	logger.Info("Handlers initialized.")

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(serverMetrics.GinMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "E-commerce backend is running"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret, logger))

	userHandler.RegisterRoutes(api, authed)
	productHandler.RegisterRoutes(api, authed)
	cartHandler.RegisterRoutes(authed)
	orderHandler.RegisterRoutes(authed)
	couponHandler.RegisterRoutes(authed)
	messageHandler.RegisterRoutes(authed)
	subscriberHandler.RegisterRoutes(authed)
	logger.Info("Routes registered.")

	logger.Infof("Starting server on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		logger.Errorf("Failed to start server on port %s: %v", cfg.Port, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/auth"
	"github.com/ammstro/service-pricing/internal/cache"
	"github.com/ammstro/service-pricing/internal/config"
	"github.com/ammstro/service-pricing/internal/database"
	pricingEvents "github.com/ammstro/service-pricing/internal/events"
	"github.com/ammstro/service-pricing/internal/handler"
	"github.com/ammstro/service-pricing/internal/health"
	"github.com/ammstro/service-pricing/internal/kafka"
	"github.com/ammstro/service-pricing/internal/logger"
	"github.com/ammstro/service-pricing/internal/middleware"
	"github.com/ammstro/service-pricing/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-pricing")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-pricing",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.Config{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}

	db, err := database.Connect(dbConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.CatalogSettingsModel{},
			&repository.PricingModuleModel{},
			&repository.DiscountModel{},
			&repository.RedemptionModel{},
			&repository.AnnouncementModel{},
		); err != nil {
			zapLogger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		zapLogger.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer for the change feed
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize repositories
	catalogRepo := repository.NewGormCatalogRepository(db)
	discountRepo := repository.NewGormDiscountRepository(db)
	announcementRepo := repository.NewGormAnnouncementRepository(db)

	// Initialize application services
	catalogCache := cache.NewCatalogCache()
	catalogService := application.NewCatalogService(catalogRepo, catalogCache, kafkaProducer, zapLogger)
	discountService := application.NewDiscountService(discountRepo, kafkaProducer, zapLogger)
	quoteService := application.NewQuoteService(catalogService, discountService, zapLogger)
	announcementService := application.NewAnnouncementService(announcementRepo, kafkaProducer, zapLogger)
	authService := application.NewAuthService(cfg.AdminConfig.Email, cfg.AdminConfig.PasswordHash, jwtManager, zapLogger)

	// Initialize change-feed consumer so remote writes refresh the snapshot
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "pricing-service"
	changeFeedConsumer := pricingEvents.NewChangeFeedConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		catalogService,
		zapLogger,
	)
	defer changeFeedConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting change feed consumer")
		if err := changeFeedConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("change feed consumer failed", zap.Error(err))
			}
		}
	}()

	// Initialize HTTP handlers
	validateLimiter := middleware.NewRateLimiter(cfg.ValidateRatePerSec, cfg.ValidateRateBurst)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	discountHandler := handler.NewDiscountHandler(discountService, validateLimiter)
	announcementHandler := handler.NewAnnouncementHandler(announcementService)
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(catalogService, discountService, announcementService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check and metrics routes
	healthHandler := health.NewHandler(db, "service-pricing")
	healthHandler.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register API routes
	apiV1 := router.Group("/api/v1")
	catalogHandler.RegisterRoutes(apiV1)
	quoteHandler.RegisterRoutes(apiV1)
	discountHandler.RegisterRoutes(apiV1)
	announcementHandler.RegisterRoutes(apiV1)
	authHandler.RegisterRoutes(apiV1)
	adminHandler.RegisterRoutes(apiV1, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down service-pricing...")

	// Cancel change feed consumer
	consumerCancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("service-pricing stopped")
}

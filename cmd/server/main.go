package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tourplatform/tour-booking-backend/internal/config"
	"github.com/tourplatform/tour-booking-backend/internal/database"
	"github.com/tourplatform/tour-booking-backend/internal/handlers"
	"github.com/tourplatform/tour-booking-backend/internal/services"
	"github.com/tourplatform/tour-booking-backend/pkg/jwt"
	"github.com/tourplatform/tour-booking-backend/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Tour Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	userRepo := database.NewUserRepository(db)
	adminRepo := database.NewAdminRepository(db)
	packageRepo := database.NewPackageRepository(db)
	itineraryRepo := database.NewItineraryRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	statsRepo := database.NewStatsRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenExpiry)

	authService, err := services.NewAuthService(userRepo, adminRepo, jwtService,
		validator.NewPhoneValidator(), cfg.Security.BcryptCost, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize auth service: %v", err)
	}
	catalogService := services.NewCatalogService(packageRepo, itineraryRepo, cfg.Catalog.UpcomingOnly, logger)
	bookingService := services.NewBookingService(db, bookingRepo, paymentRepo, packageRepo, logger)
	reportService := services.NewReportService(statsRepo, userRepo, bookingRepo, paymentRepo, logger)

	cronService := services.NewCronService(bookingService, cfg.Cron.BookingSweepSchedule, logger)
	if cfg.Cron.Enabled {
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	} else {
		logger.Warn("Cron service disabled; bookings are completed only on listing or manual trigger")
	}

	if cfg.Catalog.UpcomingOnly {
		logger.Info("Public package listing shows upcoming tours only")
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		DB:               db,
		JWTService:       jwtService,
		CORS:             cfg.CORS,
		EnableRequestLog: cfg.Security.EnableRequestLog,
		Version:          version,
		Logger:           logger,
		Auth:             handlers.NewAuthHandler(authService, logger),
		Catalog:          handlers.NewCatalogHandler(catalogService, logger),
		Booking:          handlers.NewBookingHandler(bookingService, logger),
		Admin:            handlers.NewAdminHandler(reportService, cronService, logger),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cfg.Cron.Enabled {
		cronService.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

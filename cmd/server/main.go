package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/acessae/acessae-backend/config"
	"github.com/acessae/acessae-backend/internal/app/controller"
	"github.com/acessae/acessae-backend/internal/app/repository"
	"github.com/acessae/acessae-backend/internal/app/service"
	"github.com/acessae/acessae-backend/internal/db"
	"github.com/acessae/acessae-backend/internal/middleware"
	"github.com/acessae/acessae-backend/internal/router"
	"github.com/acessae/acessae-backend/internal/scheduler"
	"github.com/acessae/acessae-backend/internal/storage"
	"github.com/acessae/acessae-backend/pkg/logger"
	"github.com/acessae/acessae-backend/pkg/mailer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Acessae Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	store, err := storage.NewLocalStorage(cfg.Upload.RootDir)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	locationRepo := repository.NewLocationRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())

	// Services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	locationService := service.NewLocationService(locationRepo)
	reviewService := service.NewReviewService(reviewRepo, locationRepo, store, db.GetDB())
	adminUserService := service.NewAdminUserService(userRepo)
	passwordResetService := service.NewPasswordResetService(
		userRepo,
		resetRepo,
		mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}),
		cfg.Server.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService, passwordResetService, reviewService)
	locationController := controller.NewLocationController(locationService)
	reviewController := controller.NewReviewController(reviewService)
	adminUserController := controller.NewAdminUserController(adminUserService)
	photoController := controller.NewPhotoController(store)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo)

	r := router.NewRouter(
		authController,
		locationController,
		reviewController,
		adminUserController,
		photoController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	sweeper := scheduler.NewPhotoSweeper(reviewRepo, store)
	if err := sweeper.Start(); err != nil {
		logger.Warn("Photo sweeper not started", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer sweeper.Stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

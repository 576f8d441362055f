// Package main is the entry point for the time-tracker service.
package main

import (
	"fmt"

	_ "github.com/GunarsK-portfolio/timetracker-service/docs"
	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/database"
	"github.com/GunarsK-portfolio/timetracker-service/internal/handlers"
	"github.com/GunarsK-portfolio/timetracker-service/internal/metrics"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/GunarsK-portfolio/timetracker-service/internal/routes"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/GunarsK-portfolio/timetracker-service/pkg/redis"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// @title TimeTracker Service API
// @version 1.0
// @description Employee time tracking with geofenced clock-in, reporting and role-based administration
// @host localhost:8085
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg := config.Load()
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database: ", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations: ", err)
	}

	// Initialize Redis
	redisClient := redis.NewClient(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	entryRepo := repository.NewTimeEntryRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	geofenceRepo := repository.NewGeofenceRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	jwtService := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	authService := service.NewAuthService(userRepo, jwtService, redisClient)
	mailer := service.NewSMTPMailer(cfg, logger)
	registrationService := service.NewRegistrationService(userRepo, mailer, cfg, logger)
	oauthService := service.NewOAuthService(service.NewGoogleProvider(cfg), userRepo, authService, cfg, logger)
	geofenceService := service.NewGeofenceService(geofenceRepo)
	auditService := service.NewAuditService(auditRepo, logger)
	timeService := service.NewTimeTrackingService(entryRepo, geofenceService, cfg, logger)
	reportService := service.NewReportService(entryRepo, logger)
	adminService := service.NewAdminService(userRepo, departmentRepo, projectRepo, geofenceRepo, logger)

	// Initialize handlers
	h := routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService, registrationService, oauthService, auditService, logger),
		Time:    handlers.NewTimeHandler(timeService, auditService, logger),
		Report:  handlers.NewReportHandler(reportService, logger),
		Profile: handlers.NewProfileHandler(userRepo, logger),
		Admin:   handlers.NewAdminHandler(adminService, logger),
		Health:  handlers.NewHealthHandler(db, redisClient),
	}

	// Setup router
	router := gin.Default()
	collector := metrics.New("timetracker-service")
	routes.Setup(router, h, cfg, jwtService, userRepo, collector)

	// Start server
	logger.Infof("Starting timetracker service on port %s", cfg.Port)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		logger.Fatal("Failed to start server: ", err)
	}
}

// Package routes defines HTTP routes for the time-tracker service.
package routes

import (
	"github.com/GunarsK-portfolio/timetracker-service/docs"
	"github.com/GunarsK-portfolio/timetracker-service/internal/config"
	"github.com/GunarsK-portfolio/timetracker-service/internal/handlers"
	"github.com/GunarsK-portfolio/timetracker-service/internal/metrics"
	"github.com/GunarsK-portfolio/timetracker-service/internal/middleware"
	"github.com/GunarsK-portfolio/timetracker-service/internal/models"
	"github.com/GunarsK-portfolio/timetracker-service/internal/repository"
	"github.com/GunarsK-portfolio/timetracker-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles the handlers wired into the route table.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Time    *handlers.TimeHandler
	Report  *handlers.ReportHandler
	Profile *handlers.ProfileHandler
	Admin   *handlers.AdminHandler
	Health  *handlers.HealthHandler
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, h Handlers, cfg *config.Config, jwtService service.JWTService, userRepo repository.UserRepository, collector *metrics.Metrics) {
	securityMiddleware := middleware.NewSecurityMiddleware(
		cfg.AllowedOrigins,
		"GET,POST,PUT,DELETE,OPTIONS",
		"Content-Type,Authorization",
		true,
	)
	router.Use(securityMiddleware.Apply())
	router.Use(collector.Middleware())

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/register", h.Auth.Register)
		auth.GET("/verify-email/:token", h.Auth.VerifyEmail)
		auth.POST("/resend-verification", h.Auth.ResendVerification)
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}

	// Authenticated routes
	authed := v1.Group("")
	authed.Use(middleware.Auth(jwtService, userRepo))
	{
		authed.POST("/auth/logout", h.Auth.Logout)

		authed.POST("/clock-in", h.Time.ClockIn)
		authed.POST("/clock-out", h.Time.ClockOut)
		authed.POST("/break-start", h.Time.BreakStart)
		authed.POST("/break-end", h.Time.BreakEnd)
		authed.GET("/current-status", h.Time.CurrentStatus)
		authed.GET("/time-entries", h.Time.ListEntries)
		authed.GET("/weekly-summary", h.Time.WeeklySummary)

		authed.GET("/reports", h.Report.GetReport)
		authed.GET("/reports/export", h.Report.ExportReport)

		authed.GET("/profile", h.Profile.GetProfile)
		authed.PUT("/profile", h.Profile.UpdateProfile)

		authed.GET("/admin/departments", h.Admin.ListDepartments)
		authed.GET("/admin/projects", h.Admin.ListProjects)
	}

	// Manager and above
	manager := authed.Group("")
	manager.Use(middleware.RequireRole(models.RoleManager))
	{
		manager.PUT("/time-entries/:id", h.Time.UpdateEntry)
		manager.GET("/admin/employees", h.Admin.ListEmployees)
		manager.POST("/admin/projects", h.Admin.CreateProject)
	}

	// HR and above
	hr := authed.Group("")
	hr.Use(middleware.RequireRole(models.RoleHR))
	{
		hr.GET("/admin/users", h.Admin.ListUsers)
		hr.GET("/admin/users/:id", h.Admin.GetUser)
		hr.PUT("/admin/users/:id", h.Admin.UpdateUser)
		hr.GET("/admin/geofences", h.Admin.ListGeofences)
	}

	// Admin only
	admin := authed.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/admin/users", h.Admin.CreateUser)
		admin.DELETE("/admin/users/:id", h.Admin.DeactivateUser)
		admin.POST("/admin/departments", h.Admin.CreateDepartment)
		admin.DELETE("/admin/projects/:id", h.Admin.DeleteProject)
		admin.POST("/admin/geofences", h.Admin.CreateGeofence)
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

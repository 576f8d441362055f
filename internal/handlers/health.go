package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a new HealthHandler instance.
func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Check godoc
// @Summary Health check
// @Description Check if the service and its dependencies are healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	response := gin.H{
		"status":   "healthy",
		"database": "up",
		"redis":    "up",
	}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		response["status"] = "degraded"
		response["database"] = "down"
		status = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
		response["status"] = "degraded"
		response["redis"] = "down"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, response)
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/database"
)

type HealthHandler struct {
	db    *gorm.DB
	redis database.RedisClient
	env   string
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Environment string            `json:"environment"`
	Services    map[string]string `json:"services"`
	Uptime      string            `json:"uptime"`
}

type ReadinessStatus struct {
	Ready    bool              `json:"ready"`
	Services map[string]string `json:"services"`
}

func NewHealthHandler(db *gorm.DB, redis database.RedisClient, env string) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, env: env}
}

func (h *HealthHandler) Health(c *gin.Context) {
	services := make(map[string]string)
	services["database"] = h.checkDatabase(c.Request.Context())
	services["redis"] = h.checkRedis(c.Request.Context())

	status := "healthy"
	for _, serviceStatus := range services {
		if serviceStatus != "healthy" && serviceStatus != "not_configured" {
			status = "degraded"
			break
		}
	}

	statusCode := http.StatusOK
	if status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthStatus{
		Status:      status,
		Timestamp:   time.Now(),
		Environment: h.env,
		Services:    services,
		Uptime:      time.Since(startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	services := make(map[string]string)
	services["database"] = h.checkDatabase(c.Request.Context())

	ready := true
	for _, serviceStatus := range services {
		if serviceStatus != "healthy" {
			ready = false
			break
		}
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadinessStatus{
		Ready:    ready,
		Services: services,
	})
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
	})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return "not_configured"
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		return "error"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

func (h *HealthHandler) checkRedis(ctx context.Context) string {
	if h.redis == nil {
		return "not_configured"
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := h.redis.Ping(pingCtx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

var startTime = time.Now()

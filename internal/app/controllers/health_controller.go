package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arasfeld/rent-app/internal/domain/services"
	"github.com/arasfeld/rent-app/internal/domain/services/container"
	"github.com/arasfeld/rent-app/internal/error/response"
	"github.com/arasfeld/rent-app/internal/infrastructure/database"
)

// HealthCheckController reports liveness and dependency health
type HealthCheckController struct {
	Container *container.ServiceContainer
}

// NewHealthCheckController creates a health check controller
func NewHealthCheckController(container *container.ServiceContainer) *HealthCheckController {
	return &HealthCheckController{Container: container}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status   string            `json:"status" example:"healthy"`
	Checks   map[string]string `json:"checks"`
	Time     time.Time         `json:"time"`
	Duration string            `json:"duration" example:"1.2ms"`
}

// Ping is a liveness probe
// @Summary      Ping
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /ping [get]
func (h *HealthCheckController) Ping(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "healthy",
		"message": "pong",
	})
}

// Health checks the database and the cache
// @Summary      Health
// @Tags         Health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthCheckController) Health(c *gin.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := database.Ping(ctx, h.Container.GetDB()); err != nil {
		checks["database"] = "down: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "up"
	}

	// The cache is optional, so a failure degrades rather than fails the check
	switch cache := h.Container.GetService("cache").(type) {
	case services.NoopCacheService:
		checks["cache"] = "disabled"
	case services.InterfaceCacheService:
		if err := cache.Ping(ctx); err != nil {
			checks["cache"] = "degraded: " + err.Error()
		} else {
			checks["cache"] = "up"
		}
	}

	status, httpStatus := "healthy", http.StatusOK
	if !healthy {
		status, httpStatus = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, HealthResponse{
		Status:   status,
		Checks:   checks,
		Time:     start.UTC(),
		Duration: time.Since(start).String(),
	})
}

// HandleHealthFunc returns a gin handler for the named health method
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	controller := NewHealthCheckController(container)
	return func(ctx *gin.Context) {
		switch method {
		case "ping":
			controller.Ping(ctx)
		case "health":
			controller.Health(ctx)
		default:
			invalidMethod(ctx)
		}
	}
}

// Package health provides the liveness endpoint backed by a database ping.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/memberquery/internal/database/database"
)

const checkTimeout = 5 * time.Second

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	driver string
	logger *zap.SugaredLogger
}

// New creates a health handler for db opened with driver.
func New(db *gorm.DB, driver string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		db:     db,
		driver: driver,
		logger: logger,
	}
}

// Response is the health check body.
type Response struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
	// OpenConnections and InUse are omitted when the pool can't be read.
	OpenConnections *int `json:"open_connections,omitempty"`
	InUse           *int `json:"in_use,omitempty"`
}

// RegisterRoutes registers GET /health on r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.Check)
}

// Check handles GET /health.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Driver: h.driver}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "driver", h.driver, "error", err)
		resp.Status = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if stats, err := database.GetStats(h.db); err == nil {
		resp.OpenConnections = &stats.OpenConnections
		resp.InUse = &stats.InUse
	}

	c.JSON(http.StatusOK, resp)
}

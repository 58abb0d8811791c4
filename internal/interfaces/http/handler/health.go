package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/logger"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence"
)

// DatabaseChecker is the subset of the database handle the health check uses.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthHandler serves the unauthenticated liveness endpoints
type HealthHandler struct {
	db        DatabaseChecker
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker) *HealthHandler {
	return &HealthHandler{
		db:        db,
		startTime: time.Now(),
	}
}

// Banner answers GET / so load balancers and humans get a quick signal.
func (h *HealthHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "Backend API",
		"message": "APCMS backend is running",
	})
}

// Health reports database reachability.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	body := gin.H{
		"status":   "healthy",
		"database": "ok",
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	}
	if stats, err := h.db.Stats(); err == nil {
		body["connections"] = stats
	}
	c.JSON(http.StatusOK, body)
}

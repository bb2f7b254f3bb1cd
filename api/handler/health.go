package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sitelens/sitelens/models"
)

// Version is the service version, overridable at build time via
// -ldflags "-X github.com/sitelens/sitelens/api/handler.Version=...".
var Version = "dev"

// PoolReporter exposes browser page-pool statistics. The browser fetcher
// implements it; the HTTP-only deployment passes nil.
type PoolReporter interface {
	Stats() models.PoolStats
}

// Health returns a handler for GET /api/v1/health.
func Health(pool PoolReporter, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: Version,
		}
		if pool != nil {
			resp.PoolStats = pool.Stats()
		}
		c.JSON(http.StatusOK, resp)
	}
}

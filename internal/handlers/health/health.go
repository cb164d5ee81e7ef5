package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/creators-of-happiness/selfhost-backend/internal/db"
	"github.com/creators-of-happiness/selfhost-backend/internal/handlers/meta"
)

// Register mounts the liveness and database readiness endpoints.
func Register(r *gin.Engine, pool *db.Pool) {
	// Liveness: the process is up. Never touches the database.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   meta.Service,
			"version":   meta.Version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Readiness: full round trip through the connection pool. Probe failures
	// are request-scoped; they map to 503 and never crash the process.
	r.GET("/health/db", func(c *gin.Context) {
		err := pool.Probe(c.Request.Context())
		stats := pool.Stats()
		body := gin.H{
			"pool_size":        stats.Size,
			"idle_connections": stats.Idle,
			"pool_closed":      stats.Closed,
			"timestamp":        time.Now().UTC().Format(time.RFC3339),
		}
		if err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "healthy"
		c.JSON(http.StatusOK, body)
	})
}

package meta

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Service identification reported by the info and health endpoints.
const (
	Service     = "selfhost-server"
	Version     = "0.1.0"
	Description = "HTTP server exposing liveness and database readiness endpoints"
)

var endpoints = []string{"/", "/healthz", "/health/db"}

// Register mounts the service-info root route and the JSON 404 fallback.
func Register(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":     Service,
			"version":     Version,
			"description": Description,
			"endpoints":   endpoints,
		})
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})
}

package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo-services/pkg/logger"
)

// Check is one readiness dependency, such as a database or cache ping.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health returns 200 if the process is alive. Used by load balancers.
func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"service":   service,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Ready returns 200 when every check passes. Used by K8s readiness probes.
func Ready(checks ...Check) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		for _, chk := range checks {
			if err := chk.Ping(ctx); err != nil {
				logger.Warn(ctx, "Readiness check failed", "check", chk.Name, "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": chk.Name + " unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsHandler returns current request metrics
func MetricsHandler(c *gin.Context) {
	m := GetMetrics()
	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds":       int64(time.Since(m.StartedAt).Seconds()),
		"total_requests":       m.TotalRequests,
		"requests_by_endpoint": m.RequestsByEndpoint,
		"requests_by_status":   m.RequestsByStatus,
	})
}

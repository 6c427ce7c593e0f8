package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestMetrics holds in-memory request metrics
type RequestMetrics struct {
	mu                 sync.RWMutex
	StartedAt          time.Time
	TotalRequests      uint64
	RequestsByEndpoint map[string]uint64
	RequestsByStatus   map[string]uint64
}

var metrics = &RequestMetrics{
	StartedAt:          time.Now(),
	RequestsByEndpoint: make(map[string]uint64),
	RequestsByStatus:   make(map[string]uint64),
}

// GetMetrics returns the current request metrics
func GetMetrics() RequestMetrics {
	metrics.mu.RLock()
	defer metrics.mu.RUnlock()
	return RequestMetrics{
		StartedAt:          metrics.StartedAt,
		TotalRequests:      metrics.TotalRequests,
		RequestsByEndpoint: copyMap(metrics.RequestsByEndpoint),
		RequestsByStatus:   copyMap(metrics.RequestsByStatus),
	}
}

// statusClass buckets a status code as 2xx, 4xx and so on.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// copyMap creates a copy of the map
func copyMap(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// RequestLogging tags each request with a generated id, logs it with
// latency on completion, and feeds the in-memory metrics counters.
func RequestLogging(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)

		metrics.mu.Lock()
		metrics.TotalRequests++
		endpoint := c.Request.Method + " " + c.FullPath()
		metrics.RequestsByEndpoint[endpoint]++
		metrics.RequestsByStatus[statusClass(c.Writer.Status())]++
		metrics.mu.Unlock()

		logger.Info("request completed",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int64("latency_ms", latency.Milliseconds()),
			zap.Int("bytes_written", c.Writer.Size()),
			zap.String("client_ip", c.ClientIP()))

		for _, err := range c.Errors {
			logger.Error("request error",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
		}
	}
}

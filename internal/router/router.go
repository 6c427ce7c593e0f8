package router

import (
	"net/http"

	"farm-analytics/internal/controller"
	"farm-analytics/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New wires the Gin engine with middleware and the reporting routes.
func New(reports *controller.ReportController, prices *controller.PriceController, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging(logger))
	r.Use(cors.Default())

	v1 := r.Group("/v1")
	{
		reportGroup := v1.Group("/reports")
		{
			reportGroup.GET("/production", reports.GetProduction)
			reportGroup.GET("/weight-gain", reports.GetWeightGain)
			reportGroup.GET("/weight-gain/:entity_id", reports.GetEntityWeightGain)
		}

		v1.GET("/price", prices.GetPrice)
		v1.PUT("/price", prices.UpdatePrice)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", middleware.MetricsHandler)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

package controller

import (
	"errors"
	"net/http"

	"farm-analytics/internal/query"
	"farm-analytics/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PriceController handles the price endpoints.
type PriceController struct {
	priceService service.PriceService
	logger       *zap.Logger
}

// NewPriceController creates a new price controller
func NewPriceController(priceService service.PriceService, logger *zap.Logger) *PriceController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceController{priceService: priceService, logger: logger}
}

// GetPrice handles GET /v1/price and returns the current price record.
func (c *PriceController) GetPrice(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.priceService.CurrentPrice(ctx.Request.Context()))
}

// Pointer fields so a missing value and an explicit zero stay apart.
type priceUpdateRequest struct {
	BaseValue     *float64 `json:"base_value"`
	AdjustmentPct *float64 `json:"adjustment_pct"`
}

// UpdatePrice handles PUT /v1/price. Writes never degrade: a storage
// failure surfaces as 502.
func (c *PriceController) UpdatePrice(ctx *gin.Context) {
	var req priceUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid body",
			"message": "request body must be valid JSON",
		})
		return
	}
	if req.BaseValue == nil {
		c.fieldError(ctx, "base_value", "base_value is required")
		return
	}
	if req.AdjustmentPct == nil {
		c.fieldError(ctx, "adjustment_pct", "adjustment_pct is required")
		return
	}

	rec, err := c.priceService.UpdatePrice(ctx.Request.Context(), *req.BaseValue, *req.AdjustmentPct)
	if err != nil {
		var verr *query.ValidationError
		if errors.As(err, &verr) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid parameter",
				"field":   verr.Field,
				"kind":    verr.Kind,
				"message": verr.Message,
			})
			return
		}

		c.logger.Error("price update failed", zap.Error(err))
		ctx.JSON(http.StatusBadGateway, gin.H{
			"error":   "Storage unavailable",
			"message": "price update could not be persisted",
		})
		return
	}

	ctx.JSON(http.StatusOK, rec)
}

func (c *PriceController) fieldError(ctx *gin.Context, field, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid parameter",
		"field":   field,
		"kind":    query.KindFormat,
		"message": message,
	})
}

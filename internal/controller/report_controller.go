package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"farm-analytics/internal/query"
	"farm-analytics/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportController handles the read-only reporting endpoints.
type ReportController struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportController creates a new report controller
func NewReportController(reportService service.ReportService, logger *zap.Logger) *ReportController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportController{reportService: reportService, logger: logger}
}

// GetProduction handles GET /v1/reports/production
// Query parameters:
//   - bucket (optional): day or month (default: day)
//   - start_date, end_date (optional): YYYY-MM-DD, inclusive bounds
//   - owner_id, entity_id (optional): scope filters
//   - fill (optional): none (sparse, default) or zero (dense buckets)
//   - page, page_size (optional): pagination
func (c *ReportController) GetProduction(ctx *gin.Context) {
	w, page, ok := c.parseFilters(ctx)
	if !ok {
		return
	}

	bucket := ctx.DefaultQuery("bucket", service.BucketDay)
	if bucket != service.BucketDay && bucket != service.BucketMonth {
		c.validationError(ctx, &query.ValidationError{
			Field:   "bucket",
			Kind:    query.KindRange,
			Message: "bucket must be one of: day, month",
		})
		return
	}

	fill := ctx.DefaultQuery("fill", "none")
	if fill != "none" && fill != "zero" {
		c.validationError(ctx, &query.ValidationError{
			Field:   "fill",
			Kind:    query.KindRange,
			Message: "fill must be one of: none, zero",
		})
		return
	}
	dense := fill == "zero"
	if dense && (w.Start == nil || w.End == nil) {
		c.validationError(ctx, &query.ValidationError{
			Field:   "fill",
			Kind:    query.KindRange,
			Message: "fill=zero requires both start_date and end_date",
		})
		return
	}

	results, degraded := c.reportService.ProductionRollup(ctx.Request.Context(), w, bucket, dense)
	if degraded {
		c.logger.Warn("production report degraded", zap.String("path", ctx.Request.URL.Path))
	}

	ctx.JSON(http.StatusOK, query.NewPaginated(results, page))
}

// GetWeightGain handles GET /v1/reports/weight-gain
func (c *ReportController) GetWeightGain(ctx *gin.Context) {
	w, page, ok := c.parseFilters(ctx)
	if !ok {
		return
	}

	results, degraded := c.reportService.WeightGainRates(ctx.Request.Context(), w)
	if degraded {
		c.logger.Warn("weight-gain report degraded", zap.String("path", ctx.Request.URL.Path))
	}

	ctx.JSON(http.StatusOK, query.NewPaginated(results, page))
}

// GetEntityWeightGain handles GET /v1/reports/weight-gain/:entity_id
// and returns the bare rate object for one entity.
func (c *ReportController) GetEntityWeightGain(ctx *gin.Context) {
	entityIDStr := ctx.Param("entity_id")
	entityID, err := strconv.ParseUint(entityIDStr, 10, 32)
	if err != nil {
		c.validationError(ctx, &query.ValidationError{
			Field:   "entity_id",
			Kind:    query.KindFormat,
			Message: "entity_id must be a valid unsigned integer",
		})
		return
	}

	w, _, ok := c.parseFilters(ctx)
	if !ok {
		return
	}

	// An existence-check failure falls through to the rate call, which
	// degrades on its own; only a confirmed miss is a 404.
	exists, err := c.reportService.EntityExists(ctx.Request.Context(), uint(entityID))
	if err == nil && !exists {
		c.logger.Warn("entity not found", zap.Uint64("entity_id", entityID))
		ctx.JSON(http.StatusNotFound, gin.H{
			"error":   "Entity not found",
			"message": fmt.Sprintf("Entity with ID %d does not exist", entityID),
		})
		return
	}

	rate, degraded := c.reportService.EntityRate(ctx.Request.Context(), uint(entityID), w)
	if degraded {
		c.logger.Warn("entity rate degraded", zap.Uint64("entity_id", entityID))
	}

	ctx.JSON(http.StatusOK, rate)
}

// parseFilters normalizes the shared window and pagination parameters.
func (c *ReportController) parseFilters(ctx *gin.Context) (query.Window, query.Page, bool) {
	var w query.Window

	if s := ctx.Query("start_date"); s != "" {
		t, err := query.ParseDate("start_date", s)
		if err != nil {
			c.validationError(ctx, err)
			return w, query.Page{}, false
		}
		w.Start = &t
	}
	if s := ctx.Query("end_date"); s != "" {
		t, err := query.ParseDate("end_date", s)
		if err != nil {
			c.validationError(ctx, err)
			return w, query.Page{}, false
		}
		w.End = &t
	}
	if s := ctx.Query("owner_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			c.validationError(ctx, &query.ValidationError{
				Field:   "owner_id",
				Kind:    query.KindFormat,
				Message: "owner_id must be a valid unsigned integer",
			})
			return w, query.Page{}, false
		}
		v := uint(id)
		w.OwnerID = &v
	}
	if s := ctx.Query("entity_id"); s != "" {
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			c.validationError(ctx, &query.ValidationError{
				Field:   "entity_id",
				Kind:    query.KindFormat,
				Message: "entity_id must be a valid unsigned integer",
			})
			return w, query.Page{}, false
		}
		v := uint(id)
		w.EntityID = &v
	}

	if err := w.Validate(); err != nil {
		c.validationError(ctx, err)
		return w, query.Page{}, false
	}

	page, err := query.ParsePage(ctx.Query("page"), ctx.Query("page_size"))
	if err != nil {
		c.validationError(ctx, err)
		return w, query.Page{}, false
	}

	return w, page, true
}

func (c *ReportController) validationError(ctx *gin.Context, err error) {
	var verr *query.ValidationError
	if errors.As(err, &verr) {
		c.logger.Warn("invalid report filter",
			zap.String("field", verr.Field),
			zap.String("kind", verr.Kind),
		)
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid parameter",
			"field":   verr.Field,
			"kind":    verr.Kind,
			"message": verr.Message,
		})
		return
	}
	ctx.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid parameter",
		"message": err.Error(),
	})
}

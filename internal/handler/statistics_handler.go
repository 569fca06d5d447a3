package handler

import (
	"net/http"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statsService service.StatisticsService
}

func NewStatisticsHandler(statsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/statistics")
	{
		stats.GET("/operations", middleware.RequirePermission("operations.view"), h.GetOperationsDashboard)
		stats.GET("/financial", middleware.RequirePermission("financial.view"), h.GetFinancialSummary)
	}
}

// parsePeriod reads start_date/end_date query params, defaulting to the
// last 30 days.
func parsePeriod(c *gin.Context) (time.Time, time.Time) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			start = t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			end = t
		}
	}
	return start, end
}

// GetOperationsDashboard handles GET /statistics/operations
// @Summary      Operations dashboard
// @Description  Delivery counts by status for the period
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "From (RFC3339, default 30 days ago)"
// @Param        end_date    query     string  false  "Until (RFC3339, default now)"
// @Success      200         {object}  response.Response{data=service.OperationsDashboard}
// @Router       /statistics/operations [get]
func (h *StatisticsHandler) GetOperationsDashboard(c *gin.Context) {
	start, end := parsePeriod(c)
	dashboard, err := h.statsService.GetOperationsDashboard(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dashboard))
}

// GetFinancialSummary handles GET /statistics/financial
// @Summary      Financial summary
// @Description  Charge revenue against expenses bucketed by day, week or month
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "From (RFC3339, default 30 days ago)"
// @Param        end_date    query     string  false  "Until (RFC3339, default now)"
// @Param        interval    query     string  false  "Bucket size: day, week or month (default day)"
// @Success      200         {object}  response.Response{data=service.FinancialSummary}
// @Failure      400         {object}  response.Response
// @Router       /statistics/financial [get]
func (h *StatisticsHandler) GetFinancialSummary(c *gin.Context) {
	start, end := parsePeriod(c)
	interval := c.DefaultQuery("interval", "day")

	summary, err := h.statsService.GetFinancialSummary(c.Request.Context(), start, end, interval)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

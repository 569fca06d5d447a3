package handler

import (
	"net/http"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"
	"github.com/mageuzialbert/skymap-courier/pkg/pagination"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChargeHandler struct {
	chargeService service.ChargeService
}

func NewChargeHandler(chargeService service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ChargeHandler) RegisterRoutes(router *gin.RouterGroup) {
	charges := router.Group("/charges")
	{
		charges.GET("", middleware.RequirePermission("financial.view"), h.ListCharges)
		charges.POST("", middleware.RequirePermission("financial.manage"), h.CreateCharge)
		charges.DELETE("/:id", middleware.RequirePermission("financial.manage"), h.DeleteCharge)
	}
}

// CreateCharge handles POST /charges
// @Summary      Create charge
// @Description  Records a manual billable line for a business, optionally tied to a delivery
// @Tags         charges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateChargeRequest  true  "Charge Payload"
// @Success      201      {object}  response.Response{data=model.Charge}
// @Failure      400      {object}  response.Response
// @Router       /charges [post]
func (h *ChargeHandler) CreateCharge(c *gin.Context) {
	var req service.CreateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	charge, err := h.chargeService.CreateCharge(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, charge))
}

// ListCharges handles GET /charges
// @Summary      List charges
// @Description  Paginated charges for one business within a date range
// @Tags         charges
// @Produce      json
// @Security     BearerAuth
// @Param        business_id  query     string  true   "Business ID"
// @Param        start_date   query     string  false  "From (RFC3339, default 30 days ago)"
// @Param        end_date     query     string  false  "Until (RFC3339, default now)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      400          {object}  response.Response
// @Router       /charges [get]
func (h *ChargeHandler) ListCharges(c *gin.Context) {
	businessID, err := uuid.Parse(c.Query("business_id"))
	if err != nil {
		respondError(c, apperrors.NewValidation("business_id query parameter is required"))
		return
	}

	end := time.Now()
	start := end.AddDate(0, 0, -30)
	if raw := c.Query("start_date"); raw != "" {
		if t, perr := time.Parse(time.RFC3339, raw); perr == nil {
			start = t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, perr := time.Parse(time.RFC3339, raw); perr == nil {
			end = t
		}
	}

	params := pagination.Parse(c)
	charges, total, err := h.chargeService.ListCharges(c.Request.Context(), businessID, start, end, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "charges", charges, total, params.Page, params.Limit))
}

// DeleteCharge handles DELETE /charges/:id
// @Summary      Delete charge
// @Description  Removes an unbilled charge. Invoiced charges are immutable
// @Tags         charges
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Charge ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /charges/{id} [delete]
func (h *ChargeHandler) DeleteCharge(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.chargeService.DeleteCharge(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Charge deleted"))
}

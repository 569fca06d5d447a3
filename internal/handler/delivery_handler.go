package handler

import (
	"net/http"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/pagination"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *DeliveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	deliveries := router.Group("/deliveries")
	{
		deliveries.POST("", middleware.RequireAnyPermission("deliveries.create", "create_delivery"), h.CreateDelivery)
		deliveries.GET("", middleware.RequireAnyPermission("deliveries.view", "view_own_deliveries"), h.ListDeliveries)
		deliveries.GET("/assigned", middleware.RequirePermission("deliveries.view_assigned"), h.ListAssignedDeliveries)
		deliveries.GET("/:id", middleware.RequireAnyPermission("deliveries.view", "deliveries.view_assigned", "view_own_deliveries"), h.GetDelivery)
		deliveries.GET("/:id/events", middleware.RequireAnyPermission("deliveries.view", "deliveries.view_assigned", "view_own_deliveries"), h.ListDeliveryEvents)
		deliveries.POST("/:id/confirm", middleware.RequirePermission("deliveries.confirm"), h.ConfirmDelivery)
		deliveries.POST("/:id/reject", middleware.RequirePermission("deliveries.confirm"), h.RejectDelivery)
		deliveries.POST("/:id/assign", middleware.RequirePermission("deliveries.assign"), h.AssignRider)
		deliveries.POST("/:id/status", middleware.RequirePermission("deliveries.update_status"), h.UpdateStatus)
		deliveries.PUT("/:id/fee", middleware.RequirePermission("deliveries.edit_fee"), h.UpdateFee)
		deliveries.DELETE("/:id", middleware.RequirePermission("deliveries.delete"), h.DeleteDelivery)
	}
}

// CreateDelivery handles POST /deliveries
// @Summary      Create delivery
// @Description  Creates a delivery order. BUSINESS accounts always order for themselves; staff pass a business_id or leave it open
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateDeliveryRequest  true  "Delivery Payload"
// @Success      201      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Router       /deliveries [post]
func (h *DeliveryHandler) CreateDelivery(c *gin.Context) {
	var req service.CreateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.CreateDelivery(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, delivery))
}

// ListDeliveries handles GET /deliveries
// @Summary      List deliveries
// @Description  Paginated delivery list. BUSINESS accounts only see their own deliveries regardless of filters
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        business_id  query     string  false  "Filter by business"
// @Param        rider_id     query     string  false  "Filter by assigned rider"
// @Param        start_date   query     string  false  "Created from (RFC3339)"
// @Param        end_date     query     string  false  "Created until (RFC3339)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	params := pagination.Parse(c)
	query := service.ListDeliveriesQuery{
		Status:     c.Query("status"),
		BusinessID: c.Query("business_id"),
		RiderID:    c.Query("rider_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	}
	if raw := c.Query("start_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			query.StartDate = &t
		}
	}
	if raw := c.Query("end_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			query.EndDate = &t
		}
	}

	deliveries, total, err := h.deliveryService.ListDeliveries(c.Request.Context(), query, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "deliveries", deliveries, total, params.Page, params.Limit))
}

// ListAssignedDeliveries handles GET /deliveries/assigned for riders
// @Summary      List my assigned deliveries
// @Description  Paginated list of deliveries assigned to the calling rider
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /deliveries/assigned [get]
func (h *DeliveryHandler) ListAssignedDeliveries(c *gin.Context) {
	params := pagination.Parse(c)
	actor := actorFromContext(c)
	query := service.ListDeliveriesQuery{
		Status:  c.Query("status"),
		RiderID: actor.ID.String(),
		Page:    params.Page,
		Limit:   params.Limit,
	}

	deliveries, total, err := h.deliveryService.ListDeliveries(c.Request.Context(), query, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "deliveries", deliveries, total, params.Page, params.Limit))
}

// GetDelivery handles GET /deliveries/:id
// @Summary      Get delivery
// @Description  Fetch a delivery with its business and rider. Non-staff callers only reach their own deliveries
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  response.Response{data=model.Delivery}
// @Failure      404  {object}  response.Response
// @Router       /deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// ListDeliveryEvents handles GET /deliveries/:id/events
// @Summary      Delivery timeline
// @Description  Returns the append-only status event history of a delivery
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  response.Response{data=[]model.DeliveryEvent}
// @Failure      404  {object}  response.Response
// @Router       /deliveries/{id}/events [get]
func (h *DeliveryHandler) ListDeliveryEvents(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	events, err := h.deliveryService.ListDeliveryEvents(c.Request.Context(), id, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, events))
}

// ConfirmDelivery handles POST /deliveries/:id/confirm
// @Summary      Confirm pending delivery
// @Description  Moves a PENDING_CONFIRMATION delivery to CREATED (or ASSIGNED when a rider is given), attaching a business and resolving the fee
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Delivery ID"
// @Param        payload  body      service.ConfirmDeliveryRequest  true  "Confirmation Payload"
// @Success      200      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /deliveries/{id}/confirm [post]
func (h *DeliveryHandler) ConfirmDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.ConfirmDelivery(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// RejectDelivery handles POST /deliveries/:id/reject
// @Summary      Reject pending delivery
// @Description  Moves a PENDING_CONFIRMATION delivery to REJECTED
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true   "Delivery ID"
// @Param        payload  body      service.UpdateStatusRequest  false  "Optional note"
// @Success      200      {object}  response.Response{data=model.Delivery}
// @Failure      409      {object}  response.Response
// @Router       /deliveries/{id}/reject [post]
func (h *DeliveryHandler) RejectDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var body struct {
		Note string `json:"note"`
	}
	_ = c.ShouldBindJSON(&body)

	delivery, err := h.deliveryService.RejectDelivery(c.Request.Context(), id, body.Note, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// AssignRider handles POST /deliveries/:id/assign
// @Summary      Assign rider
// @Description  Assigns an active rider to a CREATED delivery
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "Delivery ID"
// @Param        payload  body      service.AssignRiderRequest  true  "Assignment Payload"
// @Success      200      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /deliveries/{id}/assign [post]
func (h *DeliveryHandler) AssignRider(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.AssignRider(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// UpdateStatus handles POST /deliveries/:id/status
// @Summary      Update delivery status
// @Description  Walks the delivery one step through the status table. Riders may only move their own deliveries through the rider subset
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Delivery ID"
// @Param        payload  body      service.UpdateStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /deliveries/{id}/status [post]
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.UpdateStatus(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// UpdateFee handles PUT /deliveries/:id/fee
// @Summary      Override delivery fee
// @Description  Sets the delivery fee. Amounts already billed on invoices are not touched
// @Tags         deliveries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                    true  "Delivery ID"
// @Param        payload  body      service.UpdateFeeRequest  true  "Fee Payload"
// @Success      200      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Router       /deliveries/{id}/fee [put]
func (h *DeliveryHandler) UpdateFee(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.UpdateFee(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// DeleteDelivery handles DELETE /deliveries/:id
// @Summary      Delete delivery
// @Description  Hard-deletes a delivery with its charges and event history
// @Tags         deliveries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /deliveries/{id} [delete]
func (h *DeliveryHandler) DeleteDelivery(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), id, actorFromContext(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Delivery deleted"))
}

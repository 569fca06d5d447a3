package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"
	"github.com/mageuzialbert/skymap-courier/pkg/pagination"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/invoices")
	{
		invoices.GET("", middleware.RequireAnyPermission("invoices.view", "view_own_invoices"), h.ListInvoices)
		invoices.GET("/:id", middleware.RequireAnyPermission("invoices.view", "view_own_invoices"), h.GetInvoice)
		invoices.POST("", middleware.RequirePermission("invoices.create"), h.CreateInvoice)
		invoices.PUT("/:id/status", middleware.RequirePermission("invoices.edit"), h.UpdateInvoiceStatus)
		invoices.POST("/:id/convert", middleware.RequirePermission("invoices.edit"), h.ConvertProforma)
		// Deleting issued documents stays admin-only
		invoices.DELETE("/:id", middleware.RequireRole(permission.RoleAdmin), h.DeleteInvoice)
	}
}

// CreateInvoice handles POST /invoices
// @Summary      Create invoice
// @Description  Bills all outstanding charges and delivered-unbilled deliveries of a business in the period
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateInvoiceRequest  true  "Invoice Payload"
// @Success      201      {object}  response.Response{data=model.Invoice}
// @Failure      400      {object}  response.Response
// @Router       /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req service.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// ListInvoices handles GET /invoices
// @Summary      List invoices
// @Description  Paginated invoice list. BUSINESS accounts only see their own invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        business_id  query     string  false  "Filter by business"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)
	actor := actorFromContext(c)

	var businessID *uuid.UUID
	if raw := c.Query("business_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, apperrors.NewValidation("invalid business_id"))
			return
		}
		businessID = &id
	}
	// BUSINESS accounts are pinned to their own invoices
	if actor.Role == permission.RoleBusiness {
		if actor.BusinessID == nil {
			respondError(c, apperrors.NewValidation("business account has no business attached"))
			return
		}
		businessID = actor.BusinessID
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Query("status"), businessID, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "invoices", invoices, total, params.Page, params.Limit))
}

// GetInvoice handles GET /invoices/:id
// @Summary      Get invoice
// @Description  Fetch an invoice with its line items
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      404  {object}  response.Response
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	// Scope check for BUSINESS accounts
	actor := actorFromContext(c)
	if actor.Role == permission.RoleBusiness {
		if actor.BusinessID == nil || invoice.BusinessID != *actor.BusinessID {
			respondError(c, apperrors.NewOwnership("invoice does not belong to this account"))
			return
		}
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// UpdateInvoiceStatus handles PUT /invoices/:id/status
// @Summary      Update invoice status
// @Description  Moves an invoice through its lifecycle (DRAFT → SENT → PAID, CANCELLED)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                              true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=model.Invoice}
// @Failure      409      {object}  response.Response
// @Router       /invoices/{id}/status [put]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// ConvertProforma handles POST /invoices/:id/convert
// @Summary      Convert proforma
// @Description  Turns a proforma into a draft invoice under a fresh invoice number
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=model.Invoice}
// @Failure      409  {object}  response.Response
// @Router       /invoices/{id}/convert [post]
func (h *InvoiceHandler) ConvertProforma(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	invoice, err := h.invoiceService.ConvertProforma(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice handles DELETE /invoices/:id
// @Summary      Delete invoice
// @Description  Removes a non-paid invoice, releasing its charges back to the unbilled pool
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Invoice deleted"))
}

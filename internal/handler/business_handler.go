package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/pagination"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *BusinessHandler) RegisterRoutes(router *gin.RouterGroup) {
	businesses := router.Group("/businesses")
	{
		businesses.GET("", middleware.RequirePermission("businesses.view"), h.ListBusinesses)
		businesses.GET("/:id", middleware.RequirePermission("businesses.view"), h.GetBusiness)
		businesses.POST("", middleware.RequirePermission("businesses.create"), h.CreateBusiness)
		businesses.PUT("/:id", middleware.RequirePermission("businesses.edit"), h.UpdateBusiness)
		businesses.DELETE("/:id", middleware.RequirePermission("businesses.delete"), h.DeleteBusiness)
	}
}

// CreateBusiness handles POST /businesses
// @Summary      Create business
// @Description  Registers a business client, optionally with a custom fee or fee package
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBusinessRequest  true  "Business Payload"
// @Success      201      {object}  response.Response{data=model.Business}
// @Failure      400      {object}  response.Response
// @Router       /businesses [post]
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	var req service.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, business))
}

// ListBusinesses handles GET /businesses
// @Summary      List businesses
// @Description  Paginated business list
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active businesses"
// @Param        page    query     int   false  "Page number (default 1)"
// @Param        limit   query     int   false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /businesses [get]
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	params := pagination.Parse(c)
	activeOnly := c.Query("active") == "true"

	businesses, total, err := h.businessService.ListBusinesses(c.Request.Context(), activeOnly, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "businesses", businesses, total, params.Page, params.Limit))
}

// GetBusiness handles GET /businesses/:id
// @Summary      Get business
// @Description  Fetch a business with its fee package
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  response.Response{data=model.Business}
// @Failure      404  {object}  response.Response
// @Router       /businesses/{id} [get]
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	business, err := h.businessService.GetBusiness(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

// UpdateBusiness handles PUT /businesses/:id
// @Summary      Update business
// @Description  Updates business details, fee setup and active flag
// @Tags         businesses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Business ID"
// @Param        payload  body      service.UpdateBusinessRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=model.Business}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /businesses/{id} [put]
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, business))
}

// DeleteBusiness handles DELETE /businesses/:id
// @Summary      Delete business
// @Description  Soft-deletes a business
// @Tags         businesses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Business ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /businesses/{id} [delete]
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.businessService.DeleteBusiness(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Business deleted"))
}

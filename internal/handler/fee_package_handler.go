package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type FeePackageHandler struct {
	packageService service.FeePackageService
}

func NewFeePackageHandler(packageService service.FeePackageService) *FeePackageHandler {
	return &FeePackageHandler{packageService: packageService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *FeePackageHandler) RegisterRoutes(router *gin.RouterGroup) {
	packages := router.Group("/fee-packages")
	{
		packages.GET("", middleware.RequirePermission("delivery_packages.view"), h.ListFeePackages)
		packages.GET("/:id", middleware.RequirePermission("delivery_packages.view"), h.GetFeePackage)
		packages.POST("", middleware.RequirePermission("delivery_packages.manage"), h.CreateFeePackage)
		packages.PUT("/:id", middleware.RequirePermission("delivery_packages.manage"), h.UpdateFeePackage)
		packages.POST("/:id/default", middleware.RequirePermission("delivery_packages.manage"), h.SetDefaultFeePackage)
		packages.DELETE("/:id", middleware.RequirePermission("delivery_packages.manage"), h.DeleteFeePackage)
	}
}

// CreateFeePackage handles POST /fee-packages
// @Summary      Create fee package
// @Description  Creates a per-delivery pricing tier
// @Tags         fee-packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateFeePackageRequest  true  "Fee Package Payload"
// @Success      201      {object}  response.Response{data=model.DeliveryFeePackage}
// @Failure      400      {object}  response.Response
// @Router       /fee-packages [post]
func (h *FeePackageHandler) CreateFeePackage(c *gin.Context) {
	var req service.CreateFeePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pkg, err := h.packageService.CreateFeePackage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pkg))
}

// ListFeePackages handles GET /fee-packages
// @Summary      List fee packages
// @Tags         fee-packages
// @Produce      json
// @Security     BearerAuth
// @Param        active  query     bool  false  "Only active packages"
// @Success      200     {object}  response.Response{data=[]model.DeliveryFeePackage}
// @Router       /fee-packages [get]
func (h *FeePackageHandler) ListFeePackages(c *gin.Context) {
	packages, err := h.packageService.ListFeePackages(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, packages))
}

// GetFeePackage handles GET /fee-packages/:id
// @Summary      Get fee package
// @Tags         fee-packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=model.DeliveryFeePackage}
// @Failure      404  {object}  response.Response
// @Router       /fee-packages/{id} [get]
func (h *FeePackageHandler) GetFeePackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	pkg, err := h.packageService.GetFeePackage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// UpdateFeePackage handles PUT /fee-packages/:id
// @Summary      Update fee package
// @Tags         fee-packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Package ID"
// @Param        payload  body      service.UpdateFeePackageRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=model.DeliveryFeePackage}
// @Failure      400      {object}  response.Response
// @Router       /fee-packages/{id} [put]
func (h *FeePackageHandler) UpdateFeePackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateFeePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pkg, err := h.packageService.UpdateFeePackage(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// SetDefaultFeePackage handles POST /fee-packages/:id/default
// @Summary      Set default fee package
// @Description  Makes this package the single default, clearing any previous one
// @Tags         fee-packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=model.DeliveryFeePackage}
// @Failure      400  {object}  response.Response
// @Router       /fee-packages/{id}/default [post]
func (h *FeePackageHandler) SetDefaultFeePackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	pkg, err := h.packageService.SetDefaultFeePackage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// DeleteFeePackage handles DELETE /fee-packages/:id
// @Summary      Delete fee package
// @Tags         fee-packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /fee-packages/{id} [delete]
func (h *FeePackageHandler) DeleteFeePackage(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.packageService.DeleteFeePackage(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Fee package deleted"))
}

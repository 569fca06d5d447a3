package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	permService service.PermissionService
}

func NewPermissionHandler(permService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permService: permService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/permissions/catalog", middleware.RequirePermission("users.view"), h.GetCatalog)

	users := router.Group("/users")
	{
		users.GET("/:id/permissions", middleware.RequirePermission("users.view"), h.GetUserPermissions)
		users.PUT("/:id/permissions", middleware.RequirePermission("users.edit"), h.ReplaceUserPermissions)
		users.POST("/:id/permissions/preset", middleware.RequirePermission("users.edit"), h.ApplyPreset)
	}
}

// GetCatalog handles GET /permissions/catalog
// @Summary      Permission catalog
// @Description  Returns every configurable permission module and action
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]permission.Module}
// @Router       /permissions/catalog [get]
func (h *PermissionHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.permService.GetCatalog(c.Request.Context())))
}

// GetUserPermissions handles GET /users/:id/permissions
// @Summary      Get a user's grants
// @Description  Returns the persisted grant set for a user
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=service.UserPermissionsResponse}
// @Failure      404  {object}  response.Response
// @Router       /users/{id}/permissions [get]
func (h *PermissionHandler) GetUserPermissions(c *gin.Context) {
	res, err := h.permService.GetUserPermissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ReplaceUserPermissions handles PUT /users/:id/permissions
// @Summary      Replace a user's grants
// @Description  Sanitizes the submitted permission set against the catalog and replaces the user's grants atomically
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "User ID"
// @Param        payload  body      service.ReplacePermissionsRequest  true  "Permission Set"
// @Success      200      {object}  response.Response{data=service.UserPermissionsResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /users/{id}/permissions [put]
func (h *PermissionHandler) ReplaceUserPermissions(c *gin.Context) {
	var req service.ReplacePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.permService.ReplaceUserPermissions(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearGrantCache(c.Param("id"))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// ApplyPreset handles POST /users/:id/permissions/preset
// @Summary      Apply a permission preset
// @Description  Replaces the user's grants with a named preset (full, default, view_only)
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                      true  "User ID"
// @Param        payload  body      service.ApplyPresetRequest  true  "Preset Name"
// @Success      200      {object}  response.Response{data=service.UserPermissionsResponse}
// @Failure      400      {object}  response.Response
// @Router       /users/{id}/permissions/preset [post]
func (h *PermissionHandler) ApplyPreset(c *gin.Context) {
	var req service.ApplyPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	res, err := h.permService.ApplyPreset(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.ClearGrantCache(c.Param("id"))
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type CMSHandler struct {
	cmsService service.CMSService
}

func NewCMSHandler(cmsService service.CMSService) *CMSHandler {
	return &CMSHandler{cmsService: cmsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *CMSHandler) RegisterRoutes(router *gin.RouterGroup) {
	sliders := router.Group("/cms/sliders")
	{
		sliders.GET("", middleware.RequirePermission("cms_sliders.view"), h.ListSliders)
		sliders.POST("", middleware.RequirePermission("cms_sliders.manage"), h.CreateSlider)
		sliders.PUT("/:id", middleware.RequirePermission("cms_sliders.manage"), h.UpdateSlider)
		sliders.DELETE("/:id", middleware.RequirePermission("cms_sliders.manage"), h.DeleteSlider)
	}

	content := router.Group("/cms/content")
	{
		content.GET("", middleware.RequirePermission("cms_content.view"), h.ListContentBlocks)
		content.POST("", middleware.RequirePermission("cms_content.manage"), h.CreateContentBlock)
		content.PUT("/:id", middleware.RequirePermission("cms_content.manage"), h.UpdateContentBlock)
		content.DELETE("/:id", middleware.RequirePermission("cms_content.manage"), h.DeleteContentBlock)
	}
}

// CreateSlider handles POST /cms/sliders
// @Summary      Create slider
// @Tags         cms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.SliderRequest  true  "Slider Payload"
// @Success      201      {object}  response.Response{data=model.Slider}
// @Failure      400      {object}  response.Response
// @Router       /cms/sliders [post]
func (h *CMSHandler) CreateSlider(c *gin.Context) {
	var req service.SliderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	slider, err := h.cmsService.CreateSlider(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, slider))
}

// ListSliders handles GET /cms/sliders
// @Summary      List sliders
// @Description  All sliders including inactive ones, ordered by sort order
// @Tags         cms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.Slider}
// @Router       /cms/sliders [get]
func (h *CMSHandler) ListSliders(c *gin.Context) {
	sliders, err := h.cmsService.ListSliders(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sliders))
}

// UpdateSlider handles PUT /cms/sliders/:id
// @Summary      Update slider
// @Tags         cms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                 true  "Slider ID"
// @Param        payload  body      service.SliderRequest  true  "Slider Payload"
// @Success      200      {object}  response.Response{data=model.Slider}
// @Failure      404      {object}  response.Response
// @Router       /cms/sliders/{id} [put]
func (h *CMSHandler) UpdateSlider(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.SliderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	slider, err := h.cmsService.UpdateSlider(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, slider))
}

// DeleteSlider handles DELETE /cms/sliders/:id
// @Summary      Delete slider
// @Tags         cms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Slider ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /cms/sliders/{id} [delete]
func (h *CMSHandler) DeleteSlider(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.cmsService.DeleteSlider(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Slider deleted"))
}

// CreateContentBlock handles POST /cms/content
// @Summary      Create content block
// @Tags         cms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ContentBlockRequest  true  "Content Block Payload"
// @Success      201      {object}  response.Response{data=model.ContentBlock}
// @Failure      409      {object}  response.Response
// @Router       /cms/content [post]
func (h *CMSHandler) CreateContentBlock(c *gin.Context) {
	var req service.ContentBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	block, err := h.cmsService.CreateContentBlock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, block))
}

// ListContentBlocks handles GET /cms/content
// @Summary      List content blocks
// @Tags         cms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.ContentBlock}
// @Router       /cms/content [get]
func (h *CMSHandler) ListContentBlocks(c *gin.Context) {
	blocks, err := h.cmsService.ListContentBlocks(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, blocks))
}

// UpdateContentBlock handles PUT /cms/content/:id
// @Summary      Update content block
// @Tags         cms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Content Block ID"
// @Param        payload  body      service.ContentBlockRequest  true  "Content Block Payload"
// @Success      200      {object}  response.Response{data=model.ContentBlock}
// @Failure      404      {object}  response.Response
// @Router       /cms/content/{id} [put]
func (h *CMSHandler) UpdateContentBlock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.ContentBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	block, err := h.cmsService.UpdateContentBlock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, block))
}

// DeleteContentBlock handles DELETE /cms/content/:id
// @Summary      Delete content block
// @Tags         cms
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Content Block ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /cms/content/{id} [delete]
func (h *CMSHandler) DeleteContentBlock(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.cmsService.DeleteContentBlock(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Content block deleted"))
}

package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves the unauthenticated landing-page surface: the
// quick-order form plus read-only CMS and payment content.
type PublicHandler struct {
	deliveryService service.DeliveryService
	cmsService      service.CMSService
	settingsService service.SettingsService
}

func NewPublicHandler(deliveryService service.DeliveryService, cmsService service.CMSService, settingsService service.SettingsService) *PublicHandler {
	return &PublicHandler{
		deliveryService: deliveryService,
		cmsService:      cmsService,
		settingsService: settingsService,
	}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *PublicHandler) RegisterRoutes(router *gin.RouterGroup) {
	public := router.Group("/public")
	{
		public.POST("/quick-order", h.CreateQuickOrder)
		public.GET("/sliders", h.ListSliders)
		public.GET("/content/:key", h.GetContentBlock)
		public.GET("/payment-instructions", h.ListPaymentInstructions)
		public.GET("/company-profile", h.GetCompanyProfile)
	}
}

// CreateQuickOrder handles POST /public/quick-order
// @Summary      Public quick order
// @Description  Creates a delivery in PENDING_CONFIRMATION without authentication. Staff confirm it later, attaching a business and fee
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        payload  body      service.QuickOrderRequest  true  "Quick Order Payload"
// @Success      201      {object}  response.Response{data=model.Delivery}
// @Failure      400      {object}  response.Response
// @Router       /public/quick-order [post]
func (h *PublicHandler) CreateQuickOrder(c *gin.Context) {
	var req service.QuickOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.CreateQuickOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, delivery))
}

// ListSliders handles GET /public/sliders
// @Summary      Landing page sliders
// @Description  Returns active sliders for the public landing page
// @Tags         public
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Slider}
// @Router       /public/sliders [get]
func (h *PublicHandler) ListSliders(c *gin.Context) {
	sliders, err := h.cmsService.ListSliders(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sliders))
}

// GetContentBlock handles GET /public/content/:key
// @Summary      Public content block
// @Description  Returns one content block by key (about, terms, faq...)
// @Tags         public
// @Produce      json
// @Param        key  path      string  true  "Content Key"
// @Success      200  {object}  response.Response{data=model.ContentBlock}
// @Failure      404  {object}  response.Response
// @Router       /public/content/{key} [get]
func (h *PublicHandler) GetContentBlock(c *gin.Context) {
	block, err := h.cmsService.GetContentBlockByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !block.Active {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "content block not found"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, block))
}

// ListPaymentInstructions handles GET /public/payment-instructions
// @Summary      Payment instructions
// @Description  Returns active payment instructions for settling invoices
// @Tags         public
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.PaymentInstruction}
// @Router       /public/payment-instructions [get]
func (h *PublicHandler) ListPaymentInstructions(c *gin.Context) {
	instructions, err := h.settingsService.ListPaymentInstructions(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, instructions))
}

// GetCompanyProfile handles GET /public/company-profile
// @Summary      Company profile
// @Description  Returns the platform's public company details
// @Tags         public
// @Produce      json
// @Success      200  {object}  response.Response{data=model.CompanyProfile}
// @Router       /public/company-profile [get]
func (h *PublicHandler) GetCompanyProfile(c *gin.Context) {
	profile, err := h.settingsService.GetCompanyProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

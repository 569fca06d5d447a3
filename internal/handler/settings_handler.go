package handler

import (
	"net/http"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	settingsService service.SettingsService
}

func NewSettingsHandler(settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/company-profile")
	{
		profile.GET("", middleware.RequirePermission("company_profile.view"), h.GetCompanyProfile)
		profile.PUT("", middleware.RequirePermission("company_profile.edit"), h.UpdateCompanyProfile)
	}

	instructions := router.Group("/payment-instructions")
	{
		instructions.GET("", middleware.RequirePermission("payment_instructions.view"), h.ListPaymentInstructions)
		instructions.POST("", middleware.RequirePermission("payment_instructions.manage"), h.CreatePaymentInstruction)
		instructions.PUT("/:id", middleware.RequirePermission("payment_instructions.manage"), h.UpdatePaymentInstruction)
		instructions.DELETE("/:id", middleware.RequirePermission("payment_instructions.manage"), h.DeletePaymentInstruction)
	}
}

// GetCompanyProfile handles GET /company-profile
// @Summary      Get company profile
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.CompanyProfile}
// @Router       /company-profile [get]
func (h *SettingsHandler) GetCompanyProfile(c *gin.Context) {
	profile, err := h.settingsService.GetCompanyProfile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// UpdateCompanyProfile handles PUT /company-profile
// @Summary      Update company profile
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CompanyProfileRequest  true  "Company Profile Payload"
// @Success      200      {object}  response.Response{data=model.CompanyProfile}
// @Failure      400      {object}  response.Response
// @Router       /company-profile [put]
func (h *SettingsHandler) UpdateCompanyProfile(c *gin.Context) {
	var req service.CompanyProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.settingsService.UpdateCompanyProfile(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// CreatePaymentInstruction handles POST /payment-instructions
// @Summary      Create payment instruction
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.PaymentInstructionRequest  true  "Payment Instruction Payload"
// @Success      201      {object}  response.Response{data=model.PaymentInstruction}
// @Failure      400      {object}  response.Response
// @Router       /payment-instructions [post]
func (h *SettingsHandler) CreatePaymentInstruction(c *gin.Context) {
	var req service.PaymentInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	instruction, err := h.settingsService.CreatePaymentInstruction(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, instruction))
}

// ListPaymentInstructions handles GET /payment-instructions
// @Summary      List payment instructions
// @Description  All payment instructions including inactive ones
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.PaymentInstruction}
// @Router       /payment-instructions [get]
func (h *SettingsHandler) ListPaymentInstructions(c *gin.Context) {
	instructions, err := h.settingsService.ListPaymentInstructions(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, instructions))
}

// UpdatePaymentInstruction handles PUT /payment-instructions/:id
// @Summary      Update payment instruction
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                             true  "Payment Instruction ID"
// @Param        payload  body      service.PaymentInstructionRequest  true  "Payment Instruction Payload"
// @Success      200      {object}  response.Response{data=model.PaymentInstruction}
// @Failure      404      {object}  response.Response
// @Router       /payment-instructions/{id} [put]
func (h *SettingsHandler) UpdatePaymentInstruction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.PaymentInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	instruction, err := h.settingsService.UpdatePaymentInstruction(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, instruction))
}

// DeletePaymentInstruction handles DELETE /payment-instructions/:id
// @Summary      Delete payment instruction
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment Instruction ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /payment-instructions/{id} [delete]
func (h *SettingsHandler) DeletePaymentInstruction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.settingsService.DeletePaymentInstruction(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Payment instruction deleted"))
}

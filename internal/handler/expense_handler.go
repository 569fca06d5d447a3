package handler

import (
	"net/http"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/middleware"
	"github.com/mageuzialbert/skymap-courier/internal/service"
	"github.com/mageuzialbert/skymap-courier/pkg/pagination"
	"github.com/mageuzialbert/skymap-courier/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/expenses")
	{
		expenses.GET("", middleware.RequirePermission("expenses.view"), h.ListExpenses)
		expenses.GET("/:id", middleware.RequirePermission("expenses.view"), h.GetExpense)
		expenses.POST("", middleware.RequirePermission("expenses.create"), h.CreateExpense)
		expenses.PUT("/:id", middleware.RequirePermission("expenses.edit"), h.UpdateExpense)
		expenses.DELETE("/:id", middleware.RequirePermission("expenses.delete"), h.DeleteExpense)
	}

	categories := router.Group("/expense-categories")
	{
		categories.GET("", middleware.RequirePermission("expense_categories.view"), h.ListCategories)
		categories.POST("", middleware.RequirePermission("expense_categories.manage"), h.CreateCategory)
		categories.PUT("/:id", middleware.RequirePermission("expense_categories.manage"), h.UpdateCategory)
		categories.DELETE("/:id", middleware.RequirePermission("expense_categories.manage"), h.DeleteCategory)
	}
}

// CreateExpense handles POST /expenses
// @Summary      Create expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateExpenseRequest  true  "Expense Payload"
// @Success      201      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), req, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// ListExpenses handles GET /expenses
// @Summary      List expenses
// @Description  Paginated expenses within a date range, optionally filtered by category
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        category_id  query     string  false  "Filter by category"
// @Param        start_date   query     string  false  "From (RFC3339, default 30 days ago)"
// @Param        end_date     query     string  false  "Until (RFC3339, default now)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Router       /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	params := pagination.Parse(c)

	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			categoryID = &id
		}
	}

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

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), categoryID, start, end, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, "expenses", expenses, total, params.Page, params.Limit))
}

// GetExpense handles GET /expenses/:id
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response{data=model.Expense}
// @Failure      404  {object}  response.Response
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// UpdateExpense handles PUT /expenses/:id
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true  "Expense ID"
// @Param        payload  body      service.UpdateExpenseRequest  true  "Update Payload"
// @Success      200      {object}  response.Response{data=model.Expense}
// @Failure      400      {object}  response.Response
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// DeleteExpense handles DELETE /expenses/:id
// @Summary      Delete expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteExpense(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Expense deleted"))
}

// CreateCategory handles POST /expense-categories
// @Summary      Create expense category
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.ExpenseCategoryRequest  true  "Category Payload"
// @Success      201      {object}  response.Response{data=model.ExpenseCategory}
// @Failure      400      {object}  response.Response
// @Router       /expense-categories [post]
func (h *ExpenseHandler) CreateCategory(c *gin.Context) {
	var req service.ExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.expenseService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

// ListCategories handles GET /expense-categories
// @Summary      List expense categories
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.ExpenseCategory}
// @Router       /expense-categories [get]
func (h *ExpenseHandler) ListCategories(c *gin.Context) {
	categories, err := h.expenseService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

// UpdateCategory handles PUT /expense-categories/:id
// @Summary      Update expense category
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                          true  "Category ID"
// @Param        payload  body      service.ExpenseCategoryRequest  true  "Category Payload"
// @Success      200      {object}  response.Response{data=model.ExpenseCategory}
// @Failure      404      {object}  response.Response
// @Router       /expense-categories/{id} [put]
func (h *ExpenseHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.ExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.expenseService.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

// DeleteCategory handles DELETE /expense-categories/:id
// @Summary      Delete expense category
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /expense-categories/{id} [delete]
func (h *ExpenseHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.expenseService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Expense category deleted"))
}

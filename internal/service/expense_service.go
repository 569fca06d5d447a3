package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateExpenseRequest struct {
	CategoryID  string          `json:"category_id" binding:"required,uuid"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	IncurredOn  time.Time       `json:"incurred_on" binding:"required"`
}

type UpdateExpenseRequest struct {
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	IncurredOn  *time.Time       `json:"incurred_on"`
}

type ExpenseCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// --- Interface ---

type ExpenseService interface {
	CreateExpense(ctx context.Context, req CreateExpenseRequest, actorID *uuid.UUID) (*model.Expense, error)
	GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	ListExpenses(ctx context.Context, categoryID *uuid.UUID, start, end time.Time, page, limit int) ([]model.Expense, int64, error)
	UpdateExpense(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, req ExpenseCategoryRequest) (*model.ExpenseCategory, error)
	ListCategories(ctx context.Context) ([]model.ExpenseCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req ExpenseCategoryRequest) (*model.ExpenseCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type expenseService struct {
	expenseRepo  repository.ExpenseRepository
	categoryRepo repository.ExpenseCategoryRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository, categoryRepo repository.ExpenseCategoryRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo, categoryRepo: categoryRepo}
}

// --- Implementation ---

func (s *expenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest, actorID *uuid.UUID) (*model.Expense, error) {
	if req.Amount.IsNegative() {
		return nil, apperrors.NewValidation("expense amount must not be negative")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid category_id")
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, apperrors.NewNotFound("expense category")
	}

	expense := &model.Expense{
		CategoryID:  categoryID,
		Amount:      req.Amount,
		Description: req.Description,
		IncurredOn:  req.IncurredOn,
		CreatedBy:   actorID,
	}
	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("expense")
	}
	return expense, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, categoryID *uuid.UUID, start, end time.Time, page, limit int) ([]model.Expense, int64, error) {
	return s.expenseRepo.List(ctx, categoryID, start, end, page, limit)
}

func (s *expenseService) UpdateExpense(ctx context.Context, id uuid.UUID, req UpdateExpenseRequest) (*model.Expense, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("expense")
	}

	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid category_id")
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, apperrors.NewNotFound("expense category")
		}
		expense.CategoryID = categoryID
	}
	if req.Amount != nil {
		if req.Amount.IsNegative() {
			return nil, apperrors.NewValidation("expense amount must not be negative")
		}
		expense.Amount = *req.Amount
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.IncurredOn != nil {
		expense.IncurredOn = *req.IncurredOn
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if _, err := s.expenseRepo.FindByID(ctx, id); err != nil {
		return apperrors.NewNotFound("expense")
	}
	if err := s.expenseRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func (s *expenseService) CreateCategory(ctx context.Context, req ExpenseCategoryRequest) (*model.ExpenseCategory, error) {
	category := &model.ExpenseCategory{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create expense category: %w", err)
	}
	return category, nil
}

func (s *expenseService) ListCategories(ctx context.Context) ([]model.ExpenseCategory, error) {
	return s.categoryRepo.List(ctx)
}

func (s *expenseService) UpdateCategory(ctx context.Context, id uuid.UUID, req ExpenseCategoryRequest) (*model.ExpenseCategory, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("expense category")
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update expense category: %w", err)
	}
	return category, nil
}

func (s *expenseService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return apperrors.NewNotFound("expense category")
	}
	// Expenses keep their category_id; the category is only soft-deleted.
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense category: %w", err)
	}
	return nil
}

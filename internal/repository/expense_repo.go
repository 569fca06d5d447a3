package repository

import (
	"context"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, categoryID *uuid.UUID, start, end time.Time, page, limit int) ([]model.Expense, int64, error)
	Update(ctx context.Context, expense *model.Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Category").First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, categoryID *uuid.UUID, start, end time.Time, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		q = q.Where("incurred_on >= ? AND incurred_on <= ?", start, end)
		if categoryID != nil {
			q = q.Where("category_id = ?", *categoryID)
		}
		return q
	}

	if err := apply(db.Model(&model.Expense{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := apply(db.Preload("Category")).
		Order("incurred_on DESC").
		Offset(offset).Limit(limit).
		Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Expense{}, "id = ?", id).Error
}

// ExpenseCategoryRepository manages the category reference data.
type ExpenseCategoryRepository interface {
	Create(ctx context.Context, category *model.ExpenseCategory) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseCategory, error)
	List(ctx context.Context) ([]model.ExpenseCategory, error)
	Update(ctx context.Context, category *model.ExpenseCategory) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type expenseCategoryRepository struct {
	db *gorm.DB
}

func NewExpenseCategoryRepository(db *gorm.DB) ExpenseCategoryRepository {
	return &expenseCategoryRepository{db: db}
}

func (r *expenseCategoryRepository) Create(ctx context.Context, category *model.ExpenseCategory) error {
	return GetDB(ctx, r.db).Create(category).Error
}

func (r *expenseCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ExpenseCategory, error) {
	var category model.ExpenseCategory
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *expenseCategoryRepository) List(ctx context.Context) ([]model.ExpenseCategory, error) {
	var categories []model.ExpenseCategory
	if err := GetDB(ctx, r.db).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *expenseCategoryRepository) Update(ctx context.Context, category *model.ExpenseCategory) error {
	return GetDB(ctx, r.db).Save(category).Error
}

func (r *expenseCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.ExpenseCategory{}, "id = ?", id).Error
}

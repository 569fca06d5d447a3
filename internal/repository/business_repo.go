package repository

import (
	"context"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BusinessRepository interface {
	Create(ctx context.Context, business *model.Business) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error)
	// FindByIDWithPackage preloads the fee package for fee resolution.
	FindByIDWithPackage(ctx context.Context, id uuid.UUID) (*model.Business, error)
	List(ctx context.Context, activeOnly bool, page, limit int) ([]model.Business, int64, error)
	Update(ctx context.Context, business *model.Business) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Create(business).Error
}

func (r *businessRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := GetDB(ctx, r.db).First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) FindByIDWithPackage(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	var business model.Business
	if err := GetDB(ctx, r.db).Preload("Package").First(&business, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) List(ctx context.Context, activeOnly bool, page, limit int) ([]model.Business, int64, error) {
	var businesses []model.Business
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Business{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetch := db.Preload("Package").Order("name ASC")
	if activeOnly {
		fetch = fetch.Where("active = ?", true)
	}
	if err := fetch.Offset(offset).Limit(limit).Find(&businesses).Error; err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}

func (r *businessRepository) Update(ctx context.Context, business *model.Business) error {
	return GetDB(ctx, r.db).Save(business).Error
}

func (r *businessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Business{}, "id = ?", id).Error
}

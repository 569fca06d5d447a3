package repository

import (
	"context"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeePackageRepository interface {
	Create(ctx context.Context, pkg *model.DeliveryFeePackage) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error)
	// FindDefault returns the single active package flagged is_default,
	// or gorm.ErrRecordNotFound when none is configured.
	FindDefault(ctx context.Context) (*model.DeliveryFeePackage, error)
	List(ctx context.Context, activeOnly bool) ([]model.DeliveryFeePackage, error)
	Update(ctx context.Context, pkg *model.DeliveryFeePackage) error
	// SetDefault flags one package as default and clears the flag from
	// every other package in the same transaction.
	SetDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type feePackageRepository struct {
	db *gorm.DB
}

func NewFeePackageRepository(db *gorm.DB) FeePackageRepository {
	return &feePackageRepository{db: db}
}

func (r *feePackageRepository) Create(ctx context.Context, pkg *model.DeliveryFeePackage) error {
	return GetDB(ctx, r.db).Create(pkg).Error
}

func (r *feePackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error) {
	var pkg model.DeliveryFeePackage
	if err := GetDB(ctx, r.db).First(&pkg, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *feePackageRepository) FindDefault(ctx context.Context) (*model.DeliveryFeePackage, error) {
	var pkg model.DeliveryFeePackage
	if err := GetDB(ctx, r.db).
		Where("is_default = ? AND active = ?", true, true).
		First(&pkg).Error; err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (r *feePackageRepository) List(ctx context.Context, activeOnly bool) ([]model.DeliveryFeePackage, error) {
	var pkgs []model.DeliveryFeePackage
	query := GetDB(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&pkgs).Error; err != nil {
		return nil, err
	}
	return pkgs, nil
}

func (r *feePackageRepository) Update(ctx context.Context, pkg *model.DeliveryFeePackage) error {
	return GetDB(ctx, r.db).Save(pkg).Error
}

func (r *feePackageRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.DeliveryFeePackage{}).
			Where("id <> ?", id).
			Update("is_default", false).Error; err != nil {
			return err
		}
		res := tx.Model(&model.DeliveryFeePackage{}).
			Where("id = ?", id).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *feePackageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.DeliveryFeePackage{}, "id = ?", id).Error
}

package repository

import (
	"context"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChargeRepository interface {
	Create(ctx context.Context, charge *model.Charge) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Charge, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, start, end time.Time, page, limit int) ([]model.Charge, int64, error)
	// ListUnbilled returns charges in range not yet attached to an invoice.
	ListUnbilled(ctx context.Context, businessID uuid.UUID, start, end time.Time) ([]model.Charge, error)
	MarkInvoiced(ctx context.Context, chargeIDs []uuid.UUID, invoiceID uuid.UUID) error
	ClearInvoice(ctx context.Context, invoiceID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type chargeRepository struct {
	db *gorm.DB
}

func NewChargeRepository(db *gorm.DB) ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, charge *model.Charge) error {
	return GetDB(ctx, r.db).Create(charge).Error
}

func (r *chargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Charge, error) {
	var charge model.Charge
	if err := GetDB(ctx, r.db).First(&charge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *chargeRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID, start, end time.Time, page, limit int) ([]model.Charge, int64, error) {
	var charges []model.Charge
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Charge{}).
		Where("business_id = ? AND created_at >= ? AND created_at <= ?", businessID, start, end)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Where("business_id = ? AND created_at >= ? AND created_at <= ?", businessID, start, end).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&charges).Error; err != nil {
		return nil, 0, err
	}

	return charges, total, nil
}

func (r *chargeRepository) ListUnbilled(ctx context.Context, businessID uuid.UUID, start, end time.Time) ([]model.Charge, error) {
	var charges []model.Charge
	if err := GetDB(ctx, r.db).
		Where("business_id = ? AND invoice_id IS NULL", businessID).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Order("created_at ASC").
		Find(&charges).Error; err != nil {
		return nil, err
	}
	return charges, nil
}

func (r *chargeRepository) MarkInvoiced(ctx context.Context, chargeIDs []uuid.UUID, invoiceID uuid.UUID) error {
	if len(chargeIDs) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).
		Model(&model.Charge{}).
		Where("id IN ?", chargeIDs).
		Update("invoice_id", invoiceID).Error
}

func (r *chargeRepository) ClearInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return GetDB(ctx, r.db).
		Model(&model.Charge{}).
		Where("invoice_id = ?", invoiceID).
		Update("invoice_id", nil).Error
}

func (r *chargeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Charge{}, "id = ?", id).Error
}

package repository

import (
	"context"
	"errors"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettingsRepository manages the company profile singleton and payment
// instruction rows.
type SettingsRepository interface {
	// GetCompanyProfile returns the single profile row, creating an
	// empty one on first access.
	GetCompanyProfile(ctx context.Context) (*model.CompanyProfile, error)
	UpdateCompanyProfile(ctx context.Context, profile *model.CompanyProfile) error

	CreatePaymentInstruction(ctx context.Context, instr *model.PaymentInstruction) error
	FindPaymentInstruction(ctx context.Context, id uuid.UUID) (*model.PaymentInstruction, error)
	ListPaymentInstructions(ctx context.Context, activeOnly bool) ([]model.PaymentInstruction, error)
	UpdatePaymentInstruction(ctx context.Context, instr *model.PaymentInstruction) error
	DeletePaymentInstruction(ctx context.Context, id uuid.UUID) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetCompanyProfile(ctx context.Context) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := GetDB(ctx, r.db).Order("created_at ASC").First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = model.CompanyProfile{Name: ""}
		if createErr := GetDB(ctx, r.db).Create(&profile).Error; createErr != nil {
			return nil, createErr
		}
		return &profile, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *settingsRepository) UpdateCompanyProfile(ctx context.Context, profile *model.CompanyProfile) error {
	return GetDB(ctx, r.db).Save(profile).Error
}

func (r *settingsRepository) CreatePaymentInstruction(ctx context.Context, instr *model.PaymentInstruction) error {
	return GetDB(ctx, r.db).Create(instr).Error
}

func (r *settingsRepository) FindPaymentInstruction(ctx context.Context, id uuid.UUID) (*model.PaymentInstruction, error) {
	var instr model.PaymentInstruction
	if err := GetDB(ctx, r.db).First(&instr, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &instr, nil
}

func (r *settingsRepository) ListPaymentInstructions(ctx context.Context, activeOnly bool) ([]model.PaymentInstruction, error) {
	var instrs []model.PaymentInstruction
	query := GetDB(ctx, r.db).Order("sort_order ASC, created_at ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&instrs).Error; err != nil {
		return nil, err
	}
	return instrs, nil
}

func (r *settingsRepository) UpdatePaymentInstruction(ctx context.Context, instr *model.PaymentInstruction) error {
	return GetDB(ctx, r.db).Save(instr).Error
}

func (r *settingsRepository) DeletePaymentInstruction(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.PaymentInstruction{}, "id = ?", id).Error
}

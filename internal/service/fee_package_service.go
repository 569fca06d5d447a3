package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateFeePackageRequest struct {
	Name           string          `json:"name" binding:"required"`
	FeePerDelivery decimal.Decimal `json:"fee_per_delivery" binding:"required"`
	IsDefault      bool            `json:"is_default"`
}

type UpdateFeePackageRequest struct {
	Name           *string          `json:"name"`
	FeePerDelivery *decimal.Decimal `json:"fee_per_delivery"`
	Active         *bool            `json:"active"`
}

// --- Interface ---

type FeePackageService interface {
	CreateFeePackage(ctx context.Context, req CreateFeePackageRequest) (*model.DeliveryFeePackage, error)
	GetFeePackage(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error)
	ListFeePackages(ctx context.Context, activeOnly bool) ([]model.DeliveryFeePackage, error)
	UpdateFeePackage(ctx context.Context, id uuid.UUID, req UpdateFeePackageRequest) (*model.DeliveryFeePackage, error)
	// SetDefaultFeePackage makes the package the single default. Any
	// previous default is cleared in the same transaction.
	SetDefaultFeePackage(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error)
	DeleteFeePackage(ctx context.Context, id uuid.UUID) error
}

type feePackageService struct {
	packageRepo repository.FeePackageRepository
}

func NewFeePackageService(packageRepo repository.FeePackageRepository) FeePackageService {
	return &feePackageService{packageRepo: packageRepo}
}

// --- Implementation ---

func (s *feePackageService) CreateFeePackage(ctx context.Context, req CreateFeePackageRequest) (*model.DeliveryFeePackage, error) {
	if req.FeePerDelivery.IsNegative() {
		return nil, apperrors.NewValidation("fee per delivery must not be negative")
	}

	pkg := &model.DeliveryFeePackage{
		Name:           req.Name,
		FeePerDelivery: req.FeePerDelivery,
		Active:         true,
	}
	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create fee package: %w", err)
	}

	if req.IsDefault {
		if err := s.packageRepo.SetDefault(ctx, pkg.ID); err != nil {
			return nil, fmt.Errorf("failed to set default fee package: %w", err)
		}
		pkg.IsDefault = true
	}
	return pkg, nil
}

func (s *feePackageService) GetFeePackage(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("fee package")
	}
	return pkg, nil
}

func (s *feePackageService) ListFeePackages(ctx context.Context, activeOnly bool) ([]model.DeliveryFeePackage, error) {
	return s.packageRepo.List(ctx, activeOnly)
}

func (s *feePackageService) UpdateFeePackage(ctx context.Context, id uuid.UUID, req UpdateFeePackageRequest) (*model.DeliveryFeePackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("fee package")
	}

	if req.Name != nil {
		pkg.Name = *req.Name
	}
	if req.FeePerDelivery != nil {
		if req.FeePerDelivery.IsNegative() {
			return nil, apperrors.NewValidation("fee per delivery must not be negative")
		}
		pkg.FeePerDelivery = *req.FeePerDelivery
	}
	if req.Active != nil {
		pkg.Active = *req.Active
		// A deactivated package cannot stay the default.
		if !pkg.Active {
			pkg.IsDefault = false
		}
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to update fee package: %w", err)
	}
	return pkg, nil
}

func (s *feePackageService) SetDefaultFeePackage(ctx context.Context, id uuid.UUID) (*model.DeliveryFeePackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("fee package")
	}
	if !pkg.Active {
		return nil, apperrors.NewValidation("cannot set an inactive package as default")
	}

	if err := s.packageRepo.SetDefault(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("fee package")
		}
		return nil, fmt.Errorf("failed to set default fee package: %w", err)
	}
	pkg.IsDefault = true
	return pkg, nil
}

func (s *feePackageService) DeleteFeePackage(ctx context.Context, id uuid.UUID) error {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.NewNotFound("fee package")
	}
	if pkg.IsDefault {
		return apperrors.NewValidation("cannot delete the default fee package")
	}
	if err := s.packageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete fee package: %w", err)
	}
	return nil
}

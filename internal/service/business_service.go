package service

import (
	"context"
	"fmt"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateBusinessRequest struct {
	Name          string           `json:"name" binding:"required"`
	ContactPerson string           `json:"contact_person"`
	Phone         string           `json:"phone"`
	Email         string           `json:"email" binding:"omitempty,email"`
	Address       string           `json:"address"`
	Region        string           `json:"region"`
	DeliveryFee   *decimal.Decimal `json:"delivery_fee"`
	PackageID     *string          `json:"package_id"`
}

type UpdateBusinessRequest struct {
	Name          *string          `json:"name"`
	ContactPerson *string          `json:"contact_person"`
	Phone         *string          `json:"phone"`
	Email         *string          `json:"email" binding:"omitempty,email"`
	Address       *string          `json:"address"`
	Region        *string          `json:"region"`
	DeliveryFee   *decimal.Decimal `json:"delivery_fee"`
	// ClearDeliveryFee drops the custom fee so the business falls back to
	// its package (or the default package).
	ClearDeliveryFee bool    `json:"clear_delivery_fee"`
	PackageID        *string `json:"package_id"`
	Active           *bool   `json:"active"`
}

// --- Interface ---

type BusinessService interface {
	CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*model.Business, error)
	GetBusiness(ctx context.Context, id uuid.UUID) (*model.Business, error)
	ListBusinesses(ctx context.Context, activeOnly bool, page, limit int) ([]model.Business, int64, error)
	UpdateBusiness(ctx context.Context, id uuid.UUID, req UpdateBusinessRequest) (*model.Business, error)
	DeleteBusiness(ctx context.Context, id uuid.UUID) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	packageRepo  repository.FeePackageRepository
}

func NewBusinessService(businessRepo repository.BusinessRepository, packageRepo repository.FeePackageRepository) BusinessService {
	return &businessService{businessRepo: businessRepo, packageRepo: packageRepo}
}

// --- Implementation ---

func (s *businessService) CreateBusiness(ctx context.Context, req CreateBusinessRequest) (*model.Business, error) {
	if req.DeliveryFee != nil && req.DeliveryFee.IsNegative() {
		return nil, apperrors.NewValidation("delivery fee must not be negative")
	}

	business := &model.Business{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Region:        req.Region,
		DeliveryFee:   req.DeliveryFee,
		Active:        true,
	}

	if req.PackageID != nil && *req.PackageID != "" {
		pkgID, err := s.requirePackage(ctx, *req.PackageID)
		if err != nil {
			return nil, err
		}
		business.PackageID = pkgID
	}

	if err := s.businessRepo.Create(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to create business: %w", err)
	}
	return business, nil
}

func (s *businessService) GetBusiness(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	business, err := s.businessRepo.FindByIDWithPackage(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("business")
	}
	return business, nil
}

func (s *businessService) ListBusinesses(ctx context.Context, activeOnly bool, page, limit int) ([]model.Business, int64, error) {
	return s.businessRepo.List(ctx, activeOnly, page, limit)
}

func (s *businessService) UpdateBusiness(ctx context.Context, id uuid.UUID, req UpdateBusinessRequest) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("business")
	}

	if req.Name != nil {
		business.Name = *req.Name
	}
	if req.ContactPerson != nil {
		business.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		business.Phone = *req.Phone
	}
	if req.Email != nil {
		business.Email = *req.Email
	}
	if req.Address != nil {
		business.Address = *req.Address
	}
	if req.Region != nil {
		business.Region = *req.Region
	}
	if req.DeliveryFee != nil {
		if req.DeliveryFee.IsNegative() {
			return nil, apperrors.NewValidation("delivery fee must not be negative")
		}
		business.DeliveryFee = req.DeliveryFee
	}
	if req.ClearDeliveryFee {
		business.DeliveryFee = nil
	}
	if req.PackageID != nil {
		if *req.PackageID == "" {
			business.PackageID = nil
		} else {
			pkgID, err := s.requirePackage(ctx, *req.PackageID)
			if err != nil {
				return nil, err
			}
			business.PackageID = pkgID
		}
	}
	if req.Active != nil {
		business.Active = *req.Active
	}

	if err := s.businessRepo.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("failed to update business: %w", err)
	}
	return business, nil
}

func (s *businessService) DeleteBusiness(ctx context.Context, id uuid.UUID) error {
	if _, err := s.businessRepo.FindByID(ctx, id); err != nil {
		return apperrors.NewNotFound("business")
	}
	if err := s.businessRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete business: %w", err)
	}
	return nil
}

func (s *businessService) requirePackage(ctx context.Context, raw string) (*uuid.UUID, error) {
	pkgID, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.NewValidation("invalid package_id")
	}
	if _, err := s.packageRepo.FindByID(ctx, pkgID); err != nil {
		return nil, apperrors.NewNotFound("fee package")
	}
	return &pkgID, nil
}

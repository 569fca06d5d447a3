package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mageuzialbert/skymap-courier/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeConfig holds the three fee sources consulted in priority order:
// business custom fee, the business's active package fee, and the
// platform default package fee.
type FeeConfig struct {
	CustomFee         *decimal.Decimal
	PackageFee        *decimal.Decimal
	DefaultPackageFee *decimal.Decimal
}

// ResolveDeliveryFee picks the fee for a new delivery. The bool is
// false when no source resolves — the delivery then carries no fee and
// no charge is created.
func ResolveDeliveryFee(cfg FeeConfig) (decimal.Decimal, bool) {
	if cfg.CustomFee != nil {
		return *cfg.CustomFee, true
	}
	if cfg.PackageFee != nil {
		return *cfg.PackageFee, true
	}
	if cfg.DefaultPackageFee != nil {
		return *cfg.DefaultPackageFee, true
	}
	return decimal.Zero, false
}

// FeeResolver loads a business's fee configuration from the store.
type FeeResolver interface {
	ResolveForBusiness(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, bool, error)
}

type feeResolver struct {
	businessRepo repository.BusinessRepository
	packageRepo  repository.FeePackageRepository
}

func NewFeeResolver(businessRepo repository.BusinessRepository, packageRepo repository.FeePackageRepository) FeeResolver {
	return &feeResolver{businessRepo: businessRepo, packageRepo: packageRepo}
}

func (r *feeResolver) ResolveForBusiness(ctx context.Context, businessID uuid.UUID) (decimal.Decimal, bool, error) {
	business, err := r.businessRepo.FindByIDWithPackage(ctx, businessID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to load business fee config: %w", err)
	}

	cfg := FeeConfig{CustomFee: business.DeliveryFee}
	if business.Package != nil && business.Package.Active {
		fee := business.Package.FeePerDelivery
		cfg.PackageFee = &fee
	}

	if cfg.CustomFee == nil && cfg.PackageFee == nil {
		defaultPkg, err := r.packageRepo.FindDefault(ctx)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, fmt.Errorf("failed to load default package: %w", err)
		}
		if defaultPkg != nil {
			fee := defaultPkg.FeePerDelivery
			cfg.DefaultPackageFee = &fee
		}
	}

	fee, ok := ResolveDeliveryFee(cfg)
	return fee, ok, nil
}

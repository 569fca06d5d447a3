package service

import (
	"testing"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDeliveryFee(t *testing.T) {
	custom := feeDecimal("5000")
	pkg := feeDecimal("3500")
	def := feeDecimal("2000")

	tests := []struct {
		name string
		cfg  FeeConfig
		want string
		ok   bool
	}{
		{"custom fee wins over everything", FeeConfig{CustomFee: custom, PackageFee: pkg, DefaultPackageFee: def}, "5000", true},
		{"package fee wins over default", FeeConfig{PackageFee: pkg, DefaultPackageFee: def}, "3500", true},
		{"default package is the last resort", FeeConfig{DefaultPackageFee: def}, "2000", true},
		{"no source means no fee", FeeConfig{}, "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, ok := ResolveDeliveryFee(tt.cfg)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.True(t, fee.Equal(decimal.RequireFromString(tt.want)), fee.String())
			}
		})
	}
}

func TestFeeResolverResolveForBusiness(t *testing.T) {
	db := newTestDB(t)
	businessRepo := repository.NewBusinessRepository(db)
	packageRepo := repository.NewFeePackageRepository(db)
	resolver := NewFeeResolver(businessRepo, packageRepo)

	activePkg := &model.DeliveryFeePackage{Name: "Standard", FeePerDelivery: decimal.RequireFromString("3500"), Active: true}
	require.NoError(t, db.Create(activePkg).Error)
	inactivePkg := &model.DeliveryFeePackage{Name: "Retired", FeePerDelivery: decimal.RequireFromString("9999"), Active: false}
	require.NoError(t, db.Create(inactivePkg).Error)

	t.Run("custom fee overrides the package", func(t *testing.T) {
		business := seedBusiness(t, db, "Custom Co", feeDecimal("5000"))
		business.PackageID = &activePkg.ID
		require.NoError(t, db.Save(business).Error)

		fee, ok, err := resolver.ResolveForBusiness(testCtx, business.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, fee.Equal(decimal.RequireFromString("5000")), fee.String())
	})

	t.Run("active package fee applies", func(t *testing.T) {
		business := seedBusiness(t, db, "Package Co", nil)
		business.PackageID = &activePkg.ID
		require.NoError(t, db.Save(business).Error)

		fee, ok, err := resolver.ResolveForBusiness(testCtx, business.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, fee.Equal(decimal.RequireFromString("3500")), fee.String())
	})

	t.Run("inactive package is ignored", func(t *testing.T) {
		business := seedBusiness(t, db, "Lapsed Co", nil)
		business.PackageID = &inactivePkg.ID
		require.NoError(t, db.Save(business).Error)

		_, ok, err := resolver.ResolveForBusiness(testCtx, business.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("default package catches businesses with nothing", func(t *testing.T) {
		defaultPkg := &model.DeliveryFeePackage{
			Name: "Default", FeePerDelivery: decimal.RequireFromString("2000"),
			IsDefault: true, Active: true,
		}
		require.NoError(t, db.Create(defaultPkg).Error)
		t.Cleanup(func() { db.Delete(defaultPkg) })

		business := seedBusiness(t, db, "Plain Co", nil)
		fee, ok, err := resolver.ResolveForBusiness(testCtx, business.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, fee.Equal(decimal.RequireFromString("2000")), fee.String())
	})

	t.Run("no source resolves to no fee", func(t *testing.T) {
		business := seedBusiness(t, db, "Bare Co", nil)
		_, ok, err := resolver.ResolveForBusiness(testCtx, business.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

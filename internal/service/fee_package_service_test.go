package service

import (
	"testing"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFeePackageServiceForTest(t *testing.T, db *gorm.DB) FeePackageService {
	t.Helper()
	return NewFeePackageService(repository.NewFeePackageRepository(db))
}

func TestSetDefaultFeePackageIsExclusive(t *testing.T) {
	db := newTestDB(t)
	svc := newFeePackageServiceForTest(t, db)

	first, err := svc.CreateFeePackage(testCtx, CreateFeePackageRequest{
		Name:           "Standard",
		FeePerDelivery: decimal.RequireFromString("3500"),
		IsDefault:      true,
	})
	require.NoError(t, err)
	assert.True(t, first.IsDefault)

	second, err := svc.CreateFeePackage(testCtx, CreateFeePackageRequest{
		Name:           "Premium",
		FeePerDelivery: decimal.RequireFromString("5000"),
	})
	require.NoError(t, err)

	second, err = svc.SetDefaultFeePackage(testCtx, second.ID)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	// The old default lost the flag in the same transaction.
	var count int64
	require.NoError(t, db.Model(&model.DeliveryFeePackage{}).
		Where("is_default = ?", true).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	reloaded, err := svc.GetFeePackage(testCtx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsDefault)
}

func TestInactiveFeePackagePersistsAsInactive(t *testing.T) {
	db := newTestDB(t)

	// Inserting with Active=false must not be swallowed by a column
	// default on the insert.
	pkg := &model.DeliveryFeePackage{
		Name:           "Dormant",
		FeePerDelivery: decimal.RequireFromString("1000"),
		Active:         false,
	}
	require.NoError(t, db.Create(pkg).Error)

	var stored model.DeliveryFeePackage
	require.NoError(t, db.First(&stored, "id = ?", pkg.ID).Error)
	assert.False(t, stored.Active)

	business := &model.Business{Name: "Dormant Co", Active: false}
	require.NoError(t, db.Create(business).Error)
	var storedBusiness model.Business
	require.NoError(t, db.First(&storedBusiness, "id = ?", business.ID).Error)
	assert.False(t, storedBusiness.Active)
}

func TestFeePackageGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newFeePackageServiceForTest(t, db)

	def, err := svc.CreateFeePackage(testCtx, CreateFeePackageRequest{
		Name:           "Standard",
		FeePerDelivery: decimal.RequireFromString("3500"),
		IsDefault:      true,
	})
	require.NoError(t, err)

	t.Run("negative fee rejected", func(t *testing.T) {
		_, err := svc.CreateFeePackage(testCtx, CreateFeePackageRequest{
			Name:           "Broken",
			FeePerDelivery: decimal.RequireFromString("-1"),
		})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("default package cannot be deleted", func(t *testing.T) {
		err := svc.DeleteFeePackage(testCtx, def.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("inactive package cannot become default", func(t *testing.T) {
		pkg, err := svc.CreateFeePackage(testCtx, CreateFeePackageRequest{
			Name:           "Dormant",
			FeePerDelivery: decimal.RequireFromString("1000"),
		})
		require.NoError(t, err)
		inactive := false
		_, err = svc.UpdateFeePackage(testCtx, pkg.ID, UpdateFeePackageRequest{Active: &inactive})
		require.NoError(t, err)

		_, err = svc.SetDefaultFeePackage(testCtx, pkg.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("deactivating the default clears the flag", func(t *testing.T) {
		inactive := false
		updated, err := svc.UpdateFeePackage(testCtx, def.ID, UpdateFeePackageRequest{Active: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsDefault)
	})
}

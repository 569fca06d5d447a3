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

func newChargeServiceForTest(t *testing.T, db *gorm.DB) ChargeService {
	t.Helper()
	return NewChargeService(
		repository.NewChargeRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewAuditRepository(db),
	)
}

func TestCreateCharge(t *testing.T) {
	db := newTestDB(t)
	svc := newChargeServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	other := seedBusiness(t, db, "Other Co", nil)

	charge, err := svc.CreateCharge(testCtx, CreateChargeRequest{
		BusinessID:  business.ID.String(),
		Amount:      decimal.RequireFromString("1500"),
		Description: "warehouse handling",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, business.ID, charge.BusinessID)
	assert.Nil(t, charge.InvoiceID)

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := svc.CreateCharge(testCtx, CreateChargeRequest{
			BusinessID: business.ID.String(),
			Amount:     decimal.RequireFromString("-1"),
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("unknown business rejected", func(t *testing.T) {
		_, err := svc.CreateCharge(testCtx, CreateChargeRequest{
			BusinessID: uuid4(t),
			Amount:     decimal.RequireFromString("10"),
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("delivery must belong to the business", func(t *testing.T) {
		delivery := seedDeliveredDelivery(t, db, other, "4000")
		deliveryID := delivery.ID.String()
		_, err := svc.CreateCharge(testCtx, CreateChargeRequest{
			BusinessID: business.ID.String(),
			DeliveryID: &deliveryID,
			Amount:     decimal.RequireFromString("10"),
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestDeleteChargeGuards(t *testing.T) {
	db := newTestDB(t)
	svc := newChargeServiceForTest(t, db)
	business := seedBusiness(t, db, "Acme Ltd", nil)

	charge, err := svc.CreateCharge(testCtx, CreateChargeRequest{
		BusinessID: business.ID.String(),
		Amount:     decimal.RequireFromString("1500"),
	}, nil)
	require.NoError(t, err)

	// Once the charge lands on an invoice it is immutable.
	invoiceID := charge.ID // any uuid works for the guard
	require.NoError(t, db.Model(&model.Charge{}).
		Where("id = ?", charge.ID).
		Update("invoice_id", invoiceID).Error)

	err = svc.DeleteCharge(testCtx, charge.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))

	require.NoError(t, db.Model(&model.Charge{}).
		Where("id = ?", charge.ID).
		Update("invoice_id", nil).Error)
	require.NoError(t, svc.DeleteCharge(testCtx, charge.ID))

	err = svc.DeleteCharge(testCtx, charge.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInvoiceServiceForTest(t *testing.T, db *gorm.DB) InvoiceService {
	t.Helper()
	return NewInvoiceService(
		db,
		repository.NewInvoiceRepository(db),
		repository.NewChargeRepository(db),
		repository.NewDeliveryRepository(db),
		repository.NewBusinessRepository(db),
		repository.NewAuditRepository(db),
	)
}

func seedDeliveredDelivery(t *testing.T, db *gorm.DB, business *model.Business, fee string) *model.Delivery {
	t.Helper()
	f := decimal.RequireFromString(fee)
	now := time.Now()
	businessID := business.ID
	delivery := &model.Delivery{
		BusinessID:     &businessID,
		PickupContact:  "Mary",
		PickupAddress:  "12 Market St",
		DropoffContact: "John",
		DropoffAddress: "7 Harbour Rd",
		Status:         model.StatusDelivered,
		DeliveryFee:    &f,
		DeliveredAt:    &now,
	}
	require.NoError(t, db.Create(delivery).Error)
	return delivery
}

func billingPeriod() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-24 * time.Hour), now.Add(24 * time.Hour)
}

func TestCreateInvoiceNumberCollisionSurfacesConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	seedDeliveredDelivery(t, db, business, "4000")

	// Occupy the number the next draw produces. The count sees one
	// invoice, so every redraw lands on 000002 and the unique index
	// rejects it.
	start, end := billingPeriod()
	blocker := &model.Invoice{
		InvoiceNo:   fmt.Sprintf("INV-%d-000002", time.Now().Year()),
		BusinessID:  business.ID,
		InvoiceType: model.InvoiceTypeInvoice,
		Status:      model.InvoiceDraft,
		PeriodStart: start,
		PeriodEnd:   end,
	}
	require.NoError(t, db.Create(blocker).Error)

	_, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestCreateInvoiceAggregatesChargesAndDeliveries(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	staff := seedUser(t, db, "staff1", "STAFF", nil)

	charge := &model.Charge{
		BusinessID:  business.ID,
		Amount:      decimal.RequireFromString("1500"),
		Description: "warehouse handling",
	}
	require.NoError(t, db.Create(charge).Error)
	delivery := seedDeliveredDelivery(t, db, business, "4000")

	start, end := billingPeriod()
	invoice, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, &staff.ID)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("INV-%d-000001", time.Now().Year()), invoice.InvoiceNo)
	assert.Equal(t, model.InvoiceDraft, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("5500")), invoice.TotalAmount.String())
	require.Len(t, invoice.Items, 2)

	// The manual charge is now attached to the invoice.
	var reloaded model.Charge
	require.NoError(t, db.First(&reloaded, "id = ?", charge.ID).Error)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, invoice.ID, *reloaded.InvoiceID)

	// The delivery got a charge row created inside the same transaction,
	// already linked, so it can never be billed twice.
	var deliveryCharge model.Charge
	require.NoError(t, db.First(&deliveryCharge, "delivery_id = ?", delivery.ID).Error)
	require.NotNil(t, deliveryCharge.InvoiceID)
	assert.Equal(t, invoice.ID, *deliveryCharge.InvoiceID)
	assert.True(t, deliveryCharge.Amount.Equal(decimal.RequireFromString("4000")))

	// Nothing is left to bill in the same period.
	_, err = svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, &staff.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestInvoiceItemsSnapshotAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	delivery := seedDeliveredDelivery(t, db, business, "4000")

	start, end := billingPeriod()
	invoice, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	// A later fee edit never changes the issued document.
	newFee := decimal.RequireFromString("9000")
	require.NoError(t, db.Model(&model.Delivery{}).
		Where("id = ?", delivery.ID).
		Update("delivery_fee", newFee).Error)

	reloaded, err := svc.GetInvoice(testCtx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.True(t, reloaded.Items[0].Amount.Equal(decimal.RequireFromString("4000")))
	assert.True(t, reloaded.TotalAmount.Equal(decimal.RequireFromString("4000")))
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)
	business := seedBusiness(t, db, "Acme Ltd", nil)

	start, end := billingPeriod()

	t.Run("reversed period", func(t *testing.T) {
		_, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
			BusinessID:  business.ID.String(),
			InvoiceType: model.InvoiceTypeInvoice,
			PeriodStart: end,
			PeriodEnd:   start,
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("unknown business", func(t *testing.T) {
		_, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
			BusinessID:  uuid4(t),
			InvoiceType: model.InvoiceTypeInvoice,
			PeriodStart: start,
			PeriodEnd:   end,
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("empty period", func(t *testing.T) {
		_, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
			BusinessID:  business.ID.String(),
			InvoiceType: model.InvoiceTypeInvoice,
			PeriodStart: start,
			PeriodEnd:   end,
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestInvoiceStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	seedDeliveredDelivery(t, db, business, "4000")

	start, end := billingPeriod()
	invoice, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	// DRAFT cannot jump straight to PAID.
	_, err = svc.UpdateInvoiceStatus(testCtx, invoice.ID, UpdateInvoiceStatusRequest{Status: model.InvoicePaid})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	invoice, err = svc.UpdateInvoiceStatus(testCtx, invoice.ID, UpdateInvoiceStatusRequest{Status: model.InvoiceSent})
	require.NoError(t, err)
	invoice, err = svc.UpdateInvoiceStatus(testCtx, invoice.ID, UpdateInvoiceStatusRequest{Status: model.InvoicePaid})
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, invoice.Status)

	// PAID is terminal.
	_, err = svc.UpdateInvoiceStatus(testCtx, invoice.ID, UpdateInvoiceStatusRequest{Status: model.InvoiceCancelled})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	// And paid invoices cannot be deleted.
	err = svc.DeleteInvoice(testCtx, invoice.ID, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestDeleteInvoiceReleasesCharges(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	seedDeliveredDelivery(t, db, business, "4000")

	start, end := billingPeriod()
	invoice, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvoice(testCtx, invoice.ID, nil))

	// The delivery's charge row survives, back in the unbilled pool, so
	// the next run re-bills the charge rather than the delivery.
	var charges []model.Charge
	require.NoError(t, db.Find(&charges, "business_id = ?", business.ID).Error)
	require.Len(t, charges, 1)
	assert.Nil(t, charges[0].InvoiceID)

	second, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeInvoice,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)
	assert.True(t, second.TotalAmount.Equal(decimal.RequireFromString("4000")))
	require.Len(t, second.Items, 1)

	// Still exactly one charge row for the delivery.
	require.NoError(t, db.Find(&charges, "business_id = ?", business.ID).Error)
	assert.Len(t, charges, 1)
}

func TestProformaLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newInvoiceServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	seedDeliveredDelivery(t, db, business, "4000")

	start, end := billingPeriod()
	proforma, err := svc.CreateInvoice(testCtx, CreateInvoiceRequest{
		BusinessID:  business.ID.String(),
		InvoiceType: model.InvoiceTypeProforma,
		PeriodStart: start,
		PeriodEnd:   end,
	}, nil)
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("PRO-%d-000001", year), proforma.InvoiceNo)
	assert.Equal(t, model.InvoiceProforma, proforma.Status)

	// Proformas never go SENT or PAID directly.
	_, err = svc.UpdateInvoiceStatus(testCtx, proforma.ID, UpdateInvoiceStatusRequest{Status: model.InvoiceSent})
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	converted, err := svc.ConvertProforma(testCtx, proforma.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InvoiceTypeInvoice, converted.InvoiceType)
	assert.Equal(t, model.InvoiceDraft, converted.Status)
	assert.Equal(t, fmt.Sprintf("INV-%d-000001", year), converted.InvoiceNo)

	// Converting twice is rejected.
	_, err = svc.ConvertProforma(testCtx, proforma.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

package service

import (
	"testing"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickOrderFixture() QuickOrderRequest {
	return QuickOrderRequest{
		PickupContact:      "Mary Sender",
		PickupPhone:        "0712345678",
		PickupAddress:      "12 Market St",
		PickupRegion:       "Dar es Salaam",
		DropoffContact:     "John Receiver",
		DropoffAddress:     "7 Harbour Rd",
		DropoffRegion:      "Dar es Salaam",
		PackageDescription: "documents",
	}
}

func createDeliveryFixture() CreateDeliveryRequest {
	return CreateDeliveryRequest{
		PickupContact:  "Mary Sender",
		PickupAddress:  "12 Market St",
		DropoffContact: "John Receiver",
		DropoffAddress: "7 Harbour Rd",
	}
}

func TestQuickOrderLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", feeDecimal("4000"))
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	rider := seedUser(t, db, "rider1", permission.RoleRider, nil)

	// Public quick order: no business, no fee, pending confirmation.
	delivery, err := svc.CreateQuickOrder(testCtx, quickOrderFixture())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingConfirmation, delivery.Status)
	assert.Nil(t, delivery.BusinessID)
	assert.Nil(t, delivery.DeliveryFee)

	// Staff confirm attaches the business and resolves the fee.
	businessID := business.ID.String()
	delivery, err = svc.ConfirmDelivery(testCtx, delivery.ID, ConfirmDeliveryRequest{
		BusinessID: &businessID,
		Note:       "confirmed by phone",
	}, staffActor(staff))
	require.NoError(t, err)
	assert.Equal(t, model.StatusCreated, delivery.Status)
	require.NotNil(t, delivery.DeliveryFee)
	assert.True(t, delivery.DeliveryFee.Equal(decimal.RequireFromString("4000")))

	// Assignment, then the rider walks it to delivered.
	delivery, err = svc.AssignRider(testCtx, delivery.ID, AssignRiderRequest{RiderID: rider.ID.String()}, staffActor(staff))
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, delivery.Status)

	for _, status := range []string{model.StatusPickedUp, model.StatusInTransit, model.StatusDelivered} {
		delivery, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: status}, riderActor(rider))
		require.NoError(t, err, status)
		assert.Equal(t, status, delivery.Status)
	}
	require.NotNil(t, delivery.DeliveredAt)
	assert.False(t, delivery.DeliveredAt.Before(delivery.CreatedAt))

	// Every step left a timeline entry.
	events, err := svc.ListDeliveryEvents(testCtx, delivery.ID, staffActor(staff))
	require.NoError(t, err)
	statuses := make([]string, 0, len(events))
	for _, e := range events {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []string{
		model.StatusPendingConfirmation,
		model.StatusCreated,
		model.StatusAssigned,
		model.StatusPickedUp,
		model.StatusInTransit,
		model.StatusDelivered,
	}, statuses)

	// Nothing may move a delivered order.
	_, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusFailed}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestCreateDeliveryBooksCharge(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", feeDecimal("2500"))
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	businessID := business.ID.String()
	req := createDeliveryFixture()
	req.BusinessID = &businessID
	delivery, err := svc.CreateDelivery(testCtx, req, staffActor(staff))
	require.NoError(t, err)

	var charges []model.Charge
	require.NoError(t, db.Find(&charges, "delivery_id = ?", delivery.ID).Error)
	require.Len(t, charges, 1)
	assert.Equal(t, business.ID, charges[0].BusinessID)
	assert.True(t, charges[0].Amount.Equal(decimal.RequireFromString("2500")))
	assert.Nil(t, charges[0].InvoiceID)

	// A later fee edit never rewrites the booked charge.
	_, err = svc.UpdateFee(testCtx, delivery.ID, UpdateFeeRequest{
		DeliveryFee: decimal.RequireFromString("9000"),
	}, staffActor(staff))
	require.NoError(t, err)

	var charge model.Charge
	require.NoError(t, db.First(&charge, "delivery_id = ?", delivery.ID).Error)
	assert.True(t, charge.Amount.Equal(decimal.RequireFromString("2500")))
}

func TestCreateDeliveryWithoutFeeBooksNoCharge(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	// No custom fee, no package, no default package: nothing to charge.
	business := seedBusiness(t, db, "Acme Ltd", nil)
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	businessID := business.ID.String()
	req := createDeliveryFixture()
	req.BusinessID = &businessID
	delivery, err := svc.CreateDelivery(testCtx, req, staffActor(staff))
	require.NoError(t, err)
	assert.Nil(t, delivery.DeliveryFee)

	var count int64
	require.NoError(t, db.Model(&model.Charge{}).Where("delivery_id = ?", delivery.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfirmQuickOrderBooksCharge(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", feeDecimal("4000"))
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	delivery, err := svc.CreateQuickOrder(testCtx, quickOrderFixture())
	require.NoError(t, err)

	businessID := business.ID.String()
	delivery, err = svc.ConfirmDelivery(testCtx, delivery.ID, ConfirmDeliveryRequest{
		BusinessID: &businessID,
	}, staffActor(staff))
	require.NoError(t, err)

	var charges []model.Charge
	require.NoError(t, db.Find(&charges, "delivery_id = ?", delivery.ID).Error)
	require.Len(t, charges, 1)
	assert.True(t, charges[0].Amount.Equal(decimal.RequireFromString("4000")))
}

func TestConfirmRequiresBusiness(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	delivery, err := svc.CreateQuickOrder(testCtx, quickOrderFixture())
	require.NoError(t, err)

	_, err = svc.ConfirmDelivery(testCtx, delivery.ID, ConfirmDeliveryRequest{}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestConfirmWithRiderSkipsToAssigned(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", feeDecimal("4000"))
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	rider := seedUser(t, db, "rider1", permission.RoleRider, nil)

	delivery, err := svc.CreateQuickOrder(testCtx, quickOrderFixture())
	require.NoError(t, err)

	businessID := business.ID.String()
	riderID := rider.ID.String()
	delivery, err = svc.ConfirmDelivery(testCtx, delivery.ID, ConfirmDeliveryRequest{
		BusinessID: &businessID,
		RiderID:    &riderID,
	}, staffActor(staff))
	require.NoError(t, err)
	assert.Equal(t, model.StatusAssigned, delivery.Status)
	require.NotNil(t, delivery.AssignedRiderID)
	assert.Equal(t, rider.ID, *delivery.AssignedRiderID)
}

func TestRejectQuickOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	delivery, err := svc.CreateQuickOrder(testCtx, quickOrderFixture())
	require.NoError(t, err)

	delivery, err = svc.RejectDelivery(testCtx, delivery.ID, "unreachable sender", staffActor(staff))
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, delivery.Status)

	// A rejected order cannot be rejected twice or confirmed.
	_, err = svc.RejectDelivery(testCtx, delivery.ID, "", staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
	_, err = svc.ConfirmDelivery(testCtx, delivery.ID, ConfirmDeliveryRequest{}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestBusinessCreateOrdersForItself(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	own := seedBusiness(t, db, "Own Co", feeDecimal("2500"))
	other := seedBusiness(t, db, "Other Co", nil)
	owner := seedUser(t, db, "owner", permission.RoleBusiness, own)

	// The business_id in the payload is ignored for BUSINESS actors.
	req := createDeliveryFixture()
	otherID := other.ID.String()
	req.BusinessID = &otherID

	delivery, err := svc.CreateDelivery(testCtx, req, businessActor(owner))
	require.NoError(t, err)
	require.NotNil(t, delivery.BusinessID)
	assert.Equal(t, own.ID, *delivery.BusinessID)
	require.NotNil(t, delivery.DeliveryFee)
	assert.True(t, delivery.DeliveryFee.Equal(decimal.RequireFromString("2500")))
	assert.Equal(t, model.StatusCreated, delivery.Status)
}

func TestStaffCreateWithoutBusinessHasNoFee(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	delivery, err := svc.CreateDelivery(testCtx, createDeliveryFixture(), staffActor(staff))
	require.NoError(t, err)
	assert.Nil(t, delivery.BusinessID)
	assert.Nil(t, delivery.DeliveryFee)
}

func TestRiderOwnershipAndSubset(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", feeDecimal("4000"))
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	rider := seedUser(t, db, "rider1", permission.RoleRider, nil)
	otherRider := seedUser(t, db, "rider2", permission.RoleRider, nil)

	req := createDeliveryFixture()
	businessID := business.ID.String()
	req.BusinessID = &businessID
	delivery, err := svc.CreateDelivery(testCtx, req, staffActor(staff))
	require.NoError(t, err)

	// Ownership is checked before transition legality: a foreign rider
	// gets the same error whether or not the move would be legal.
	_, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusPickedUp}, riderActor(otherRider))
	assert.True(t, apperrors.IsKind(err, apperrors.KindOwnership))

	delivery, err = svc.AssignRider(testCtx, delivery.ID, AssignRiderRequest{RiderID: rider.ID.String()}, staffActor(staff))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusPickedUp}, riderActor(otherRider))
	assert.True(t, apperrors.IsKind(err, apperrors.KindOwnership))

	// The assigned rider cannot jump the table.
	_, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusDelivered}, riderActor(rider))
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))

	// Unknown statuses are rejected before any lookup.
	_, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: "SHIPPED"}, riderActor(rider))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// The assigned rider can move their own delivery.
	delivery, err = svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusPickedUp}, riderActor(rider))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPickedUp, delivery.Status)
}

func TestRiderCannotPerformStaffOnlyTransition(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	rider := seedUser(t, db, "rider1", permission.RoleRider, nil)

	// Hand-build a pending quick order assigned to the rider: confirming
	// it is legal in the full table but staff-only.
	riderID := rider.ID
	delivery := &model.Delivery{
		PickupContact:   "Mary",
		PickupAddress:   "12 Market St",
		DropoffContact:  "John",
		DropoffAddress:  "7 Harbour Rd",
		Status:          model.StatusPendingConfirmation,
		AssignedRiderID: &riderID,
	}
	require.NoError(t, db.Create(delivery).Error)

	_, err := svc.UpdateStatus(testCtx, delivery.ID, UpdateStatusRequest{Status: model.StatusCreated}, riderActor(rider))
	assert.True(t, apperrors.IsKind(err, apperrors.KindPermissionDenied))
}

func TestUpdateStatusConflictOnStaleRead(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db).(*deliveryService)

	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	delivery, err := svc.CreateDelivery(testCtx, createDeliveryFixture(), staffActor(staff))
	require.NoError(t, err)

	// Another writer moves the row after our read.
	require.NoError(t, db.Model(&model.Delivery{}).
		Where("id = ?", delivery.ID).
		Update("status", model.StatusAssigned).Error)

	// The in-memory copy still says CREATED; the conditional write loses.
	err = svc.transition(testCtx, delivery, model.StatusAssigned, "", &staff.ID, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestAssignRequiresActiveRider(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	notRider := seedUser(t, db, "staff2", permission.RoleStaff, nil)
	inactive := seedUser(t, db, "rider1", permission.RoleRider, nil)
	require.NoError(t, db.Model(inactive).Update("active", false).Error)

	delivery, err := svc.CreateDelivery(testCtx, createDeliveryFixture(), staffActor(staff))
	require.NoError(t, err)

	_, err = svc.AssignRider(testCtx, delivery.ID, AssignRiderRequest{RiderID: notRider.ID.String()}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.AssignRider(testCtx, delivery.ID, AssignRiderRequest{RiderID: inactive.ID.String()}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.AssignRider(testCtx, delivery.ID, AssignRiderRequest{RiderID: uuid4(t)}, staffActor(staff))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestViewScope(t *testing.T) {
	db := newTestDB(t)
	svc := newDeliveryServiceForTest(t, db)

	own := seedBusiness(t, db, "Own Co", nil)
	other := seedBusiness(t, db, "Other Co", nil)
	owner := seedUser(t, db, "owner", permission.RoleBusiness, own)
	stranger := seedUser(t, db, "stranger", permission.RoleBusiness, other)
	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	req := createDeliveryFixture()
	ownID := own.ID.String()
	req.BusinessID = &ownID
	delivery, err := svc.CreateDelivery(testCtx, req, staffActor(staff))
	require.NoError(t, err)

	_, err = svc.GetDelivery(testCtx, delivery.ID, businessActor(owner))
	require.NoError(t, err)

	_, err = svc.GetDelivery(testCtx, delivery.ID, businessActor(stranger))
	assert.True(t, apperrors.IsKind(err, apperrors.KindOwnership))

	// Listing is pinned to the actor's own slice even with a filter for
	// someone else's business.
	deliveries, total, err := svc.ListDeliveries(testCtx, ListDeliveriesQuery{
		BusinessID: own.ID.String(),
		Page:       1,
		Limit:      20,
	}, businessActor(stranger))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, deliveries)
}

func uuid4(t *testing.T) string {
	t.Helper()
	return "b3b1f8a0-0000-4000-8000-000000000001"
}

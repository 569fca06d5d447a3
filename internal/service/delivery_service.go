package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/internal/websocket"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// Actor identifies who is performing a delivery operation. BusinessID is
// set only for BUSINESS accounts.
type Actor struct {
	ID         uuid.UUID
	Role       string
	BusinessID *uuid.UUID
}

type CreateDeliveryRequest struct {
	BusinessID *string `json:"business_id"`

	PickupContact  string   `json:"pickup_contact" binding:"required"`
	PickupPhone    string   `json:"pickup_phone"`
	PickupAddress  string   `json:"pickup_address" binding:"required"`
	PickupRegion   string   `json:"pickup_region"`
	PickupDistrict string   `json:"pickup_district"`
	PickupLat      *float64 `json:"pickup_lat"`
	PickupLng      *float64 `json:"pickup_lng"`

	DropoffContact  string   `json:"dropoff_contact" binding:"required"`
	DropoffPhone    string   `json:"dropoff_phone"`
	DropoffAddress  string   `json:"dropoff_address" binding:"required"`
	DropoffRegion   string   `json:"dropoff_region"`
	DropoffDistrict string   `json:"dropoff_district"`
	DropoffLat      *float64 `json:"dropoff_lat"`
	DropoffLng      *float64 `json:"dropoff_lng"`

	PackageDescription string `json:"package_description"`
}

// QuickOrderRequest is the unauthenticated public order form. No business
// and no fee yet; staff attach both at confirmation.
type QuickOrderRequest struct {
	PickupContact  string `json:"pickup_contact" binding:"required"`
	PickupPhone    string `json:"pickup_phone" binding:"required"`
	PickupAddress  string `json:"pickup_address" binding:"required"`
	PickupRegion   string `json:"pickup_region"`
	PickupDistrict string `json:"pickup_district"`

	DropoffContact  string `json:"dropoff_contact" binding:"required"`
	DropoffPhone    string `json:"dropoff_phone"`
	DropoffAddress  string `json:"dropoff_address" binding:"required"`
	DropoffRegion   string `json:"dropoff_region"`
	DropoffDistrict string `json:"dropoff_district"`

	PackageDescription string `json:"package_description"`
}

type ConfirmDeliveryRequest struct {
	BusinessID *string `json:"business_id"`
	RiderID    *string `json:"rider_id"`
	Note       string  `json:"note"`
}

type AssignRiderRequest struct {
	RiderID string `json:"rider_id" binding:"required,uuid"`
	Note    string `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type UpdateFeeRequest struct {
	DeliveryFee decimal.Decimal `json:"delivery_fee" binding:"required"`
}

type ListDeliveriesQuery struct {
	Status     string
	BusinessID string
	RiderID    string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

// --- Interface ---

type DeliveryService interface {
	CreateDelivery(ctx context.Context, req CreateDeliveryRequest, actor Actor) (*model.Delivery, error)
	// CreateQuickOrder serves the public order form: the delivery lands in
	// PENDING_CONFIRMATION with no business and no fee.
	CreateQuickOrder(ctx context.Context, req QuickOrderRequest) (*model.Delivery, error)
	GetDelivery(ctx context.Context, id uuid.UUID, actor Actor) (*model.Delivery, error)
	ListDeliveries(ctx context.Context, query ListDeliveriesQuery, actor Actor) ([]model.Delivery, int64, error)
	ListDeliveryEvents(ctx context.Context, id uuid.UUID, actor Actor) ([]model.DeliveryEvent, error)
	ConfirmDelivery(ctx context.Context, id uuid.UUID, req ConfirmDeliveryRequest, actor Actor) (*model.Delivery, error)
	RejectDelivery(ctx context.Context, id uuid.UUID, note string, actor Actor) (*model.Delivery, error)
	AssignRider(ctx context.Context, id uuid.UUID, req AssignRiderRequest, actor Actor) (*model.Delivery, error)
	// UpdateStatus walks the delivery one step through the status table.
	// The write is conditional on the status the actor saw, so concurrent
	// updates lose cleanly instead of overwriting each other.
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest, actor Actor) (*model.Delivery, error)
	// UpdateFee overrides the delivery fee. Charges and invoice items
	// already issued keep their snapshotted amounts.
	UpdateFee(ctx context.Context, id uuid.UUID, req UpdateFeeRequest, actor Actor) (*model.Delivery, error)
	DeleteDelivery(ctx context.Context, id uuid.UUID, actor Actor) error
}

type deliveryService struct {
	db           *gorm.DB
	deliveryRepo repository.DeliveryRepository
	userRepo     repository.UserRepository
	chargeRepo   repository.ChargeRepository
	feeResolver  FeeResolver
	auditRepo    repository.AuditRepository
	hub          *websocket.Hub
}

func NewDeliveryService(
	db *gorm.DB,
	deliveryRepo repository.DeliveryRepository,
	userRepo repository.UserRepository,
	chargeRepo repository.ChargeRepository,
	feeResolver FeeResolver,
	auditRepo repository.AuditRepository,
	hub *websocket.Hub,
) DeliveryService {
	return &deliveryService{
		db:           db,
		deliveryRepo: deliveryRepo,
		userRepo:     userRepo,
		chargeRepo:   chargeRepo,
		feeResolver:  feeResolver,
		auditRepo:    auditRepo,
		hub:          hub,
	}
}

// --- Implementation ---

func (s *deliveryService) CreateDelivery(ctx context.Context, req CreateDeliveryRequest, actor Actor) (*model.Delivery, error) {
	var businessID *uuid.UUID
	switch actor.Role {
	case permission.RoleBusiness:
		// BUSINESS accounts always order for themselves.
		if actor.BusinessID == nil {
			return nil, apperrors.NewValidation("business account has no business attached")
		}
		businessID = actor.BusinessID
	default:
		if req.BusinessID != nil && *req.BusinessID != "" {
			id, err := uuid.Parse(*req.BusinessID)
			if err != nil {
				return nil, apperrors.NewValidation("invalid business_id")
			}
			businessID = &id
		}
	}

	delivery := &model.Delivery{
		BusinessID:         businessID,
		PickupContact:      req.PickupContact,
		PickupPhone:        req.PickupPhone,
		PickupAddress:      req.PickupAddress,
		PickupRegion:       req.PickupRegion,
		PickupDistrict:     req.PickupDistrict,
		PickupLat:          req.PickupLat,
		PickupLng:          req.PickupLng,
		DropoffContact:     req.DropoffContact,
		DropoffPhone:       req.DropoffPhone,
		DropoffAddress:     req.DropoffAddress,
		DropoffRegion:      req.DropoffRegion,
		DropoffDistrict:    req.DropoffDistrict,
		DropoffLat:         req.DropoffLat,
		DropoffLng:         req.DropoffLng,
		PackageDescription: req.PackageDescription,
		Status:             model.StatusCreated,
	}

	if businessID != nil {
		fee, ok, err := s.feeResolver.ResolveForBusiness(ctx, *businessID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve delivery fee: %w", err)
		}
		if ok {
			delivery.DeliveryFee = &fee
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if err := s.deliveryRepo.Create(txCtx, delivery); err != nil {
			return fmt.Errorf("failed to create delivery: %w", err)
		}
		event := &model.DeliveryEvent{
			DeliveryID: delivery.ID,
			Status:     model.StatusCreated,
			ActorID:    &actor.ID,
		}
		if err := s.deliveryRepo.AppendEvent(txCtx, event); err != nil {
			return fmt.Errorf("failed to append delivery event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The charge is a second write on purpose: the delivery row stays even
	// when booking the fee fails, and the error is surfaced to the caller.
	if err := s.createDeliveryCharge(ctx, delivery); err != nil {
		return nil, err
	}

	s.audit(ctx, &actor.ID, model.ActionCreateDelivery, delivery.ID.String(), map[string]interface{}{
		"status": delivery.Status,
	})
	s.broadcast(delivery.ID, delivery.Status)
	return delivery, nil
}

func (s *deliveryService) CreateQuickOrder(ctx context.Context, req QuickOrderRequest) (*model.Delivery, error) {
	delivery := &model.Delivery{
		PickupContact:      req.PickupContact,
		PickupPhone:        req.PickupPhone,
		PickupAddress:      req.PickupAddress,
		PickupRegion:       req.PickupRegion,
		PickupDistrict:     req.PickupDistrict,
		DropoffContact:     req.DropoffContact,
		DropoffPhone:       req.DropoffPhone,
		DropoffAddress:     req.DropoffAddress,
		DropoffRegion:      req.DropoffRegion,
		DropoffDistrict:    req.DropoffDistrict,
		PackageDescription: req.PackageDescription,
		Status:             model.StatusPendingConfirmation,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		if err := s.deliveryRepo.Create(txCtx, delivery); err != nil {
			return fmt.Errorf("failed to create quick order: %w", err)
		}
		event := &model.DeliveryEvent{
			DeliveryID: delivery.ID,
			Status:     model.StatusPendingConfirmation,
			Note:       "public quick order",
		}
		if err := s.deliveryRepo.AppendEvent(txCtx, event); err != nil {
			return fmt.Errorf("failed to append delivery event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(delivery.ID, delivery.Status)
	return delivery, nil
}

func (s *deliveryService) GetDelivery(ctx context.Context, id uuid.UUID, actor Actor) (*model.Delivery, error) {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewScope(delivery, actor); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *deliveryService) ListDeliveries(ctx context.Context, query ListDeliveriesQuery, actor Actor) ([]model.Delivery, int64, error) {
	filter := repository.DeliveryFilter{
		Status:    query.Status,
		StartDate: query.StartDate,
		EndDate:   query.EndDate,
		Page:      query.Page,
		Limit:     query.Limit,
	}
	if query.Status != "" && !model.ValidStatus(query.Status) {
		return nil, 0, apperrors.NewValidation("unknown delivery status")
	}
	if query.BusinessID != "" {
		id, err := uuid.Parse(query.BusinessID)
		if err != nil {
			return nil, 0, apperrors.NewValidation("invalid business_id")
		}
		filter.BusinessID = &id
	}
	if query.RiderID != "" {
		id, err := uuid.Parse(query.RiderID)
		if err != nil {
			return nil, 0, apperrors.NewValidation("invalid rider_id")
		}
		filter.RiderID = &id
	}

	// Non-staff actors only ever see their own slice regardless of the
	// filters they send.
	switch actor.Role {
	case permission.RoleBusiness:
		if actor.BusinessID == nil {
			return nil, 0, apperrors.NewValidation("business account has no business attached")
		}
		filter.BusinessID = actor.BusinessID
	case permission.RoleRider:
		riderID := actor.ID
		filter.RiderID = &riderID
	}

	return s.deliveryRepo.List(ctx, filter)
}

func (s *deliveryService) ListDeliveryEvents(ctx context.Context, id uuid.UUID, actor Actor) ([]model.DeliveryEvent, error) {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkViewScope(delivery, actor); err != nil {
		return nil, err
	}
	return s.deliveryRepo.ListEvents(ctx, id)
}

func (s *deliveryService) ConfirmDelivery(ctx context.Context, id uuid.UUID, req ConfirmDeliveryRequest, actor Actor) (*model.Delivery, error) {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != model.StatusPendingConfirmation {
		return nil, apperrors.NewInvalidTransition(delivery.Status, model.StatusCreated)
	}

	updates := map[string]interface{}{}

	businessID := delivery.BusinessID
	if req.BusinessID != nil && *req.BusinessID != "" {
		bid, err := uuid.Parse(*req.BusinessID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid business_id")
		}
		businessID = &bid
		updates["business_id"] = bid
	}
	if businessID == nil {
		return nil, apperrors.NewValidation("confirming a quick order requires a business")
	}

	feeAttached := false
	if delivery.DeliveryFee == nil {
		fee, ok, err := s.feeResolver.ResolveForBusiness(ctx, *businessID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve delivery fee: %w", err)
		}
		if ok {
			updates["delivery_fee"] = fee
			delivery.DeliveryFee = &fee
			feeAttached = true
		}
	}

	next := model.StatusCreated
	if req.RiderID != nil && *req.RiderID != "" {
		rider, err := s.requireRider(ctx, *req.RiderID)
		if err != nil {
			return nil, err
		}
		next = model.StatusAssigned
		updates["assigned_rider_id"] = rider.ID
		delivery.AssignedRiderID = &rider.ID
	}

	if err := s.transition(ctx, delivery, next, req.Note, &actor.ID, updates); err != nil {
		return nil, err
	}

	delivery.BusinessID = businessID
	if feeAttached {
		if err := s.createDeliveryCharge(ctx, delivery); err != nil {
			return nil, err
		}
	}

	s.audit(ctx, &actor.ID, model.ActionConfirmDelivery, delivery.ID.String(), map[string]interface{}{
		"business_id": businessID.String(),
		"status":      next,
	})
	return delivery, nil
}

func (s *deliveryService) RejectDelivery(ctx context.Context, id uuid.UUID, note string, actor Actor) (*model.Delivery, error) {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if delivery.Status != model.StatusPendingConfirmation {
		return nil, apperrors.NewInvalidTransition(delivery.Status, model.StatusRejected)
	}

	if err := s.transition(ctx, delivery, model.StatusRejected, note, &actor.ID, nil); err != nil {
		return nil, err
	}

	s.audit(ctx, &actor.ID, model.ActionRejectDelivery, delivery.ID.String(), map[string]interface{}{
		"note": note,
	})
	return delivery, nil
}

func (s *deliveryService) AssignRider(ctx context.Context, id uuid.UUID, req AssignRiderRequest, actor Actor) (*model.Delivery, error) {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(delivery.Status, model.StatusAssigned) {
		return nil, apperrors.NewInvalidTransition(delivery.Status, model.StatusAssigned)
	}

	rider, err := s.requireRider(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"assigned_rider_id": rider.ID}
	if err := s.transition(ctx, delivery, model.StatusAssigned, req.Note, &actor.ID, updates); err != nil {
		return nil, err
	}
	delivery.AssignedRiderID = &rider.ID
	delivery.AssignedRider = rider

	s.audit(ctx, &actor.ID, model.ActionAssignRider, delivery.ID.String(), map[string]interface{}{
		"rider_id": rider.ID.String(),
	})
	return delivery, nil
}

func (s *deliveryService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest, actor Actor) (*model.Delivery, error) {
	if !model.ValidStatus(req.Status) {
		return nil, apperrors.NewValidation("unknown delivery status")
	}

	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	if actor.Role == permission.RoleRider {
		// Ownership is checked before transition legality so a rider
		// poking someone else's delivery learns nothing about its state.
		if delivery.AssignedRiderID == nil || *delivery.AssignedRiderID != actor.ID {
			return nil, apperrors.NewOwnership("delivery is not assigned to this rider")
		}
		if !model.IsRiderTransition(delivery.Status, req.Status) {
			if model.CanTransition(delivery.Status, req.Status) {
				return nil, apperrors.NewPermissionDenied("deliveries.update_status")
			}
			return nil, apperrors.NewInvalidTransition(delivery.Status, req.Status)
		}
	} else if !model.CanTransition(delivery.Status, req.Status) {
		return nil, apperrors.NewInvalidTransition(delivery.Status, req.Status)
	}

	updates := map[string]interface{}{}
	if req.Status == model.StatusDelivered {
		now := time.Now()
		updates["delivered_at"] = now
		delivery.DeliveredAt = &now
	}

	if err := s.transition(ctx, delivery, req.Status, req.Note, &actor.ID, updates); err != nil {
		return nil, err
	}
	return delivery, nil
}

func (s *deliveryService) UpdateFee(ctx context.Context, id uuid.UUID, req UpdateFeeRequest, actor Actor) (*model.Delivery, error) {
	if req.DeliveryFee.IsNegative() {
		return nil, apperrors.NewValidation("delivery fee must not be negative")
	}

	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return nil, err
	}

	fee := req.DeliveryFee
	delivery.DeliveryFee = &fee
	if err := s.deliveryRepo.Update(ctx, delivery); err != nil {
		return nil, fmt.Errorf("failed to update delivery fee: %w", err)
	}

	s.audit(ctx, &actor.ID, model.ActionUpdateDeliveryFee, delivery.ID.String(), map[string]interface{}{
		"delivery_fee": fee.String(),
	})
	return delivery, nil
}

func (s *deliveryService) DeleteDelivery(ctx context.Context, id uuid.UUID, actor Actor) error {
	delivery, err := s.findDelivery(ctx, id)
	if err != nil {
		return err
	}

	if err := s.deliveryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete delivery: %w", err)
	}

	s.audit(ctx, &actor.ID, model.ActionDeleteDelivery, delivery.ID.String(), map[string]interface{}{
		"status": delivery.Status,
	})
	return nil
}

// --- Helpers ---

func (s *deliveryService) findDelivery(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	delivery, err := s.deliveryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("delivery")
		}
		return nil, fmt.Errorf("failed to load delivery: %w", err)
	}
	return delivery, nil
}

func (s *deliveryService) checkViewScope(delivery *model.Delivery, actor Actor) error {
	switch actor.Role {
	case permission.RoleBusiness:
		if actor.BusinessID == nil || delivery.BusinessID == nil || *delivery.BusinessID != *actor.BusinessID {
			return apperrors.NewOwnership("delivery does not belong to this account")
		}
	case permission.RoleRider:
		if delivery.AssignedRiderID == nil || *delivery.AssignedRiderID != actor.ID {
			return apperrors.NewOwnership("delivery is not assigned to this rider")
		}
	}
	return nil
}

func (s *deliveryService) requireRider(ctx context.Context, riderID string) (*model.User, error) {
	rider, err := s.userRepo.GetByID(ctx, riderID)
	if err != nil {
		return nil, apperrors.NewNotFound("rider")
	}
	if rider.Role != permission.RoleRider {
		return nil, apperrors.NewValidation("assignee is not a rider")
	}
	if !rider.Active {
		return nil, apperrors.NewValidation("rider account is deactivated")
	}
	return rider, nil
}

// createDeliveryCharge books the resolved fee as a revenue charge. Later
// fee edits on the delivery never touch the charge once it exists.
func (s *deliveryService) createDeliveryCharge(ctx context.Context, delivery *model.Delivery) error {
	if delivery.BusinessID == nil || delivery.DeliveryFee == nil || !delivery.DeliveryFee.IsPositive() {
		return nil
	}
	deliveryID := delivery.ID
	charge := &model.Charge{
		BusinessID:  *delivery.BusinessID,
		DeliveryID:  &deliveryID,
		Amount:      *delivery.DeliveryFee,
		Description: fmt.Sprintf("Delivery %s to %s", delivery.ID, delivery.DropoffAddress),
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return fmt.Errorf("failed to create delivery charge: %w", err)
	}
	return nil
}

// transition performs the conditional status write plus the timeline
// append in one transaction. RowsAffected 0 means someone else moved the
// delivery first; the caller's view is stale and the whole step aborts.
func (s *deliveryService) transition(ctx context.Context, delivery *model.Delivery, next, note string, actorID *uuid.UUID, updates map[string]interface{}) error {
	from := delivery.Status
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)
		rows, err := s.deliveryRepo.UpdateStatusIf(txCtx, delivery.ID, from, next, updates)
		if err != nil {
			return fmt.Errorf("failed to update delivery status: %w", err)
		}
		if rows == 0 {
			return apperrors.NewConflict("delivery was modified concurrently")
		}
		event := &model.DeliveryEvent{
			DeliveryID: delivery.ID,
			Status:     next,
			Note:       note,
			ActorID:    actorID,
		}
		if err := s.deliveryRepo.AppendEvent(txCtx, event); err != nil {
			return fmt.Errorf("failed to append delivery event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	delivery.Status = next
	s.broadcast(delivery.ID, next)
	return nil
}

func (s *deliveryService) audit(ctx context.Context, actorID *uuid.UUID, action, entityID string, details map[string]interface{}) {
	payload, _ := json.Marshal(details)
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:   actorID,
		Action:   action,
		EntityID: entityID,
		Details:  string(payload),
	})
}

func (s *deliveryService) broadcast(deliveryID uuid.UUID, status string) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"type":        "delivery_update",
		"delivery_id": deliveryID.String(),
		"status":      status,
	})
	// Drop the notification when nobody is pumping the hub.
	select {
	case s.hub.Broadcast <- payload:
	default:
	}
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- DTOs ---

type CreateChargeRequest struct {
	BusinessID  string          `json:"business_id" binding:"required,uuid"`
	DeliveryID  *string         `json:"delivery_id"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// --- Interface ---

type ChargeService interface {
	// CreateCharge records a manual billable line for a business,
	// optionally tied to a delivery.
	CreateCharge(ctx context.Context, req CreateChargeRequest, actorID *uuid.UUID) (*model.Charge, error)
	GetCharge(ctx context.Context, id uuid.UUID) (*model.Charge, error)
	ListCharges(ctx context.Context, businessID uuid.UUID, start, end time.Time, page, limit int) ([]model.Charge, int64, error)
	// DeleteCharge removes an unbilled charge. Charges already on an
	// invoice are immutable.
	DeleteCharge(ctx context.Context, id uuid.UUID) error
}

type chargeService struct {
	chargeRepo   repository.ChargeRepository
	businessRepo repository.BusinessRepository
	deliveryRepo repository.DeliveryRepository
	auditRepo    repository.AuditRepository
}

func NewChargeService(
	chargeRepo repository.ChargeRepository,
	businessRepo repository.BusinessRepository,
	deliveryRepo repository.DeliveryRepository,
	auditRepo repository.AuditRepository,
) ChargeService {
	return &chargeService{
		chargeRepo:   chargeRepo,
		businessRepo: businessRepo,
		deliveryRepo: deliveryRepo,
		auditRepo:    auditRepo,
	}
}

// --- Implementation ---

func (s *chargeService) CreateCharge(ctx context.Context, req CreateChargeRequest, actorID *uuid.UUID) (*model.Charge, error) {
	if req.Amount.IsNegative() {
		return nil, apperrors.NewValidation("charge amount must not be negative")
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid business_id")
	}
	if _, err := s.businessRepo.FindByID(ctx, businessID); err != nil {
		return nil, apperrors.NewNotFound("business")
	}

	charge := &model.Charge{
		BusinessID:  businessID,
		Amount:      req.Amount,
		Description: req.Description,
	}

	if req.DeliveryID != nil && *req.DeliveryID != "" {
		deliveryID, err := uuid.Parse(*req.DeliveryID)
		if err != nil {
			return nil, apperrors.NewValidation("invalid delivery_id")
		}
		delivery, err := s.deliveryRepo.FindByID(ctx, deliveryID)
		if err != nil {
			return nil, apperrors.NewNotFound("delivery")
		}
		if delivery.BusinessID == nil || *delivery.BusinessID != businessID {
			return nil, apperrors.NewValidation("delivery does not belong to this business")
		}
		charge.DeliveryID = &deliveryID
	}

	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	details, _ := json.Marshal(map[string]string{
		"business_id": businessID.String(),
		"amount":      req.Amount.String(),
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:   actorID,
		Action:   model.ActionCreateCharge,
		EntityID: charge.ID.String(),
		Details:  string(details),
	})
	return charge, nil
}

func (s *chargeService) GetCharge(ctx context.Context, id uuid.UUID) (*model.Charge, error) {
	charge, err := s.chargeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("charge")
	}
	return charge, nil
}

func (s *chargeService) ListCharges(ctx context.Context, businessID uuid.UUID, start, end time.Time, page, limit int) ([]model.Charge, int64, error) {
	return s.chargeRepo.ListByBusiness(ctx, businessID, start, end, page, limit)
}

func (s *chargeService) DeleteCharge(ctx context.Context, id uuid.UUID) error {
	charge, err := s.chargeRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.NewNotFound("charge")
	}
	if charge.InvoiceID != nil {
		return apperrors.NewConflict("charge is already on an invoice")
	}
	if err := s.chargeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete charge: %w", err)
	}
	return nil
}

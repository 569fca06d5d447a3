package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// invoiceStatusTransitions mirrors the delivery table: anything not
// listed is rejected. Proforma conversion has its own path.
var invoiceStatusTransitions = map[string][]string{
	model.InvoiceDraft:    {model.InvoiceSent, model.InvoiceCancelled},
	model.InvoiceSent:     {model.InvoicePaid, model.InvoiceCancelled},
	model.InvoiceProforma: {model.InvoiceCancelled},
}

// --- DTOs ---

type CreateInvoiceRequest struct {
	BusinessID  string    `json:"business_id" binding:"required,uuid"`
	InvoiceType string    `json:"invoice_type" binding:"required,oneof=INVOICE PROFORMA"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
	Note        string    `json:"note"`
}

type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- Interface ---

type InvoiceService interface {
	// CreateInvoice bills everything outstanding for the business in the
	// period: existing unbilled charges plus delivered deliveries that
	// have a fee but no charge yet. Amounts are snapshotted into items so
	// later fee edits never change the document.
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actorID *uuid.UUID) (*model.Invoice, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ListInvoices(ctx context.Context, status string, businessID *uuid.UUID, page, limit int) ([]model.Invoice, int64, error)
	UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, req UpdateInvoiceStatusRequest) (*model.Invoice, error)
	// ConvertProforma turns a proforma into a draft invoice under a fresh
	// invoice number.
	ConvertProforma(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	// DeleteInvoice removes a non-paid invoice and releases its charges
	// back to the unbilled pool.
	DeleteInvoice(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error
}

type invoiceService struct {
	db           *gorm.DB
	invoiceRepo  repository.InvoiceRepository
	chargeRepo   repository.ChargeRepository
	deliveryRepo repository.DeliveryRepository
	businessRepo repository.BusinessRepository
	auditRepo    repository.AuditRepository
}

func NewInvoiceService(
	db *gorm.DB,
	invoiceRepo repository.InvoiceRepository,
	chargeRepo repository.ChargeRepository,
	deliveryRepo repository.DeliveryRepository,
	businessRepo repository.BusinessRepository,
	auditRepo repository.AuditRepository,
) InvoiceService {
	return &invoiceService{
		db:           db,
		invoiceRepo:  invoiceRepo,
		chargeRepo:   chargeRepo,
		deliveryRepo: deliveryRepo,
		businessRepo: businessRepo,
		auditRepo:    auditRepo,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest, actorID *uuid.UUID) (*model.Invoice, error) {
	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return nil, apperrors.NewValidation("invalid business_id")
	}
	if req.PeriodEnd.Before(req.PeriodStart) {
		return nil, apperrors.NewValidation("period_end is before period_start")
	}
	if _, err := s.businessRepo.FindByID(ctx, businessID); err != nil {
		return nil, apperrors.NewNotFound("business")
	}

	status := model.InvoiceDraft
	if req.InvoiceType == model.InvoiceTypeProforma {
		status = model.InvoiceProforma
	}

	invoice := &model.Invoice{
		BusinessID:  businessID,
		InvoiceType: req.InvoiceType,
		Status:      status,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		Note:        req.Note,
		CreatedBy:   actorID,
	}

	// The invoice number is drawn from a count, so two concurrent runs can
	// draw the same one. The unique index on invoice_no rejects the loser;
	// retrying redraws the number against the committed state.
	for attempt := 0; attempt < 3; attempt++ {
		err = s.createInvoiceTx(ctx, invoice, businessID, req)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.NewConflict("invoice number collision, please retry")
	}
	if err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]string{
		"invoice_no":   invoice.InvoiceNo,
		"business_id":  businessID.String(),
		"total_amount": invoice.TotalAmount.String(),
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     actorID,
		Action:     model.ActionCreateInvoice,
		EntityID:   invoice.ID.String(),
		EntityName: invoice.InvoiceNo,
		Details:    string(details),
	})
	return invoice, nil
}

func (s *invoiceService) createInvoiceTx(ctx context.Context, invoice *model.Invoice, businessID uuid.UUID, req CreateInvoiceRequest) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := repository.WithTx(ctx, tx)

		charges, err := s.chargeRepo.ListUnbilled(txCtx, businessID, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return fmt.Errorf("failed to list unbilled charges: %w", err)
		}
		deliveries, err := s.deliveryRepo.ListUnbilledDelivered(txCtx, businessID, req.PeriodStart, req.PeriodEnd)
		if err != nil {
			return fmt.Errorf("failed to list unbilled deliveries: %w", err)
		}
		if len(charges) == 0 && len(deliveries) == 0 {
			return apperrors.NewValidation("nothing to bill in this period")
		}

		no, err := s.nextInvoiceNo(txCtx, req.InvoiceType)
		if err != nil {
			return err
		}
		invoice.InvoiceNo = no

		total := decimal.Zero
		var items []model.InvoiceItem

		chargeIDs := make([]uuid.UUID, 0, len(charges))
		for _, charge := range charges {
			charge := charge
			total = total.Add(charge.Amount)
			chargeIDs = append(chargeIDs, charge.ID)
			items = append(items, model.InvoiceItem{
				ChargeID:    &charge.ID,
				DeliveryID:  charge.DeliveryID,
				Description: charge.Description,
				Amount:      charge.Amount,
			})
		}

		invoice.TotalAmount = total
		for i := range deliveries {
			delivery := &deliveries[i]
			invoice.TotalAmount = invoice.TotalAmount.Add(*delivery.DeliveryFee)
		}

		if err := s.invoiceRepo.Create(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		// Delivered-but-unbilled deliveries get a charge row inside the
		// same transaction, already linked to the invoice, so a
		// concurrent invoice run cannot bill them twice.
		for i := range deliveries {
			delivery := &deliveries[i]
			deliveryID := delivery.ID
			charge := &model.Charge{
				BusinessID:  businessID,
				DeliveryID:  &deliveryID,
				Amount:      *delivery.DeliveryFee,
				Description: fmt.Sprintf("Delivery %s to %s", delivery.ID, delivery.DropoffAddress),
				InvoiceID:   &invoice.ID,
			}
			if err := s.chargeRepo.Create(txCtx, charge); err != nil {
				return fmt.Errorf("failed to create delivery charge: %w", err)
			}
			items = append(items, model.InvoiceItem{
				InvoiceID:   invoice.ID,
				ChargeID:    &charge.ID,
				DeliveryID:  &deliveryID,
				Description: charge.Description,
				Amount:      charge.Amount,
			})
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to create invoice items: %w", err)
			}
		}
		invoice.Items = items

		if len(chargeIDs) > 0 {
			if err := s.chargeRepo.MarkInvoiced(txCtx, chargeIDs, invoice.ID); err != nil {
				return fmt.Errorf("failed to mark charges invoiced: %w", err)
			}
		}
		return nil
	})
}

func (s *invoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("invoice")
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, status string, businessID *uuid.UUID, page, limit int) ([]model.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, status, businessID, page, limit)
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id uuid.UUID, req UpdateInvoiceStatusRequest) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("invoice")
	}

	allowed := false
	for _, next := range invoiceStatusTransitions[invoice.Status] {
		if next == req.Status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewInvalidTransition(invoice.Status, req.Status)
	}

	invoice.Status = req.Status
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) ConvertProforma(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("invoice")
	}
	if invoice.InvoiceType != model.InvoiceTypeProforma || invoice.Status != model.InvoiceProforma {
		return nil, apperrors.NewInvalidTransition(invoice.Status, model.InvoiceDraft)
	}

	for attempt := 0; attempt < 3; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txCtx := repository.WithTx(ctx, tx)
			no, err := s.nextInvoiceNo(txCtx, model.InvoiceTypeInvoice)
			if err != nil {
				return err
			}
			invoice.InvoiceNo = no
			invoice.InvoiceType = model.InvoiceTypeInvoice
			invoice.Status = model.InvoiceDraft
			if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
				return fmt.Errorf("failed to convert proforma: %w", err)
			}
			return nil
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apperrors.NewConflict("invoice number collision, please retry")
	}
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("invoice")
		}
		return fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice.Status == model.InvoicePaid {
		return apperrors.NewConflict("paid invoices cannot be deleted")
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	details, _ := json.Marshal(map[string]string{
		"invoice_no": invoice.InvoiceNo,
		"status":     invoice.Status,
	})
	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     actorID,
		Action:     model.ActionDeleteInvoice,
		EntityID:   invoice.ID.String(),
		EntityName: invoice.InvoiceNo,
		Details:    string(details),
	})
	return nil
}

// nextInvoiceNo builds a sequential number like INV-2026-000042 scoped
// per year and document type.
func (s *invoiceService) nextInvoiceNo(ctx context.Context, invoiceType string) (string, error) {
	prefix := "INV-"
	if invoiceType == model.InvoiceTypeProforma {
		prefix = "PRO-"
	}
	prefix = fmt.Sprintf("%s%d-", prefix, time.Now().Year())

	count, err := s.invoiceRepo.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count invoices: %w", err)
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

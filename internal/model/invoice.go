package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice status enum constants
const (
	InvoiceDraft     = "DRAFT"
	InvoiceProforma  = "PROFORMA"
	InvoiceSent      = "SENT"
	InvoicePaid      = "PAID"
	InvoiceCancelled = "CANCELLED"
)

// Invoice type enum constants
const (
	InvoiceTypeInvoice  = "INVOICE"
	InvoiceTypeProforma = "PROFORMA"
)

// Charge is a billable line item for a business. A charge may exist
// without a linked delivery (manual staff entries).
type Charge struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business    *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	DeliveryID  *uuid.UUID      `gorm:"type:uuid;index" json:"delivery_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"invoice_id"` // set once billed
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// Invoice aggregates a business's charges (and unbilled delivery fees)
// over a date range.
type Invoice struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNo   string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	BusinessID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	Business    *Business       `gorm:"foreignKey:BusinessID" json:"business,omitempty"`
	InvoiceType string          `gorm:"type:varchar(20);not null" json:"invoice_type"` // INVOICE, PROFORMA
	Status      string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	PeriodStart time.Time       `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time       `gorm:"not null" json:"period_end"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"total_amount"`
	Note        string          `gorm:"type:text" json:"note"`
	CreatedBy   *uuid.UUID      `gorm:"type:uuid" json:"created_by"`
	Creator     *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Items       []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// InvoiceItem is one line on an invoice, snapshotting the billed amount
// so later fee edits never change issued documents.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	ChargeID    *uuid.UUID      `gorm:"type:uuid" json:"charge_id"`
	DeliveryID  *uuid.UUID      `gorm:"type:uuid" json:"delivery_id"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

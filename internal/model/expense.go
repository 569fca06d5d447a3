package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseCategory groups operating expenses for reporting.
type ExpenseCategory struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Expense is a single operating-cost entry (fuel, maintenance, salaries...).
type Expense struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    *ExpenseCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Amount      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	Description string           `gorm:"type:text" json:"description"`
	IncurredOn  time.Time        `gorm:"not null;index" json:"incurred_on"`
	CreatedBy   *uuid.UUID       `gorm:"type:uuid" json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

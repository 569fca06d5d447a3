package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Business represents a client company ordering deliveries.
// DeliveryFee, when set, overrides any package fee for that business.
type Business struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string              `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson string              `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string              `gorm:"type:varchar(50)" json:"phone"`
	Email         string              `gorm:"type:varchar(255)" json:"email"`
	Address       string              `gorm:"type:text" json:"address"`
	Region        string              `gorm:"type:varchar(100)" json:"region"`
	DeliveryFee   *decimal.Decimal    `gorm:"type:decimal(18,4)" json:"delivery_fee"` // custom per-delivery override
	PackageID     *uuid.UUID          `gorm:"type:uuid;index" json:"package_id"`
	Package       *DeliveryFeePackage `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Active        bool                `json:"active"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

// DeliveryFeePackage is a named per-delivery pricing tier. At most one
// active package carries IsDefault — enforced by the service, not the schema.
type DeliveryFeePackage struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(100);not null" json:"name"`
	FeePerDelivery decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"fee_per_delivery"`
	IsDefault      bool            `gorm:"index" json:"is_default"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

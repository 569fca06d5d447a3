package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionReplacePermissions = "REPLACE_PERMISSIONS"
	ActionCreateDelivery     = "CREATE_DELIVERY"
	ActionConfirmDelivery    = "CONFIRM_DELIVERY"
	ActionRejectDelivery     = "REJECT_DELIVERY"
	ActionAssignRider        = "ASSIGN_RIDER"
	ActionUpdateDeliveryFee  = "UPDATE_DELIVERY_FEE"
	ActionDeleteDelivery     = "DELETE_DELIVERY"
	ActionCreateCharge       = "CREATE_CHARGE"
	ActionCreateInvoice      = "CREATE_INVOICE"
	ActionDeleteInvoice      = "DELETE_INVOICE"
	ActionCreateUser         = "CREATE_USER"
	ActionDeleteUser         = "DELETE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for unauthenticated flows
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:text" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

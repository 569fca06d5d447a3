package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Delivery status enum constants
const (
	StatusCreated             = "CREATED"
	StatusPendingConfirmation = "PENDING_CONFIRMATION"
	StatusAssigned            = "ASSIGNED"
	StatusPickedUp            = "PICKED_UP"
	StatusInTransit           = "IN_TRANSIT"
	StatusDelivered           = "DELIVERED"
	StatusFailed              = "FAILED"
	StatusRejected            = "REJECTED"
)

// statusTransitions is the full legal transition table. Anything not
// listed here is an invalid transition regardless of actor.
var statusTransitions = map[string][]string{
	StatusPendingConfirmation: {StatusCreated, StatusAssigned, StatusRejected},
	StatusCreated:             {StatusAssigned},
	StatusAssigned:            {StatusPickedUp, StatusFailed},
	StatusPickedUp:            {StatusInTransit, StatusFailed},
	StatusInTransit:           {StatusDelivered, StatusFailed},
}

// riderTransitions is the subset of the table the assigned rider may
// perform. Confirm/reject/assign belong to staff and are excluded.
var riderTransitions = map[string][]string{
	StatusAssigned:  {StatusPickedUp, StatusFailed},
	StatusPickedUp:  {StatusInTransit, StatusFailed},
	StatusInTransit: {StatusDelivered, StatusFailed},
}

var allStatuses = []string{
	StatusCreated, StatusPendingConfirmation, StatusAssigned, StatusPickedUp,
	StatusInTransit, StatusDelivered, StatusFailed, StatusRejected,
}

// AllStatuses returns every delivery status value.
func AllStatuses() []string {
	out := make([]string, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ValidStatus reports whether s is a known delivery status.
func ValidStatus(s string) bool {
	for _, st := range allStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether (from, to) is in the legal transition table.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsRiderTransition reports whether (from, to) is a transition the
// assigned rider performs.
func IsRiderTransition(from, to string) bool {
	for _, next := range riderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether no further actor-initiated transition
// is legal from s.
func IsTerminalStatus(s string) bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusRejected
}

// Delivery is the billable unit of work moving from a pickup point to a
// dropoff point on behalf of a business.
type Delivery struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	// BusinessID is nil for quick orders until staff attach a business at
	// confirmation time.
	BusinessID *uuid.UUID `gorm:"type:uuid;index" json:"business_id"`
	Business   *Business  `gorm:"foreignKey:BusinessID" json:"business,omitempty"`

	PickupContact  string `gorm:"type:varchar(255);not null" json:"pickup_contact"`
	PickupPhone    string `gorm:"type:varchar(20)" json:"pickup_phone"`
	PickupAddress  string `gorm:"type:text;not null" json:"pickup_address"`
	PickupRegion   string `gorm:"type:varchar(100);index" json:"pickup_region"`
	PickupDistrict string `gorm:"type:varchar(100)" json:"pickup_district"`
	PickupLat      *float64 `gorm:"type:double precision" json:"pickup_lat"`
	PickupLng      *float64 `gorm:"type:double precision" json:"pickup_lng"`

	DropoffContact  string `gorm:"type:varchar(255);not null" json:"dropoff_contact"`
	DropoffPhone    string `gorm:"type:varchar(20)" json:"dropoff_phone"`
	DropoffAddress  string `gorm:"type:text;not null" json:"dropoff_address"`
	DropoffRegion   string `gorm:"type:varchar(100);index" json:"dropoff_region"`
	DropoffDistrict string `gorm:"type:varchar(100)" json:"dropoff_district"`
	DropoffLat      *float64 `gorm:"type:double precision" json:"dropoff_lat"`
	DropoffLng      *float64 `gorm:"type:double precision" json:"dropoff_lng"`

	PackageDescription string `gorm:"type:text" json:"package_description"`

	Status          string     `gorm:"type:varchar(30);not null;index" json:"status"`
	AssignedRiderID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_rider_id"`
	AssignedRider   *User      `gorm:"foreignKey:AssignedRiderID" json:"assigned_rider,omitempty"`

	DeliveryFee *decimal.Decimal `gorm:"type:decimal(18,4)" json:"delivery_fee"`

	CreatedAt   time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

// DeliveryEvent is one append-only timeline entry per status change.
// Event history is never mutated or deleted.
type DeliveryEvent struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DeliveryID uuid.UUID  `gorm:"type:uuid;not null;index" json:"delivery_id"`
	Status     string     `gorm:"type:varchar(30);not null" json:"status"`
	Note       string     `gorm:"type:text" json:"note"`
	ActorID    *uuid.UUID `gorm:"type:uuid" json:"actor_id"` // nil for the public quick-order flow
	Actor      *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}

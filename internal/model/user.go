package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents any authenticated actor: back-office admin/staff,
// rider, or business account owner.
type User struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username   string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email      string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone      string         `gorm:"type:varchar(20);not null" json:"phone"`
	Password   string         `gorm:"type:varchar(255);not null" json:"-"`
	Role       string         `gorm:"type:varchar(20);not null;index" json:"role"` // ADMIN, STAFF, RIDER, BUSINESS
	BusinessID *uuid.UUID     `gorm:"type:uuid;index" json:"business_id"`          // set for BUSINESS accounts
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// UserPermission is a single grant: (user_id, permission) appears at most once.
// Grant updates are whole-set replacements, never partial patches.
type UserPermission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_permission" json:"user_id"`
	Permission string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_permission" json:"permission"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// RefreshToken stores long-lived tokens allowing users to request new access tokens
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ID generation happens application-side so the models behave the same
// on Postgres and on the sqlite driver used in tests.

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error               { ensureID(&u.ID); return nil }
func (p *UserPermission) BeforeCreate(tx *gorm.DB) error     { ensureID(&p.ID); return nil }
func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error       { ensureID(&t.ID); return nil }
func (d *Delivery) BeforeCreate(tx *gorm.DB) error           { ensureID(&d.ID); return nil }
func (e *DeliveryEvent) BeforeCreate(tx *gorm.DB) error      { ensureID(&e.ID); return nil }
func (b *Business) BeforeCreate(tx *gorm.DB) error           { ensureID(&b.ID); return nil }
func (p *DeliveryFeePackage) BeforeCreate(tx *gorm.DB) error { ensureID(&p.ID); return nil }
func (c *Charge) BeforeCreate(tx *gorm.DB) error             { ensureID(&c.ID); return nil }
func (i *Invoice) BeforeCreate(tx *gorm.DB) error            { ensureID(&i.ID); return nil }
func (i *InvoiceItem) BeforeCreate(tx *gorm.DB) error        { ensureID(&i.ID); return nil }
func (e *Expense) BeforeCreate(tx *gorm.DB) error            { ensureID(&e.ID); return nil }
func (c *ExpenseCategory) BeforeCreate(tx *gorm.DB) error    { ensureID(&c.ID); return nil }
func (s *Slider) BeforeCreate(tx *gorm.DB) error             { ensureID(&s.ID); return nil }
func (b *ContentBlock) BeforeCreate(tx *gorm.DB) error       { ensureID(&b.ID); return nil }
func (p *CompanyProfile) BeforeCreate(tx *gorm.DB) error     { ensureID(&p.ID); return nil }
func (p *PaymentInstruction) BeforeCreate(tx *gorm.DB) error { ensureID(&p.ID); return nil }
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error           { ensureID(&a.ID); return nil }

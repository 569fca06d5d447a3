package database

import (
	"log"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate runs AutoMigrate for every core model. Split out so tests can
// run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserPermission{},
		&model.RefreshToken{},
		&model.Business{},
		&model.DeliveryFeePackage{},
		&model.Delivery{},
		&model.DeliveryEvent{},
		&model.Charge{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.ExpenseCategory{},
		&model.Expense{},
		&model.Slider{},
		&model.ContentBlock{},
		&model.CompanyProfile{},
		&model.PaymentInstruction{},
		&model.AuditLog{},
	)
}

package service

import (
	"context"
	"testing"

	"github.com/mageuzialbert/skymap-courier/internal/database"
	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// One open connection keeps the in-memory database alive for the
// whole test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedBusiness(t *testing.T, db *gorm.DB, name string, customFee *decimal.Decimal) *model.Business {
	t.Helper()
	business := &model.Business{
		Name:        name,
		DeliveryFee: customFee,
		Active:      true,
	}
	require.NoError(t, db.Create(business).Error)
	return business
}

func seedUser(t *testing.T, db *gorm.DB, username, role string, business *model.Business) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Phone:    "0700000000",
		Password: "not-a-real-hash",
		Role:     role,
		Active:   true,
	}
	if business != nil {
		id := business.ID
		user.BusinessID = &id
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func feeDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newDeliveryServiceForTest(t *testing.T, db *gorm.DB) DeliveryService {
	t.Helper()
	businessRepo := repository.NewBusinessRepository(db)
	packageRepo := repository.NewFeePackageRepository(db)
	return NewDeliveryService(
		db,
		repository.NewDeliveryRepository(db),
		repository.NewUserRepository(db),
		repository.NewChargeRepository(db),
		NewFeeResolver(businessRepo, packageRepo),
		repository.NewAuditRepository(db),
		nil,
	)
}

func staffActor(user *model.User) Actor {
	return Actor{ID: user.ID, Role: permission.RoleStaff}
}

func riderActor(user *model.User) Actor {
	return Actor{ID: user.ID, Role: permission.RoleRider}
}

func businessActor(user *model.User) Actor {
	return Actor{ID: user.ID, Role: permission.RoleBusiness, BusinessID: user.BusinessID}
}

var testCtx = context.Background()

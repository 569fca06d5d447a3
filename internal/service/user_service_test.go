package service

import (
	"testing"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserServiceForTest(t *testing.T, db *gorm.DB) UserService {
	t.Helper()
	return NewUserService(
		db,
		repository.NewUserRepository(db),
		repository.NewPermissionRepository(db),
		repository.NewAuditRepository(db),
	)
}

func TestCreateUserSeedsDefaultGrants(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(t, db)

	staff, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "staff1",
		Email:    "staff1@example.com",
		Phone:    "0700000001",
		Password: "secret123",
		Role:     permission.RoleStaff,
	})
	require.NoError(t, err)
	assert.True(t, staff.Active)

	var rows []model.UserPermission
	require.NoError(t, db.Find(&rows, "user_id = ?", staff.ID).Error)
	persisted := make([]string, 0, len(rows))
	for _, r := range rows {
		persisted = append(persisted, r.Permission)
	}
	assert.ElementsMatch(t, permission.DefaultPermissions(permission.RoleStaff), persisted)

	admin, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "admin1",
		Email:    "admin1@example.com",
		Phone:    "0700000002",
		Password: "secret123",
		Role:     permission.RoleAdmin,
	})
	require.NoError(t, err)

	// ADMIN is not grant-based; nothing is seeded.
	var count int64
	require.NoError(t, db.Model(&model.UserPermission{}).Where("user_id = ?", admin.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateUserValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(t, db)

	_, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "u1", Email: "u1@example.com", Phone: "1", Password: "secret123",
		Role: "SUPERUSER",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	// BUSINESS accounts must reference a business.
	_, err = svc.CreateUser(testCtx, CreateUserRequest{
		Username: "owner", Email: "owner@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleBusiness,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.CreateUser(testCtx, CreateUserRequest{
		Username: "u2", Email: "u2@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	require.NoError(t, err)

	// Duplicate username and email conflict, they are not server faults.
	_, err = svc.CreateUser(testCtx, CreateUserRequest{
		Username: "u2", Email: "other@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
	_, err = svc.CreateUser(testCtx, CreateUserRequest{
		Username: "u3", Email: "u2@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestLoginAndRefreshRotation(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(t, db)

	_, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "staff1", Email: "staff1@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	require.NoError(t, err)

	// A wrong password is an authentication failure, never a server fault.
	_, err = svc.Login(testCtx, LoginUserRequest{Email: "staff1@example.com", Password: "wrong"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	_, err = svc.Login(testCtx, LoginUserRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	tokens, err := svc.Login(testCtx, LoginUserRequest{Email: "staff1@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, tokens.Token)
	require.NotEmpty(t, tokens.RefreshToken)

	// Refresh rotates: the fresh pair works, the old token is dead.
	rotated, err := svc.Refresh(testCtx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, err = svc.Refresh(testCtx, RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	// Logout invalidates the current token.
	require.NoError(t, svc.Logout(testCtx, rotated.RefreshToken))
	_, err = svc.Refresh(testCtx, RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	assert.Error(t, err)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(t, db)

	created, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "staff1", Email: "staff1@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateUser(testCtx, created.ID.String(), UpdateUserRequest{Active: &inactive})
	require.NoError(t, err)

	_, err = svc.Login(testCtx, LoginUserRequest{Email: "staff1@example.com", Password: "secret123"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
}

func TestDeleteUserRemovesGrants(t *testing.T) {
	db := newTestDB(t)
	svc := newUserServiceForTest(t, db)

	created, err := svc.CreateUser(testCtx, CreateUserRequest{
		Username: "staff1", Email: "staff1@example.com", Phone: "1", Password: "secret123",
		Role: permission.RoleStaff,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(testCtx, created.ID.String(), nil))

	var count int64
	require.NoError(t, db.Model(&model.UserPermission{}).Where("user_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = svc.GetUserByID(testCtx, created.ID.String())
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

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

func newPermissionServiceForTest(t *testing.T, db *gorm.DB) PermissionService {
	t.Helper()
	return NewPermissionService(
		repository.NewUserRepository(db),
		repository.NewPermissionRepository(db),
		repository.NewAuditRepository(db),
	)
}

func TestReplaceUserPermissionsSanitizes(t *testing.T) {
	db := newTestDB(t)
	svc := newPermissionServiceForTest(t, db)

	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)
	admin := seedUser(t, db, "admin1", permission.RoleAdmin, nil)

	got, err := svc.ReplaceUserPermissions(testCtx, staff.ID.String(), ReplacePermissionsRequest{
		Permissions: []string{
			"deliveries.view",
			"deliveries.view", // duplicate
			"deliveries.teleport",
			"view_invoices", // legacy name
			"deliveries.view_assigned", // rider-only
		},
	}, &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"deliveries.view", "invoices.view"}, got.Permissions)

	// Persisted rows match the sanitized set.
	var rows []model.UserPermission
	require.NoError(t, db.Find(&rows, "user_id = ?", staff.ID).Error)
	persisted := make([]string, 0, len(rows))
	for _, r := range rows {
		persisted = append(persisted, r.Permission)
	}
	assert.ElementsMatch(t, []string{"deliveries.view", "invoices.view"}, persisted)

	// The replacement is a whole-set swap, not a merge.
	got, err = svc.ReplaceUserPermissions(testCtx, staff.ID.String(), ReplacePermissionsRequest{
		Permissions: []string{"operations.view"},
	}, &admin.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"operations.view"}, got.Permissions)

	require.NoError(t, db.Find(&rows, "user_id = ?", staff.ID).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "operations.view", rows[0].Permission)

	// Each replacement wrote an audit entry.
	var auditCount int64
	require.NoError(t, db.Model(&model.AuditLog{}).
		Where("action = ?", model.ActionReplacePermissions).
		Count(&auditCount).Error)
	assert.EqualValues(t, 2, auditCount)
}

func TestReplaceUserPermissionsRoleGuard(t *testing.T) {
	db := newTestDB(t)
	svc := newPermissionServiceForTest(t, db)

	business := seedBusiness(t, db, "Acme Ltd", nil)
	owner := seedUser(t, db, "owner", permission.RoleBusiness, business)
	admin := seedUser(t, db, "admin1", permission.RoleAdmin, nil)

	for _, u := range []*model.User{owner, admin} {
		_, err := svc.ReplaceUserPermissions(testCtx, u.ID.String(), ReplacePermissionsRequest{
			Permissions: []string{"deliveries.view"},
		}, nil)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation), u.Role)
	}

	_, err := svc.ReplaceUserPermissions(testCtx, uuid4(t), ReplacePermissionsRequest{
		Permissions: []string{"deliveries.view"},
	}, nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestApplyPreset(t *testing.T) {
	db := newTestDB(t)
	svc := newPermissionServiceForTest(t, db)

	rider := seedUser(t, db, "rider1", permission.RoleRider, nil)

	got, err := svc.ApplyPreset(testCtx, rider.ID.String(), ApplyPresetRequest{Preset: permission.PresetDefault}, nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, permission.DefaultPermissions(permission.RoleRider), got.Permissions)

	got, err = svc.ApplyPreset(testCtx, rider.ID.String(), ApplyPresetRequest{Preset: permission.PresetViewOnly}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"deliveries.view_assigned"}, got.Permissions)
}

func TestGetUserPermissions(t *testing.T) {
	db := newTestDB(t)
	svc := newPermissionServiceForTest(t, db)

	staff := seedUser(t, db, "staff1", permission.RoleStaff, nil)

	got, err := svc.GetUserPermissions(testCtx, staff.ID.String())
	require.NoError(t, err)
	assert.Equal(t, permission.RoleStaff, got.Role)
	assert.Empty(t, got.Permissions)
	assert.NotNil(t, got.Permissions)
}

package repository

import (
	"context"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionRepository persists per-user permission grants.
type PermissionRepository interface {
	LoadGrants(ctx context.Context, userID uuid.UUID) ([]string, error)
	// ReplaceGrants swaps the whole grant set in one transaction —
	// grants are never partially patched.
	ReplaceGrants(ctx context.Context, userID uuid.UUID, permissions []string) error
	DeleteGrants(ctx context.Context, userID uuid.UUID) error
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) LoadGrants(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var perms []string
	err := GetDB(ctx, r.db).
		Model(&model.UserPermission{}).
		Where("user_id = ?", userID).
		Pluck("permission", &perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *permissionRepository) ReplaceGrants(ctx context.Context, userID uuid.UUID, permissions []string) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserPermission{}).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		rows := make([]model.UserPermission, 0, len(permissions))
		for _, p := range permissions {
			rows = append(rows, model.UserPermission{UserID: userID, Permission: p})
		}
		return tx.Create(&rows).Error
	})
}

func (r *permissionRepository) DeleteGrants(ctx context.Context, userID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("user_id = ?", userID).Delete(&model.UserPermission{}).Error
}

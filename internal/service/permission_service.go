package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/permission"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
)

// --- DTOs ---

type ReplacePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

type ApplyPresetRequest struct {
	Preset string `json:"preset" binding:"required,oneof=full default view_only"`
}

type UserPermissionsResponse struct {
	UserID      string   `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// --- Interface ---

type PermissionService interface {
	GetCatalog(ctx context.Context) []permission.Module
	GetUserPermissions(ctx context.Context, userID string) (*UserPermissionsResponse, error)
	// ReplaceUserPermissions sanitizes the submitted set against the
	// catalog and swaps the user's grants atomically. Client strings
	// are never persisted verbatim.
	ReplaceUserPermissions(ctx context.Context, userID string, req ReplacePermissionsRequest, actorID *uuid.UUID) (*UserPermissionsResponse, error)
	ApplyPreset(ctx context.Context, userID string, req ApplyPresetRequest, actorID *uuid.UUID) (*UserPermissionsResponse, error)
}

type permissionService struct {
	userRepo  repository.UserRepository
	permRepo  repository.PermissionRepository
	auditRepo repository.AuditRepository
}

func NewPermissionService(userRepo repository.UserRepository, permRepo repository.PermissionRepository, auditRepo repository.AuditRepository) PermissionService {
	return &permissionService{userRepo: userRepo, permRepo: permRepo, auditRepo: auditRepo}
}

// --- Implementation ---

func (s *permissionService) GetCatalog(ctx context.Context) []permission.Module {
	return permission.Catalog()
}

func (s *permissionService) GetUserPermissions(ctx context.Context, userID string) (*UserPermissionsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewNotFound("user")
	}

	perms, err := s.permRepo.LoadGrants(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}
	if perms == nil {
		perms = []string{}
	}

	return &UserPermissionsResponse{
		UserID:      user.ID.String(),
		Role:        user.Role,
		Permissions: perms,
	}, nil
}

func (s *permissionService) ReplaceUserPermissions(ctx context.Context, userID string, req ReplacePermissionsRequest, actorID *uuid.UUID) (*UserPermissionsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewNotFound("user")
	}

	if user.Role != permission.RoleStaff && user.Role != permission.RoleRider {
		return nil, apperrors.NewValidation("only STAFF and RIDER accounts have configurable permissions")
	}

	valid := permission.ValidatePermissions(req.Permissions, user.Role)
	return s.replace(ctx, user, valid, actorID)
}

func (s *permissionService) ApplyPreset(ctx context.Context, userID string, req ApplyPresetRequest, actorID *uuid.UUID) (*UserPermissionsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewNotFound("user")
	}

	if user.Role != permission.RoleStaff && user.Role != permission.RoleRider {
		return nil, apperrors.NewValidation("only STAFF and RIDER accounts have configurable permissions")
	}

	perms := permission.PresetPermissions(req.Preset, user.Role)
	return s.replace(ctx, user, perms, actorID)
}

func (s *permissionService) replace(ctx context.Context, user *model.User, perms []string, actorID *uuid.UUID) (*UserPermissionsResponse, error) {
	if err := s.permRepo.ReplaceGrants(ctx, user.ID, perms); err != nil {
		return nil, fmt.Errorf("failed to replace grants: %w", err)
	}

	details, _ := json.Marshal(map[string]interface{}{"permissions": perms})
	audit := model.AuditLog{
		UserID:     actorID,
		Action:     model.ActionReplacePermissions,
		EntityID:   user.ID.String(),
		EntityName: user.Username,
		Details:    string(details),
	}
	if err := s.auditRepo.Log(ctx, &audit); err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	if perms == nil {
		perms = []string{}
	}
	return &UserPermissionsResponse{
		UserID:      user.ID.String(),
		Role:        user.Role,
		Permissions: perms,
	}, nil
}

package service

import (
	"context"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
)

type AuditService interface {
	ListAuditLogs(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

func (s *auditService) ListAuditLogs(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, action, page, limit)
}

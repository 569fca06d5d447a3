package service

import (
	"context"
	"fmt"

	"github.com/mageuzialbert/skymap-courier/internal/model"
	"github.com/mageuzialbert/skymap-courier/internal/repository"
	"github.com/mageuzialbert/skymap-courier/pkg/apperrors"

	"github.com/google/uuid"
)

// --- DTOs ---

type CompanyProfileRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"omitempty,email"`
	TaxID   string `json:"tax_id"`
	LogoURL string `json:"logo_url" binding:"omitempty,url"`
}

type PaymentInstructionRequest struct {
	Label     string `json:"label" binding:"required"`
	Details   string `json:"details" binding:"required"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

// --- Interface ---

type SettingsService interface {
	GetCompanyProfile(ctx context.Context) (*model.CompanyProfile, error)
	UpdateCompanyProfile(ctx context.Context, req CompanyProfileRequest) (*model.CompanyProfile, error)

	CreatePaymentInstruction(ctx context.Context, req PaymentInstructionRequest) (*model.PaymentInstruction, error)
	ListPaymentInstructions(ctx context.Context, activeOnly bool) ([]model.PaymentInstruction, error)
	UpdatePaymentInstruction(ctx context.Context, id uuid.UUID, req PaymentInstructionRequest) (*model.PaymentInstruction, error)
	DeletePaymentInstruction(ctx context.Context, id uuid.UUID) error
}

type settingsService struct {
	settingsRepo repository.SettingsRepository
}

func NewSettingsService(settingsRepo repository.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// --- Implementation ---

func (s *settingsService) GetCompanyProfile(ctx context.Context) (*model.CompanyProfile, error) {
	return s.settingsRepo.GetCompanyProfile(ctx)
}

func (s *settingsService) UpdateCompanyProfile(ctx context.Context, req CompanyProfileRequest) (*model.CompanyProfile, error) {
	profile, err := s.settingsRepo.GetCompanyProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}

	profile.Name = req.Name
	profile.Address = req.Address
	profile.Phone = req.Phone
	profile.Email = req.Email
	profile.TaxID = req.TaxID
	profile.LogoURL = req.LogoURL

	if err := s.settingsRepo.UpdateCompanyProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to update company profile: %w", err)
	}
	return profile, nil
}

func (s *settingsService) CreatePaymentInstruction(ctx context.Context, req PaymentInstructionRequest) (*model.PaymentInstruction, error) {
	instr := &model.PaymentInstruction{
		Label:     req.Label,
		Details:   req.Details,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if req.Active != nil {
		instr.Active = *req.Active
	}
	if err := s.settingsRepo.CreatePaymentInstruction(ctx, instr); err != nil {
		return nil, fmt.Errorf("failed to create payment instruction: %w", err)
	}
	return instr, nil
}

func (s *settingsService) ListPaymentInstructions(ctx context.Context, activeOnly bool) ([]model.PaymentInstruction, error) {
	return s.settingsRepo.ListPaymentInstructions(ctx, activeOnly)
}

func (s *settingsService) UpdatePaymentInstruction(ctx context.Context, id uuid.UUID, req PaymentInstructionRequest) (*model.PaymentInstruction, error) {
	instr, err := s.settingsRepo.FindPaymentInstruction(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("payment instruction")
	}

	instr.Label = req.Label
	instr.Details = req.Details
	instr.SortOrder = req.SortOrder
	if req.Active != nil {
		instr.Active = *req.Active
	}
	if err := s.settingsRepo.UpdatePaymentInstruction(ctx, instr); err != nil {
		return nil, fmt.Errorf("failed to update payment instruction: %w", err)
	}
	return instr, nil
}

func (s *settingsService) DeletePaymentInstruction(ctx context.Context, id uuid.UUID) error {
	if _, err := s.settingsRepo.FindPaymentInstruction(ctx, id); err != nil {
		return apperrors.NewNotFound("payment instruction")
	}
	if err := s.settingsRepo.DeletePaymentInstruction(ctx, id); err != nil {
		return fmt.Errorf("failed to delete payment instruction: %w", err)
	}
	return nil
}

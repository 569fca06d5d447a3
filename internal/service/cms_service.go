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

type SliderRequest struct {
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url" binding:"required,url"`
	SortOrder int    `json:"sort_order"`
	Active    *bool  `json:"active"`
}

type ContentBlockRequest struct {
	Key    string `json:"key" binding:"required"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Active *bool  `json:"active"`
}

// --- Interface ---

type CMSService interface {
	CreateSlider(ctx context.Context, req SliderRequest) (*model.Slider, error)
	ListSliders(ctx context.Context, activeOnly bool) ([]model.Slider, error)
	UpdateSlider(ctx context.Context, id uuid.UUID, req SliderRequest) (*model.Slider, error)
	DeleteSlider(ctx context.Context, id uuid.UUID) error

	CreateContentBlock(ctx context.Context, req ContentBlockRequest) (*model.ContentBlock, error)
	GetContentBlockByKey(ctx context.Context, key string) (*model.ContentBlock, error)
	ListContentBlocks(ctx context.Context, activeOnly bool) ([]model.ContentBlock, error)
	UpdateContentBlock(ctx context.Context, id uuid.UUID, req ContentBlockRequest) (*model.ContentBlock, error)
	DeleteContentBlock(ctx context.Context, id uuid.UUID) error
}

type cmsService struct {
	cmsRepo repository.CMSRepository
}

func NewCMSService(cmsRepo repository.CMSRepository) CMSService {
	return &cmsService{cmsRepo: cmsRepo}
}

// --- Implementation ---

func (s *cmsService) CreateSlider(ctx context.Context, req SliderRequest) (*model.Slider, error) {
	slider := &model.Slider{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		ImageURL:  req.ImageURL,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if req.Active != nil {
		slider.Active = *req.Active
	}
	if err := s.cmsRepo.CreateSlider(ctx, slider); err != nil {
		return nil, fmt.Errorf("failed to create slider: %w", err)
	}
	return slider, nil
}

func (s *cmsService) ListSliders(ctx context.Context, activeOnly bool) ([]model.Slider, error) {
	return s.cmsRepo.ListSliders(ctx, activeOnly)
}

func (s *cmsService) UpdateSlider(ctx context.Context, id uuid.UUID, req SliderRequest) (*model.Slider, error) {
	slider, err := s.cmsRepo.FindSlider(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("slider")
	}

	slider.Title = req.Title
	slider.Subtitle = req.Subtitle
	slider.ImageURL = req.ImageURL
	slider.SortOrder = req.SortOrder
	if req.Active != nil {
		slider.Active = *req.Active
	}
	if err := s.cmsRepo.UpdateSlider(ctx, slider); err != nil {
		return nil, fmt.Errorf("failed to update slider: %w", err)
	}
	return slider, nil
}

func (s *cmsService) DeleteSlider(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cmsRepo.FindSlider(ctx, id); err != nil {
		return apperrors.NewNotFound("slider")
	}
	if err := s.cmsRepo.DeleteSlider(ctx, id); err != nil {
		return fmt.Errorf("failed to delete slider: %w", err)
	}
	return nil
}

func (s *cmsService) CreateContentBlock(ctx context.Context, req ContentBlockRequest) (*model.ContentBlock, error) {
	if existing, err := s.cmsRepo.FindContentBlockByKey(ctx, req.Key); err == nil && existing != nil {
		return nil, apperrors.NewConflict("content block key already exists")
	}

	block := &model.ContentBlock{
		Key:    req.Key,
		Title:  req.Title,
		Body:   req.Body,
		Active: true,
	}
	if req.Active != nil {
		block.Active = *req.Active
	}
	if err := s.cmsRepo.CreateContentBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to create content block: %w", err)
	}
	return block, nil
}

func (s *cmsService) GetContentBlockByKey(ctx context.Context, key string) (*model.ContentBlock, error) {
	block, err := s.cmsRepo.FindContentBlockByKey(ctx, key)
	if err != nil {
		return nil, apperrors.NewNotFound("content block")
	}
	return block, nil
}

func (s *cmsService) ListContentBlocks(ctx context.Context, activeOnly bool) ([]model.ContentBlock, error) {
	return s.cmsRepo.ListContentBlocks(ctx, activeOnly)
}

func (s *cmsService) UpdateContentBlock(ctx context.Context, id uuid.UUID, req ContentBlockRequest) (*model.ContentBlock, error) {
	block, err := s.cmsRepo.FindContentBlock(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("content block")
	}

	block.Key = req.Key
	block.Title = req.Title
	block.Body = req.Body
	if req.Active != nil {
		block.Active = *req.Active
	}
	if err := s.cmsRepo.UpdateContentBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("failed to update content block: %w", err)
	}
	return block, nil
}

func (s *cmsService) DeleteContentBlock(ctx context.Context, id uuid.UUID) error {
	if _, err := s.cmsRepo.FindContentBlock(ctx, id); err != nil {
		return apperrors.NewNotFound("content block")
	}
	if err := s.cmsRepo.DeleteContentBlock(ctx, id); err != nil {
		return fmt.Errorf("failed to delete content block: %w", err)
	}
	return nil
}

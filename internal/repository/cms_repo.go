package repository

import (
	"context"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CMSRepository manages landing-page sliders and content blocks.
type CMSRepository interface {
	CreateSlider(ctx context.Context, slider *model.Slider) error
	FindSlider(ctx context.Context, id uuid.UUID) (*model.Slider, error)
	ListSliders(ctx context.Context, activeOnly bool) ([]model.Slider, error)
	UpdateSlider(ctx context.Context, slider *model.Slider) error
	DeleteSlider(ctx context.Context, id uuid.UUID) error

	CreateContentBlock(ctx context.Context, block *model.ContentBlock) error
	FindContentBlock(ctx context.Context, id uuid.UUID) (*model.ContentBlock, error)
	FindContentBlockByKey(ctx context.Context, key string) (*model.ContentBlock, error)
	ListContentBlocks(ctx context.Context, activeOnly bool) ([]model.ContentBlock, error)
	UpdateContentBlock(ctx context.Context, block *model.ContentBlock) error
	DeleteContentBlock(ctx context.Context, id uuid.UUID) error
}

type cmsRepository struct {
	db *gorm.DB
}

func NewCMSRepository(db *gorm.DB) CMSRepository {
	return &cmsRepository{db: db}
}

func (r *cmsRepository) CreateSlider(ctx context.Context, slider *model.Slider) error {
	return GetDB(ctx, r.db).Create(slider).Error
}

func (r *cmsRepository) FindSlider(ctx context.Context, id uuid.UUID) (*model.Slider, error) {
	var slider model.Slider
	if err := GetDB(ctx, r.db).First(&slider, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slider, nil
}

func (r *cmsRepository) ListSliders(ctx context.Context, activeOnly bool) ([]model.Slider, error) {
	var sliders []model.Slider
	query := GetDB(ctx, r.db).Order("sort_order ASC, created_at ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&sliders).Error; err != nil {
		return nil, err
	}
	return sliders, nil
}

func (r *cmsRepository) UpdateSlider(ctx context.Context, slider *model.Slider) error {
	return GetDB(ctx, r.db).Save(slider).Error
}

func (r *cmsRepository) DeleteSlider(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.Slider{}, "id = ?", id).Error
}

func (r *cmsRepository) CreateContentBlock(ctx context.Context, block *model.ContentBlock) error {
	return GetDB(ctx, r.db).Create(block).Error
}

func (r *cmsRepository) FindContentBlock(ctx context.Context, id uuid.UUID) (*model.ContentBlock, error) {
	var block model.ContentBlock
	if err := GetDB(ctx, r.db).First(&block, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *cmsRepository) FindContentBlockByKey(ctx context.Context, key string) (*model.ContentBlock, error) {
	var block model.ContentBlock
	if err := GetDB(ctx, r.db).First(&block, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *cmsRepository) ListContentBlocks(ctx context.Context, activeOnly bool) ([]model.ContentBlock, error) {
	var blocks []model.ContentBlock
	query := GetDB(ctx, r.db).Order("key ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *cmsRepository) UpdateContentBlock(ctx context.Context, block *model.ContentBlock) error {
	return GetDB(ctx, r.db).Save(block).Error
}

func (r *cmsRepository) DeleteContentBlock(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Delete(&model.ContentBlock{}, "id = ?", id).Error
}

package repository

import (
	"context"
	"time"

	"github.com/mageuzialbert/skymap-courier/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryFilter narrows delivery listings.
type DeliveryFilter struct {
	Status     string
	BusinessID *uuid.UUID
	RiderID    *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	Limit      int
}

type DeliveryRepository interface {
	Create(ctx context.Context, delivery *model.Delivery) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error)
	List(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, int64, error)
	Update(ctx context.Context, delivery *model.Delivery) error
	// UpdateStatusIf performs the conditional write making transitions
	// atomic: the row only moves when its status still equals expected.
	// Returns the number of rows affected — 0 means a lost-update race.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next string, updates map[string]interface{}) (int64, error)
	// Delete hard-deletes the delivery together with its charge and
	// event rows in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
	AppendEvent(ctx context.Context, event *model.DeliveryEvent) error
	ListEvents(ctx context.Context, deliveryID uuid.UUID) ([]model.DeliveryEvent, error)
	CountByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error)
	// ListUnbilledDelivered returns delivered deliveries with a fee in
	// range that have no charge row yet, for invoice aggregation.
	ListUnbilledDelivered(ctx context.Context, businessID uuid.UUID, start, end time.Time) ([]model.Delivery, error)
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(ctx context.Context, delivery *model.Delivery) error {
	return GetDB(ctx, r.db).Create(delivery).Error
}

func (r *deliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Delivery, error) {
	var delivery model.Delivery
	if err := GetDB(ctx, r.db).
		Preload("Business").
		Preload("AssignedRider").
		First(&delivery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

func (r *deliveryRepository) List(ctx context.Context, filter DeliveryFilter) ([]model.Delivery, int64, error) {
	var deliveries []model.Delivery
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.BusinessID != nil {
			q = q.Where("business_id = ?", *filter.BusinessID)
		}
		if filter.RiderID != nil {
			q = q.Where("assigned_rider_id = ?", *filter.RiderID)
		}
		if filter.StartDate != nil {
			q = q.Where("created_at >= ?", *filter.StartDate)
		}
		if filter.EndDate != nil {
			q = q.Where("created_at <= ?", *filter.EndDate)
		}
		return q
	}

	if err := apply(db.Model(&model.Delivery{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db.Preload("Business").Preload("AssignedRider")).
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}

	return deliveries, total, nil
}

func (r *deliveryRepository) Update(ctx context.Context, delivery *model.Delivery) error {
	return GetDB(ctx, r.db).Save(delivery).Error
}

func (r *deliveryRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next string, updates map[string]interface{}) (int64, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = next
	res := GetDB(ctx, r.db).
		Model(&model.Delivery{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *deliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("delivery_id = ?", id).Delete(&model.Charge{}).Error; err != nil {
			return err
		}
		if err := tx.Where("delivery_id = ?", id).Delete(&model.DeliveryEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Delivery{}, "id = ?", id).Error
	})
}

func (r *deliveryRepository) AppendEvent(ctx context.Context, event *model.DeliveryEvent) error {
	return GetDB(ctx, r.db).Create(event).Error
}

func (r *deliveryRepository) ListEvents(ctx context.Context, deliveryID uuid.UUID) ([]model.DeliveryEvent, error) {
	var events []model.DeliveryEvent
	if err := GetDB(ctx, r.db).
		Preload("Actor").
		Where("delivery_id = ?", deliveryID).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *deliveryRepository) CountByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := GetDB(ctx, r.db).
		Model(&model.Delivery{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *deliveryRepository) ListUnbilledDelivered(ctx context.Context, businessID uuid.UUID, start, end time.Time) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	err := GetDB(ctx, r.db).
		Where("business_id = ? AND status = ? AND delivery_fee IS NOT NULL", businessID, model.StatusDelivered).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Where("id NOT IN (?)", GetDB(ctx, r.db).
			Model(&model.Charge{}).
			Select("delivery_id").
			Where("delivery_id IS NOT NULL")).
		Order("created_at ASC").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

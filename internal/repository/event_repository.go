package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
)

type RentalEventRepository interface {
	// List возвращает события аудита, новые первыми.
	List(ctx context.Context, limit, offset int) ([]model.RentalEvent, int64, error)
	// ListByLocation возвращает события одной аренды.
	ListByLocation(ctx context.Context, locationID int64) ([]model.RentalEvent, error)
}

type GormRentalEventRepository struct {
	db *gorm.DB
}

func NewGormRentalEventRepository(db *gorm.DB) *GormRentalEventRepository {
	return &GormRentalEventRepository{db: db}
}

func (r *GormRentalEventRepository) List(ctx context.Context, limit, offset int) ([]model.RentalEvent, int64, error) {
	var (
		events []model.RentalEvent
		total  int64
	)

	q := r.db.WithContext(ctx).Model(&model.RentalEvent{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("created_at DESC").Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *GormRentalEventRepository) ListByLocation(ctx context.Context, locationID int64) ([]model.RentalEvent, error) {
	var events []model.RentalEvent
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

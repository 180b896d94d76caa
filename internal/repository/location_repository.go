package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
)

type LocationRepository interface {
	// Найти запись аренды по ID (с клиентом и техникой).
	GetByID(ctx context.Context, id int64) (*model.Location, error)
	// Список аренд в порядке вставки, клиент и техника загружены жадно.
	List(ctx context.Context, limit, offset int) ([]model.Location, int64, error)
	// Аренды одного клиента.
	ListByClient(ctx context.Context, clientID int64) ([]model.Location, error)
}

type GormLocationRepository struct {
	db *gorm.DB
}

func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

func (r *GormLocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	var loc model.Location
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Equipment").
		First(&loc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *GormLocationRepository) List(ctx context.Context, limit, offset int) ([]model.Location, int64, error) {
	var (
		locations []model.Location
		total     int64
	)

	q := r.db.WithContext(ctx).Model(&model.Location{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	err := q.
		Preload("Client").
		Preload("Equipment").
		Order("id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, 0, err
	}

	return locations, total, nil
}

func (r *GormLocationRepository) ListByClient(ctx context.Context, clientID int64) ([]model.Location, error) {
	var locations []model.Location
	err := r.db.WithContext(ctx).
		Where("id_client = ?", clientID).
		Preload("Client").
		Preload("Equipment").
		Order("id ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

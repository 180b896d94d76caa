package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
)

type EquipmentRepository interface {
	// Создать единицу техники.
	Create(ctx context.Context, equipment *model.Equipment) error
	// Полное обновление полей единицы техники.
	Update(ctx context.Context, equipment *model.Equipment) error
	// Найти по ID.
	GetByID(ctx context.Context, id int64) (*model.Equipment, error)
	// Найти по имени (первое совпадение).
	FindByName(ctx context.Context, name string) (*model.Equipment, error)
	// Список в порядке вставки; onlyAvailable — только свободная техника.
	List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]model.Equipment, int64, error)
}

type GormEquipmentRepository struct {
	db *gorm.DB
}

func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

func (r *GormEquipmentRepository) Create(ctx context.Context, equipment *model.Equipment) error {
	return r.db.WithContext(ctx).Create(equipment).Error
}

func (r *GormEquipmentRepository) Update(ctx context.Context, equipment *model.Equipment) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Equipment{}).
		Where("id = ?", equipment.ID).
		Updates(map[string]any{
			"name":         equipment.Name,
			"cost_per_day": equipment.CostPerDay,
			"is_available": equipment.IsAvailable,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormEquipmentRepository) GetByID(ctx context.Context, id int64) (*model.Equipment, error) {
	var e model.Equipment
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEquipmentRepository) FindByName(ctx context.Context, name string) (*model.Equipment, error) {
	var e model.Equipment
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *GormEquipmentRepository) List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]model.Equipment, int64, error) {
	var (
		equipments []model.Equipment
		total      int64
	)

	q := r.db.WithContext(ctx).Model(&model.Equipment{})
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("id ASC").Find(&equipments).Error; err != nil {
		return nil, 0, err
	}

	return equipments, total, nil
}

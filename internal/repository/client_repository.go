package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
)

type ClientRepository interface {
	// Создать нового клиента.
	Create(ctx context.Context, client *model.Client) error
	// Полное обновление полей клиента.
	Update(ctx context.Context, client *model.Client) error
	// Найти клиента по ID.
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	// Найти клиента по телефону (сравнение по цифрам).
	FindByPhone(ctx context.Context, phone string) (*model.Client, error)
	// Список клиентов в порядке вставки с пагинацией (limit <= 0 — без неё).
	List(ctx context.Context, limit, offset int) ([]model.Client, int64, error)
}

// Реализация на GORM.
type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *GormClientRepository) Update(ctx context.Context, client *model.Client) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Client{}).
		Where("id = ?", client.ID).
		Updates(map[string]any{
			"name":  client.Name,
			"email": client.Email,
			"phone": client.Phone,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	var c model.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func normalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}
	// Keep only digits; ignore formatting characters.
	b := make([]byte, 0, len(phone))
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if c >= '0' && c <= '9' {
			b = append(b, c)
		}
	}
	return string(b)
}

func (r *GormClientRepository) FindByPhone(ctx context.Context, phone string) (*model.Client, error) {
	n := normalizePhone(phone)
	if n == "" {
		return nil, gorm.ErrRecordNotFound
	}

	var c model.Client
	// Try normalized first, then raw (in case old data is not normalized).
	q := r.db.WithContext(ctx).Model(&model.Client{}).
		Where("phone = ?", n)
	if strings.TrimSpace(phone) != n {
		q = q.Or("phone = ?", strings.TrimSpace(phone))
	}
	if err := q.First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormClientRepository) List(ctx context.Context, limit, offset int) ([]model.Client, int64, error) {
	var (
		clients []model.Client
		total   int64
	)

	q := r.db.WithContext(ctx).Model(&model.Client{})

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}

	if err := q.Order("id ASC").Find(&clients).Error; err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

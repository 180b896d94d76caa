package model

import "time"

// clients
type Client struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Name  string `gorm:"type:varchar(255);not null"`
	Email string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone string `gorm:"type:varchar(32);not null;uniqueIndex"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	// Навигационные поля (опционально, но удобно для Preload).
	Locations []Location `gorm:"foreignKey:ClientID"`
}

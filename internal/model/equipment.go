package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// equipment
type Equipment struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	Name string `gorm:"type:varchar(255);not null"`

	// Денежное поле — точный decimal, не float.
	CostPerDay decimal.Decimal `gorm:"type:decimal(10,2);not null"`

	// true, пока единица не привязана к открытой аренде.
	IsAvailable bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Locations []Location `gorm:"foreignKey:EquipmentID"`
}

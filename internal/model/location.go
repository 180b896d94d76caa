package model

import "time"

// locations — запись аренды: клиент, единица техники и интервал дат.
type Location struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	ClientID    int64 `gorm:"column:id_client;not null;index"`
	EquipmentID int64 `gorm:"column:id_equipment;not null;index"`

	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`

	IsReturned bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Client    *Client    `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Equipment *Equipment `gorm:"foreignKey:EquipmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

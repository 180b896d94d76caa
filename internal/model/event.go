package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Тип события аудита.
type RentalEventType string

const (
	RentalEventLocationCreated  RentalEventType = "location_created"
	RentalEventLocationReturned RentalEventType = "location_returned"
)

// rental_events — события аудита переходов аренды.
type RentalEvent struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EventType RentalEventType `gorm:"type:varchar(64);not null;index"`

	CreatedAt time.Time `gorm:"not null;index"`

	LocationID  *int64 `gorm:"index"`
	EquipmentID *int64 `gorm:"index"`

	Details datatypes.JSON

	Location *Location `gorm:"foreignKey:LocationID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

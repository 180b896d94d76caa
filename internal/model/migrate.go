package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей арендного ядра.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Equipment{},
		&Location{},
		&RentalEvent{},
	)
}

package service

import "errors"

// Ошибки слоя доступа к данным. Вызывающие ветвятся через errors.Is.
var (
	// NotFound
	ErrClientNotFound    = errors.New("client not found")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrLocationNotFound  = errors.New("location not found")

	// ConstraintViolation
	ErrDuplicateContact = errors.New("client email or phone already in use")

	// InvalidState
	ErrEquipmentUnavailable = errors.New("equipment is not available")
	ErrLocationReturned     = errors.New("location already returned")

	// Validation
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidPeriod = errors.New("end date precedes start date")
)

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/locaquip/rental-core/internal/model"
)

// Входные значения создания/обновления. Проверяют только форму;
// кросс-сущностные инварианты — дело RentalService.

type ClientInput struct {
	Name  string
	Email string
	Phone string
}

func (in ClientInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}
	return nil
}

type EquipmentInput struct {
	Name        string
	CostPerDay  decimal.Decimal
	IsAvailable bool
}

func (in EquipmentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.CostPerDay.IsNegative() {
		return fmt.Errorf("%w: cost_per_day must not be negative", ErrInvalidInput)
	}
	return nil
}

type LocationInput struct {
	ClientID    int64
	EquipmentID int64
	StartDate   time.Time
	EndDate     time.Time
}

func (in LocationInput) Validate() error {
	if in.ClientID <= 0 {
		return fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if in.EquipmentID <= 0 {
		return fmt.Errorf("%w: equipment id is required", ErrInvalidInput)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return ErrInvalidPeriod
	}
	return nil
}

// Проекции — отвязанные от сессии снимки; UI перечитывает их заново.

type ClientView struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

type EquipmentView struct {
	ID          int64
	Name        string
	CostPerDay  decimal.Decimal
	IsAvailable bool
}

type LocationView struct {
	ID         int64
	StartDate  time.Time
	EndDate    time.Time
	IsReturned bool

	// Стоимость: дни аренды включительно (минимум один) × cost_per_day.
	RentalDays int64
	TotalCost  decimal.Decimal

	Client    ClientView
	Equipment EquipmentView
}

type RentalEventView struct {
	ID          uuid.UUID
	EventType   model.RentalEventType
	CreatedAt   time.Time
	LocationID  *int64
	EquipmentID *int64
	Details     datatypes.JSON
}

func mapClient(c *model.Client) ClientView {
	if c == nil {
		return ClientView{}
	}
	return ClientView{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
	}
}

func mapEquipment(e *model.Equipment) EquipmentView {
	if e == nil {
		return EquipmentView{}
	}
	return EquipmentView{
		ID:          e.ID,
		Name:        e.Name,
		CostPerDay:  e.CostPerDay,
		IsAvailable: e.IsAvailable,
	}
}

func mapLocation(loc *model.Location) LocationView {
	if loc == nil {
		return LocationView{}
	}
	days := rentalDays(loc.StartDate, loc.EndDate)
	v := LocationView{
		ID:         loc.ID,
		StartDate:  loc.StartDate,
		EndDate:    loc.EndDate,
		IsReturned: loc.IsReturned,
		RentalDays: days,
		Client:     mapClient(loc.Client),
		Equipment:  mapEquipment(loc.Equipment),
	}
	v.TotalCost = v.Equipment.CostPerDay.Mul(decimal.NewFromInt(days))
	return v
}

func mapEvent(ev *model.RentalEvent) RentalEventView {
	if ev == nil {
		return RentalEventView{}
	}
	return RentalEventView{
		ID:          ev.ID,
		EventType:   ev.EventType,
		CreatedAt:   ev.CreatedAt,
		LocationID:  ev.LocationID,
		EquipmentID: ev.EquipmentID,
		Details:     ev.Details,
	}
}

// rentalDays считает дни аренды включительно; минимум один день.
func rentalDays(start, end time.Time) int64 {
	days := int64(end.Sub(start)/(24*time.Hour)) + 1
	if days < 1 {
		days = 1
	}
	return days
}

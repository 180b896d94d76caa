package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
	"github.com/locaquip/rental-core/internal/repository"
)

// RentalService — единственный шлюз записи/чтения для clients, equipment,
// locations. Межтабличные переходы выполняются в одной транзакции.
type RentalService struct {
	db *gorm.DB

	clientRepo    repository.ClientRepository
	equipmentRepo repository.EquipmentRepository
	locationRepo  repository.LocationRepository
	eventRepo     repository.RentalEventRepository
}

func NewRentalService(
	db *gorm.DB,
	clientRepo repository.ClientRepository,
	equipmentRepo repository.EquipmentRepository,
	locationRepo repository.LocationRepository,
	eventRepo repository.RentalEventRepository,
) *RentalService {
	return &RentalService{
		db:            db,
		clientRepo:    clientRepo,
		equipmentRepo: equipmentRepo,
		locationRepo:  locationRepo,
		eventRepo:     eventRepo,
	}
}

func (s *RentalService) CreateClient(ctx context.Context, in ClientInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	c := &model.Client{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
	if err := s.clientRepo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateContact
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *RentalService) UpdateClient(ctx context.Context, id int64, in ClientInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	c := &model.Client{
		ID:    id,
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
		Phone: strings.TrimSpace(in.Phone),
	}
	if err := s.clientRepo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClientNotFound
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateContact
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (s *RentalService) CreateEquipment(ctx context.Context, in EquipmentInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	e := &model.Equipment{
		Name:        strings.TrimSpace(in.Name),
		CostPerDay:  in.CostPerDay,
		IsAvailable: in.IsAvailable,
	}
	if err := s.equipmentRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return nil
}

func (s *RentalService) UpdateEquipment(ctx context.Context, id int64, in EquipmentInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	e := &model.Equipment{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		CostPerDay:  in.CostPerDay,
		IsAvailable: in.IsAvailable,
	}
	if err := s.equipmentRepo.Update(ctx, e); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEquipmentNotFound
		}
		return fmt.Errorf("update equipment: %w", err)
	}
	return nil
}

// CreateLocation открывает аренду: проверка ссылок, проверка доступности,
// снятие флага доступности и вставка записи — одна атомарная единица.
func (s *RentalService) CreateLocation(ctx context.Context, in LocationInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client model.Client
		if err := tx.First(&client, "id = ?", in.ClientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClientNotFound
			}
			return fmt.Errorf("load client: %w", err)
		}

		var equipment model.Equipment
		if err := tx.First(&equipment, "id = ?", in.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipmentNotFound
			}
			return fmt.Errorf("load equipment: %w", err)
		}
		if !equipment.IsAvailable {
			return ErrEquipmentUnavailable
		}

		err := tx.Model(&model.Equipment{}).
			Where("id = ?", equipment.ID).
			Update("is_available", false).
			Error
		if err != nil {
			return fmt.Errorf("mark equipment unavailable: %w", err)
		}

		loc := model.Location{
			ClientID:    in.ClientID,
			EquipmentID: in.EquipmentID,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		}
		if err := tx.Create(&loc).Error; err != nil {
			return fmt.Errorf("create location: %w", err)
		}

		return s.appendEvent(tx, model.RentalEventLocationCreated, &loc)
	})
}

// ReturnLocation — обратный переход: is_returned=true и возврат доступности.
func (s *RentalService) ReturnLocation(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loc model.Location
		if err := tx.First(&loc, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLocationNotFound
			}
			return fmt.Errorf("load location: %w", err)
		}
		if loc.IsReturned {
			return ErrLocationReturned
		}

		err := tx.Model(&model.Location{}).
			Where("id = ?", loc.ID).
			Update("is_returned", true).
			Error
		if err != nil {
			return fmt.Errorf("mark location returned: %w", err)
		}

		var equipment model.Equipment
		if err := tx.First(&equipment, "id = ?", loc.EquipmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEquipmentNotFound
			}
			return fmt.Errorf("load equipment: %w", err)
		}

		err = tx.Model(&model.Equipment{}).
			Where("id = ?", equipment.ID).
			Update("is_available", true).
			Error
		if err != nil {
			return fmt.Errorf("mark equipment available: %w", err)
		}

		loc.IsReturned = true
		return s.appendEvent(tx, model.RentalEventLocationReturned, &loc)
	})
}

func (s *RentalService) appendEvent(tx *gorm.DB, typ model.RentalEventType, loc *model.Location) error {
	details, err := json.Marshal(map[string]any{
		"id_client":    loc.ClientID,
		"id_equipment": loc.EquipmentID,
		"start_date":   loc.StartDate.Format(time.RFC3339),
		"end_date":     loc.EndDate.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("encode event details: %w", err)
	}

	ev := model.RentalEvent{
		ID:          uuid.New(),
		EventType:   typ,
		LocationID:  &loc.ID,
		EquipmentID: &loc.EquipmentID,
		Details:     details,
	}
	if err := tx.Create(&ev).Error; err != nil {
		return fmt.Errorf("append rental event: %w", err)
	}
	return nil
}

func (s *RentalService) GetClients(ctx context.Context) ([]ClientView, error) {
	clients, _, err := s.clientRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	views := make([]ClientView, 0, len(clients))
	for i := range clients {
		views = append(views, mapClient(&clients[i]))
	}
	return views, nil
}

func (s *RentalService) GetEquipments(ctx context.Context) ([]EquipmentView, error) {
	return s.listEquipments(ctx, false)
}

func (s *RentalService) GetAvailableEquipments(ctx context.Context) ([]EquipmentView, error) {
	return s.listEquipments(ctx, true)
}

func (s *RentalService) listEquipments(ctx context.Context, onlyAvailable bool) ([]EquipmentView, error) {
	equipments, _, err := s.equipmentRepo.List(ctx, onlyAvailable, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	views := make([]EquipmentView, 0, len(equipments))
	for i := range equipments {
		views = append(views, mapEquipment(&equipments[i]))
	}
	return views, nil
}

func (s *RentalService) GetLocations(ctx context.Context) ([]LocationView, error) {
	locations, _, err := s.locationRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	views := make([]LocationView, 0, len(locations))
	for i := range locations {
		views = append(views, mapLocation(&locations[i]))
	}
	return views, nil
}

func (s *RentalService) GetLocationsByClient(ctx context.Context, clientID int64) ([]LocationView, error) {
	locations, err := s.locationRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list locations by client: %w", err)
	}

	views := make([]LocationView, 0, len(locations))
	for i := range locations {
		views = append(views, mapLocation(&locations[i]))
	}
	return views, nil
}

// GetClientByID возвращает (nil, nil), если клиента нет — это не ошибка.
func (s *RentalService) GetClientByID(ctx context.Context, id int64) (*ClientView, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	v := mapClient(c)
	return &v, nil
}

func (s *RentalService) GetClientByPhone(ctx context.Context, phone string) (*ClientView, error) {
	c, err := s.clientRepo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client by phone: %w", err)
	}
	v := mapClient(c)
	return &v, nil
}

func (s *RentalService) GetEquipmentByID(ctx context.Context, id int64) (*EquipmentView, error) {
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	v := mapEquipment(e)
	return &v, nil
}

func (s *RentalService) GetEquipmentByName(ctx context.Context, name string) (*EquipmentView, error) {
	e, err := s.equipmentRepo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment by name: %w", err)
	}
	v := mapEquipment(e)
	return &v, nil
}

func (s *RentalService) GetLocationByID(ctx context.Context, id int64) (*LocationView, error) {
	loc, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	v := mapLocation(loc)
	return &v, nil
}

func (s *RentalService) GetRentalEvents(ctx context.Context) ([]RentalEventView, error) {
	events, _, err := s.eventRepo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list rental events: %w", err)
	}

	views := make([]RentalEventView, 0, len(events))
	for i := range events {
		views = append(views, mapEvent(&events[i]))
	}
	return views, nil
}

func (s *RentalService) GetEventsByLocation(ctx context.Context, locationID int64) ([]RentalEventView, error) {
	events, err := s.eventRepo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("list events by location: %w", err)
	}

	views := make([]RentalEventView, 0, len(events))
	for i := range events {
		views = append(views, mapEvent(&events[i]))
	}
	return views, nil
}

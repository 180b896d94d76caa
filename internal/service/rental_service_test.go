package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/locaquip/rental-core/internal/model"
	"github.com/locaquip/rental-core/internal/repository"
)

func newTestService(t *testing.T) *RentalService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return NewRentalService(
		db,
		repository.NewGormClientRepository(db),
		repository.NewGormEquipmentRepository(db),
		repository.NewGormLocationRepository(db),
		repository.NewGormRentalEventRepository(db),
	)
}

func mustCreateClient(t *testing.T, svc *RentalService, name, email, phone string) ClientView {
	t.Helper()
	if err := svc.CreateClient(context.Background(), ClientInput{Name: name, Email: email, Phone: phone}); err != nil {
		t.Fatalf("create client %s: %v", name, err)
	}
	v, err := svc.GetClientByPhone(context.Background(), phone)
	if err != nil {
		t.Fatalf("get client by phone: %v", err)
	}
	if v == nil {
		t.Fatalf("created client %s not found by phone", name)
	}
	return *v
}

func mustCreateEquipment(t *testing.T, svc *RentalService, name, cost string) EquipmentView {
	t.Helper()
	in := EquipmentInput{
		Name:        name,
		CostPerDay:  decimal.RequireFromString(cost),
		IsAvailable: true,
	}
	if err := svc.CreateEquipment(context.Background(), in); err != nil {
		t.Fatalf("create equipment %s: %v", name, err)
	}
	v, err := svc.GetEquipmentByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get equipment by name: %v", err)
	}
	if v == nil {
		t.Fatalf("created equipment %s not found by name", name)
	}
	return *v
}

func TestRentalService_ClientRoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")

	got, err := svc.GetClientByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get client by id: %v", err)
	}
	if got == nil {
		t.Fatalf("client %d not found", c.ID)
	}
	if got.Name != "Jane Doe" || got.Email != "jane@x.com" || got.Phone != "5141112222" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestRentalService_GetClientByID_Unknown(t *testing.T) {
	svc := newTestService(t)

	got, err := svc.GetClientByID(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil view for unknown id, got %+v", got)
	}
}

func TestRentalService_CreateClient_DuplicateContacts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")

	err := svc.CreateClient(ctx, ClientInput{Name: "Other", Email: "jane@x.com", Phone: "5149998888"})
	if !errors.Is(err, ErrDuplicateContact) {
		t.Fatalf("duplicate email: got %v, want ErrDuplicateContact", err)
	}

	err = svc.CreateClient(ctx, ClientInput{Name: "Other", Email: "other@x.com", Phone: "5141112222"})
	if !errors.Is(err, ErrDuplicateContact) {
		t.Fatalf("duplicate phone: got %v, want ErrDuplicateContact", err)
	}

	clients, err := svc.GetClients(ctx)
	if err != nil {
		t.Fatalf("get clients: %v", err)
	}
	if len(clients) != 1 {
		t.Fatalf("clients = %d, want 1", len(clients))
	}
}

func TestRentalService_UpdateClient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")

	err := svc.UpdateClient(ctx, c.ID, ClientInput{Name: "Jane D.", Email: "jane.d@x.com", Phone: "5141113333"})
	if err != nil {
		t.Fatalf("update client: %v", err)
	}

	got, err := svc.GetClientByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get client: %v", err)
	}
	if got.Name != "Jane D." || got.Email != "jane.d@x.com" || got.Phone != "5141113333" {
		t.Fatalf("update not applied: %+v", got)
	}

	err = svc.UpdateClient(ctx, 9999, ClientInput{Name: "x", Email: "y@x.com", Phone: "1"})
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("update missing client: got %v, want ErrClientNotFound", err)
	}
}

func TestRentalService_UpdateEquipment_NotFound(t *testing.T) {
	svc := newTestService(t)

	in := EquipmentInput{Name: "Drill", CostPerDay: decimal.RequireFromString("25.00"), IsAvailable: true}
	err := svc.UpdateEquipment(context.Background(), 404, in)
	if !errors.Is(err, ErrEquipmentNotFound) {
		t.Fatalf("got %v, want ErrEquipmentNotFound", err)
	}
}

// Сценарий из предметной области: аренда дрели на три дня и возврат.
func TestRentalService_RentAndReturnFlow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")
	equipment := mustCreateEquipment(t, svc, "Drill", "25.00")

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	err := svc.CreateLocation(ctx, LocationInput{
		ClientID:    client.ID,
		EquipmentID: equipment.ID,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	// Техника занята открытой арендой.
	e, err := svc.GetEquipmentByID(ctx, equipment.ID)
	if err != nil {
		t.Fatalf("get equipment: %v", err)
	}
	if e.IsAvailable {
		t.Fatalf("equipment still available after rent")
	}

	// Повторная аренда той же единицы отклоняется.
	err = svc.CreateLocation(ctx, LocationInput{
		ClientID:    client.ID,
		EquipmentID: equipment.ID,
		StartDate:   start,
		EndDate:     end,
	})
	if !errors.Is(err, ErrEquipmentUnavailable) {
		t.Fatalf("double rent: got %v, want ErrEquipmentUnavailable", err)
	}

	locations, err := svc.GetLocations(ctx)
	if err != nil {
		t.Fatalf("get locations: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("locations = %d, want 1", len(locations))
	}
	loc := locations[0]
	if loc.IsReturned {
		t.Fatalf("new location marked returned")
	}
	if loc.Client.ID != client.ID || loc.Equipment.ID != equipment.ID {
		t.Fatalf("location references not materialized: %+v", loc)
	}
	if loc.RentalDays != 3 {
		t.Fatalf("rental days = %d, want 3", loc.RentalDays)
	}
	if !loc.TotalCost.Equal(decimal.RequireFromString("75.00")) {
		t.Fatalf("total cost = %s, want 75.00", loc.TotalCost)
	}

	// Возврат: флаги переключаются обратно.
	if err := svc.ReturnLocation(ctx, loc.ID); err != nil {
		t.Fatalf("return location: %v", err)
	}

	e, err = svc.GetEquipmentByID(ctx, equipment.ID)
	if err != nil {
		t.Fatalf("get equipment: %v", err)
	}
	if !e.IsAvailable {
		t.Fatalf("equipment not available after return")
	}

	got, err := svc.GetLocationByID(ctx, loc.ID)
	if err != nil {
		t.Fatalf("get location: %v", err)
	}
	if got == nil || !got.IsReturned {
		t.Fatalf("location not marked returned: %+v", got)
	}

	// Повторный возврат — определённая ошибка, не тихий no-op.
	err = svc.ReturnLocation(ctx, loc.ID)
	if !errors.Is(err, ErrLocationReturned) {
		t.Fatalf("double return: got %v, want ErrLocationReturned", err)
	}

	// После возврата техника снова сдаётся.
	err = svc.CreateLocation(ctx, LocationInput{
		ClientID:    client.ID,
		EquipmentID: equipment.ID,
		StartDate:   start.AddDate(0, 1, 0),
		EndDate:     end.AddDate(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("re-rent after return: %v", err)
	}

	// Аудит: создание, возврат, повторное создание.
	events, err := svc.GetRentalEvents(ctx)
	if err != nil {
		t.Fatalf("get rental events: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}

	byLoc, err := svc.GetEventsByLocation(ctx, loc.ID)
	if err != nil {
		t.Fatalf("get events by location: %v", err)
	}
	if len(byLoc) != 2 {
		t.Fatalf("events for location = %d, want 2", len(byLoc))
	}
	if byLoc[0].EventType != model.RentalEventLocationCreated {
		t.Fatalf("first event = %s, want %s", byLoc[0].EventType, model.RentalEventLocationCreated)
	}
	if byLoc[1].EventType != model.RentalEventLocationReturned {
		t.Fatalf("second event = %s, want %s", byLoc[1].EventType, model.RentalEventLocationReturned)
	}
}

func TestRentalService_CreateLocation_MissingReferences(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")
	equipment := mustCreateEquipment(t, svc, "Drill", "25.00")

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)

	err := svc.CreateLocation(ctx, LocationInput{ClientID: 777, EquipmentID: equipment.ID, StartDate: start, EndDate: end})
	if !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("missing client: got %v, want ErrClientNotFound", err)
	}

	err = svc.CreateLocation(ctx, LocationInput{ClientID: client.ID, EquipmentID: 777, StartDate: start, EndDate: end})
	if !errors.Is(err, ErrEquipmentNotFound) {
		t.Fatalf("missing equipment: got %v, want ErrEquipmentNotFound", err)
	}

	// Неудавшееся создание не трогает доступность.
	e, err := svc.GetEquipmentByID(ctx, equipment.ID)
	if err != nil {
		t.Fatalf("get equipment: %v", err)
	}
	if !e.IsAvailable {
		t.Fatalf("failed create flipped availability")
	}

	locations, err := svc.GetLocations(ctx)
	if err != nil {
		t.Fatalf("get locations: %v", err)
	}
	if len(locations) != 0 {
		t.Fatalf("locations = %d, want 0", len(locations))
	}
}

func TestRentalService_ReturnLocation_NotFound(t *testing.T) {
	svc := newTestService(t)

	err := svc.ReturnLocation(context.Background(), 321)
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("got %v, want ErrLocationNotFound", err)
	}
}

func TestRentalService_AvailableEquipmentsSubset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	client := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")
	drill := mustCreateEquipment(t, svc, "Drill", "25.00")
	mustCreateEquipment(t, svc, "Excavator", "350.00")
	mustCreateEquipment(t, svc, "Mixer", "85.50")

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	err := svc.CreateLocation(ctx, LocationInput{
		ClientID:    client.ID,
		EquipmentID: drill.ID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, 1),
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	all, err := svc.GetEquipments(ctx)
	if err != nil {
		t.Fatalf("get equipments: %v", err)
	}
	available, err := svc.GetAvailableEquipments(ctx)
	if err != nil {
		t.Fatalf("get available equipments: %v", err)
	}

	wantAvailable := map[int64]bool{}
	for _, e := range all {
		if e.IsAvailable {
			wantAvailable[e.ID] = true
		}
	}
	if len(available) != len(wantAvailable) {
		t.Fatalf("available = %d, want %d", len(available), len(wantAvailable))
	}
	for _, e := range available {
		if !wantAvailable[e.ID] {
			t.Fatalf("equipment %d listed as available but is not", e.ID)
		}
		if !e.IsAvailable {
			t.Fatalf("available list contains unavailable equipment %d", e.ID)
		}
	}
}

func TestRentalService_GetLocationsByClient(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	jane := mustCreateClient(t, svc, "Jane Doe", "jane@x.com", "5141112222")
	marc := mustCreateClient(t, svc, "Marc Tremblay", "marc@x.com", "5142223333")
	drill := mustCreateEquipment(t, svc, "Drill", "25.00")
	mixer := mustCreateEquipment(t, svc, "Mixer", "85.50")

	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	if err := svc.CreateLocation(ctx, LocationInput{ClientID: jane.ID, EquipmentID: drill.ID, StartDate: start, EndDate: end}); err != nil {
		t.Fatalf("create location: %v", err)
	}
	if err := svc.CreateLocation(ctx, LocationInput{ClientID: marc.ID, EquipmentID: mixer.ID, StartDate: start, EndDate: end}); err != nil {
		t.Fatalf("create location: %v", err)
	}

	got, err := svc.GetLocationsByClient(ctx, jane.ID)
	if err != nil {
		t.Fatalf("get locations by client: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("locations for client = %d, want 1", len(got))
	}
	if got[0].Client.ID != jane.ID || got[0].Equipment.ID != drill.ID {
		t.Fatalf("wrong location returned: %+v", got[0])
	}
}

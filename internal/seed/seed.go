package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/locaquip/rental-core/internal/service"
)

// Имена файлов засева внутри каталога данных.
const (
	clientsFile    = "clients.csv"
	equipmentsFile = "equipments.csv"
	locationsFile  = "locations.csv"
)

const dateLayout = "2006-01-02"

// Loader наполняет пустое хранилище демо-данными из трёх CSV-файлов.
// Каждая строка проходит через обычные операции RentalService, так что
// засеянные данные подчиняются тем же инвариантам, что и живые.
type Loader struct {
	svc *service.RentalService
}

func NewLoader(svc *service.RentalService) *Loader {
	return &Loader{svc: svc}
}

// Summary — сколько строк применено по каждому файлу.
type Summary struct {
	Clients    int
	Equipments int
	Locations  int
}

// Run загружает клиентов, технику и аренды в этом порядке (аренды ссылаются
// на первые два). Политика best-effort: первая невосстановимая ошибка
// останавливает работу; ошибка всегда называет файл и номер строки данных.
func (l *Loader) Run(ctx context.Context, dir string) (Summary, error) {
	var sum Summary

	if err := l.loadClients(ctx, filepath.Join(dir, clientsFile), &sum); err != nil {
		return sum, err
	}
	if err := l.loadEquipments(ctx, filepath.Join(dir, equipmentsFile), &sum); err != nil {
		return sum, err
	}
	if err := l.loadLocations(ctx, filepath.Join(dir, locationsFile), &sum); err != nil {
		return sum, err
	}

	return sum, nil
}

func (l *Loader) loadClients(ctx context.Context, path string, sum *Summary) error {
	rows, err := readRows(path, []string{"name", "email", "phone"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		in := service.ClientInput{
			Name:  row["name"],
			Email: row["email"],
			Phone: row["phone"],
		}
		if err := l.svc.CreateClient(ctx, in); err != nil {
			return rowErr(clientsFile, i, err)
		}
		sum.Clients++
	}
	return nil
}

func (l *Loader) loadEquipments(ctx context.Context, path string, sum *Summary) error {
	rows, err := readRows(path, []string{"name", "cost_per_day", "is_available"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		cost, err := decimal.NewFromString(row["cost_per_day"])
		if err != nil {
			return rowErr(equipmentsFile, i, fmt.Errorf("parse cost_per_day %q: %w", row["cost_per_day"], err))
		}
		available, err := parseBool(row["is_available"])
		if err != nil {
			return rowErr(equipmentsFile, i, err)
		}

		in := service.EquipmentInput{
			Name:        row["name"],
			CostPerDay:  cost,
			IsAvailable: available,
		}
		if err := l.svc.CreateEquipment(ctx, in); err != nil {
			return rowErr(equipmentsFile, i, err)
		}
		sum.Equipments++
	}
	return nil
}

func (l *Loader) loadLocations(ctx context.Context, path string, sum *Summary) error {
	rows, err := readRows(path, []string{"id_client", "id_equipment", "start_date", "end_date", "is_returned"})
	if err != nil {
		return err
	}

	for i, row := range rows {
		clientID, err := strconv.ParseInt(row["id_client"], 10, 64)
		if err != nil {
			return rowErr(locationsFile, i, fmt.Errorf("parse id_client %q: %w", row["id_client"], err))
		}
		equipmentID, err := strconv.ParseInt(row["id_equipment"], 10, 64)
		if err != nil {
			return rowErr(locationsFile, i, fmt.Errorf("parse id_equipment %q: %w", row["id_equipment"], err))
		}
		start, err := time.Parse(dateLayout, row["start_date"])
		if err != nil {
			return rowErr(locationsFile, i, fmt.Errorf("parse start_date %q: %w", row["start_date"], err))
		}
		end, err := time.Parse(dateLayout, row["end_date"])
		if err != nil {
			return rowErr(locationsFile, i, fmt.Errorf("parse end_date %q: %w", row["end_date"], err))
		}
		returned, err := parseBool(row["is_returned"])
		if err != nil {
			return rowErr(locationsFile, i, err)
		}

		in := service.LocationInput{
			ClientID:    clientID,
			EquipmentID: equipmentID,
			StartDate:   start,
			EndDate:     end,
		}
		if err := l.svc.CreateLocation(ctx, in); err != nil {
			return rowErr(locationsFile, i, err)
		}
		sum.Locations++

		if !returned {
			continue
		}

		// Создание не отдаёт ID новой записи; находим только что
		// вставленную аренду и проводим её через обычный возврат.
		locations, err := l.svc.GetLocations(ctx)
		if err != nil {
			return rowErr(locationsFile, i, err)
		}
		if len(locations) == 0 {
			return rowErr(locationsFile, i, fmt.Errorf("inserted location not found"))
		}
		last := locations[len(locations)-1]
		if err := l.svc.ReturnLocation(ctx, last.ID); err != nil {
			return rowErr(locationsFile, i, err)
		}
	}
	return nil
}

// readRows читает CSV со строкой заголовка и возвращает строки данных как
// отображения имя колонки → значение. want — обязательные колонки.
func readRows(path string, want []string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[col] = i
	}
	for _, col := range want {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", filepath.Base(path), col)
		}
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", filepath.Base(path), len(rows)+1, err)
		}

		row := make(map[string]string, len(want))
		for _, col := range want {
			i := index[col]
			if i >= len(record) {
				return nil, fmt.Errorf("%s row %d: missing value for %q", filepath.Base(path), len(rows)+1, col)
			}
			row[col] = strings.TrimSpace(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parseBool принимает "true"/"false" без учёта регистра.
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("parse bool %q: want true or false", v)
}

func rowErr(file string, idx int, err error) error {
	// idx — нулевой индекс строки данных; наружу отдаём 1-based.
	return fmt.Errorf("%s row %d: %w", file, idx+1, err)
}

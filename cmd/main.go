package main

import (
	"context"
	"log"

	"github.com/locaquip/rental-core/internal/config"
	"github.com/locaquip/rental-core/internal/db"
	"github.com/locaquip/rental-core/internal/model"
	"github.com/locaquip/rental-core/internal/repository"
	"github.com/locaquip/rental-core/internal/seed"
	"github.com/locaquip/rental-core/internal/service"
)

func main() {
	// 1. Загружаем конфиг БД из env.
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("load db config: %v", err)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		log.Fatalf("init db: %v", err)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		log.Fatalf("sql DB: %v", err)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	clientRepo := repository.NewGormClientRepository(gormDB)
	equipmentRepo := repository.NewGormEquipmentRepository(gormDB)
	locationRepo := repository.NewGormLocationRepository(gormDB)
	eventRepo := repository.NewGormRentalEventRepository(gormDB)

	// 5. Сервис аренды.
	svc := service.NewRentalService(gormDB, clientRepo, equipmentRepo, locationRepo, eventRepo)

	// 6. Засев демо-данных из CSV.
	seedCfg := config.LoadSeedConfig()
	loader := seed.NewLoader(svc)

	sum, err := loader.Run(context.Background(), seedCfg.Dir)
	if err != nil {
		log.Fatalf("seed from %s: %v (applied so far: %d clients, %d equipment, %d locations)",
			seedCfg.Dir, err, sum.Clients, sum.Equipments, sum.Locations)
	}

	log.Printf("database seeded: %d clients, %d equipment, %d locations",
		sum.Clients, sum.Equipments, sum.Locations)
}

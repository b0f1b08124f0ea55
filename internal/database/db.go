package database

import (
	"log"

	"mercado-backend/internal/config"
	"mercado-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(sqlite.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not open database: %v", err)
	}

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	if cfg.SeedDemoData {
		var suppliers int64
		DB.Model(&models.Supplier{}).Count(&suppliers)
		if suppliers == 0 {
			if err := SeedDemoData(DB); err != nil {
				log.Fatalf("Demo data seeding failed: %v", err)
			}
			log.Println("Seeded demonstration data.")
		}
	}

	log.Println("Database ready.")
}

// Migrate creates the schema. Split out of Init so tests can run it
// against their own in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Supplier{},
		&models.Product{},
		&models.Client{},
		&models.Sale{},
		&models.SaleItem{},
		&models.ActivityLog{},
	)
}

package main

import (
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/foodiesthlm/foodie-backend/config"
	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// menuExport is the staff tooling export format.
type menuExport struct {
	Restaurant string `json:"restaurant"`
	Currency   string `json:"currency"`
	Dishes     []struct {
		ID             string   `json:"id"`
		Name           string   `json:"name"`
		Category       string   `json:"category"`
		Description    string   `json:"description"`
		Allergens      []string `json:"allergens"`
		Tags           []string `json:"tags"`
		PriceSek       float64  `json:"priceSek"`
		IsDailySpecial bool     `json:"isDailySpecial"`
	} `json:"dishes"`
}

func main() {
	file := flag.String("file", "menu.json", "path to the menu export file")
	migrate := flag.Bool("migrate", false, "run schema migrations before seeding")
	flag.Parse()

	cfg := config.LoadConfig()

	db, err := gorm.Open(postgres.Open(cfg.Postgres.ConnStr()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to postgres:", err)
	}

	if *migrate {
		err := db.AutoMigrate(
			&models.RestaurantProfile{},
			&models.MenuItem{},
			&models.Order{},
			&models.Cart{},
			&models.Notification{},
		)
		if err != nil {
			log.Fatal("failed to migrate schema:", err)
		}
		slog.Info("schema migrated")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("failed to read menu export:", err)
	}

	var export menuExport
	if err := json.Unmarshal(raw, &export); err != nil {
		log.Fatal("failed to parse menu export:", err)
	}

	profile := models.RestaurantProfile{
		ID:      1,
		Name:    export.Restaurant,
		Address: cfg.Restaurant.Address,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "address"}),
	}).Omit("location").Create(&profile).Error
	if err != nil {
		log.Fatal("failed to upsert restaurant profile:", err)
	}

	seeded := 0
	for _, dish := range export.Dishes {
		item := models.MenuItem{
			RestaurantID:   profile.ID,
			Code:           dish.ID,
			Name:           dish.Name,
			Category:       dish.Category,
			Description:    dish.Description,
			Allergens:      dish.Allergens,
			Tags:           dish.Tags,
			PriceSek:       dish.PriceSek,
			IsDailySpecial: dish.IsDailySpecial,
		}

		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "category", "description", "allergens", "tags", "price_sek", "is_daily_special",
			}),
		}).Create(&item).Error
		if err != nil {
			slog.Error("failed to upsert dish", "code", dish.ID, "err", err)
			continue
		}
		seeded++
	}

	slog.Info("menu seeded", "restaurant", export.Restaurant, "dishes", seeded)
}

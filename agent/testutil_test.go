package main

import (
	"fmt"
	"testing"

	"github.com/foodiesthlm/foodie-backend/config"
	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.RestaurantProfile{}, &models.MenuItem{}, &models.Order{}, &models.Cart{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	cfg := &config.Config{
		Restaurant: config.Restaurant{Name: "Foodie", Address: "Storgatan 123, Stockholm"},
		Chat:       config.Chat{HistoryWindow: 5},
		OpenAI:     config.OpenAI{Temperature: 0.7, MaxTokens: 500},
	}

	return &Handler{
		pg:    &Pg{db: db},
		cfg:   cfg,
		cache: &menuCache{},
	}
}

func seedMenu(t *testing.T, h *Handler) []models.MenuItem {
	t.Helper()

	items := []models.MenuItem{
		{
			Code:        "SE-001",
			Name:        "Köttbullar med potatismos",
			Category:    "Husmanskost",
			Description: "Saftiga köttbullar med gräddsås och lingon.",
			PriceSek:    139,
			Allergens:   []string{"gluten", "laktos", "ägg"},
			Tags:        []string{"klassiker", "kött"},
		},
		{
			Code:           "SE-002",
			Name:           "Grönsakssoppa",
			Category:       "Vegetariskt",
			Description:    "Krämig soppa på säsongens grönsaker.",
			PriceSek:       95,
			Allergens:      []string{},
			Tags:           []string{"vegetarian"},
			IsDailySpecial: true,
		},
		{
			Code:        "SE-003",
			Name:        "Toast Skagen",
			Category:    "",
			Description: "Handskalade räkor på smörstekt bröd.",
			PriceSek:    165,
			Allergens:   []string{"gluten", "skaldjur"},
			Tags:        []string{"förrätt"},
		},
	}

	for i := range items {
		if err := h.pg.db.Create(&items[i]).Error; err != nil {
			t.Fatalf("failed to seed menu item: %v", err)
		}
	}

	return items
}

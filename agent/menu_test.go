package main

import (
	"context"
	"testing"

	"github.com/foodiesthlm/foodie-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestGetAllMenuItemsGroupsByCategory(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	menu := h.GetAllMenuItems(context.Background())
	assert.Len(t, menu, 3)
	assert.Len(t, menu["Husmanskost"], 1)
	assert.Len(t, menu["Vegetariskt"], 1)
	// items without a category land under Other
	assert.Len(t, menu["Other"], 1)
	assert.Equal(t, "Toast Skagen", menu["Other"][0].Name)
}

func TestGetItemByID(t *testing.T) {
	h := newTestHandler(t)
	items := seedMenu(t, h)
	ctx := context.Background()

	item, ok := h.GetItemByID(ctx, items[0].ID)
	assert.True(t, ok)
	assert.Equal(t, "Köttbullar med potatismos", item.Name)

	_, ok = h.GetItemByID(ctx, 99999)
	assert.False(t, ok)
}

func TestSearchItemsMaxPrice(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	results := h.SearchItems(context.Background(), MenuFilter{MaxPrice: 100})
	assert.Len(t, results, 1)
	assert.Equal(t, "Grönsakssoppa", results[0].Name)
}

func TestSearchItemsExcludesAllergens(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	results := h.SearchItems(context.Background(), MenuFilter{ExcludeAllergens: []string{"gluten"}})
	assert.Len(t, results, 1)
	assert.Equal(t, "Grönsakssoppa", results[0].Name)
}

func TestSearchItemsByTag(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	results := h.SearchItems(context.Background(), MenuFilter{Tags: []string{"vegetarian"}})
	assert.Len(t, results, 1)
	assert.Equal(t, "Grönsakssoppa", results[0].Name)
}

func TestSearchItemsByText(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)
	ctx := context.Background()

	// case-insensitive match against name
	results := h.SearchItems(ctx, MenuFilter{Query: "köttbullar"})
	assert.Len(t, results, 1)

	// match against description
	results = h.SearchItems(ctx, MenuFilter{Query: "räkor"})
	assert.Len(t, results, 1)
	assert.Equal(t, "Toast Skagen", results[0].Name)

	results = h.SearchItems(ctx, MenuFilter{Query: "pizza"})
	assert.Empty(t, results)
}

func TestSearchItemsByCategory(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	results := h.SearchItems(context.Background(), MenuFilter{Category: "Husmanskost"})
	assert.Len(t, results, 1)
	assert.Equal(t, "Köttbullar med potatismos", results[0].Name)
}

func TestGetDailySpecials(t *testing.T) {
	h := newTestHandler(t)
	seedMenu(t, h)

	specials := h.GetDailySpecials(context.Background())
	assert.Len(t, specials, 1)
	assert.True(t, specials[0].IsDailySpecial)
}

func TestMatchesFilter(t *testing.T) {
	item := models.MenuItem{
		Name:        "Kalops",
		Description: "Långkokt nötkött i mustig skysås.",
		Allergens:   []string{"selleri"},
		Tags:        []string{"kött", "långkok"},
	}

	assert.True(t, matchesFilter(item, MenuFilter{}))
	assert.False(t, matchesFilter(item, MenuFilter{ExcludeAllergens: []string{"Selleri"}}))
	assert.True(t, matchesFilter(item, MenuFilter{ExcludeAllergens: []string{"gluten"}}))
	assert.True(t, matchesFilter(item, MenuFilter{Tags: []string{"kött", "fisk"}}))
	assert.False(t, matchesFilter(item, MenuFilter{Tags: []string{"fisk"}}))
	assert.True(t, matchesFilter(item, MenuFilter{Query: "KALOPS"}))
	assert.False(t, matchesFilter(item, MenuFilter{Query: "pizza"}))
}

func TestMenuFailuresYieldEmptyResults(t *testing.T) {
	h := newTestHandler(t)

	// dropping the table simulates a backend failure
	assert.NoError(t, h.pg.db.Migrator().DropTable(&models.MenuItem{}))

	ctx := context.Background()
	assert.Empty(t, h.GetAllMenuItems(ctx))
	assert.Empty(t, h.SearchItems(ctx, MenuFilter{}))
	assert.Empty(t, h.GetDailySpecials(ctx))

	_, ok := h.GetItemByID(ctx, 1)
	assert.False(t, ok)
}

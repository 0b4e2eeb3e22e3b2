package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/gorm"
)

// MenuFilter carries the search criteria. Zero values mean "no filter".
type MenuFilter struct {
	Query            string
	Category         string
	MaxPrice         float64
	ExcludeAllergens []string
	Tags             []string
}

// GetAllMenuItems returns the menu grouped by category. Backend failures are
// logged and surface as an empty map, never as an error.
func (h *Handler) GetAllMenuItems(ctx context.Context) map[string][]models.MenuItem {
	items, err := h.pg.ListMenuItems(ctx)
	if err != nil {
		slog.Error("failed to fetch menu", "error", err)
		return map[string][]models.MenuItem{}
	}

	menu := groupByCategory(items)

	slog.Info("menu items fetched", "categories", len(menu), "items", len(items))
	return menu
}

func groupByCategory(items []models.MenuItem) map[string][]models.MenuItem {
	menu := make(map[string][]models.MenuItem)
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		menu[category] = append(menu[category], item)
	}

	return menu
}

func (h *Handler) GetItemByID(ctx context.Context, itemID uint64) (*models.MenuItem, bool) {
	item, err := h.pg.GetMenuItem(ctx, itemID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to fetch menu item", "item_id", itemID, "error", err)
		}
		return nil, false
	}

	return item, true
}

// SearchItems applies all filters from the filter struct. Failures yield an
// empty slice.
func (h *Handler) SearchItems(ctx context.Context, filter MenuFilter) []models.MenuItem {
	items, err := h.pg.QueryMenuItems(ctx, filter.Category, filter.MaxPrice)
	if err != nil {
		slog.Error("menu search failed", "error", err)
		return []models.MenuItem{}
	}

	results := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if matchesFilter(item, filter) {
			results = append(results, item)
		}
	}

	slog.Info("menu search completed", "query", filter.Query, "results", len(results))
	return results
}

func (h *Handler) GetRestaurantProfile(ctx context.Context) (*models.RestaurantProfile, bool) {
	profile, err := h.pg.GetProfile(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to fetch restaurant profile", "error", err)
		}
		return nil, false
	}

	return profile, true
}

func (h *Handler) GetDailySpecials(ctx context.Context) []models.MenuItem {
	specials, err := h.pg.ListDailySpecials(ctx)
	if err != nil {
		slog.Error("failed to fetch daily specials", "error", err)
		return []models.MenuItem{}
	}

	return specials
}

// matchesFilter implements the in-memory part of the search: allergen
// exclusion rejects on any intersection, tag inclusion accepts on any
// intersection, the text query matches name or description case-insensitively.
func matchesFilter(item models.MenuItem, filter MenuFilter) bool {
	if len(filter.ExcludeAllergens) > 0 {
		for _, allergen := range filter.ExcludeAllergens {
			for _, has := range item.Allergens {
				if strings.EqualFold(allergen, has) {
					return false
				}
			}
		}
	}

	if len(filter.Tags) > 0 {
		found := false
		for _, tag := range filter.Tags {
			for _, has := range item.Tags {
				if strings.EqualFold(tag, has) {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}

	if filter.Query != "" {
		q := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(item.Name), q) &&
			!strings.Contains(strings.ToLower(item.Description), q) {
			return false
		}
	}

	return true
}

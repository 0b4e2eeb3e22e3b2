package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Pg struct {
	db *gorm.DB
}

func NewFoodiePg(connStr string) (*Pg, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Silent,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	return &Pg{db: db}, nil
}

func (p *Pg) GetProfile(ctx context.Context) (*models.RestaurantProfile, error) {
	var profile models.RestaurantProfile
	if err := p.db.WithContext(ctx).Omit("location").First(&profile).Error; err != nil {
		return nil, err
	}

	return &profile, nil
}

func (p *Pg) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := p.db.WithContext(ctx).Order("category, name").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (p *Pg) GetMenuItem(ctx context.Context, itemID uint64) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := p.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		return nil, err
	}

	return &item, nil
}

// QueryMenuItems pushes the equality and price-ceiling filters down to SQL.
// Allergen, tag and text filters apply in memory on top of the result.
func (p *Pg) QueryMenuItems(ctx context.Context, category string, maxPrice float64) ([]models.MenuItem, error) {
	query := p.db.WithContext(ctx).Model(&models.MenuItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if maxPrice > 0 {
		query = query.Where("price_sek <= ?", maxPrice)
	}

	var items []models.MenuItem
	if err := query.Order("category, name").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (p *Pg) ListDailySpecials(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := p.db.WithContext(ctx).Where("is_daily_special = ?", true).Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (p *Pg) CreateOrder(ctx context.Context, order *models.Order) error {
	return p.db.WithContext(ctx).Create(order).Error
}

func (p *Pg) GetOrder(ctx context.Context, orderID uint64) (*models.Order, error) {
	var order models.Order
	if err := p.db.WithContext(ctx).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

func (p *Pg) UpdateOrderStatus(ctx context.Context, orderID uint64, status models.OrderStatus, notes string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if notes != "" {
		updates["status_notes"] = notes
	}

	result := p.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (p *Pg) ListUserOrders(ctx context.Context, userID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (p *Pg) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := p.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}

	return &cart, nil
}

func (p *Pg) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	return p.db.WithContext(ctx).Save(cart).Error
}

package models

import (
	"context"
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Location struct {
	Lon, Lat float64
}

func NewGeoPoint(lng, lat float64) Location {
	return Location{
		Lon: lng,
		Lat: lat,
	}
}

func (g *Location) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case string:
		var err error
		data, err = hex.DecodeString(v)
		if err != nil {
			return err
		}
	case []byte:
		data = v
	default:
		return fmt.Errorf("expected string or []byte, got %T", value)
	}

	t, err := ewkb.Unmarshal(data)
	if err != nil {
		return err
	}

	if point, ok := t.(*geom.Point); ok {
		g.Lon = point.X()
		g.Lat = point.Y()

		return nil
	}

	return fmt.Errorf("expected Point, got %T", t)
}

func (loc Location) GormDataType() string {
	return "geometry"
}

func (loc Location) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	return clause.Expr{
		SQL:  "ST_PointFromText(?)",
		Vars: []interface{}{fmt.Sprintf("POINT(%f %f)", loc.Lon, loc.Lat)},
	}
}

// RestaurantProfile is the single restaurant document. Menu items hang off it;
// it is edited by staff tooling, read-only for this system.
type RestaurantProfile struct {
	ID           uint64   `gorm:"primaryKey" json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	OpeningHours string   `json:"opening_hours"`
	Location     Location `json:"location"`
}

func (r *RestaurantProfile) TableName() string {
	return "restaurants"
}

type MenuItem struct {
	ID             uint64         `gorm:"primaryKey" json:"id"`
	RestaurantID   uint64         `json:"restaurant_id"`
	Code           string         `gorm:"uniqueIndex" json:"code"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	PriceSek       float64        `json:"priceSek"`
	Allergens      pq.StringArray `gorm:"type:text[]" json:"allergens"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	IsDailySpecial bool           `json:"isDailySpecial"`
}

func (m *MenuItem) TableName() string {
	return "menu_items"
}

func (m *MenuItem) Stringify() string {
	allergens := strings.Join(m.Allergens, ", ")
	if allergens == "" {
		allergens = "None"
	}

	return fmt.Sprintf("- %s (%.0f SEK)\n  Description: %s\n  Allergens: %s\n  Tags: %s",
		m.Name, m.PriceSek, m.Description, allergens, strings.Join(m.Tags, ", "))
}

type OrderItem struct {
	ItemID   uint64  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderItems serializes as a JSON column so the order keeps its line items
// as one document, the way the source collection stores them.
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return fmt.Errorf("expected []byte or string, got %T", value)
	}
}

type CustomerInfo map[string]string

func (c CustomerInfo) Value() (driver.Value, error) {
	if c == nil {
		c = CustomerInfo{}
	}
	return json.Marshal(c)
}

func (c *CustomerInfo) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("expected []byte or string, got %T", value)
	}
}

type Order struct {
	ID                uint64       `gorm:"primaryKey" json:"order_id"`
	UserID            string       `gorm:"index" json:"user_id"`
	Items             OrderItems   `gorm:"type:text" json:"items"`
	Pricing           Pricing      `gorm:"embedded" json:"pricing"`
	CustomerInfo      CustomerInfo `gorm:"type:text" json:"customer_info"`
	Status            OrderStatus  `json:"status"`
	StatusNotes       string       `json:"status_notes,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	EstimatedDelivery time.Time    `json:"estimated_delivery"`
}

func (o *Order) TableName() string {
	return "orders"
}

// Cart is the persisted per-user cart, one row per user.
type Cart struct {
	ID        uint64     `gorm:"primaryKey" json:"id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`
	Items     OrderItems `gorm:"type:text" json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) TableName() string {
	return "carts"
}

type Notification struct {
	ID        uint64      `gorm:"primaryKey" json:"id"`
	UserID    string      `gorm:"index" json:"user_id"`
	OrderID   uint64      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Message   string      `json:"message"`
	CreatedAt time.Time   `json:"created_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

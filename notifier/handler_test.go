package main

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/foodiesthlm/foodie-backend/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Notification{}))

	return &Handler{pg: &Pg{db: db}}
}

func TestHandleOrderEvent(t *testing.T) {
	h := newTestHandler(t)

	event := OrderEvent{
		OrderID: 12,
		UserID:  "u1",
		Status:  models.StatusReady,
		Total:   355.32,
		At:      time.Now(),
	}
	msg, err := json.Marshal(event)
	assert.NoError(t, err)

	assert.NoError(t, h.HandleOrderEvent(context.Background(), msg))

	var stored models.Notification
	assert.NoError(t, h.pg.db.First(&stored).Error)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, uint64(12), stored.OrderID)
	assert.Equal(t, models.StatusReady, stored.Status)
	assert.Equal(t, "Order #12: Ready for pickup/delivery", stored.Message)
}

func TestHandleOrderEventUnknownStatusFallsBack(t *testing.T) {
	h := newTestHandler(t)

	msg := []byte(`{"order_id": 5, "user_id": "u2", "status": "teleported"}`)
	assert.NoError(t, h.HandleOrderEvent(context.Background(), msg))

	var stored models.Notification
	assert.NoError(t, h.pg.db.First(&stored).Error)
	// unknown statuses project like a fresh order
	assert.Contains(t, stored.Message, "Order #5:")
}

func TestHandleOrderEventBadPayload(t *testing.T) {
	h := newTestHandler(t)

	assert.Error(t, h.HandleOrderEvent(context.Background(), []byte("not json")))

	var count int64
	assert.NoError(t, h.pg.db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodiesthlm/foodie-backend/models"
)

// OrderEvent mirrors what the agent publishes on the orders subject.
type OrderEvent struct {
	OrderID uint64             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  models.OrderStatus `json:"status"`
	Total   float64            `json:"total"`
	At      time.Time          `json:"at"`
}

type Handler struct {
	pg *Pg
}

func NewHandler(pg *Pg) (*Handler, error) {
	return &Handler{
		pg: pg,
	}, nil
}

// HandleOrderEvent turns an order lifecycle event into a stored customer
// notification.
func (h *Handler) HandleOrderEvent(ctx context.Context, msg []byte) error {
	var event OrderEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return fmt.Errorf("unmarshal order event: %w", err)
	}

	projection := event.Status.Projection()
	notification := &models.Notification{
		UserID:    event.UserID,
		OrderID:   event.OrderID,
		Status:    event.Status,
		Message:   fmt.Sprintf("Order #%d: %s", event.OrderID, projection.Message),
		CreatedAt: time.Now(),
	}

	if err := h.pg.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	slog.Info("notification recorded",
		"order_id", event.OrderID,
		"user_id", event.UserID,
		"status", event.Status,
	)

	return nil
}

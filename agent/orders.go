package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/foodiesthlm/foodie-backend/models"
	"gorm.io/gorm"
)

const deliveryEstimate = 45 * time.Minute

// CreateOrder computes the pricing breakdown, persists the order and returns
// it with its assigned identifier. Unlike the read paths, persistence
// failures propagate to the caller.
func (h *Handler) CreateOrder(
	ctx context.Context,
	userID string,
	items models.OrderItems,
	customerInfo models.CustomerInfo,
) (*models.Order, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if len(items) == 0 {
		return nil, errors.New("at least one item is required")
	}
	for _, item := range items {
		if item.Price < 0 {
			return nil, fmt.Errorf("invalid price for item %s", item.Name)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity for item %s", item.Name)
		}
	}

	now := time.Now()
	order := &models.Order{
		UserID:            userID,
		Items:             items,
		Pricing:           models.ComputePricing(items),
		CustomerInfo:      customerInfo,
		Status:            models.StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
		EstimatedDelivery: now.Add(deliveryEstimate),
	}

	if err := h.pg.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order created",
		"order_id", order.ID,
		"user_id", userID,
		"total", order.Pricing.Total,
		"items_count", len(items),
	)

	h.publishOrderEvent(order)

	return order, nil
}

// GetOrder returns the stored record or an explicit not-found. Backend
// failures are logged and reported as not-found as well.
func (h *Handler) GetOrder(ctx context.Context, orderID uint64) (*models.Order, bool) {
	order, err := h.pg.GetOrder(ctx, orderID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to get order", "order_id", orderID, "error", err)
		}
		return nil, false
	}

	return order, true
}

// UpdateOrderStatus overwrites the status and refreshes the update timestamp.
// The status enumeration is enforced here; the store accepts any string.
func (h *Handler) UpdateOrderStatus(ctx context.Context, orderID uint64, status models.OrderStatus, notes string) bool {
	if !status.Valid() {
		slog.Warn("rejected unknown order status", "order_id", orderID, "status", status)
		return false
	}

	if err := h.pg.UpdateOrderStatus(ctx, orderID, status, notes); err != nil {
		slog.Error("failed to update order status", "order_id", orderID, "error", err)
		return false
	}

	slog.Info("order status updated", "order_id", orderID, "status", status)

	if order, err := h.pg.GetOrder(ctx, orderID); err == nil {
		h.publishOrderEvent(order)
	}

	return true
}

func (h *Handler) GetUserOrders(ctx context.Context, userID string, limit int) []models.Order {
	if limit <= 0 {
		limit = 10
	}

	orders, err := h.pg.ListUserOrders(ctx, userID, limit)
	if err != nil {
		slog.Error("failed to get user orders", "user_id", userID, "error", err)
		return []models.Order{}
	}

	slog.Info("user orders fetched", "user_id", userID, "orders_count", len(orders))
	return orders
}

// OrderStatusInfo is the customer-facing status projection of one order.
type OrderStatusInfo struct {
	OrderID           uint64             `json:"order_id"`
	Status            models.OrderStatus `json:"status"`
	Progress          int                `json:"progress"`
	Message           string             `json:"message"`
	EstimatedDelivery time.Time          `json:"estimated_delivery"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func (h *Handler) GetOrderStatusInfo(ctx context.Context, orderID uint64) (*OrderStatusInfo, bool) {
	order, ok := h.GetOrder(ctx, orderID)
	if !ok {
		return nil, false
	}

	projection := order.Status.Projection()

	return &OrderStatusInfo{
		OrderID:           order.ID,
		Status:            order.Status,
		Progress:          projection.Progress,
		Message:           projection.Message,
		EstimatedDelivery: order.EstimatedDelivery,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}, true
}

// AddToCart appends the menu item to the user's persisted cart, incrementing
// the quantity when the item is already in it.
func (h *Handler) AddToCart(ctx context.Context, userID string, itemID uint64, quantity int) (*models.Cart, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	item, err := h.pg.GetMenuItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("menu item %d not found", itemID)
		}
		return nil, fmt.Errorf("failed to resolve menu item: %w", err)
	}

	cart, err := h.pg.GetCartByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load cart: %w", err)
		}
		cart = &models.Cart{UserID: userID}
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ItemID == itemID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.PriceSek,
			Quantity: quantity,
		})
	}

	if err := h.pg.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	slog.Info("item added to cart", "user_id", userID, "item_id", itemID, "quantity", quantity)
	return cart, nil
}

func (h *Handler) GetCart(ctx context.Context, userID string) (*models.Cart, bool) {
	cart, err := h.pg.GetCartByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("failed to load cart", "user_id", userID, "error", err)
		}
		return nil, false
	}

	return cart, true
}

func (h *Handler) publishOrderEvent(order *models.Order) {
	if h.events == nil {
		return
	}

	event := OrderEvent{
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  order.Status,
		Total:   order.Pricing.Total,
		At:      order.UpdatedAt,
	}
	if err := h.events.PublishOrderEvent(event); err != nil {
		slog.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}
}

package main

import (
	"fmt"

	"github.com/foodiesthlm/foodie-backend/models"
)

type ChatRequest struct {
	Query          string `json:"query"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

func (c *ChatRequest) Validate() error {
	if c.Query == "" {
		return fmt.Errorf("query is required")
	}

	return nil
}

type ChatResponse struct {
	Response       string     `json:"response"`
	ConversationID string     `json:"conversation_id"`
	UserID         string     `json:"user_id,omitempty"`
	Intent         Intent     `json:"intent"`
	ToolCalls      []ToolCall `json:"tool_calls"`
}

type ProcessingResult struct {
	Err error
	Msg WebSocketsMessage
}

type WebSocketsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type CreateOrderRequest struct {
	UserID string `json:"user_id"`
	Items  []struct {
		ID       uint64  `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
	CustomerInfo map[string]string `json:"customer_info"`
}

func (c *CreateOrderRequest) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if len(c.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}

	for _, item := range c.Items {
		if item.Name == "" {
			return fmt.Errorf("item name is required")
		}
		if item.Price < 0 {
			return fmt.Errorf("invalid price for item %s", item.Name)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("invalid quantity for item %s", item.Name)
		}
	}

	return nil
}

func (c *CreateOrderRequest) ToModels() models.OrderItems {
	items := make(models.OrderItems, len(c.Items))
	for i, item := range c.Items {
		items[i] = models.OrderItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		}
	}

	return items
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
	Notes  string             `json:"notes"`
}

type AddToCartRequest struct {
	UserID   string `json:"user_id"`
	ItemID   uint64 `json:"item_id"`
	Quantity int    `json:"quantity"`
}

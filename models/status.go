package models

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// StatusProjection is the customer-facing rendering of an order status.
type StatusProjection struct {
	Progress int    `json:"progress"`
	Message  string `json:"message"`
}

var statusProjections = map[OrderStatus]StatusProjection{
	StatusPending:   {Progress: 10, Message: "Order received"},
	StatusConfirmed: {Progress: 25, Message: "Order confirmed"},
	StatusPreparing: {Progress: 60, Message: "Being prepared"},
	StatusReady:     {Progress: 85, Message: "Ready for pickup/delivery"},
	StatusDelivered: {Progress: 100, Message: "Delivered"},
	StatusCancelled: {Progress: 0, Message: "Order cancelled"},
}

// Projection maps a status to its fixed progress/message pair. Statuses
// written before the enumeration was enforced fall back to pending.
func (s OrderStatus) Projection() StatusProjection {
	if p, ok := statusProjections[s]; ok {
		return p
	}
	return statusProjections[StatusPending]
}

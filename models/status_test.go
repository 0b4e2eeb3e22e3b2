package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusProjections(t *testing.T) {
	tests := []struct {
		status   OrderStatus
		progress int
		message  string
	}{
		{StatusPending, 10, "Order received"},
		{StatusConfirmed, 25, "Order confirmed"},
		{StatusPreparing, 60, "Being prepared"},
		{StatusReady, 85, "Ready for pickup/delivery"},
		{StatusDelivered, 100, "Delivered"},
		{StatusCancelled, 0, "Order cancelled"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			projection := tt.status.Projection()
			assert.Equal(t, tt.progress, projection.Progress)
			assert.Equal(t, tt.message, projection.Message)
		})
	}
}

func TestUnknownStatusFallsBackToPending(t *testing.T) {
	projection := OrderStatus("shipped").Projection()
	assert.Equal(t, 10, projection.Progress)
	assert.Equal(t, "Order received", projection.Message)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

package models

import "math"

const (
	DeliveryFee       = 2.99
	FreeDeliveryAbove = 50.0
	TaxRate           = 0.08
)

// Pricing is the persisted breakdown, computed once at order creation and
// never recomputed afterwards.
type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Taxes       float64 `json:"taxes"`
	Total       float64 `json:"total"`
}

// ComputePricing derives the full breakdown from the line items. Delivery is
// free from 50 SEK, taxes are a flat 8% of the subtotal. Money values are
// rounded to two decimals at storage time.
func ComputePricing(items OrderItems) Pricing {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}

	fee := DeliveryFee
	if subtotal >= FreeDeliveryAbove {
		fee = 0
	}
	taxes := subtotal * TaxRate

	return Pricing{
		Subtotal:    round2(subtotal),
		DeliveryFee: fee,
		Taxes:       round2(taxes),
		Total:       round2(subtotal + fee + taxes),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

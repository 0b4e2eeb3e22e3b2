package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		query    string
		primary  Intent
		detected []Intent
	}{
		{"what's on the menu today?", IntentMenuInquiry, []Intent{IntentMenuInquiry}},
		{"does it contain gluten?", IntentAllergen, []Intent{IntentAllergen}},
		{"how much does it cost?", IntentPriceInquiry, []Intent{IntentPriceInquiry}},
		{"I want the soup", IntentAddToCart, []Intent{IntentAddToCart}},
		{"where is my delivery?", IntentOrderStatus, []Intent{IntentOrderStatus}},
		{"can I talk to a human?", IntentHumanSupport, []Intent{IntentHumanSupport}},
		{"thanks, bye", IntentGeneral, nil},
	}

	for _, tc := range tests {
		primary, detected := DetectIntent(tc.query)
		assert.Equal(t, tc.primary, primary, tc.query)
		assert.Equal(t, tc.detected, detected, tc.query)
	}
}

func TestDetectIntentGroupOrderWins(t *testing.T) {
	// hits both menu and price groups, the earlier group is primary
	primary, detected := DetectIntent("which dish is the cheapest?")
	assert.Equal(t, IntentMenuInquiry, primary)
	assert.Equal(t, []Intent{IntentMenuInquiry, IntentPriceInquiry}, detected)
}

func TestExtractToolCalls(t *testing.T) {
	calls := extractToolCalls([]Intent{IntentMenuInquiry, IntentHumanSupport})
	assert.Len(t, calls, 1)
	assert.Equal(t, "escalate_to_human", calls[0].Tool)

	assert.Empty(t, extractToolCalls([]Intent{IntentGeneral}))
	assert.Empty(t, extractToolCalls(nil))
}

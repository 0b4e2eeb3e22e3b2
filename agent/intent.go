package main

import "strings"

type Intent string

const (
	IntentMenuInquiry  Intent = "menu_inquiry"
	IntentAllergen     Intent = "allergen_check"
	IntentPriceInquiry Intent = "price_inquiry"
	IntentAddToCart    Intent = "add_to_cart"
	IntentOrderStatus  Intent = "order_status"
	IntentHumanSupport Intent = "human_support"
	IntentGeneral      Intent = "general"
	IntentError        Intent = "error"
)

// intentKeywords is ordered: the first group with a hit becomes the primary
// intent.
var intentKeywords = []struct {
	intent   Intent
	keywords []string
}{
	{IntentMenuInquiry, []string{"menu", "dish", "food", "eat", "hungry", "recommend"}},
	{IntentAllergen, []string{"allerg", "gluten", "dairy", "nut", "vegan", "vegetarian"}},
	{IntentPriceInquiry, []string{"price", "cost", "expensive", "cheap", "afford"}},
	{IntentAddToCart, []string{"add to cart", "order", "want", "i'll have", "give me"}},
	{IntentOrderStatus, []string{"order status", "where is", "delivery", "when will"}},
	{IntentHumanSupport, []string{"human", "person", "staff", "manager", "help"}},
}

// DetectIntent scans the raw query for keyword groups. It is used only for
// routing and escalation, never for generation.
func DetectIntent(query string) (Intent, []Intent) {
	lower := strings.ToLower(query)

	var detected []Intent
	for _, group := range intentKeywords {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				detected = append(detected, group.intent)
				break
			}
		}
	}

	if len(detected) == 0 {
		return IntentGeneral, detected
	}
	return detected[0], detected
}

type ToolCall struct {
	Tool       string                 `json:"tool"`
	Parameters map[string]interface{} `json:"parameters"`
}

// extractToolCalls converts detected intents into side-channel markers. Only
// a human-support hit produces one today.
func extractToolCalls(detected []Intent) []ToolCall {
	toolCalls := []ToolCall{}
	for _, intent := range detected {
		if intent == IntentHumanSupport {
			toolCalls = append(toolCalls, ToolCall{
				Tool:       "escalate_to_human",
				Parameters: map[string]interface{}{},
			})
		}
	}

	return toolCalls
}

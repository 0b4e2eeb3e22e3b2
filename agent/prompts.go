package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foodiesthlm/foodie-backend/models"
)

var restaurantSysPrompt = `You are the AI assistant for %s, a Swedish restaurant.
Your role is to help customers with:

1. Menu Information:
   - Describe dishes and ingredients
   - Provide allergen information
   - Make recommendations based on preferences
   - Explain prices and special offers

2. Order Assistance:
   - Help add items to cart
   - Answer questions about delivery
   - Check order status
   - Handle special requests

3. General Support:
   - Restaurant hours
   - Location information
   - Contact details
   - Escalate to human support when needed

Current Menu Data:
%s

Guidelines:
- Be friendly, helpful, and professional
- Provide accurate information about dishes
- Clearly state allergens when relevant
- If unsure, offer to connect with human staff
- Use Swedish dish names but explain in English
`

func buildSystemPrompt(restaurantName, menuContext string) string {
	return fmt.Sprintf(restaurantSysPrompt, restaurantName, menuContext)
}

// buildMenuContext renders the grouped menu as prompt text, category headers
// first. Categories are sorted so the prompt is stable between calls.
func buildMenuContext(menu map[string][]models.MenuItem) string {
	categories := make([]string, 0, len(menu))
	for category := range menu {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var context strings.Builder
	for _, category := range categories {
		context.WriteString("\n" + category + ":\n")
		for _, item := range menu[category] {
			context.WriteString(item.Stringify())
			context.WriteString("\n")
		}
	}

	return context.String()
}

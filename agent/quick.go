package main

import (
	"log/slog"
	"math/rand"
	"regexp"
	"strings"
)

// Canned replies for trivial queries so common greetings never reach the
// hosted model.

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hej|hello|hi|hallå|tjena|tja|yo)\.?!?$`),
	regexp.MustCompile(`(?i)^(hej|hello|hi)\s+(där|peter|du)\.?!?$`),
	regexp.MustCompile(`(?i)^(god\s+morgon|godmorgon|gm)\.?!?$`),
	regexp.MustCompile(`(?i)^(god\s+kväll|godkväll|gk)\.?!?$`),
	regexp.MustCompile(`(?i)^(god\s+dag|goddag)\.?!?$`),
	regexp.MustCompile(`(?i)^(bra\s+dag|ha\s+en\s+bra\s+dag)\.?!?$`),
}

type quickPattern struct {
	re *regexp.Regexp
	sv string
	en string
}

var quickPatterns = []quickPattern{
	{
		re: regexp.MustCompile(`(?i)^(vad\s+heter\s+du|what.+name)`),
		sv: "Hej! Jag är AI-assistenten på Foodie restaurang. Vad kan jag hjälpa dig med idag?",
		en: "Hi! I'm the AI assistant at Foodie restaurant. How can I help you today?",
	},
	{
		re: regexp.MustCompile(`(?i)^(hur\s+mår\s+du|how\s+are\s+you)`),
		sv: "Tack för att du frågar! Jag mår bra och är redo att hjälpa dig med vår meny. Vad är du nyfiken på?",
		en: "Thanks for asking! I'm doing well and ready to help you with our menu. What are you curious about?",
	},
	{
		re: regexp.MustCompile(`(?i)^(vem\s+är\s+du|who\s+are\s+you)`),
		sv: "Jag är AI-assistenten på Foodie, en svensk restaurang. Jag kan hjälpa dig med menyn, allergener och beställningar. Vad behöver du hjälp med?",
		en: "I'm the AI assistant at Foodie, a Swedish restaurant. I can help you with our menu, allergens, and orders. What do you need help with?",
	},
	{
		re: regexp.MustCompile(`(?i)^(öppettider|opening\s+hours|when\s+open)`),
		sv: "Vi är öppna måndag-fredag 11:00-22:00 och helger 12:00-23:00. Vill du veta något mer om restaurangen?",
		en: "We're open Monday-Friday 11:00-22:00 and weekends 12:00-23:00. Would you like to know more about the restaurant?",
	},
	{
		re: regexp.MustCompile(`(?i)^(var\s+ligger|where\s+located|location)`),
		sv: "Du hittar oss på Storgatan 123, Stockholm. Vi har även hemleverans! Vill du se vår meny?",
		en: "You can find us at Storgatan 123, Stockholm. We also offer home delivery! Would you like to see our menu?",
	},
}

var greetingResponses = map[string][]string{
	"sv": {
		"Hej där! Välkommen till Foodie! Jag är er AI-assistent. Vad kan jag hjälpa dig med idag?",
		"Hallå! Trevligt att träffas! Jag kan hjälpa dig med vår meny, allergener och beställningar. Vad är du nyfiken på?",
		"Hej! Välkommen till Foodie restaurang! Jag är här för att hjälpa dig. Vad kan jag visa dig?",
	},
	"en": {
		"Hello there! Welcome to Foodie! I'm your AI assistant. How can I help you today?",
		"Hi! Nice to meet you! I can help you with our menu, allergens, and orders. What are you curious about?",
		"Hello! Welcome to Foodie restaurant! I'm here to help you. What can I show you?",
	},
}

var swedishMarkers = []string{"är", "och", "det", "en", "du", "jag", "vad", "hur", "vem", "hej", "där"}
var englishMarkers = []string{"are", "and", "the", "you", "what", "how", "who", "hello", "hi"}

// detectLanguage classifies Swedish vs English by counting marker-word hits.
// Ties resolve to English.
func detectLanguage(text string) string {
	lower := strings.ToLower(text)

	swedish := 0
	for _, word := range swedishMarkers {
		if strings.Contains(lower, word) {
			swedish++
		}
	}

	english := 0
	for _, word := range englishMarkers {
		if strings.Contains(lower, word) {
			english++
		}
	}

	if swedish > english {
		return "sv"
	}
	return "en"
}

// QuickResponse returns a canned reply when the query matches a greeting or
// FAQ pattern. The second return value is false when the caller should fall
// through to the model.
func QuickResponse(query string) (string, bool) {
	clean := strings.ToLower(strings.TrimSpace(query))
	language := detectLanguage(query)

	for _, pattern := range greetingPatterns {
		if pattern.MatchString(clean) {
			pool := greetingResponses[language]
			response := pool[rand.Intn(len(pool))]
			slog.Info("quick greeting response", "language", language)
			return response, true
		}
	}

	for _, pattern := range quickPatterns {
		if pattern.re.MatchString(clean) {
			slog.Info("quick pattern response", "language", language)
			if language == "sv" {
				return pattern.sv, true
			}
			return pattern.en, true
		}
	}

	return "", false
}

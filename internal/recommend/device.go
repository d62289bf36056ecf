package recommend

import "github.com/vibefood/backend/internal/domain"

// Canned per-vibe suggestions for the device-identified surface. The
// device flow predates sessions and keeps its looser response shape
// (string prices, emoji, story copy).
var deviceSuggestions = map[domain.Vibe][]domain.DishSuggestion{
	domain.VibeComfort: {
		{
			DishName:  "Massaman Curry",
			Reasoning: "Rich and mild curry that feels like a warm hug",
			Story:     "A comfort classic with tender meat and potatoes",
			Warnings:  []string{"Contains peanuts - please verify with staff"},
			Price:     "16",
			Emoji:     "🍛",
		},
		{
			DishName:  "Pad Thai",
			Reasoning: "A beloved classic with perfect sweet-savory balance",
			Story:     "The most popular Thai dish for good reason",
			Warnings:  []string{"Contains peanuts", "Contains eggs"},
			Price:     "14",
			Emoji:     "🍜",
		},
	},
	domain.VibeAdventure: {
		{
			DishName:  "Tom Yum Soup",
			Reasoning: "Bold flavors that awaken your taste buds",
			Story:     "An exciting journey of sour, spicy, and aromatic notes",
			Warnings:  []string{"Very spicy", "Contains shellfish"},
			Price:     "12",
			Emoji:     "🌶️",
		},
		{
			DishName:  "Green Curry",
			Reasoning: "Aromatic and spicy with complex flavors",
			Story:     "A Thai curry adventure with authentic heat",
			Warnings:  []string{"Spicy", "Contains coconut"},
			Price:     "15",
			Emoji:     "🥘",
		},
	},
	domain.VibeLight: {
		{
			DishName:  "Spring Rolls",
			Reasoning: "Fresh and crispy without being heavy",
			Story:     "A light start that won't weigh you down",
			Price:     "7",
			Emoji:     "🥟",
		},
		{
			DishName:  "Tom Yum Soup",
			Reasoning: "Light broth-based soup full of fresh flavors",
			Story:     "Refreshing and cleansing for the palate",
			Warnings:  []string{"Spicy"},
			Price:     "9",
			Emoji:     "🍲",
		},
	},
	domain.VibeQuick: {
		{
			DishName:  "Pad Thai",
			Reasoning: "Quick to prepare and quick to enjoy",
			Story:     "A fast favorite that never disappoints",
			Warnings:  []string{"Contains peanuts"},
			Price:     "14",
			Emoji:     "⚡",
		},
		{
			DishName:  "Spring Rolls",
			Reasoning: "Ready fast, perfect for a quick bite",
			Story:     "Crispy satisfaction in minutes",
			Price:     "7",
			Emoji:     "🥟",
		},
	},
	domain.VibeSharing: {
		{
			DishName:  "Spring Rolls",
			Reasoning: "Perfect for passing around the table",
			Story:     "A crowd-pleaser that brings people together",
			Price:     "7",
			Emoji:     "🥟",
		},
		{
			DishName:  "Pad Thai",
			Reasoning: "A generous portion great for sharing",
			Story:     "Everyone's favorite to share",
			Warnings:  []string{"Contains peanuts"},
			Price:     "14",
			Emoji:     "🍜",
		},
	},
	domain.VibeBudget: {
		{
			DishName:  "Spring Rolls",
			Reasoning: "Great value without compromising taste",
			Story:     "Budget-friendly and delicious",
			Price:     "7",
			Emoji:     "💰",
		},
		{
			DishName:  "Tom Yum Soup",
			Reasoning: "Filling and flavorful at a great price",
			Story:     "Maximum flavor for minimum spend",
			Warnings:  []string{"Spicy"},
			Price:     "9",
			Emoji:     "🍲",
		},
	},
	domain.VibeHealthy: {
		{
			DishName:  "Tom Yum Soup",
			Reasoning: "Low calorie, high flavor, immune-boosting",
			Story:     "A healthy choice packed with herbs and spices",
			Warnings:  []string{"Spicy"},
			Price:     "9",
			Emoji:     "🥗",
		},
		{
			DishName:  "Spring Rolls",
			Reasoning: "Light and veggie-packed",
			Story:     "Fresh vegetables in a light wrapper",
			Price:     "7",
			Emoji:     "🥬",
		},
	},
	domain.VibeIndulgent: {
		{
			DishName:  "Mango Sticky Rice",
			Reasoning: "Sweet, creamy, and absolutely decadent",
			Story:     "A heavenly dessert you deserve",
			Warnings:  []string{"Contains coconut"},
			Price:     "8",
			Emoji:     "🥭",
		},
		{
			DishName:  "Massaman Curry",
			Reasoning: "Rich, creamy, and deeply satisfying",
			Story:     "Treat yourself to this indulgent curry",
			Warnings:  []string{"Contains peanuts", "Contains coconut"},
			Price:     "16",
			Emoji:     "🍛",
		},
	},
}

var deviceSummaries = map[domain.Vibe]string{
	domain.VibeComfort:   "Here are some warming, comforting dishes to soothe your soul.",
	domain.VibeAdventure: "Ready for a flavor adventure? These dishes will excite your palate!",
	domain.VibeLight:     "Light and refreshing options that won't weigh you down.",
	domain.VibeQuick:     "Fast favorites when you're short on time but not on taste.",
	domain.VibeSharing:   "Perfect dishes for bringing the table together.",
	domain.VibeBudget:    "Great taste without breaking the bank.",
	domain.VibeHealthy:   "Nutritious choices that don't sacrifice flavor.",
	domain.VibeIndulgent: "Go ahead, treat yourself to these decadent delights.",
}

// DeviceSuggestions returns the canned recommendation bundle for a vibe.
func DeviceSuggestions(vibe domain.Vibe) domain.DeviceRecommendations {
	suggestions, ok := deviceSuggestions[vibe]
	if !ok {
		suggestions = deviceSuggestions[domain.VibeComfort]
	}
	summary, ok := deviceSummaries[vibe]
	if !ok {
		summary = deviceSummaries[domain.VibeComfort]
	}
	return domain.DeviceRecommendations{
		BriefSummary:    summary,
		Recommendations: append([]domain.DishSuggestion(nil), suggestions...),
	}
}

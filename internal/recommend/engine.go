// Package recommend generates dish recommendations from a scanned menu
// and the user's vibe selection.
//
// The shipped engine is a deterministic fixture standing in for a real
// model call: a fixed vibe→dish mapping ranks candidates, filtered by the
// user's dietary constraints, then padded from the remaining menu.
package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vibefood/backend/internal/domain"
)

// Generator produces a recommendation set. Implementations must be pure:
// no side effects beyond the returned value.
type Generator interface {
	Generate(menu *domain.MenuData, vibes *domain.VibeData) *domain.RecommendationSet
}

var vibeDishes = map[domain.Vibe][]string{
	domain.VibeComfort:   {"Massaman Curry", "Pad Thai"},
	domain.VibeAdventure: {"Tom Yum Soup", "Green Curry"},
	domain.VibeLight:     {"Tom Yum Soup", "Spring Rolls"},
	domain.VibeQuick:     {"Pad Thai", "Spring Rolls"},
	domain.VibeSharing:   {"Spring Rolls", "Pad Thai"},
	domain.VibeBudget:    {"Spring Rolls", "Pad Thai"},
	domain.VibeHealthy:   {"Tom Yum Soup", "Spring Rolls"},
	domain.VibeIndulgent: {"Mango Sticky Rice", "Massaman Curry"},
}

var dishReasons = map[string]string{
	"Pad Thai":          "A beloved classic that delivers satisfying flavors with its perfect balance of sweet, sour, and savory notes.",
	"Green Curry":       "An exciting flavor journey with aromatic Thai basil and creamy coconut that will awaken your taste buds.",
	"Tom Yum Soup":      "A vibrant, aromatic soup that's both refreshing and deeply flavorful - perfect for a lighter option.",
	"Mango Sticky Rice": "A heavenly dessert that's pure comfort in every bite - sweet mango meets creamy coconut rice.",
	"Spring Rolls":      "Crispy, light, and perfect for sharing - a crowd-pleaser that won't weigh you down.",
	"Massaman Curry":    "Rich, warming, and deeply comforting - like a hug in a bowl with tender meat and potatoes.",
}

const (
	maxRecommendations = 5
	minRecommendations = 3

	// Vibe-driven matches score on a fixed descending ladder so ranking
	// is deterministic and strictly ordered; padding scores flat below it.
	topMatchScore  = 0.95
	matchScoreStep = 0.02
	paddingScore   = 0.70
)

// Engine is the fixture recommendation generator.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Generate builds the ranked recommendation list: vibe-driven matches
// first, in the order vibes were requested and dish lists declared, then
// padding items in menu order until at least three items, capped at five.
func (e *Engine) Generate(menu *domain.MenuData, vibes *domain.VibeData) *domain.RecommendationSet {
	recs := make([]domain.Recommendation, 0, maxRecommendations)
	seen := make(map[string]bool)

	for _, vibe := range vibes.Vibes {
		for _, dishName := range vibeDishes[vibe] {
			if len(recs) >= maxRecommendations {
				break
			}
			if seen[dishName] {
				continue
			}
			item, ok := menu.ItemByName(dishName)
			if !ok {
				continue
			}
			if !allowedByDiet(item, vibes) {
				continue
			}
			seen[dishName] = true

			reason := dishReasons[dishName]
			if reason == "" {
				reason = "A great choice based on your preferences."
			}
			recs = append(recs, domain.Recommendation{
				ID:          uuid.NewString(),
				MenuItemID:  item.ID,
				Name:        item.Name,
				Reason:      reason,
				MatchScore:  topMatchScore - matchScoreStep*float64(len(recs)),
				VibeMatches: []string{string(vibe)},
				Price:       item.Price,
				Warnings:    allergenWarnings(item, vibes.Allergies),
				Tags:        append([]string(nil), item.Tags...),
			})
		}
	}

	// Pad with remaining menu items, in catalog order, at a flat score.
	for _, item := range menu.Items {
		if len(recs) >= minRecommendations {
			break
		}
		if seen[item.Name] {
			continue
		}
		if !allowedByDiet(item, vibes) {
			continue
		}
		seen[item.Name] = true
		recs = append(recs, domain.Recommendation{
			ID:          uuid.NewString(),
			MenuItemID:  item.ID,
			Name:        item.Name,
			Reason:      "A popular choice from this restaurant.",
			MatchScore:  paddingScore,
			VibeMatches: []string{},
			Price:       item.Price,
			Warnings:    allergenWarnings(item, vibes.Allergies),
			Tags:        append([]string(nil), item.Tags...),
		})
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}

	return &domain.RecommendationSet{
		ID:               uuid.NewString(),
		SessionID:        vibes.SessionID,
		VibeID:           vibes.ID,
		MenuID:           menu.ID,
		Recommendations:  recs,
		ReasoningSummary: summarize(vibes),
		Confidence:       0.88,
		GeneratedAt:      time.Now().UTC(),
		ModelVersion:     "fixture-v1",
	}
}

func allowedByDiet(item domain.MenuItem, vibes *domain.VibeData) bool {
	for _, r := range vibes.DietaryRestrictions {
		switch strings.ToLower(r) {
		case "vegetarian":
			if !item.IsVegetarian {
				return false
			}
		case "vegan":
			if !item.IsVegan {
				return false
			}
		}
	}
	if vibes.MaxSpice != nil && item.SpiceLevel > *vibes.MaxSpice {
		return false
	}
	return true
}

// allergenWarnings intersects the item's allergen list with the user's
// declared allergies, case-insensitively.
func allergenWarnings(item domain.MenuItem, allergies []string) []string {
	warnings := []string{}
	for _, allergen := range item.Allergens {
		for _, declared := range allergies {
			if strings.EqualFold(allergen, declared) {
				warnings = append(warnings, fmt.Sprintf("Contains %s - you indicated this allergy", allergen))
				break
			}
		}
	}
	return warnings
}

func summarize(vibes *domain.VibeData) string {
	names := make([]string, len(vibes.Vibes))
	for i, v := range vibes.Vibes {
		names[i] = string(v)
	}
	summary := "Based on your " + strings.Join(names, ", ") + " vibes"
	if vibes.PartySize > 1 {
		summary += fmt.Sprintf(" for a party of %d", vibes.PartySize)
	}
	return summary + ", I've selected dishes that match your mood and preferences."
}

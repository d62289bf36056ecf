package domain

import "time"

// ExtractionMethod identifies how a menu was captured.
type ExtractionMethod string

const (
	ExtractionOCR    ExtractionMethod = "ocr"
	ExtractionManual ExtractionMethod = "manual"
	ExtractionQRCode ExtractionMethod = "qr_code"
)

// MenuItem is a single dish extracted from a scanned menu.
type MenuItem struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price,omitempty"`
	Currency     string   `json:"currency"`
	Category     string   `json:"category,omitempty"`
	Tags         []string `json:"tags"`
	Allergens    []string `json:"allergens"`
	SpiceLevel   int      `json:"spice_level"`
	IsVegetarian bool     `json:"is_vegetarian"`
	IsVegan      bool     `json:"is_vegan"`
	Confidence   float64  `json:"confidence"`
}

// Restaurant holds restaurant details detected alongside the menu.
type Restaurant struct {
	Name        string `json:"name,omitempty"`
	CuisineType string `json:"cuisine_type,omitempty"`
	Address     string `json:"address,omitempty"`
}

// MenuData is the complete result of one menu extraction.
type MenuData struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	Items            []MenuItem       `json:"items"`
	Restaurant       *Restaurant      `json:"restaurant,omitempty"`
	ExtractionMethod ExtractionMethod `json:"extraction_method"`
	Confidence       float64          `json:"confidence"`
	ExtractedAt      time.Time        `json:"extracted_at"`
	RawText          string           `json:"raw_text,omitempty"`
	Warnings         []string         `json:"warnings"`
}

// ItemByName returns the menu item with the given name, if present.
func (m *MenuData) ItemByName(name string) (MenuItem, bool) {
	for _, item := range m.Items {
		if item.Name == name {
			return item, true
		}
	}
	return MenuItem{}, false
}

// VibeData captures the user's mood selection and constraints for one session.
type VibeData struct {
	ID                  string    `json:"id"`
	SessionID           string    `json:"session_id"`
	MenuID              string    `json:"menu_id"`
	Vibes               []Vibe    `json:"vibes"`
	PartySize           int       `json:"party_size"`
	BudgetPerPerson     float64   `json:"budget_per_person,omitempty"`
	DietaryRestrictions []string  `json:"dietary_restrictions"`
	Allergies           []string  `json:"allergies"`
	MaxSpice            *int      `json:"max_spice,omitempty"`
	Occasion            string    `json:"occasion,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Recommendation is a single scored dish suggestion.
type Recommendation struct {
	ID          string   `json:"id"`
	MenuItemID  string   `json:"menu_item_id"`
	Name        string   `json:"name"`
	Reason      string   `json:"reason"`
	MatchScore  float64  `json:"match_score"`
	VibeMatches []string `json:"vibe_matches"`
	Price       float64  `json:"price,omitempty"`
	Warnings    []string `json:"warnings"`
	Tags        []string `json:"tags"`
}

// RecommendationSet groups the recommendations generated for one session.
type RecommendationSet struct {
	ID               string           `json:"id"`
	SessionID        string           `json:"session_id"`
	VibeID           string           `json:"vibe_id"`
	MenuID           string           `json:"menu_id"`
	Recommendations  []Recommendation `json:"recommendations"`
	ReasoningSummary string           `json:"reasoning_summary"`
	Confidence       float64          `json:"confidence"`
	GeneratedAt      time.Time        `json:"generated_at"`
	ModelVersion     string           `json:"model_version"`
}

// Confirmation records which recommended dishes the user picked.
type Confirmation struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	RecommendationID string    `json:"recommendation_id"`
	PickedDishes     []string  `json:"picked_dishes"`
	SkippedDishes    []string  `json:"skipped_dishes"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
}

// Feedback is the user's rating of a confirmed selection.
type Feedback struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"session_id"`
	ConfirmationID string    `json:"confirmation_id"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	WouldRecommend *bool     `json:"would_recommend,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Preferences is the snapshot of a device's stored preferences, copied
// read-only into new sessions for returning devices.
type Preferences struct {
	Allergies           []string `json:"allergies"`
	MaxSpice            *int     `json:"max_spice,omitempty"`
	DietaryRestrictions []string `json:"dietary_restrictions"`
}

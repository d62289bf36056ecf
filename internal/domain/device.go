package domain

import "time"

// DishSuggestion is one canned suggestion on the device-identified
// surface, which predates sessions and keeps its own response shape.
type DishSuggestion struct {
	DishName  string   `json:"dish_name"`
	Reasoning string   `json:"reasoning"`
	Story     string   `json:"story"`
	Warnings  []string `json:"warnings,omitempty"`
	Price     string   `json:"price"`
	Emoji     string   `json:"emoji,omitempty"`
}

// DeviceRecommendations is the per-vibe suggestion bundle stored on the
// device profile and returned by the device recommendation endpoint.
type DeviceRecommendations struct {
	BriefSummary    string           `json:"brief_summary"`
	Recommendations []DishSuggestion `json:"recommendations"`
}

// DeviceFeedback records the device flow's pick/skip outcome.
type DeviceFeedback struct {
	PickedDishNames    []string `json:"picked_dish_names"`
	SkippedDishNames   []string `json:"skipped_dish_names"`
	TimeToDecisionMS   int      `json:"time_to_decision_ms"`
	PickedCount        int      `json:"picked_count"`
	TotalPriceEstimate string   `json:"total_price_estimate"`
	Summary            string   `json:"summary"`
}

// FeedbackEntry is one retained rating in a device's rolling history.
type FeedbackEntry struct {
	Rating    int       `json:"rating"`
	Timestamp time.Time `json:"timestamp"`
}

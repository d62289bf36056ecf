package session

import (
	"time"

	"github.com/vibefood/backend/internal/domain"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCompleted Status = "completed"
)

// Step is the session's position in the recommendation flow. Steps only
// ever advance; no transition moves a session backwards.
type Step string

const (
	StepCreated         Step = "created"
	StepMenu            Step = "menu"
	StepVibes           Step = "vibes"
	StepRecommendations Step = "recommendations"
	StepConfirmed       Step = "confirmed"
)

// Session tracks one user's progress through the scan → vibe → recommend
// → confirm → feedback flow. Attached records are immutable once set.
type Session struct {
	ID          string    `json:"session_id"`
	DeviceID    string    `json:"device_id,omitempty"`
	Locale      string    `json:"locale"`
	Timezone    string    `json:"timezone"`
	AppVersion  string    `json:"app_version"`
	Status      Status    `json:"status"`
	CurrentStep Step      `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`

	MenuData          *domain.MenuData          `json:"menu_data,omitempty"`
	VibeData          *domain.VibeData          `json:"vibe_data,omitempty"`
	RecommendationSet *domain.RecommendationSet `json:"recommendation_set,omitempty"`
	Confirmation      *domain.Confirmation      `json:"confirmation,omitempty"`
	Feedback          *domain.Feedback          `json:"feedback,omitempty"`

	// Preferences is a read-only snapshot from the device profile,
	// populated at create time for returning devices.
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

// Event describes one observed session change, published to watchers.
type Event struct {
	SessionID string    `json:"session_id"`
	Status    Status    `json:"status"`
	Step      Step      `json:"current_step"`
	At        time.Time `json:"at"`
}

// CreateParams are the client-supplied attributes for a new session.
type CreateParams struct {
	DeviceID   string
	Locale     string
	Timezone   string
	AppVersion string
}

package profile

import (
	"context"
	"errors"
	"time"

	"github.com/vibefood/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("device not registered")
	ErrAlreadyRegistered = errors.New("device already registered")
)

// Preferences is everything remembered about a device across sessions:
// the dietary snapshot surfaced to new sessions plus the rolling
// feedback history used to compute the running average rating.
type Preferences struct {
	Allergies           []string               `json:"allergies"`
	MaxSpice            *int                   `json:"max_spice,omitempty"`
	DietaryRestrictions []string               `json:"dietary_restrictions"`
	FeedbackHistory     []domain.FeedbackEntry `json:"feedback_history"`
	AvgRating           float64                `json:"avg_rating"`
}

// Snapshot returns the read-only dietary view copied into new sessions.
func (p *Preferences) Snapshot() *domain.Preferences {
	if p == nil {
		return nil
	}
	return &domain.Preferences{
		Allergies:           append([]string(nil), p.Allergies...),
		MaxSpice:            p.MaxSpice,
		DietaryRestrictions: append([]string(nil), p.DietaryRestrictions...),
	}
}

// Profile is one device's stored record, keyed by the client-generated
// device identifier. Never expires.
type Profile struct {
	DeviceID               string                        `json:"device_id"`
	Preference             string                        `json:"preference,omitempty"`
	Preferences            *Preferences                  `json:"preferences,omitempty"`
	CurrentMenu            *domain.MenuData              `json:"current_menu,omitempty"`
	CurrentVibe            *domain.Vibe                  `json:"current_vibe,omitempty"`
	CurrentRecommendations *domain.DeviceRecommendations `json:"current_recommendations,omitempty"`
	CurrentFeedback        *domain.DeviceFeedback        `json:"current_feedback,omitempty"`
	CreatedAt              time.Time                     `json:"created_at"`
	UpdatedAt              time.Time                     `json:"updated_at"`
}

// feedbackHistoryLimit caps the rolling history retained per device.
const feedbackHistoryLimit = 10

// Store persists device profiles and preferences.
type Store interface {
	// Register creates a fresh profile; ErrAlreadyRegistered when taken.
	Register(ctx context.Context, deviceID, preference string) error
	// Get returns the full profile; ErrNotFound for unknown devices.
	Get(ctx context.Context, deviceID string) (*Profile, error)

	// GetPreferences returns the device's stored preferences, or
	// ErrNotFound when the device has none.
	GetPreferences(ctx context.Context, deviceID string) (*Preferences, error)
	SavePreferences(ctx context.Context, deviceID string, prefs Preferences) error
	// AppendFeedback appends one rating to the rolling history (capped),
	// recomputes the average over retained entries, and persists. Devices
	// without a profile get one implicitly; session feedback must not be
	// lost because the device never used the legacy surface.
	AppendFeedback(ctx context.Context, deviceID string, rating int, at time.Time) (*Preferences, error)

	SetCurrentMenu(ctx context.Context, deviceID string, menu *domain.MenuData) error
	SetCurrentRecommendations(ctx context.Context, deviceID string, vibe domain.Vibe, recs domain.DeviceRecommendations) error
	SetCurrentFeedback(ctx context.Context, deviceID string, fb domain.DeviceFeedback) error

	Close() error
}

// appendFeedback applies the rolling-history update shared by both store
// implementations.
func appendFeedback(prefs *Preferences, rating int, at time.Time) {
	prefs.FeedbackHistory = append(prefs.FeedbackHistory, domain.FeedbackEntry{
		Rating:    rating,
		Timestamp: at,
	})
	if len(prefs.FeedbackHistory) > feedbackHistoryLimit {
		prefs.FeedbackHistory = prefs.FeedbackHistory[len(prefs.FeedbackHistory)-feedbackHistoryLimit:]
	}
	sum := 0
	for _, entry := range prefs.FeedbackHistory {
		sum += entry.Rating
	}
	prefs.AvgRating = float64(sum) / float64(len(prefs.FeedbackHistory))
}

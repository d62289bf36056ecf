package flow

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vibefood/backend/internal/domain"
	"github.com/vibefood/backend/internal/ocr"
	"github.com/vibefood/backend/internal/profile"
	"github.com/vibefood/backend/internal/recommend"
)

// DeviceService is the legacy device-identified flow: no sessions, state
// lives on the persistent device profile. Unlike its predecessor it
// reports failures through the structured taxonomy instead of returning
// success-shaped bodies with embedded error strings.
type DeviceService struct {
	profiles  profile.Store
	extractor ocr.Extractor
}

func NewDeviceService(profiles profile.Store, extractor ocr.Extractor) *DeviceService {
	return &DeviceService{profiles: profiles, extractor: extractor}
}

// CheckIn reports whether the device has a profile. Called on app open.
func (s *DeviceService) CheckIn(ctx context.Context, deviceID string) (bool, error) {
	_, err := s.profiles.Get(ctx, deviceID)
	if errors.Is(err, profile.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, internal("profile lookup failed")
	}
	return true, nil
}

// Register creates a profile for a new device.
func (s *DeviceService) Register(ctx context.Context, deviceID, preference string) error {
	pref, err := domain.ParsePreference(preference)
	if err != nil {
		return ValidationFailed(err.Error())
	}
	err = s.profiles.Register(ctx, deviceID, string(pref))
	if errors.Is(err, profile.ErrAlreadyRegistered) {
		return invalidRequest("Device already registered")
	}
	if err != nil {
		return internal("registration failed")
	}
	return nil
}

// Scan decodes the uploaded menu image, runs extraction, and stores the
// result on the profile. Image bytes are ephemeral and never persisted.
func (s *DeviceService) Scan(ctx context.Context, deviceID, imageBase64 string) (*domain.MenuData, error) {
	if _, err := s.profiles.Get(ctx, deviceID); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return nil, notFound("Device not registered. Please register first.")
		}
		return nil, internal("profile lookup failed")
	}

	imageData, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, ValidationFailed("Invalid image data: base64 decoding failed")
	}

	// The device flow has no session; the device ID keys the extraction.
	menu, err := s.extractor.ExtractMenu(ctx, deviceID, imageData)
	if err != nil {
		return nil, &Error{Code: CodeOCRFailed, Message: "Failed to process menu image"}
	}

	if err := s.profiles.SetCurrentMenu(ctx, deviceID, menu); err != nil {
		return nil, internal("profile update failed")
	}
	return menu, nil
}

// Recommend returns the canned suggestion bundle for the selected vibe
// and stores it on the profile.
func (s *DeviceService) Recommend(ctx context.Context, deviceID, vibeSelection string) (*domain.DeviceRecommendations, error) {
	p, err := s.profiles.Get(ctx, deviceID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, notFound("Device not registered. Please register first.")
	}
	if err != nil {
		return nil, internal("profile lookup failed")
	}
	if p.CurrentMenu == nil {
		return nil, invalidRequest("No menu found. Please scan a menu first.")
	}

	vibe, err := domain.ParseVibe(vibeSelection)
	if err != nil {
		return nil, ValidationFailed(err.Error())
	}

	recs := recommend.DeviceSuggestions(vibe)
	if err := s.profiles.SetCurrentRecommendations(ctx, deviceID, vibe, recs); err != nil {
		return nil, internal("profile update failed")
	}
	return &recs, nil
}

// Feedback records the pick/skip outcome and returns a decision summary
// with a price estimate computed from the stored recommendations.
func (s *DeviceService) Feedback(ctx context.Context, deviceID string, picked, skipped []string, timeToDecisionMS int) (*domain.DeviceFeedback, error) {
	p, err := s.profiles.Get(ctx, deviceID)
	if errors.Is(err, profile.ErrNotFound) {
		return nil, notFound("Device not registered. Please register first.")
	}
	if err != nil {
		return nil, internal("profile lookup failed")
	}

	fb := domain.DeviceFeedback{
		PickedDishNames:    picked,
		SkippedDishNames:   skipped,
		TimeToDecisionMS:   timeToDecisionMS,
		PickedCount:        len(picked),
		TotalPriceEstimate: priceEstimate(picked, p.CurrentRecommendations),
		Summary:            decisionSummary(picked, skipped, timeToDecisionMS),
	}

	if err := s.profiles.SetCurrentFeedback(ctx, deviceID, fb); err != nil {
		return nil, internal("profile update failed")
	}
	return &fb, nil
}

func decisionSummary(picked, skipped []string, timeMS int) string {
	var speed string
	switch {
	case timeMS < 30000:
		speed = "You made a quick decision!"
	case timeMS < 60000:
		speed = "You took your time to choose carefully."
	default:
		speed = "You were thoughtful in your selection."
	}

	if len(picked) == 0 {
		return speed + " Looks like nothing caught your eye this time."
	}
	if len(skipped) == 0 {
		return speed + " You loved everything we recommended!"
	}
	for _, name := range skipped {
		lower := strings.ToLower(name)
		if strings.Contains(lower, "spicy") || strings.Contains(lower, "curry") {
			return speed + " You seem to prefer milder flavors."
		}
	}
	return speed + " Great choices based on your vibe!"
}

// priceEstimate sums the stored prices of picked dishes into a range like
// "$24-28"; the high end adds a small per-dish variance.
func priceEstimate(picked []string, recs *domain.DeviceRecommendations) string {
	if recs == nil || len(picked) == 0 {
		return "$0"
	}

	pickedSet := make(map[string]bool, len(picked))
	for _, name := range picked {
		pickedSet[name] = true
	}

	var low, high float64
	for _, rec := range recs.Recommendations {
		if !pickedSet[rec.DishName] {
			continue
		}
		price, err := strconv.ParseFloat(strings.TrimPrefix(rec.Price, "$"), 64)
		if err != nil {
			continue
		}
		low += price
		high += price + 2
	}

	if low == 0 {
		return "$0"
	}
	return fmt.Sprintf("$%d-%d", int(low), int(high))
}

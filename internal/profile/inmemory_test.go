package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibefood/backend/internal/domain"
)

func TestRegisterRejectsDuplicates(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	if err := s.Register(ctx, "dev-1", "vegetarian"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := s.Register(ctx, "dev-1", "vegan"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("second Register() error = %v, want ErrAlreadyRegistered", err)
	}

	p, err := s.Get(ctx, "dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Preference != "vegetarian" {
		t.Fatalf("Preference = %q, want %q", p.Preference, "vegetarian")
	}
}

func TestGetUnknownDevice(t *testing.T) {
	s := NewInMemoryStore()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if err := s.SetCurrentMenu(context.Background(), "nope", &domain.MenuData{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetCurrentMenu() error = %v, want ErrNotFound", err)
	}
}

func TestAppendFeedbackRollingHistory(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	// Two low ratings that should roll out of the window, then ten fives.
	ratings := []int{1, 2, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	var prefs *Preferences
	var err error
	for _, r := range ratings {
		prefs, err = s.AppendFeedback(ctx, "dev-1", r, now)
		if err != nil {
			t.Fatalf("AppendFeedback() error = %v", err)
		}
	}

	if got := len(prefs.FeedbackHistory); got != 10 {
		t.Fatalf("history length = %d, want 10", got)
	}
	if prefs.AvgRating != 5.0 {
		t.Fatalf("AvgRating = %v, want 5.0 (mean of retained ratings)", prefs.AvgRating)
	}
}

func TestAppendFeedbackAverageIsMeanOfRetained(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, r := range []int{4, 2} {
		if _, err := s.AppendFeedback(ctx, "dev-1", r, now); err != nil {
			t.Fatalf("AppendFeedback() error = %v", err)
		}
	}

	prefs, err := s.GetPreferences(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if prefs.AvgRating != 3.0 {
		t.Fatalf("AvgRating = %v, want 3.0", prefs.AvgRating)
	}
}

func TestSavePreferencesSnapshot(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	maxSpice := 2

	err := s.SavePreferences(ctx, "dev-1", Preferences{
		Allergies:           []string{"peanuts"},
		MaxSpice:            &maxSpice,
		DietaryRestrictions: []string{"vegetarian"},
	})
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	prefs, err := s.GetPreferences(ctx, "dev-1")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	snap := prefs.Snapshot()
	if snap == nil {
		t.Fatalf("Snapshot() = nil, want value")
	}
	if len(snap.Allergies) != 1 || snap.Allergies[0] != "peanuts" {
		t.Fatalf("snapshot allergies = %v, want [peanuts]", snap.Allergies)
	}
	if snap.MaxSpice == nil || *snap.MaxSpice != 2 {
		t.Fatalf("snapshot max spice = %v, want 2", snap.MaxSpice)
	}
}

func TestSetCurrentRecommendations(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	if err := s.Register(ctx, "dev-1", "no_restriction"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	recs := domain.DeviceRecommendations{
		BriefSummary:    "summary",
		Recommendations: []domain.DishSuggestion{{DishName: "Pad Thai", Price: "14"}},
	}
	if err := s.SetCurrentRecommendations(ctx, "dev-1", domain.VibeComfort, recs); err != nil {
		t.Fatalf("SetCurrentRecommendations() error = %v", err)
	}

	p, err := s.Get(ctx, "dev-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.CurrentVibe == nil || *p.CurrentVibe != domain.VibeComfort {
		t.Fatalf("CurrentVibe = %v, want comfort", p.CurrentVibe)
	}
	if p.CurrentRecommendations == nil || len(p.CurrentRecommendations.Recommendations) != 1 {
		t.Fatalf("CurrentRecommendations = %+v, want one entry", p.CurrentRecommendations)
	}
}

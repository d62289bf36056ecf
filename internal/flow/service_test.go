package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vibefood/backend/internal/domain"
	"github.com/vibefood/backend/internal/ocr"
	"github.com/vibefood/backend/internal/profile"
	"github.com/vibefood/backend/internal/recommend"
	"github.com/vibefood/backend/internal/session"
)

func newTestService(t *testing.T, ttl time.Duration) (*Service, *profile.InMemoryStore) {
	t.Helper()
	profiles := profile.NewInMemoryStore()
	svc := NewService(
		session.NewStore(ttl),
		profiles,
		ocr.NewFixtureExtractor(),
		recommend.NewEngine(),
	)
	return svc, profiles
}

// runToConfirmed walks a fresh session through scan, vibes, recommend and
// confirm, returning the confirmation for the feedback step.
func runToConfirmed(t *testing.T, svc *Service, deviceID string) (string, *domain.Confirmation) {
	t.Helper()
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, session.CreateParams{
		DeviceID:   deviceID,
		Locale:     "en-US",
		Timezone:   "UTC",
		AppVersion: "1.0.0",
	})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	menu, err := svc.ScanMenu(ctx, sess.ID, nil)
	if err != nil {
		t.Fatalf("ScanMenu() error = %v", err)
	}

	vibes, err := svc.SubmitVibes(ctx, sess.ID, VibesInput{
		MenuID:    menu.ID,
		Vibes:     []domain.Vibe{domain.VibeComfort},
		PartySize: 2,
	})
	if err != nil {
		t.Fatalf("SubmitVibes() error = %v", err)
	}

	set, err := svc.Recommend(ctx, sess.ID, vibes.ID, menu.ID, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(set.Recommendations) != 3 {
		t.Fatalf("recommendation count = %d, want 3", len(set.Recommendations))
	}

	confirmation, err := svc.Confirm(ctx, sess.ID, set.ID, []string{set.Recommendations[0].Name}, nil)
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	return sess.ID, confirmation
}

func TestFullFlowCompletesSession(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	sessionID, confirmation := runToConfirmed(t, svc, "")

	would := true
	fb, err := svc.SubmitFeedback(ctx, sessionID, FeedbackInput{
		ConfirmationID: confirmation.ID,
		Rating:         5,
		Comment:        "excellent",
		WouldRecommend: &would,
	})
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if fb.Rating != 5 {
		t.Fatalf("Rating = %d, want 5", fb.Rating)
	}

	sess, err := svc.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.Status != session.StatusCompleted {
		t.Fatalf("Status = %q, want %q", sess.Status, session.StatusCompleted)
	}
	if sess.CurrentStep != session.StepConfirmed {
		t.Fatalf("CurrentStep = %q, want %q", sess.CurrentStep, session.StepConfirmed)
	}
	if sess.Feedback == nil || sess.Feedback.ID != fb.ID {
		t.Fatalf("session feedback = %+v, want id %s", sess.Feedback, fb.ID)
	}
}

func TestTransitionsEnforceOrder(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, session.CreateParams{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}

	if _, err := svc.SubmitVibes(ctx, sess.ID, VibesInput{MenuID: "m", Vibes: []domain.Vibe{domain.VibeQuick}, PartySize: 1}); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("vibes before scan: error = %v, want invalid_request", err)
	}
	if _, err := svc.Recommend(ctx, sess.ID, "v", "m", 3); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("recommend before scan: error = %v, want invalid_request", err)
	}
	if _, err := svc.Confirm(ctx, sess.ID, "r", []string{"x"}, nil); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("confirm before recommend: error = %v, want invalid_request", err)
	}
	if _, err := svc.SubmitFeedback(ctx, sess.ID, FeedbackInput{ConfirmationID: "c", Rating: 4}); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("feedback before confirm: error = %v, want invalid_request", err)
	}
}

func TestTransitionsAttachOnce(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	sessionID, confirmation := runToConfirmed(t, svc, "")

	if _, err := svc.ScanMenu(ctx, sessionID, nil); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("second scan: error = %v, want invalid_request", err)
	}
	if _, err := svc.Confirm(ctx, sessionID, confirmation.RecommendationID, []string{"x"}, nil); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("second confirm: error = %v, want invalid_request", err)
	}
	if _, err := svc.SubmitFeedback(ctx, sessionID, FeedbackInput{ConfirmationID: confirmation.ID, Rating: 4}); err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if _, err := svc.SubmitFeedback(ctx, sessionID, FeedbackInput{ConfirmationID: confirmation.ID, Rating: 2}); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("second feedback: error = %v, want invalid_request", err)
	}
}

func TestCrossReferenceMismatch(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, session.CreateParams{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if _, err := svc.ScanMenu(ctx, sess.ID, nil); err != nil {
		t.Fatalf("ScanMenu() error = %v", err)
	}

	if _, err := svc.SubmitVibes(ctx, sess.ID, VibesInput{MenuID: "wrong-menu", Vibes: []domain.Vibe{domain.VibeLight}, PartySize: 1}); !hasCode(err, CodeInvalidRequest) {
		t.Fatalf("mismatched menu id: error = %v, want invalid_request", err)
	}
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	if _, err := svc.ScanMenu(ctx, "missing", nil); !hasCode(err, CodeNotFound) {
		t.Fatalf("ScanMenu() error = %v, want not_found", err)
	}
	if _, err := svc.GetSession("missing"); !hasCode(err, CodeNotFound) {
		t.Fatalf("GetSession() error = %v, want not_found", err)
	}
}

func TestExpiredSessionRejectsTransitionsButStaysReadable(t *testing.T) {
	svc, _ := newTestService(t, 20*time.Millisecond)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, session.CreateParams{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	time.Sleep(40 * time.Millisecond)

	if _, err := svc.ScanMenu(ctx, sess.ID, nil); !hasCode(err, CodeSessionExpired) {
		t.Fatalf("ScanMenu() error = %v, want session_expired", err)
	}

	got, err := svc.GetSession(sess.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.Status != session.StatusExpired {
		t.Fatalf("Status = %q, want %q", got.Status, session.StatusExpired)
	}
}

func TestCreateSessionCopiesStoredPreferences(t *testing.T) {
	svc, profiles := newTestService(t, time.Hour)
	ctx := context.Background()

	maxSpice := 1
	err := profiles.SavePreferences(ctx, "device-1", profile.Preferences{
		Allergies: []string{"peanuts"},
		MaxSpice:  &maxSpice,
	})
	if err != nil {
		t.Fatalf("SavePreferences() error = %v", err)
	}

	sess, err := svc.CreateSession(ctx, session.CreateParams{DeviceID: "device-1"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.Preferences == nil {
		t.Fatalf("Preferences = nil, want stored snapshot")
	}
	if len(sess.Preferences.Allergies) != 1 || sess.Preferences.Allergies[0] != "peanuts" {
		t.Fatalf("snapshot allergies = %v, want [peanuts]", sess.Preferences.Allergies)
	}

	anon, err := svc.CreateSession(ctx, session.CreateParams{DeviceID: "unknown-device"})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if anon.Preferences != nil {
		t.Fatalf("Preferences = %+v, want nil for unknown device", anon.Preferences)
	}
}

func TestFeedbackFoldsIntoDeviceHistory(t *testing.T) {
	svc, profiles := newTestService(t, time.Hour)
	ctx := context.Background()

	sessionID, confirmation := runToConfirmed(t, svc, "device-9")
	if _, err := svc.SubmitFeedback(ctx, sessionID, FeedbackInput{ConfirmationID: confirmation.ID, Rating: 4}); err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}

	prefs, err := profiles.GetPreferences(ctx, "device-9")
	if err != nil {
		t.Fatalf("GetPreferences() error = %v", err)
	}
	if len(prefs.FeedbackHistory) != 1 || prefs.FeedbackHistory[0].Rating != 4 {
		t.Fatalf("history = %+v, want single rating 4", prefs.FeedbackHistory)
	}
	if prefs.AvgRating != 4.0 {
		t.Fatalf("AvgRating = %v, want 4.0", prefs.AvgRating)
	}
}

func TestRecommendRespectsSessionPreferenceSnapshot(t *testing.T) {
	// The vibe submission carries allergies; the engine surfaces warnings
	// rather than dropping the dish.
	svc, _ := newTestService(t, time.Hour)
	ctx := context.Background()

	sess, err := svc.CreateSession(ctx, session.CreateParams{})
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	menu, err := svc.ScanMenu(ctx, sess.ID, nil)
	if err != nil {
		t.Fatalf("ScanMenu() error = %v", err)
	}
	vibes, err := svc.SubmitVibes(ctx, sess.ID, VibesInput{
		MenuID:    menu.ID,
		Vibes:     []domain.Vibe{domain.VibeComfort},
		PartySize: 1,
		Allergies: []string{"peanuts"},
	})
	if err != nil {
		t.Fatalf("SubmitVibes() error = %v", err)
	}
	set, err := svc.Recommend(ctx, sess.ID, vibes.ID, menu.ID, 3)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	var warned bool
	for _, rec := range set.Recommendations {
		if rec.Name == "Pad Thai" && len(rec.Warnings) > 0 {
			warned = true
		}
	}
	if !warned {
		t.Fatalf("expected an allergen warning on Pad Thai, got %+v", set.Recommendations)
	}
}

func hasCode(err error, code Code) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Code == code
}

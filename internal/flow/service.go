// Package flow implements the session state machine: the five flow
// transitions, their preconditions, and the cross-reference checks that
// tie each attached record to the next step.
package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibefood/backend/internal/domain"
	"github.com/vibefood/backend/internal/ocr"
	"github.com/vibefood/backend/internal/profile"
	"github.com/vibefood/backend/internal/recommend"
	"github.com/vibefood/backend/internal/session"
)

// Service drives sessions through scan → vibes → recommend → confirm →
// feedback. Transitions on one session are serialized by a per-session
// lock so a read-validate-write never interleaves with another.
type Service struct {
	sessions  *session.Store
	profiles  profile.Store
	extractor ocr.Extractor
	engine    recommend.Generator

	locks sync.Map // session id -> *sync.Mutex
}

func NewService(sessions *session.Store, profiles profile.Store, extractor ocr.Extractor, engine recommend.Generator) *Service {
	return &Service{
		sessions:  sessions,
		profiles:  profiles,
		extractor: extractor,
		engine:    engine,
	}
}

// CreateSession starts a new flow. Returning devices get their stored
// preference snapshot copied into the session.
func (s *Service) CreateSession(ctx context.Context, p session.CreateParams) (*session.Session, error) {
	var prefs *domain.Preferences
	if p.DeviceID != "" {
		stored, err := s.profiles.GetPreferences(ctx, p.DeviceID)
		if err != nil && !errors.Is(err, profile.ErrNotFound) {
			return nil, internal("preference lookup failed")
		}
		prefs = stored.Snapshot()
	}
	return s.sessions.Create(p, prefs), nil
}

// GetSession returns the session regardless of expiry so clients can
// inspect an expired flow's final state.
func (s *Service) GetSession(sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, notFound("Session not found")
	}
	if err != nil && !errors.Is(err, session.ErrExpired) {
		return nil, internal("session lookup failed")
	}
	return sess, nil
}

// ScanMenu runs menu extraction and attaches the result.
func (s *Service) ScanMenu(ctx context.Context, sessionID string, imageData []byte) (*domain.MenuData, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, ferr := s.activeSession(sessionID)
	if ferr != nil {
		return nil, ferr
	}
	if sess.MenuData != nil {
		return nil, invalidRequest("Menu has already been scanned for this session")
	}

	menu, err := s.extractor.ExtractMenu(ctx, sessionID, imageData)
	if err != nil {
		return nil, &Error{Code: CodeOCRFailed, Message: "Failed to process menu image"}
	}

	sess.MenuData = menu
	sess.CurrentStep = session.StepMenu
	if err := s.sessions.Update(sess); err != nil {
		return nil, internal("session update failed")
	}
	return menu, nil
}

// VibesInput is the validated vibe submission for one session.
type VibesInput struct {
	MenuID              string
	Vibes               []domain.Vibe
	PartySize           int
	BudgetPerPerson     float64
	DietaryRestrictions []string
	Allergies           []string
	MaxSpice            *int
	Occasion            string
}

// SubmitVibes attaches the vibe selection after checking the menu
// cross-reference.
func (s *Service) SubmitVibes(ctx context.Context, sessionID string, in VibesInput) (*domain.VibeData, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, ferr := s.activeSession(sessionID)
	if ferr != nil {
		return nil, ferr
	}
	if sess.MenuData == nil {
		return nil, invalidRequest("Menu must be scanned before submitting vibes")
	}
	if sess.MenuData.ID != in.MenuID {
		return nil, invalidRequest("Menu ID does not match session's menu")
	}
	if sess.VibeData != nil {
		return nil, invalidRequest("Vibes have already been submitted for this session")
	}

	vibes := &domain.VibeData{
		ID:                  uuid.NewString(),
		SessionID:           sessionID,
		MenuID:              in.MenuID,
		Vibes:               in.Vibes,
		PartySize:           in.PartySize,
		BudgetPerPerson:     in.BudgetPerPerson,
		DietaryRestrictions: in.DietaryRestrictions,
		Allergies:           in.Allergies,
		MaxSpice:            in.MaxSpice,
		Occasion:            in.Occasion,
		CreatedAt:           time.Now().UTC(),
	}

	sess.VibeData = vibes
	sess.CurrentStep = session.StepVibes
	if err := s.sessions.Update(sess); err != nil {
		return nil, internal("session update failed")
	}
	return vibes, nil
}

// Recommend generates, truncates to count, and attaches recommendations.
func (s *Service) Recommend(ctx context.Context, sessionID, vibeID, menuID string, count int) (*domain.RecommendationSet, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, ferr := s.activeSession(sessionID)
	if ferr != nil {
		return nil, ferr
	}
	if sess.MenuData == nil {
		return nil, invalidRequest("Menu must be scanned first")
	}
	if sess.VibeData == nil {
		return nil, invalidRequest("Vibes must be submitted first")
	}
	if sess.MenuData.ID != menuID {
		return nil, invalidRequest("Menu ID does not match session's menu")
	}
	if sess.VibeData.ID != vibeID {
		return nil, invalidRequest("Vibe ID does not match session's vibes")
	}
	if sess.RecommendationSet != nil {
		return nil, invalidRequest("Recommendations have already been generated for this session")
	}

	set := s.engine.Generate(sess.MenuData, sess.VibeData)
	if count > 0 && len(set.Recommendations) > count {
		set.Recommendations = set.Recommendations[:count]
	}

	sess.RecommendationSet = set
	sess.CurrentStep = session.StepRecommendations
	if err := s.sessions.Update(sess); err != nil {
		return nil, internal("session update failed")
	}
	return set, nil
}

// Confirm attaches the user's pick/skip selection.
func (s *Service) Confirm(ctx context.Context, sessionID, recommendationID string, picked, skipped []string) (*domain.Confirmation, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, ferr := s.activeSession(sessionID)
	if ferr != nil {
		return nil, ferr
	}
	if sess.RecommendationSet == nil {
		return nil, invalidRequest("Recommendations must be generated first")
	}
	if sess.RecommendationSet.ID != recommendationID {
		return nil, invalidRequest("Recommendation ID does not match session's recommendations")
	}
	if sess.Confirmation != nil {
		return nil, invalidRequest("Dishes have already been confirmed for this session")
	}

	confirmation := &domain.Confirmation{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		RecommendationID: recommendationID,
		PickedDishes:     picked,
		SkippedDishes:    skipped,
		ConfirmedAt:      time.Now().UTC(),
	}

	sess.Confirmation = confirmation
	sess.CurrentStep = session.StepConfirmed
	if err := s.sessions.Update(sess); err != nil {
		return nil, internal("session update failed")
	}
	return confirmation, nil
}

// FeedbackInput is the validated feedback submission.
type FeedbackInput struct {
	ConfirmationID string
	Rating         int
	Comment        string
	WouldRecommend *bool
}

// SubmitFeedback attaches feedback, completes the session, and for
// device-bearing sessions folds the rating into the device's rolling
// history. The step stays at confirmed.
func (s *Service) SubmitFeedback(ctx context.Context, sessionID string, in FeedbackInput) (*domain.Feedback, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	sess, ferr := s.activeSession(sessionID)
	if ferr != nil {
		return nil, ferr
	}
	if sess.Confirmation == nil {
		return nil, invalidRequest("Dishes must be confirmed first")
	}
	if sess.Confirmation.ID != in.ConfirmationID {
		return nil, invalidRequest("Confirmation ID does not match session's confirmation")
	}
	if sess.Feedback != nil {
		return nil, invalidRequest("Feedback has already been submitted for this session")
	}

	feedback := &domain.Feedback{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		ConfirmationID: in.ConfirmationID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		WouldRecommend: in.WouldRecommend,
		SubmittedAt:    time.Now().UTC(),
	}

	sess.Feedback = feedback
	sess.Status = session.StatusCompleted
	if err := s.sessions.Update(sess); err != nil {
		return nil, internal("session update failed")
	}

	if sess.DeviceID != "" {
		// Opportunistic: a profile write failure must not fail the flow.
		_, _ = s.profiles.AppendFeedback(ctx, sess.DeviceID, in.Rating, feedback.SubmittedAt)
	}
	return feedback, nil
}

// ActiveSessions reports the number of sessions still able to advance.
func (s *Service) ActiveSessions() int {
	return s.sessions.ActiveCount()
}

// Watch exposes the store's session event stream.
func (s *Service) Watch(sessionID string) (<-chan session.Event, func(), error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, nil, err
	}
	ch, cancel := s.sessions.Watch(sessionID)
	return ch, cancel, nil
}

// activeSession resolves a session that may still advance: found, not
// expired, not completed.
func (s *Service) activeSession(sessionID string) (*session.Session, *Error) {
	sess, err := s.sessions.Get(sessionID)
	switch {
	case errors.Is(err, session.ErrNotFound):
		return nil, notFound("Session not found")
	case errors.Is(err, session.ErrExpired):
		return nil, sessionExpired()
	case err != nil:
		return nil, internal("session lookup failed")
	}
	return sess, nil
}

func (s *Service) lockSession(sessionID string) func() {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

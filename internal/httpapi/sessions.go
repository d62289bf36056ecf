package httpapi

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vibefood/backend/internal/domain"
	"github.com/vibefood/backend/internal/flow"
	"github.com/vibefood/backend/internal/session"
)

var (
	localePattern = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)
	semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

type createSessionRequest struct {
	DeviceID   string `json:"device_id,omitempty"`
	Locale     string `json:"locale"`
	Timezone   string `json:"timezone"`
	AppVersion string `json:"app_version"`
}

func (r *createSessionRequest) validate() *flow.Error {
	if r.DeviceID != "" {
		if _, err := uuid.Parse(r.DeviceID); err != nil {
			return flow.ValidationFailed("device_id must be a UUID")
		}
	}
	if !localePattern.MatchString(r.Locale) {
		return flow.ValidationFailed("locale must match xx-XX (e.g. en-US)")
	}
	if strings.TrimSpace(r.Timezone) == "" {
		return flow.ValidationFailed("timezone is required")
	}
	if !semverPattern.MatchString(r.AppVersion) {
		return flow.ValidationFailed("app_version must be semver (e.g. 1.0.0)")
	}
	return nil
}

type createSessionResponse struct {
	SessionID   string              `json:"session_id"`
	CreatedAt   time.Time           `json:"created_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
	Preferences *domain.Preferences `json:"preferences,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}
	if verr := req.validate(); verr != nil {
		s.respondFlowError(w, verr)
		return
	}

	sess, err := s.flow.CreateSession(r.Context(), session.CreateParams{
		DeviceID:   req.DeviceID,
		Locale:     req.Locale,
		Timezone:   req.Timezone,
		AppVersion: req.AppVersion,
	})
	if err != nil {
		s.respondFlowError(w, err)
		return
	}

	s.metrics.SessionEvents.WithLabelValues("created").Inc()
	s.metrics.ActiveSessions.Set(float64(s.flow.ActiveSessions()))

	respondJSON(w, http.StatusCreated, createSessionResponse{
		SessionID:   sess.ID,
		CreatedAt:   sess.CreatedAt,
		ExpiresAt:   sess.ExpiresAt,
		Preferences: sess.Preferences,
	})
}

type scanMenuRequest struct {
	ImageBase64 string `json:"image_base64,omitempty"`
}

type scanMenuResponse struct {
	MenuID           string                  `json:"menu_id"`
	Restaurant       *domain.Restaurant      `json:"restaurant,omitempty"`
	Items            []domain.MenuItem       `json:"items"`
	ItemCount        int                     `json:"item_count"`
	ExtractionMethod domain.ExtractionMethod `json:"extraction_method"`
	Confidence       float64                 `json:"confidence"`
	ExtractedAt      time.Time               `json:"extracted_at"`
	Warnings         []string                `json:"warnings"`
}

func (s *Server) handleScanMenu(w http.ResponseWriter, r *http.Request) {
	var req scanMenuRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}

	menu, err := s.flow.ScanMenu(r.Context(), chi.URLParam(r, "id"), []byte(req.ImageBase64))
	if err != nil {
		s.metrics.FlowTransitions.WithLabelValues("scan_menu", "error").Inc()
		s.respondFlowError(w, err)
		return
	}
	s.metrics.FlowTransitions.WithLabelValues("scan_menu", "ok").Inc()

	respondJSON(w, http.StatusOK, scanMenuResponse{
		MenuID:           menu.ID,
		Restaurant:       menu.Restaurant,
		Items:            menu.Items,
		ItemCount:        len(menu.Items),
		ExtractionMethod: menu.ExtractionMethod,
		Confidence:       menu.Confidence,
		ExtractedAt:      menu.ExtractedAt,
		Warnings:         menu.Warnings,
	})
}

type vibeConstraints struct {
	DietaryRestrictions []string `json:"dietary_restrictions"`
	Allergies           []string `json:"allergies"`
	MaxSpice            *int     `json:"max_spice,omitempty"`
}

type vibeRequest struct {
	MenuID          string           `json:"menu_id"`
	Vibes           []string         `json:"vibes"`
	PartySize       int              `json:"party_size"`
	BudgetPerPerson *float64         `json:"budget_per_person,omitempty"`
	Constraints     *vibeConstraints `json:"constraints,omitempty"`
	Occasion        string           `json:"occasion,omitempty"`
}

func (r *vibeRequest) validate() ([]domain.Vibe, *flow.Error) {
	if strings.TrimSpace(r.MenuID) == "" {
		return nil, flow.ValidationFailed("menu_id is required")
	}
	if len(r.Vibes) < 1 || len(r.Vibes) > 3 {
		return nil, flow.ValidationFailed("vibes must contain 1 to 3 entries")
	}
	vibes := make([]domain.Vibe, 0, len(r.Vibes))
	for _, raw := range r.Vibes {
		v, err := domain.ParseVibe(raw)
		if err != nil {
			return nil, flow.ValidationFailed(err.Error())
		}
		vibes = append(vibes, v)
	}
	if r.PartySize == 0 {
		r.PartySize = 1
	}
	if r.PartySize < 1 || r.PartySize > 20 {
		return nil, flow.ValidationFailed("party_size must be between 1 and 20")
	}
	if r.BudgetPerPerson != nil && *r.BudgetPerPerson <= 0 {
		return nil, flow.ValidationFailed("budget_per_person must be positive")
	}
	if r.Constraints != nil && r.Constraints.MaxSpice != nil {
		if ms := *r.Constraints.MaxSpice; ms < 0 || ms > 5 {
			return nil, flow.ValidationFailed("max_spice must be between 0 and 5")
		}
	}
	return vibes, nil
}

type vibeContext struct {
	Vibes           []string `json:"vibes"`
	PartySize       int      `json:"party_size"`
	HasRestrictions bool     `json:"has_restrictions"`
	Occasion        string   `json:"occasion,omitempty"`
}

type vibeResponse struct {
	VibeID    string      `json:"vibe_id"`
	MenuID    string      `json:"menu_id"`
	Context   vibeContext `json:"context"`
	CreatedAt time.Time   `json:"created_at"`
	Message   string      `json:"message"`
}

func (s *Server) handleSubmitVibes(w http.ResponseWriter, r *http.Request) {
	var req vibeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}
	vibes, verr := req.validate()
	if verr != nil {
		s.respondFlowError(w, verr)
		return
	}

	in := flow.VibesInput{
		MenuID:    req.MenuID,
		Vibes:     vibes,
		PartySize: req.PartySize,
		Occasion:  req.Occasion,
	}
	if req.BudgetPerPerson != nil {
		in.BudgetPerPerson = *req.BudgetPerPerson
	}
	if req.Constraints != nil {
		in.DietaryRestrictions = req.Constraints.DietaryRestrictions
		in.Allergies = req.Constraints.Allergies
		in.MaxSpice = req.Constraints.MaxSpice
	}

	data, err := s.flow.SubmitVibes(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.metrics.FlowTransitions.WithLabelValues("vibes", "error").Inc()
		s.respondFlowError(w, err)
		return
	}
	s.metrics.FlowTransitions.WithLabelValues("vibes", "ok").Inc()

	respondJSON(w, http.StatusOK, vibeResponse{
		VibeID: data.ID,
		MenuID: data.MenuID,
		Context: vibeContext{
			Vibes:           req.Vibes,
			PartySize:       data.PartySize,
			HasRestrictions: len(data.DietaryRestrictions) > 0 || len(data.Allergies) > 0,
			Occasion:        data.Occasion,
		},
		CreatedAt: data.CreatedAt,
		Message:   "Vibes recorded successfully. Ready for recommendations.",
	})
}

type recommendationRequest struct {
	VibeID string `json:"vibe_id"`
	MenuID string `json:"menu_id"`
	Count  int    `json:"count"`
}

func (r *recommendationRequest) validate() *flow.Error {
	if strings.TrimSpace(r.VibeID) == "" {
		return flow.ValidationFailed("vibe_id is required")
	}
	if strings.TrimSpace(r.MenuID) == "" {
		return flow.ValidationFailed("menu_id is required")
	}
	if r.Count == 0 {
		r.Count = 3
	}
	if r.Count < 1 || r.Count > 5 {
		return flow.ValidationFailed("count must be between 1 and 5")
	}
	return nil
}

type recommendationResponse struct {
	RecommendationID string                  `json:"recommendation_id"`
	VibeID           string                  `json:"vibe_id"`
	MenuID           string                  `json:"menu_id"`
	Recommendations  []domain.Recommendation `json:"recommendations"`
	ReasoningSummary string                  `json:"reasoning_summary"`
	Confidence       float64                 `json:"confidence"`
	GeneratedAt      time.Time               `json:"generated_at"`
	ModelVersion     string                  `json:"model_version"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}
	if verr := req.validate(); verr != nil {
		s.respondFlowError(w, verr)
		return
	}

	set, err := s.flow.Recommend(r.Context(), chi.URLParam(r, "id"), req.VibeID, req.MenuID, req.Count)
	if err != nil {
		s.metrics.FlowTransitions.WithLabelValues("recommendations", "error").Inc()
		s.respondFlowError(w, err)
		return
	}
	s.metrics.FlowTransitions.WithLabelValues("recommendations", "ok").Inc()

	respondJSON(w, http.StatusOK, recommendationResponse{
		RecommendationID: set.ID,
		VibeID:           set.VibeID,
		MenuID:           set.MenuID,
		Recommendations:  set.Recommendations,
		ReasoningSummary: set.ReasoningSummary,
		Confidence:       set.Confidence,
		GeneratedAt:      set.GeneratedAt,
		ModelVersion:     set.ModelVersion,
	})
}

type confirmRequest struct {
	RecommendationID string   `json:"recommendation_id"`
	PickedDishes     []string `json:"picked_dishes"`
	SkippedDishes    []string `json:"skipped_dishes"`
}

func (r *confirmRequest) validate() *flow.Error {
	if strings.TrimSpace(r.RecommendationID) == "" {
		return flow.ValidationFailed("recommendation_id is required")
	}
	if len(r.PickedDishes) < 1 {
		return flow.ValidationFailed("picked_dishes must contain at least one entry")
	}
	return nil
}

type confirmResponse struct {
	ConfirmationID   string    `json:"confirmation_id"`
	SessionID        string    `json:"session_id"`
	RecommendationID string    `json:"recommendation_id"`
	PickedCount      int       `json:"picked_count"`
	SkippedCount     int       `json:"skipped_count"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
	Message          string    `json:"message"`
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}
	if verr := req.validate(); verr != nil {
		s.respondFlowError(w, verr)
		return
	}

	confirmation, err := s.flow.Confirm(r.Context(), chi.URLParam(r, "id"), req.RecommendationID, req.PickedDishes, req.SkippedDishes)
	if err != nil {
		s.metrics.FlowTransitions.WithLabelValues("confirm", "error").Inc()
		s.respondFlowError(w, err)
		return
	}
	s.metrics.FlowTransitions.WithLabelValues("confirm", "ok").Inc()

	respondJSON(w, http.StatusOK, confirmResponse{
		ConfirmationID:   confirmation.ID,
		SessionID:        confirmation.SessionID,
		RecommendationID: confirmation.RecommendationID,
		PickedCount:      len(confirmation.PickedDishes),
		SkippedCount:     len(confirmation.SkippedDishes),
		ConfirmedAt:      confirmation.ConfirmedAt,
		Message:          "Selection confirmed! Enjoy your meal.",
	})
}

type feedbackRequest struct {
	ConfirmationID string `json:"confirmation_id"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment,omitempty"`
	WouldRecommend *bool  `json:"would_recommend,omitempty"`
}

func (r *feedbackRequest) validate() *flow.Error {
	if strings.TrimSpace(r.ConfirmationID) == "" {
		return flow.ValidationFailed("confirmation_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return flow.ValidationFailed("rating must be between 1 and 5")
	}
	if len(r.Comment) > 500 {
		return flow.ValidationFailed("comment must not exceed 500 characters")
	}
	return nil
}

type feedbackResponse struct {
	FeedbackID     string    `json:"feedback_id"`
	SessionID      string    `json:"session_id"`
	ConfirmationID string    `json:"confirmation_id"`
	Rating         int       `json:"rating"`
	SubmittedAt    time.Time `json:"submitted_at"`
	Message        string    `json:"message"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondFlowError(w, flow.ValidationFailed("request body is not valid JSON"))
		return
	}
	if verr := req.validate(); verr != nil {
		s.respondFlowError(w, verr)
		return
	}

	feedback, err := s.flow.SubmitFeedback(r.Context(), chi.URLParam(r, "id"), flow.FeedbackInput{
		ConfirmationID: req.ConfirmationID,
		Rating:         req.Rating,
		Comment:        req.Comment,
		WouldRecommend: req.WouldRecommend,
	})
	if err != nil {
		s.metrics.FlowTransitions.WithLabelValues("feedback", "error").Inc()
		s.respondFlowError(w, err)
		return
	}
	s.metrics.FlowTransitions.WithLabelValues("feedback", "ok").Inc()
	s.metrics.SessionEvents.WithLabelValues("completed").Inc()
	s.metrics.ActiveSessions.Set(float64(s.flow.ActiveSessions()))

	respondJSON(w, http.StatusOK, feedbackResponse{
		FeedbackID:     feedback.ID,
		SessionID:      feedback.SessionID,
		ConfirmationID: feedback.ConfirmationID,
		Rating:         feedback.Rating,
		SubmittedAt:    feedback.SubmittedAt,
		Message:        "Thank you for your feedback!",
	})
}

type menuSummary struct {
	MenuID         string    `json:"menu_id"`
	ItemCount      int       `json:"item_count"`
	RestaurantName string    `json:"restaurant_name,omitempty"`
	ExtractedAt    time.Time `json:"extracted_at"`
}

type vibeSummary struct {
	VibeID    string    `json:"vibe_id"`
	Vibes     []string  `json:"vibes"`
	PartySize int       `json:"party_size"`
	CreatedAt time.Time `json:"created_at"`
}

type recommendationSummary struct {
	RecommendationID string    `json:"recommendation_id"`
	Count            int       `json:"count"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type confirmationSummary struct {
	ConfirmationID string    `json:"confirmation_id"`
	PickedCount    int       `json:"picked_count"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

type feedbackSummary struct {
	FeedbackID  string    `json:"feedback_id"`
	Rating      int       `json:"rating"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type getSessionResponse struct {
	SessionID   string    `json:"session_id"`
	Status      string    `json:"status"`
	CurrentStep string    `json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`

	Menu            *menuSummary           `json:"menu,omitempty"`
	Vibes           *vibeSummary           `json:"vibes,omitempty"`
	Recommendations *recommendationSummary `json:"recommendations,omitempty"`
	Confirmation    *confirmationSummary   `json:"confirmation,omitempty"`
	Feedback        *feedbackSummary       `json:"feedback,omitempty"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.flow.GetSession(chi.URLParam(r, "id"))
	if err != nil {
		s.respondFlowError(w, err)
		return
	}

	resp := getSessionResponse{
		SessionID:   sess.ID,
		Status:      string(sess.Status),
		CurrentStep: string(sess.CurrentStep),
		CreatedAt:   sess.CreatedAt,
		ExpiresAt:   sess.ExpiresAt,
	}
	if sess.MenuData != nil {
		summary := &menuSummary{
			MenuID:      sess.MenuData.ID,
			ItemCount:   len(sess.MenuData.Items),
			ExtractedAt: sess.MenuData.ExtractedAt,
		}
		if sess.MenuData.Restaurant != nil {
			summary.RestaurantName = sess.MenuData.Restaurant.Name
		}
		resp.Menu = summary
	}
	if sess.VibeData != nil {
		names := make([]string, len(sess.VibeData.Vibes))
		for i, v := range sess.VibeData.Vibes {
			names[i] = string(v)
		}
		resp.Vibes = &vibeSummary{
			VibeID:    sess.VibeData.ID,
			Vibes:     names,
			PartySize: sess.VibeData.PartySize,
			CreatedAt: sess.VibeData.CreatedAt,
		}
	}
	if sess.RecommendationSet != nil {
		resp.Recommendations = &recommendationSummary{
			RecommendationID: sess.RecommendationSet.ID,
			Count:            len(sess.RecommendationSet.Recommendations),
			GeneratedAt:      sess.RecommendationSet.GeneratedAt,
		}
	}
	if sess.Confirmation != nil {
		resp.Confirmation = &confirmationSummary{
			ConfirmationID: sess.Confirmation.ID,
			PickedCount:    len(sess.Confirmation.PickedDishes),
			ConfirmedAt:    sess.Confirmation.ConfirmedAt,
		}
	}
	if sess.Feedback != nil {
		resp.Feedback = &feedbackSummary{
			FeedbackID:  sess.Feedback.ID,
			Rating:      sess.Feedback.Rating,
			SubmittedAt: sess.Feedback.SubmittedAt,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

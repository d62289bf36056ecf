package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/vibefood/backend/internal/domain"
	"github.com/vibefood/backend/internal/flow"
)

// Handlers for the device-identified surface: a parallel, simpler flow
// keyed by a client-supplied device ID against the persistent profile
// store. All failures go through the structured taxonomy.

type checkInRequest struct {
	DeviceID string `json:"device_id"`
}

type checkInResponse struct {
	IsRegistered bool `json:"is_registered"`
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.DeviceID) == "" {
		s.respondFlowError(w, flow.ValidationFailed("device_id is required"))
		return
	}

	registered, err := s.device.CheckIn(r.Context(), req.DeviceID)
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checkInResponse{IsRegistered: registered})
}

type registerRequest struct {
	DeviceID   string `json:"device_id"`
	Preference string `json:"preference"`
}

type registerResponse struct {
	IsSuccess bool `json:"is_success"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.DeviceID) == "" {
		s.respondFlowError(w, flow.ValidationFailed("device_id is required"))
		return
	}

	if err := s.device.Register(r.Context(), req.DeviceID, req.Preference); err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, registerResponse{IsSuccess: true})
}

type deviceScanRequest struct {
	DeviceID    string `json:"device_id"`
	ImageBase64 string `json:"image_base64"`
}

type deviceScanResponse struct {
	IsSuccess bool      `json:"is_success"`
	MenuID    string    `json:"menu_id"`
	ItemCount int       `json:"item_count"`
	ScannedAt time.Time `json:"scanned_at"`
}

func (s *Server) handleDeviceScan(w http.ResponseWriter, r *http.Request) {
	var req deviceScanRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.DeviceID) == "" {
		s.respondFlowError(w, flow.ValidationFailed("device_id is required"))
		return
	}

	menu, err := s.device.Scan(r.Context(), req.DeviceID, req.ImageBase64)
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deviceScanResponse{
		IsSuccess: true,
		MenuID:    menu.ID,
		ItemCount: len(menu.Items),
		ScannedAt: menu.ExtractedAt,
	})
}

type deviceRecommendationRequest struct {
	DeviceID      string `json:"device_id"`
	VibeSelection string `json:"vibe_selection"`
}

type deviceRecommendationResponse struct {
	IsSuccess      bool                          `json:"is_success"`
	Recommendation *domain.DeviceRecommendations `json:"recommendation"`
}

func (s *Server) handleDeviceRecommendation(w http.ResponseWriter, r *http.Request) {
	var req deviceRecommendationRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.DeviceID) == "" {
		s.respondFlowError(w, flow.ValidationFailed("device_id is required"))
		return
	}

	recs, err := s.device.Recommend(r.Context(), req.DeviceID, req.VibeSelection)
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deviceRecommendationResponse{
		IsSuccess:      true,
		Recommendation: recs,
	})
}

type deviceFeedbackRequest struct {
	DeviceID         string   `json:"device_id"`
	PickedDishNames  []string `json:"picked_dish_names"`
	SkippedDishNames []string `json:"skipped_dish_names"`
	TimeToDecisionMS int      `json:"time_to_decision_ms"`
}

type deviceFeedbackResponse struct {
	PickedCount        int    `json:"picked_count"`
	TotalPriceEstimate string `json:"total_price_estimate"`
	Summary            string `json:"summary"`
}

func (s *Server) handleDeviceFeedback(w http.ResponseWriter, r *http.Request) {
	var req deviceFeedbackRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.DeviceID) == "" {
		s.respondFlowError(w, flow.ValidationFailed("device_id is required"))
		return
	}

	fb, err := s.device.Feedback(r.Context(), req.DeviceID, req.PickedDishNames, req.SkippedDishNames, req.TimeToDecisionMS)
	if err != nil {
		s.respondFlowError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, deviceFeedbackResponse{
		PickedCount:        fb.PickedCount,
		TotalPriceEstimate: fb.TotalPriceEstimate,
		Summary:            fb.Summary,
	})
}

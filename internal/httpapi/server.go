package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vibefood/backend/internal/config"
	"github.com/vibefood/backend/internal/flow"
	"github.com/vibefood/backend/internal/observability"
)

type Server struct {
	cfg       config.Config
	version   string
	flow      *flow.Service
	device    *flow.DeviceService
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
	startedAt time.Time
}

func New(cfg config.Config, version string, flowSvc *flow.Service, deviceSvc *flow.DeviceService, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		version:   version,
		flow:      flowSvc,
		device:    deviceSvc,
		metrics:   metrics,
		startedAt: time.Now().UTC(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up; non-browser clients
				// omit Origin and are allowed.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Get("/v1/sessions/{id}/events", s.handleSessionEvents)
	r.Post("/v1/sessions/{id}/scan-menu", s.handleScanMenu)
	r.Post("/v1/sessions/{id}/vibes", s.handleSubmitVibes)
	r.Post("/v1/sessions/{id}/recommendations", s.handleRecommendations)
	r.Post("/v1/sessions/{id}/confirm", s.handleConfirm)
	r.Post("/v1/sessions/{id}/feedback", s.handleFeedback)

	r.Post("/v1/check-in", s.handleCheckIn)
	r.Post("/v1/register", s.handleRegister)
	r.Post("/v1/scan", s.handleDeviceScan)
	r.Post("/v1/recommendation", s.handleDeviceRecommendation)
	r.Post("/v1/feedback", s.handleDeviceFeedback)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	now := time.Now().UTC()
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"version":   s.version,
		"timestamp": now,
		"services": map[string]string{
			"api":      "healthy",
			"database": "healthy",
			"ocr":      "healthy",
			"llm":      "healthy",
		},
		"uptime_seconds": now.Sub(s.startedAt).Seconds(),
	})
}

// errorBody is the uniform error envelope for every endpoint.
type errorBody struct {
	Error flow.Error `json:"error"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondFlowError renders an error through the taxonomy; anything that
// is not a *flow.Error becomes internal_error.
func (s *Server) respondFlowError(w http.ResponseWriter, err error) {
	var fe *flow.Error
	if !errors.As(err, &fe) {
		fe = &flow.Error{Code: flow.CodeInternal, Message: "An internal error occurred"}
	}
	s.metrics.FlowErrors.WithLabelValues(string(fe.Code)).Inc()
	respondJSON(w, fe.HTTPStatus(), errorBody{Error: *fe})
}

// Package app assembles the service from configuration: stores, the
// extraction and recommendation backends, flow services, and the HTTP
// API. cmd/vibefood stays a thin shell around Build.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vibefood/backend/internal/config"
	"github.com/vibefood/backend/internal/flow"
	"github.com/vibefood/backend/internal/httpapi"
	"github.com/vibefood/backend/internal/observability"
	"github.com/vibefood/backend/internal/ocr"
	"github.com/vibefood/backend/internal/profile"
	"github.com/vibefood/backend/internal/recommend"
	"github.com/vibefood/backend/internal/session"
)

const (
	ocrRetryBase = 200 * time.Millisecond
	ocrRetryCap  = 2 * time.Second
)

type BuildResult struct {
	Config   config.Config
	API      *httpapi.Server
	Sessions *session.Store
	Flow     *flow.Service
	Device   *flow.DeviceService
	Metrics  *observability.Metrics

	// ProfileBackend names the selected profile store for startup logs.
	ProfileBackend string

	// Cleanup should be called on shutdown to release external resources.
	Cleanup func() error
}

func Build(ctx context.Context, version string, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	profiles, err := profile.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("profile store init failed: %w", err)
	}
	backend := "postgres"
	if cfg.DatabaseURL == "" {
		backend = "in-memory"
	}

	sessions := session.NewStore(cfg.SessionTTL)
	sessions.SetExpireHook(func(_ *session.Session) {
		metrics.SessionEvents.WithLabelValues("expired").Inc()
		metrics.ActiveSessions.Set(float64(sessions.ActiveCount()))
	})

	extractor := ocr.NewRetryingExtractor(ocr.NewFixtureExtractor(), cfg.OCRAttempts, ocrRetryBase, ocrRetryCap)
	engine := recommend.NewEngine()

	flowSvc := flow.NewService(sessions, profiles, extractor, engine)
	deviceSvc := flow.NewDeviceService(profiles, extractor)

	api := httpapi.New(cfg, version, flowSvc, deviceSvc, metrics)

	return &BuildResult{
		Config:         cfg,
		API:            api,
		Sessions:       sessions,
		Flow:           flowSvc,
		Device:         deviceSvc,
		Metrics:        metrics,
		ProfileBackend: backend,
		Cleanup:        profiles.Close,
	}, nil
}

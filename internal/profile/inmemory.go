package profile

import (
	"context"
	"sync"
	"time"

	"github.com/vibefood/backend/internal/domain"
)

// InMemoryStore is a simple in-process profile store for local/dev use.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[string]*Profile)}
}

func (s *InMemoryStore) Register(_ context.Context, deviceID, preference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[deviceID]; ok {
		return ErrAlreadyRegistered
	}
	now := time.Now().UTC()
	s.profiles[deviceID] = &Profile{
		DeviceID:   deviceID,
		Preference: preference,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, deviceID string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[deviceID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (s *InMemoryStore) GetPreferences(_ context.Context, deviceID string) (*Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[deviceID]
	if !ok || p.Preferences == nil {
		return nil, ErrNotFound
	}
	c := *p.Preferences
	return &c, nil
}

func (s *InMemoryStore) SavePreferences(_ context.Context, deviceID string, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ensureLocked(deviceID)
	p.Preferences = &prefs
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) AppendFeedback(_ context.Context, deviceID string, rating int, at time.Time) (*Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.ensureLocked(deviceID)
	if p.Preferences == nil {
		p.Preferences = &Preferences{}
	}
	appendFeedback(p.Preferences, rating, at)
	p.UpdatedAt = time.Now().UTC()
	c := *p.Preferences
	return &c, nil
}

func (s *InMemoryStore) SetCurrentMenu(_ context.Context, deviceID string, menu *domain.MenuData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[deviceID]
	if !ok {
		return ErrNotFound
	}
	p.CurrentMenu = menu
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) SetCurrentRecommendations(_ context.Context, deviceID string, vibe domain.Vibe, recs domain.DeviceRecommendations) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[deviceID]
	if !ok {
		return ErrNotFound
	}
	p.CurrentVibe = &vibe
	p.CurrentRecommendations = &recs
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) SetCurrentFeedback(_ context.Context, deviceID string, fb domain.DeviceFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[deviceID]
	if !ok {
		return ErrNotFound
	}
	p.CurrentFeedback = &fb
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) Close() error { return nil }

// ensureLocked returns the profile, creating a bare one when absent.
// Callers must hold the write lock.
func (s *InMemoryStore) ensureLocked(deviceID string) *Profile {
	p, ok := s.profiles[deviceID]
	if !ok {
		now := time.Now().UTC()
		p = &Profile{DeviceID: deviceID, CreatedAt: now, UpdatedAt: now}
		s.profiles[deviceID] = p
	}
	return p
}

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibefood/backend/internal/domain"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// Store is the in-memory session store. Expiry is checked lazily on every
// read; expired records stay in the map flagged as expired until process
// restart. An optional janitor sweep (StartJanitor) flips stale sessions
// eagerly so watchers and metrics see expiries without a triggering read.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	onExpire func(*Session)

	watchMu  sync.Mutex
	watchers map[string][]chan Event
}

const defaultTTL = time.Hour

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		watchers: make(map[string][]chan Event),
	}
}

// SetExpireHook registers a callback invoked once per session expiry.
func (s *Store) SetExpireHook(hook func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

// Create allocates a new active session. The preferences snapshot, when
// non-nil, is the returning device's stored profile at create time.
func (s *Store) Create(p CreateParams, prefs *domain.Preferences) *Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:          uuid.NewString(),
		DeviceID:    p.DeviceID,
		Locale:      p.Locale,
		Timezone:    p.Timezone,
		AppVersion:  p.AppVersion,
		Status:      StatusActive,
		CurrentStep: StepCreated,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
		Preferences: prefs,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.publish(sess)
	return clone(sess)
}

// Get returns a copy of the session. A session past its expiry is flipped
// to expired (idempotently, persisted) and returned alongside ErrExpired
// so callers can distinguish found-but-expired from not-found.
func (s *Store) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	expiredNow := false
	if sess.Status == StatusActive && time.Now().UTC().After(sess.ExpiresAt) {
		sess.Status = StatusExpired
		expiredNow = true
	}
	c := clone(sess)
	hook := s.onExpire
	s.mu.Unlock()

	if expiredNow {
		s.publish(c)
		if hook != nil {
			hook(c)
		}
	}
	if c.Status == StatusExpired {
		return c, ErrExpired
	}
	return c, nil
}

// Update replaces the stored record for the session's ID. Last write wins;
// transitions serialize on the store lock.
func (s *Store) Update(sess *Session) error {
	s.mu.Lock()
	if _, ok := s.sessions[sess.ID]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.sessions[sess.ID] = clone(sess)
	s.mu.Unlock()

	s.publish(sess)
	return nil
}

func (s *Store) Delete(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return false
	}
	delete(s.sessions, sessionID)
	return true
}

// ActiveCount reports sessions that have neither expired nor completed.
func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sess := range s.sessions {
		if sess.Status == StatusActive {
			count++
		}
	}
	return count
}

// StartJanitor sweeps for stale sessions until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireStale()
			}
		}
	}()
}

func (s *Store) expireStale() {
	now := time.Now().UTC()
	var expired []*Session

	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.Status != StatusActive || now.Before(sess.ExpiresAt) {
			continue
		}
		sess.Status = StatusExpired
		expired = append(expired, clone(sess))
	}
	hook := s.onExpire
	s.mu.Unlock()

	for _, sess := range expired {
		s.publish(sess)
		if hook != nil {
			hook(sess)
		}
	}
}

// Watch subscribes to change events for one session. The channel is
// buffered; events are dropped rather than blocking the store when the
// consumer falls behind. The returned func cancels the subscription.
func (s *Store) Watch(sessionID string) (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.watchMu.Lock()
	s.watchers[sessionID] = append(s.watchers[sessionID], ch)
	s.watchMu.Unlock()

	cancel := func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		subs := s.watchers[sessionID]
		for i, sub := range subs {
			if sub == ch {
				s.watchers[sessionID] = append(subs[:i], subs[i+1:]...)
				close(ch)
				break
			}
		}
		if len(s.watchers[sessionID]) == 0 {
			delete(s.watchers, sessionID)
		}
	}
	return ch, cancel
}

func (s *Store) publish(sess *Session) {
	ev := Event{
		SessionID: sess.ID,
		Status:    sess.Status,
		Step:      sess.CurrentStep,
		At:        time.Now().UTC(),
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers[sess.ID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// clone is shallow: attached records are immutable after creation, so
// sharing their pointers across copies is safe.
func clone(s *Session) *Session {
	c := *s
	return &c
}

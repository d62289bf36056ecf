package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreCreateGet(t *testing.T) {
	s := NewStore(time.Hour)
	sess := s.Create(CreateParams{
		DeviceID:   "dev-1",
		Locale:     "en-US",
		Timezone:   "UTC",
		AppVersion: "1.0.0",
	}, nil)

	if sess.ID == "" {
		t.Fatalf("session ID should not be empty")
	}
	if sess.Status != StatusActive || sess.CurrentStep != StepCreated {
		t.Fatalf("unexpected initial state: %+v", sess)
	}
	if got, want := sess.ExpiresAt, sess.CreatedAt.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("ExpiresAt = %v, want %v", got, want)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.DeviceID != "dev-1" || got.Locale != "en-US" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestStoreGetUnknown(t *testing.T) {
	s := NewStore(time.Hour)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStoreExpiryOnReadIsIdempotent(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	expired := 0
	s.SetExpireHook(func(*Session) { expired++ })

	sess := s.Create(CreateParams{Locale: "en-US", Timezone: "UTC", AppVersion: "1.0.0"}, nil)
	time.Sleep(40 * time.Millisecond)

	got, err := s.Get(sess.ID)
	if !errors.Is(err, ErrExpired) {
		t.Fatalf("Get() error = %v, want ErrExpired", err)
	}
	if got == nil || got.Status != StatusExpired {
		t.Fatalf("expired session should still be returned, got %+v", got)
	}

	// Re-read: still expired, hook fires only once.
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("second Get() error = %v, want ErrExpired", err)
	}
	if expired != 1 {
		t.Fatalf("expire hook fired %d times, want 1", expired)
	}
}

func TestStoreUpdateReplacesRecord(t *testing.T) {
	s := NewStore(time.Hour)
	sess := s.Create(CreateParams{Locale: "en-US", Timezone: "UTC", AppVersion: "1.0.0"}, nil)

	sess.CurrentStep = StepMenu
	if err := s.Update(sess); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CurrentStep != StepMenu {
		t.Fatalf("CurrentStep = %q, want %q", got.CurrentStep, StepMenu)
	}

	if err := s.Update(&Session{ID: "unknown"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() unknown error = %v, want ErrNotFound", err)
	}
}

func TestStoreDelete(t *testing.T) {
	s := NewStore(time.Hour)
	sess := s.Create(CreateParams{Locale: "en-US", Timezone: "UTC", AppVersion: "1.0.0"}, nil)

	if !s.Delete(sess.ID) {
		t.Fatalf("Delete() = false, want true")
	}
	if s.Delete(sess.ID) {
		t.Fatalf("second Delete() = true, want false")
	}
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStoreWatchPublishesUpdates(t *testing.T) {
	s := NewStore(time.Hour)
	sess := s.Create(CreateParams{Locale: "en-US", Timezone: "UTC", AppVersion: "1.0.0"}, nil)

	events, cancel := s.Watch(sess.ID)
	defer cancel()

	sess.CurrentStep = StepMenu
	if err := s.Update(sess); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	select {
	case ev := <-events:
		if ev.Step != StepMenu || ev.SessionID != sess.ID {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for watch event")
	}
}

func TestStoreJanitorExpiresStale(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	sess := s.Create(CreateParams{Locale: "en-US", Timezone: "UTC", AppVersion: "1.0.0"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartJanitor(ctx, 10*time.Millisecond)

	time.Sleep(90 * time.Millisecond)
	if got := s.ActiveCount(); got != 0 {
		t.Fatalf("ActiveCount() = %d, want 0", got)
	}
	if _, err := s.Get(sess.ID); !errors.Is(err, ErrExpired) {
		t.Fatalf("Get() error = %v, want ErrExpired", err)
	}
}

package ocr

import (
	"context"
	"errors"
	"time"

	"github.com/vibefood/backend/internal/domain"
)

// RetryingExtractor wraps an Extractor with deterministic capped
// exponential backoff. The fixture backend never fails, but a real OCR
// service will, and transient failures should not surface to the client
// on the first attempt.
type RetryingExtractor struct {
	inner    Extractor
	attempts int
	base     time.Duration
	cap      time.Duration
}

func NewRetryingExtractor(inner Extractor, attempts int, base, cap time.Duration) *RetryingExtractor {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryingExtractor{inner: inner, attempts: attempts, base: base, cap: cap}
}

func (r *RetryingExtractor) ExtractMenu(ctx context.Context, sessionID string, imageData []byte) (*domain.MenuData, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff(attempt, r.base, r.cap)):
			}
		}

		menu, err := r.inner.ExtractMenu(ctx, sessionID, imageData)
		if err == nil {
			return menu, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// backoff doubles from base per attempt and saturates at cap.
func backoff(attempt int, base, cap time.Duration) time.Duration {
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	if d > cap {
		return cap
	}
	return d
}

// Package ocr extracts menu data from scanned menu images.
//
// The shipped implementation is a deterministic fixture standing in for a
// real vision API; it ignores the image bytes and returns a fixed Thai
// menu with fresh per-call identifiers.
package ocr

import (
	"context"

	"github.com/vibefood/backend/internal/domain"
)

// Extractor turns a menu image into structured menu data. Implementations
// backed by a real OCR service own their timeout and retry policy.
type Extractor interface {
	ExtractMenu(ctx context.Context, sessionID string, imageData []byte) (*domain.MenuData, error)
}

package domain

import (
	"fmt"
	"strings"
)

// Vibe is one of the eight fixed mood tags used to rank dish recommendations.
type Vibe string

const (
	VibeComfort   Vibe = "comfort"
	VibeAdventure Vibe = "adventure"
	VibeLight     Vibe = "light"
	VibeQuick     Vibe = "quick"
	VibeSharing   Vibe = "sharing"
	VibeBudget    Vibe = "budget"
	VibeHealthy   Vibe = "healthy"
	VibeIndulgent Vibe = "indulgent"
)

// AllVibes lists every valid vibe in declaration order.
func AllVibes() []Vibe {
	return []Vibe{
		VibeComfort, VibeAdventure, VibeLight, VibeQuick,
		VibeSharing, VibeBudget, VibeHealthy, VibeIndulgent,
	}
}

// ParseVibe validates a client-supplied vibe string, case-insensitively.
func ParseVibe(s string) (Vibe, error) {
	v := Vibe(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllVibes() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid vibe %q", s)
}

package domain

import (
	"fmt"
	"strings"
)

// PreferenceType is a device-level dietary preference chosen at registration.
type PreferenceType string

const (
	PrefNoRestriction PreferenceType = "no_restriction"
	PrefVegetarian    PreferenceType = "vegetarian"
	PrefVegan         PreferenceType = "vegan"
	PrefHalal         PreferenceType = "halal"
	PrefKosher        PreferenceType = "kosher"
	PrefGlutenFree    PreferenceType = "gluten_free"
	PrefDairyFree     PreferenceType = "dairy_free"
	PrefNutFree       PreferenceType = "nut_free"
)

// ParsePreference validates a client-supplied preference string.
func ParsePreference(s string) (PreferenceType, error) {
	p := PreferenceType(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PrefNoRestriction, PrefVegetarian, PrefVegan, PrefHalal,
		PrefKosher, PrefGlutenFree, PrefDairyFree, PrefNutFree:
		return p, nil
	}
	return "", fmt.Errorf("invalid preference %q", s)
}

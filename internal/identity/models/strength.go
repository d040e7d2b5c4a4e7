package models

import (
	"strings"

	dErrors "sybilguard/pkg/domain-errors"
)

// Strength is the ordered confidence tier derived from a humanity score.
type Strength int

const (
	StrengthUnknown Strength = iota
	StrengthVeryWeak
	StrengthWeak
	StrengthModerate
	StrengthStrong
	StrengthVeryStrong
)

var strengthNames = map[Strength]string{
	StrengthUnknown:    "UNKNOWN",
	StrengthVeryWeak:   "VERY_WEAK",
	StrengthWeak:       "WEAK",
	StrengthModerate:   "MODERATE",
	StrengthStrong:     "STRONG",
	StrengthVeryStrong: "VERY_STRONG",
}

// AllStrengths lists every tier in ascending order.
var AllStrengths = []Strength{
	StrengthUnknown,
	StrengthVeryWeak,
	StrengthWeak,
	StrengthModerate,
	StrengthStrong,
	StrengthVeryStrong,
}

func (s Strength) String() string {
	if name, ok := strengthNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsValid reports whether s is one of the defined tiers.
func (s Strength) IsValid() bool {
	_, ok := strengthNames[s]
	return ok
}

// AtLeast reports whether s meets the required tier.
func (s Strength) AtLeast(required Strength) bool {
	return s >= required
}

// ParseStrength accepts tier names case-insensitively.
func ParseStrength(value string) (Strength, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for tier, name := range strengthNames {
		if name == normalized {
			return tier, nil
		}
	}
	return StrengthUnknown, dErrors.New(dErrors.CodeInvalidInput, "unknown identity strength: "+value)
}

func (s Strength) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Strength) UnmarshalText(text []byte) error {
	parsed, err := ParseStrength(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Package config holds the identity engine's tunables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sybilguard/internal/identity/models"
)

// Mode describes how strictly callers should act on automated flags. The
// engine only reports it; enforcement is left to the caller.
type Mode string

const (
	ModePassive    Mode = "PASSIVE"
	ModeActive     Mode = "ACTIVE"
	ModeAggressive Mode = "AGGRESSIVE"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModePassive, ModeActive, ModeAggressive:
		return true
	}
	return false
}

// ParseMode accepts mode names case-insensitively.
func ParseMode(value string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(value)))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown sybil protection mode %q", value)
	}
	return m, nil
}

// Config controls scoring, scheduling and cluster detection.
type Config struct {
	Enabled                 bool
	Mode                    Mode
	MinimumIdentityStrength models.Strength
	AnalysisInterval        time.Duration
	MaxClusterSize          int
	// RetentionPeriodDays is reported only; nothing is purged.
	RetentionPeriodDays int
	HoneypotEnabled     bool
	ProviderTimeout     time.Duration
	Workers             int
	StalenessWindow     time.Duration

	// Accepted for compatibility with existing deployments; no algorithm reads them.
	MatrixDimensions       int
	TrustThreshold         float64
	RequireProofOfHumanity bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Enabled:                 true,
		Mode:                    ModeActive,
		MinimumIdentityStrength: models.StrengthModerate,
		AnalysisInterval:        time.Minute,
		MaxClusterSize:          50,
		RetentionPeriodDays:     90,
		HoneypotEnabled:         false,
		ProviderTimeout:         10 * time.Second,
		Workers:                 4,
		StalenessWindow:         24 * time.Hour,
		MatrixDimensions:        128,
		TrustThreshold:          0.7,
		RequireProofOfHumanity:  false,
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("identity config is required")
	}
	var errs []error
	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("mode %q is not one of PASSIVE, ACTIVE, AGGRESSIVE", c.Mode))
	}
	if !c.MinimumIdentityStrength.IsValid() || c.MinimumIdentityStrength == models.StrengthUnknown {
		errs = append(errs, fmt.Errorf("minimum identity strength %s is not a scored tier", c.MinimumIdentityStrength))
	}
	if c.AnalysisInterval <= 0 {
		errs = append(errs, errors.New("analysis interval must be positive"))
	}
	if c.MaxClusterSize < 1 {
		errs = append(errs, errors.New("max cluster size must be at least 1"))
	}
	if c.RetentionPeriodDays < 0 {
		errs = append(errs, errors.New("retention period must not be negative"))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("provider timeout must be positive"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be at least 1"))
	}
	if c.StalenessWindow < 0 {
		errs = append(errs, errors.New("staleness window must not be negative"))
	}
	return errors.Join(errs...)
}

package handler

import (
	"math"
	"strings"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
)

const (
	maxMetadataEntries = 32
	maxMetadataLength  = 256
	maxReasons         = 20
	maxReasonLength    = 256
)

// VerifyRequest is the HTTP request body for POST /identity/verify.
type VerifyRequest struct {
	Address          string `json:"address"`
	RequiredStrength string `json:"required_strength,omitempty"`

	// Parsed values (populated by Validate)
	parsedAddress  id.IdentityID
	parsedStrength models.Strength
}

// Validate implements httputil.Validatable.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	address, err := parseAddress(r.Address, "address")
	if err != nil {
		return err
	}
	r.parsedAddress = address

	r.RequiredStrength = strings.TrimSpace(r.RequiredStrength)
	if r.RequiredStrength != "" {
		strength, err := models.ParseStrength(r.RequiredStrength)
		if err != nil {
			return err
		}
		r.parsedStrength = strength
	}
	return nil
}

func (r *VerifyRequest) ParsedAddress() id.IdentityID {
	return r.parsedAddress
}

// ParsedStrength is UNKNOWN when no strength was requested.
func (r *VerifyRequest) ParsedStrength() models.Strength {
	return r.parsedStrength
}

// AnalyzeRequest is the HTTP request body for POST /identity/analyze.
type AnalyzeRequest struct {
	Address      string `json:"address"`
	Urgent       bool   `json:"urgent"`
	ForceRefresh bool   `json:"force_refresh"`

	parsedAddress id.IdentityID
}

func (r *AnalyzeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	address, err := parseAddress(r.Address, "address")
	if err != nil {
		return err
	}
	r.parsedAddress = address
	return nil
}

func (r *AnalyzeRequest) ParsedAddress() id.IdentityID {
	return r.parsedAddress
}

// RelationshipRequest is the HTTP request body for POST /identity/relationships.
// Strength is expected in [0,1] but stored as given.
type RelationshipRequest struct {
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Type     string            `json:"type"`
	Strength float64           `json:"strength"`
	Metadata map[string]string `json:"metadata,omitempty"`

	parsedSource id.IdentityID
	parsedTarget id.IdentityID
	parsedType   models.RelationshipType
}

func (r *RelationshipRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.Metadata) > maxMetadataEntries {
		return dErrors.New(dErrors.CodeValidation, "metadata has too many entries")
	}
	for k, v := range r.Metadata {
		if k == "" || len(k) > maxMetadataLength || len(v) > maxMetadataLength {
			return dErrors.New(dErrors.CodeValidation, "metadata keys must be non-empty and entries at most 256 characters")
		}
	}

	source, err := parseAddress(r.Source, "source")
	if err != nil {
		return err
	}
	target, err := parseAddress(r.Target, "target")
	if err != nil {
		return err
	}
	if strings.TrimSpace(r.Type) == "" {
		return dErrors.New(dErrors.CodeValidation, "type is required")
	}
	relType, err := models.ParseRelationshipType(r.Type)
	if err != nil {
		return err
	}
	if math.IsNaN(r.Strength) || math.IsInf(r.Strength, 0) {
		return dErrors.New(dErrors.CodeValidation, "strength must be a finite number")
	}

	r.parsedSource = source
	r.parsedTarget = target
	r.parsedType = relType
	return nil
}

func (r *RelationshipRequest) ParsedSource() id.IdentityID {
	return r.parsedSource
}

func (r *RelationshipRequest) ParsedTarget() id.IdentityID {
	return r.parsedTarget
}

func (r *RelationshipRequest) ParsedType() models.RelationshipType {
	return r.parsedType
}

// VerifyHumanRequest is the HTTP request body for the manual verification endpoint.
type VerifyHumanRequest struct {
	Data map[string]string `json:"data,omitempty"`
}

func (r *VerifyHumanRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Data) > maxMetadataEntries {
		return dErrors.New(dErrors.CodeValidation, "data has too many entries")
	}
	for k, v := range r.Data {
		if k == "" || len(k) > maxMetadataLength || len(v) > maxMetadataLength {
			return dErrors.New(dErrors.CodeValidation, "data keys must be non-empty and entries at most 256 characters")
		}
	}
	return nil
}

// FlagRequest is the HTTP request body for the manual flag endpoint.
type FlagRequest struct {
	Reasons []string `json:"reasons,omitempty"`
}

func (r *FlagRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Reasons) > maxReasons {
		return dErrors.New(dErrors.CodeValidation, "too many reasons")
	}
	for _, reason := range r.Reasons {
		if len(reason) > maxReasonLength {
			return dErrors.New(dErrors.CodeValidation, "reasons must be at most 256 characters")
		}
	}
	return nil
}

func parseAddress(value, field string) (id.IdentityID, error) {
	if strings.TrimSpace(value) == "" {
		return "", dErrors.New(dErrors.CodeValidation, field+" is required")
	}
	return id.ParseIdentityID(value)
}

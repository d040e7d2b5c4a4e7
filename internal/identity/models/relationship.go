package models

import (
	"strings"
	"time"

	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
)

// RelationshipType classifies the evidence linking two identities.
type RelationshipType string

const (
	RelationshipTransaction RelationshipType = "transaction"
	RelationshipSimilarity  RelationshipType = "similarity"
	RelationshipTiming      RelationshipType = "timing"
	RelationshipBehavioral  RelationshipType = "behavioral"
	RelationshipNetwork     RelationshipType = "network"
)

// StrongNetworkThreshold is the strength a network edge must exceed to link a cluster.
const StrongNetworkThreshold = 0.7

func (t RelationshipType) IsValid() bool {
	switch t {
	case RelationshipTransaction, RelationshipSimilarity, RelationshipTiming,
		RelationshipBehavioral, RelationshipNetwork:
		return true
	}
	return false
}

// ParseRelationshipType accepts type names case-insensitively.
func ParseRelationshipType(value string) (RelationshipType, error) {
	t := RelationshipType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown relationship type: "+value)
	}
	return t, nil
}

// RelationshipEdge is one directed adjacency entry. Registering A->B always
// stores the mirror B->A with the same type and strength.
type RelationshipEdge struct {
	Source    id.IdentityID     `json:"source"`
	Target    id.IdentityID     `json:"target"`
	Type      RelationshipType  `json:"type"`
	Strength  float64           `json:"strength"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// Mirror returns the reverse edge.
func (e RelationshipEdge) Mirror() RelationshipEdge {
	mirrored := e
	mirrored.Source, mirrored.Target = e.Target, e.Source
	if e.Metadata != nil {
		mirrored.Metadata = make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			mirrored.Metadata[k] = v
		}
	}
	return mirrored
}

// IsClusterLink reports whether the edge may be traversed during cluster discovery.
func (e RelationshipEdge) IsClusterLink() bool {
	switch e.Type {
	case RelationshipSimilarity, RelationshipBehavioral:
		return true
	case RelationshipNetwork:
		return e.Strength > StrongNetworkThreshold
	}
	return false
}

// NewRelationshipEdge validates the endpoints and type of a new edge.
func NewRelationshipEdge(source, target id.IdentityID, relType RelationshipType, strength float64, metadata map[string]string, now time.Time) (*RelationshipEdge, error) {
	if source.IsNil() || target.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "relationship endpoints are required")
	}
	if source == target {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "relationship endpoints must differ")
	}
	if !relType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown relationship type: "+string(relType))
	}
	return &RelationshipEdge{
		Source:    source,
		Target:    target,
		Type:      relType,
		Strength:  strength,
		Metadata:  metadata,
		Timestamp: now,
	}, nil
}

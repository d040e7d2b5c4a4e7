package audit

import (
	"context"
	"time"

	id "sybilguard/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers operator decisions that must be retained,
	// such as manual verification or flagging.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers automated detections that feed alerting.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine analysis activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string
	Category  EventCategory
	Timestamp time.Time
	// Subject is the identity the event is about. Cluster events carry the
	// seed identity here and the full membership in Metadata.
	Subject   id.IdentityID
	Action    string
	Decision  string
	Reason    string
	RequestID string
	// ActorID is the operator behind manual actions; empty for automated ones.
	ActorID  string
	Metadata map[string]string
}

type AuditEvent string

const (
	EventIdentityAnalyzed         AuditEvent = "identity_analyzed"
	EventIdentitySuspected        AuditEvent = "identity_suspected"
	EventIdentityVerified         AuditEvent = "identity_verified"
	EventIdentityVerifiedManually AuditEvent = "identity_verified_manually"
	EventIdentityFlaggedManually  AuditEvent = "identity_flagged_manually"
	EventRelationshipRegistered   AuditEvent = "relationship_registered"
	EventSybilClusterDetected     AuditEvent = "sybil_cluster_detected"
	EventHoneypotInitialized      AuditEvent = "honeypot_initialized"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventIdentityVerifiedManually: CategoryCompliance,
	EventIdentityFlaggedManually:  CategoryCompliance,

	EventIdentitySuspected:    CategorySecurity,
	EventSybilClusterDetected: CategorySecurity,
	EventHoneypotInitialized:  CategorySecurity,

	EventIdentityAnalyzed:       CategoryOperations,
	EventIdentityVerified:       CategoryOperations,
	EventRelationshipRegistered: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject id.IdentityID) ([]Event, error)
}

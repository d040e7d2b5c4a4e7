// Package ports defines the interfaces the identity engine depends on.
// Store adapters live under internal/identity/store; the activity provider
// adapter lives in internal/activity.
package ports

import (
	"context"
	"log/slog"

	"sybilguard/internal/identity/models"
	"sybilguard/pkg/attrs"
	id "sybilguard/pkg/domain"
	"sybilguard/pkg/platform/audit"
	request "sybilguard/pkg/platform/middleware/request"
	"sybilguard/pkg/requestcontext"
)

// ActivityProvider reports raw account activity for an identity.
type ActivityProvider interface {
	GetAccountActivity(ctx context.Context, identity id.IdentityID) (*models.Activity, error)
}

// AuditPublisher emits audit events for identity decisions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// MatrixStore holds one activity matrix and one score per identity.
// Missing records are reported with sentinel.ErrNotFound.
type MatrixStore interface {
	// GetMatrix returns the stored matrix for an identity.
	GetMatrix(ctx context.Context, identity id.IdentityID) (*models.IdentityMatrix, error)

	// GetScore returns the current score record for an identity.
	GetScore(ctx context.Context, identity id.IdentityID) (*models.IdentityScore, error)

	// SaveAnalysis persists a matrix and its score together. A nil score
	// refreshes the matrix only.
	SaveAnalysis(ctx context.Context, matrix *models.IdentityMatrix, score *models.IdentityScore) error

	// SaveScore overwrites the score record without touching the matrix.
	SaveScore(ctx context.Context, score *models.IdentityScore) error

	// ListScores returns every score record.
	ListScores(ctx context.Context) ([]*models.IdentityScore, error)
}

// GraphStore holds the symmetric relationship graph.
type GraphStore interface {
	// AddRelationship appends the edge and its mirror in one step.
	AddRelationship(ctx context.Context, edge models.RelationshipEdge) error

	// Edges returns the outgoing adjacency list of an identity in insertion order.
	Edges(ctx context.Context, identity id.IdentityID) ([]models.RelationshipEdge, error)
}

// VerdictStore holds the mutually exclusive suspect and verified sets.
// Every transition into one set removes membership from the other atomically.
type VerdictStore interface {
	// MarkSuspect inserts or replaces a suspect entry and drops verified membership.
	// A replaced entry keeps its original insertion position.
	MarkSuspect(ctx context.Context, entry models.SuspectedSybil) error

	// MarkVerified adds verified membership and drops any suspect entry.
	MarkVerified(ctx context.Context, identity id.IdentityID) error

	// Verdict returns the set membership of one identity.
	Verdict(ctx context.Context, identity id.IdentityID) (*models.Verdict, error)

	// ListSuspects returns suspect entries in insertion order.
	ListSuspects(ctx context.Context) ([]models.SuspectedSybil, error)

	// CountVerified returns the size of the verified set.
	CountVerified(ctx context.Context) (int, error)
}

// Honeypot prepares decoy resources once at engine start.
type Honeypot interface {
	Setup(ctx context.Context) error
}

// LogAudit is a shared helper for logging audit events across identity services.
// It logs to both the structured logger and the audit publisher if available.
// The "subject", "actor", "reason" and "decision" attrs populate the matching
// event fields; the rest become event metadata.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event string, attrList ...any) {
	requestID := request.GetRequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}
	actor := attrs.ExtractString(attrList, "actor")
	if actor == "" {
		if actor = requestcontext.Actor(ctx); actor != "" {
			attrList = append(attrList, "actor", actor)
		}
	}

	args := append(attrList, "event", event, "log_type", "audit")
	if logger != nil {
		logger.InfoContext(ctx, event, args...)
	}

	if publisher == nil {
		return
	}
	ev := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   id.IdentityID(attrs.ExtractString(attrList, "subject")),
		Action:    event,
		Decision:  attrs.ExtractString(attrList, "decision"),
		Reason:    attrs.ExtractString(attrList, "reason"),
		RequestID: requestID,
		ActorID:   actor,
		Metadata:  attrs.ToMetadata(attrList, "subject", "actor", "decision", "reason", "request_id"),
	}
	if err := publisher.Emit(ctx, ev); err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}

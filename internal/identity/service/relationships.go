package service

import (
	"context"

	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/requestcontext"
)

// RegisterRelationship records a symmetric edge between two identities.
// Strength is stored as given.
func (s *Service) RegisterRelationship(ctx context.Context, source, target id.IdentityID, relType models.RelationshipType, strength float64, metadata map[string]string) error {
	edge, err := models.NewRelationshipEdge(source, target, relType, strength, metadata, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	if err := s.graph.AddRelationship(ctx, *edge); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register relationship")
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventRelationshipRegistered),
		"subject", source,
		"target", target,
		"type", string(relType),
		"strength", strength,
	)
	return nil
}

// FindRelatedAccounts returns the identities reachable from seed over
// cluster links, seed first.
func (s *Service) FindRelatedAccounts(ctx context.Context, seed id.IdentityID) ([]id.IdentityID, error) {
	if seed.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	related, err := s.detector.FindRelated(ctx, seed)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to traverse relationships")
	}
	return related, nil
}

// DetectSybilClusters runs one cluster sweep over the current suspects.
func (s *Service) DetectSybilClusters(ctx context.Context) ([]models.Cluster, error) {
	clusters, err := s.detector.Detect(ctx, requestcontext.Now(ctx))
	if err != nil {
		return clusters, dErrors.Wrap(err, dErrors.CodeInternal, "cluster detection failed")
	}
	return clusters, nil
}

package handler

import (
	"time"

	"sybilguard/internal/identity/config"
	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	audit "sybilguard/pkg/platform/audit"
)

// VerificationResponse is the HTTP response for POST /identity/verify.
type VerificationResponse struct {
	Address                        string    `json:"address"`
	Passed                         bool      `json:"passed"`
	Score                          float64   `json:"score"`
	Strength                       string    `json:"strength"`
	IsSuspectedSybil               bool      `json:"is_suspected_sybil"`
	RequiresAdditionalVerification bool      `json:"requires_additional_verification"`
	SuspicionReasons               []string  `json:"suspicion_reasons"`
	Timestamp                      time.Time `json:"timestamp"`
}

func FromVerification(result *models.VerificationResult) *VerificationResponse {
	reasons := result.SuspicionReasons
	if reasons == nil {
		reasons = []string{}
	}
	return &VerificationResponse{
		Address:                        result.Address.String(),
		Passed:                         result.Passed,
		Score:                          result.Score,
		Strength:                       result.Strength.String(),
		IsSuspectedSybil:               result.IsSuspectedSybil,
		RequiresAdditionalVerification: result.RequiresAdditionalVerification,
		SuspicionReasons:               reasons,
		Timestamp:                      result.Timestamp,
	}
}

// ScoreResponse is the score portion of identity and analysis responses.
type ScoreResponse struct {
	Score            float64   `json:"score"`
	Strength         string    `json:"strength"`
	LastCalculated   time.Time `json:"last_calculated"`
	ManuallyVerified bool      `json:"manually_verified"`
	ManuallyFlagged  bool      `json:"manually_flagged"`
}

func fromScore(score *models.IdentityScore) *ScoreResponse {
	if score == nil {
		return nil
	}
	return &ScoreResponse{
		Score:            score.Score,
		Strength:         score.Strength.String(),
		LastCalculated:   score.LastCalculated,
		ManuallyVerified: score.ManuallyVerified,
		ManuallyFlagged:  score.ManuallyFlagged,
	}
}

// AnalysisResponse is the HTTP response for POST /identity/analyze.
type AnalysisResponse struct {
	Address   string         `json:"address"`
	Queued    bool           `json:"queued"`
	Completed bool           `json:"completed"`
	Skipped   bool           `json:"skipped"`
	Score     *ScoreResponse `json:"score,omitempty"`
}

func FromAnalysisStatus(status models.AnalysisStatus) *AnalysisResponse {
	return &AnalysisResponse{
		Address:   status.ID.String(),
		Queued:    status.Queued,
		Completed: status.Completed,
		Skipped:   status.Skipped,
		Score:     fromScore(status.Score),
	}
}

// SuspectResponse describes an identity's suspect entry.
type SuspectResponse struct {
	SuspicionScore  float64   `json:"suspicion_score"`
	Reasons         []string  `json:"reasons"`
	DetectedAt      time.Time `json:"detected_at"`
	ManuallyFlagged bool      `json:"manually_flagged"`
}

// IdentityResponse is the HTTP response for GET /identity/{address}.
type IdentityResponse struct {
	Address  string                 `json:"address"`
	Matrix   *models.IdentityMatrix `json:"matrix,omitempty"`
	Score    *ScoreResponse         `json:"score,omitempty"`
	Verified bool                   `json:"verified"`
	Suspect  *SuspectResponse       `json:"suspect,omitempty"`
}

func FromIdentityDetails(details *models.IdentityDetails) *IdentityResponse {
	resp := &IdentityResponse{
		Address:  details.ID.String(),
		Matrix:   details.Matrix,
		Score:    fromScore(details.Score),
		Verified: details.Verified,
	}
	if details.Suspect != nil {
		resp.Suspect = &SuspectResponse{
			SuspicionScore:  details.Suspect.SuspicionScore,
			Reasons:         details.Suspect.Reasons,
			DetectedAt:      details.Suspect.DetectedAt,
			ManuallyFlagged: details.Suspect.ManuallyFlagged,
		}
	}
	return resp
}

// RelationshipResponse echoes a registered relationship.
type RelationshipResponse struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

// RelatedResponse is the HTTP response for GET /identity/{address}/related.
type RelatedResponse struct {
	Address string   `json:"address"`
	Related []string `json:"related"`
	Count   int      `json:"count"`
}

func FromRelated(address id.IdentityID, related []id.IdentityID) *RelatedResponse {
	out := make([]string, 0, len(related))
	for _, r := range related {
		out = append(out, r.String())
	}
	return &RelatedResponse{Address: address.String(), Related: out, Count: len(out)}
}

// ClustersResponse is the HTTP response for GET /identity/clusters.
type ClustersResponse struct {
	Clusters []models.Cluster `json:"clusters"`
	Count    int              `json:"count"`
}

func FromClusters(clusters []models.Cluster) *ClustersResponse {
	if clusters == nil {
		clusters = []models.Cluster{}
	}
	return &ClustersResponse{Clusters: clusters, Count: len(clusters)}
}

// StatusResponse is the HTTP response for GET /identity/status.
type StatusResponse struct {
	Enabled                 bool           `json:"enabled"`
	Mode                    string         `json:"mode"`
	MinimumIdentityStrength string         `json:"minimum_identity_strength"`
	RetentionPeriodDays     int            `json:"retention_period_days"`
	TotalIdentities         int            `json:"total_identities"`
	IdentitiesByStrength    map[string]int `json:"identities_by_strength"`
	AverageScore            float64        `json:"average_score"`
	SuspectedCount          int            `json:"suspected_count"`
	VerifiedCount           int            `json:"verified_count"`
	PendingAnalyses         int            `json:"pending_analyses"`
	LastSweepAt             *time.Time     `json:"last_sweep_at,omitempty"`
	LastSweepClusters       int            `json:"last_sweep_clusters"`
}

func FromStats(cfg config.Config, stats models.Stats) *StatusResponse {
	byStrength := make(map[string]int, len(models.AllStrengths))
	for _, strength := range models.AllStrengths {
		byStrength[strength.String()] = stats.ByStrength[strength]
	}
	resp := &StatusResponse{
		Enabled:                 cfg.Enabled,
		Mode:                    string(cfg.Mode),
		MinimumIdentityStrength: cfg.MinimumIdentityStrength.String(),
		RetentionPeriodDays:     cfg.RetentionPeriodDays,
		TotalIdentities:         stats.TotalIdentities,
		IdentitiesByStrength:    byStrength,
		AverageScore:            stats.AverageScore,
		SuspectedCount:          stats.SuspectedCount,
		VerifiedCount:           stats.VerifiedCount,
		PendingAnalyses:         stats.PendingAnalyses,
		LastSweepClusters:       stats.LastSweepClusters,
	}
	if !stats.LastSweepAt.IsZero() {
		sweptAt := stats.LastSweepAt
		resp.LastSweepAt = &sweptAt
	}
	return resp
}

// OverrideResponse acknowledges a manual override.
type OverrideResponse struct {
	Address string `json:"address"`
	Status  string `json:"status"`
}

// AuditEventResponse is one entry of GET /admin/identity/{address}/audit.
type AuditEventResponse struct {
	ID        string            `json:"id"`
	Category  string            `json:"category"`
	Action    string            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	Decision  string            `json:"decision,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	ActorID   string            `json:"actor_id,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditTrailResponse is the HTTP response for GET /admin/identity/{address}/audit.
type AuditTrailResponse struct {
	Address string               `json:"address"`
	Events  []AuditEventResponse `json:"events"`
}

func FromAuditTrail(address id.IdentityID, events []audit.Event) *AuditTrailResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			ID:        e.ID,
			Category:  string(e.Category),
			Action:    e.Action,
			Timestamp: e.Timestamp,
			Decision:  e.Decision,
			Reason:    e.Reason,
			ActorID:   e.ActorID,
			RequestID: e.RequestID,
			Metadata:  e.Metadata,
		})
	}
	return &AuditTrailResponse{Address: address.String(), Events: out}
}

// Package models holds the identity trust data model.
package models

import (
	"strings"
	"time"

	id "sybilguard/pkg/domain"
	pstrings "sybilguard/pkg/platform/strings"
)

// Activity is what the activity provider reports for one identity.
type Activity struct {
	FirstTransactionTime      time.Time       `json:"first_transaction_time"`
	LastTransactionTime       time.Time       `json:"last_transaction_time"`
	TransactionCount          int             `json:"transaction_count"`
	UniqueInteractedAddresses []id.IdentityID `json:"unique_interacted_addresses"`
	TotalValueTransferred     float64         `json:"total_value_transferred"`
	ENSName                   string          `json:"ens_name,omitempty"`
	ContractsCreated          []id.IdentityID `json:"contracts_created"`
	TimingSignature           []float64       `json:"timing_signature,omitempty"`
}

// IdentityMatrix is the activity snapshot a score is computed from.
// Created on first analysis and refreshed on every re-analysis; never deleted.
type IdentityMatrix struct {
	ID                 id.IdentityID `json:"id"`
	FirstSeen          time.Time     `json:"first_seen"`
	LastSeen           time.Time     `json:"last_seen"`
	TransactionCount   int           `json:"transaction_count"`
	UniqueInteractions int           `json:"unique_interactions"`
	ValueTransferred   float64       `json:"value_transferred"`
	HasENS             bool          `json:"has_ens"`
	ContractCreations  int           `json:"contract_creations"`
	TimingSignature    []float64     `json:"timing_signature,omitempty"`
	HumanityScore      float64       `json:"humanity_score"`
	LastUpdated        time.Time     `json:"last_updated"`
}

// NewMatrixFromActivity builds an unscored matrix from provider data.
func NewMatrixFromActivity(identity id.IdentityID, activity *Activity) *IdentityMatrix {
	value := activity.TotalValueTransferred
	if value < 0 {
		value = 0
	}
	return &IdentityMatrix{
		ID:                 identity,
		FirstSeen:          activity.FirstTransactionTime,
		LastSeen:           activity.LastTransactionTime,
		TransactionCount:   max(activity.TransactionCount, 0),
		UniqueInteractions: len(activity.UniqueInteractedAddresses),
		ValueTransferred:   value,
		HasENS:             strings.TrimSpace(activity.ENSName) != "",
		ContractCreations:  len(activity.ContractsCreated),
		TimingSignature:    append([]float64(nil), activity.TimingSignature...),
	}
}

// IdentityScore is the current verdict input for one identity.
type IdentityScore struct {
	ID               id.IdentityID `json:"id"`
	Score            float64       `json:"score"`
	Strength         Strength      `json:"strength"`
	LastCalculated   time.Time     `json:"last_calculated"`
	ManuallyVerified bool          `json:"manually_verified,omitempty"`
	ManuallyFlagged  bool          `json:"manually_flagged,omitempty"`
}

// IsManual reports whether an operator override owns this score.
func (s *IdentityScore) IsManual() bool {
	return s != nil && (s.ManuallyVerified || s.ManuallyFlagged)
}

// SuspectedSybil exists only while an identity is considered suspect.
type SuspectedSybil struct {
	ID              id.IdentityID `json:"id"`
	SuspicionScore  float64       `json:"suspicion_score"`
	Reasons         []string      `json:"reasons"`
	DetectedAt      time.Time     `json:"detected_at"`
	ManuallyFlagged bool          `json:"manually_flagged,omitempty"`
}

// ClusterComponents breaks a cluster's suspicion score into its weighted terms.
type ClusterComponents struct {
	Behavioral float64 `json:"behavioral_similarity"`
	Timing     float64 `json:"timing_correlation"`
	Network    float64 `json:"network_overlap"`
}

// Cluster is one group of linked identities found by a detection sweep.
type Cluster struct {
	ID             string            `json:"id"`
	Addresses      []id.IdentityID   `json:"addresses"`
	SuspicionScore float64           `json:"suspicion_score"`
	DetectedAt     time.Time         `json:"detected_at"`
	Components     ClusterComponents `json:"components"`
}

// VerificationResult is the decision returned to access-control callers.
type VerificationResult struct {
	Address                        id.IdentityID `json:"address"`
	Passed                         bool          `json:"passed"`
	Score                          float64       `json:"score"`
	Strength                       Strength      `json:"strength"`
	IsSuspectedSybil               bool          `json:"is_suspected_sybil"`
	RequiresAdditionalVerification bool          `json:"requires_additional_verification"`
	SuspicionReasons               []string      `json:"suspicion_reasons"`
	Timestamp                      time.Time     `json:"timestamp"`
}

// Verdict is the set membership of one identity.
type Verdict struct {
	Verified bool
	Suspect  *SuspectedSybil
}

// IdentityDetails aggregates everything known about one identity.
type IdentityDetails struct {
	ID       id.IdentityID
	Matrix   *IdentityMatrix
	Score    *IdentityScore
	Verified bool
	Suspect  *SuspectedSybil
}

// AnalysisRequest asks for an identity to be (re)scored.
type AnalysisRequest struct {
	ID           id.IdentityID
	Urgent       bool
	ForceRefresh bool
}

// AnalysisStatus reports the outcome of RequestAnalysis.
type AnalysisStatus struct {
	ID        id.IdentityID
	Queued    bool
	Completed bool
	// Skipped is set when the matrix was fresh and no provider call was made.
	Skipped bool
	Score   *IdentityScore
	Err     error
}

// Stats are aggregate counters refreshed after every scheduler tick.
type Stats struct {
	ByStrength        map[Strength]int
	TotalIdentities   int
	AverageScore      float64
	SuspectedCount    int
	VerifiedCount     int
	PendingAnalyses   int
	LastSweepAt       time.Time
	LastSweepClusters int
}

// NormalizeReasons trims reasons and drops blanks and duplicates, preserving order.
func NormalizeReasons(reasons []string) []string {
	return pstrings.DedupeAndTrim(reasons)
}

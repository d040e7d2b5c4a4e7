package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sybilguard/internal/identity/config"
	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports/mocks"
	"sybilguard/internal/identity/scoring"
	"sybilguard/internal/identity/store/graph"
	"sybilguard/internal/identity/store/matrix"
	"sybilguard/internal/identity/store/verdict"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/audit/publisher"
	auditmemory "sybilguard/pkg/platform/audit/store/memory"
	"sybilguard/pkg/platform/sentinel"
	"sybilguard/pkg/requestcontext"
)

// =============================================================================
// Verification Service Test Suite
// =============================================================================
// Stores are the in-memory adapters; the activity provider and honeypot are
// mocked so provider behaviour can be scripted per case.

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	now      time.Time
	ctrl     *gomock.Controller
	provider *mocks.MockActivityProvider
	honeypot *mocks.MockHoneypot
	matrices *matrix.InMemoryStore
	graph    *graph.InMemoryStore
	verdicts *verdict.InMemoryStore
	audits   *auditmemory.InMemoryStore
	cfg      *config.Config
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ctrl = gomock.NewController(s.T())
	s.provider = mocks.NewMockActivityProvider(s.ctrl)
	s.honeypot = mocks.NewMockHoneypot(s.ctrl)
	s.matrices = matrix.NewInMemory()
	s.graph = graph.NewInMemory()
	s.verdicts = verdict.NewInMemory()
	s.audits = auditmemory.NewInMemoryStore()
	s.cfg = config.DefaultConfig()
	s.service = s.newService()
}

func (s *ServiceSuite) newService(opts ...Option) *Service {
	opts = append([]Option{
		WithConfig(s.cfg),
		WithAuditPublisher(publisher.NewPublisher(s.audits)),
		WithHoneypot(s.honeypot),
	}, opts...)
	svc, err := New(s.matrices, s.graph, s.verdicts, s.provider, opts...)
	s.Require().NoError(err)
	return svc
}

func addresses(prefix string, n int) []id.IdentityID {
	out := make([]id.IdentityID, n)
	for i := range out {
		out[i] = id.IdentityID(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// strongActivity scores 0.925 (VERY_STRONG).
func (s *ServiceSuite) strongActivity() *models.Activity {
	return &models.Activity{
		FirstTransactionTime:      s.now.AddDate(-1, 0, 0),
		LastTransactionTime:       s.now.Add(-time.Hour),
		TransactionCount:          100,
		UniqueInteractedAddresses: addresses("peer", 25),
		TotalValueTransferred:     10000,
		ENSName:                   "alice.eth",
		ContractsCreated:          addresses("contract", 2),
	}
}

// moderateActivity scores 0.48 (MODERATE).
func (s *ServiceSuite) moderateActivity() *models.Activity {
	return &models.Activity{
		FirstTransactionTime:      s.now.AddDate(-1, 0, 0),
		TransactionCount:          10,
		UniqueInteractedAddresses: addresses("peer", 5),
		TotalValueTransferred:     9,
		ENSName:                   "moderate.eth",
	}
}

// weakActivity is a day-old account with many transactions, one counterparty
// and no value moved: VERY_WEAK with three suspicion reasons.
func (s *ServiceSuite) weakActivity() *models.Activity {
	return &models.Activity{
		FirstTransactionTime:      s.now.Add(-24 * time.Hour),
		TransactionCount:          25,
		UniqueInteractedAddresses: addresses("peer", 1),
	}
}

func (s *ServiceSuite) auditActions(subject id.IdentityID) []string {
	events, err := s.audits.ListBySubject(s.ctx, subject)
	s.Require().NoError(err)
	actions := make([]string, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	return actions
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *ServiceSuite) TestNew() {
	s.Run("nil matrix store returns error", func() {
		_, err := New(nil, s.graph, s.verdicts, s.provider)
		s.ErrorContains(err, "matrix store is required")
	})

	s.Run("nil graph store returns error", func() {
		_, err := New(s.matrices, nil, s.verdicts, s.provider)
		s.ErrorContains(err, "graph store is required")
	})

	s.Run("nil verdict store returns error", func() {
		_, err := New(s.matrices, s.graph, nil, s.provider)
		s.ErrorContains(err, "verdict store is required")
	})

	s.Run("nil provider returns error", func() {
		_, err := New(s.matrices, s.graph, s.verdicts, nil)
		s.ErrorContains(err, "activity provider is required")
	})

	s.Run("defaults to the production config", func() {
		svc, err := New(s.matrices, s.graph, s.verdicts, s.provider)
		s.Require().NoError(err)
		s.Equal(config.ModeActive, svc.Config().Mode)
	})
}

// =============================================================================
// Analyze Tests
// =============================================================================

func (s *ServiceSuite) TestAnalyze() {
	s.Run("strong activity is scored and verified", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("alice")).Return(s.strongActivity(), nil)

		score, err := s.service.Analyze(s.ctx, "alice", false)
		s.Require().NoError(err)
		s.InDelta(0.925, score.Score, 1e-9)
		s.Equal(models.StrengthVeryStrong, score.Strength)
		s.Equal(s.now, score.LastCalculated)

		stored, err := s.matrices.GetMatrix(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(100, stored.TransactionCount)
		s.InDelta(0.925, stored.HumanityScore, 1e-9)
		s.Equal(s.now, stored.LastUpdated)

		verdict, err := s.verdicts.Verdict(s.ctx, "alice")
		s.Require().NoError(err)
		s.True(verdict.Verified)
		s.Contains(s.auditActions("alice"), string(audit.EventIdentityVerified))
		s.Contains(s.auditActions("alice"), string(audit.EventIdentityAnalyzed))
	})

	s.Run("very weak activity becomes a suspect with rule reasons", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("bot")).Return(s.weakActivity(), nil)

		score, err := s.service.Analyze(s.ctx, "bot", false)
		s.Require().NoError(err)
		s.Equal(models.StrengthVeryWeak, score.Strength)

		verdict, err := s.verdicts.Verdict(s.ctx, "bot")
		s.Require().NoError(err)
		s.Require().NotNil(verdict.Suspect)
		s.False(verdict.Suspect.ManuallyFlagged)
		s.InDelta(1-score.Score, verdict.Suspect.SuspicionScore, 1e-9)
		s.Equal([]string{
			scoring.ReasonNewAccountHighVolume,
			scoring.ReasonLowDiversity,
			scoring.ReasonMinimalValue,
		}, verdict.Suspect.Reasons)
	})

	s.Run("fresh matrix skips the provider", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("carol")).Return(s.moderateActivity(), nil).Times(1)

		first, err := s.service.Analyze(s.ctx, "carol", false)
		s.Require().NoError(err)

		later := requestcontext.WithTime(s.ctx, s.now.Add(23*time.Hour))
		second, err := s.service.Analyze(later, "carol", false)
		s.Require().NoError(err)
		s.Equal(first.Score, second.Score)
		s.Equal(s.now, second.LastCalculated)
	})

	s.Run("stale or forced matrix is recomputed", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("dave")).Return(s.moderateActivity(), nil).Times(3)

		_, err := s.service.Analyze(s.ctx, "dave", false)
		s.Require().NoError(err)
		_, err = s.service.Analyze(s.ctx, "dave", true)
		s.Require().NoError(err)

		stale := requestcontext.WithTime(s.ctx, s.now.Add(24*time.Hour))
		score, err := s.service.Analyze(stale, "dave", false)
		s.Require().NoError(err)
		s.Equal(s.now.Add(24*time.Hour), score.LastCalculated)
	})

	s.Run("provider failure leaves state unchanged", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("erin")).Return(nil, errors.New("upstream 503"))

		_, err := s.service.Analyze(s.ctx, "erin", false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

		_, err = s.matrices.GetMatrix(s.ctx, "erin")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.matrices.GetScore(s.ctx, "erin")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("provider call is bounded by the configured timeout", func() {
		s.cfg.ProviderTimeout = 20 * time.Millisecond
		svc := s.newService()
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("slow")).DoAndReturn(
			func(ctx context.Context, _ id.IdentityID) (*models.Activity, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			})

		_, err := svc.Analyze(s.ctx, "slow", false)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("empty identity is invalid input", func() {
		_, err := s.service.Analyze(s.ctx, "", false)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestAnalyzeOutcomePolicy() {
	s.Run("middle tiers leave verdict membership untouched", func() {
		gomock.InOrder(
			s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("frank")).Return(s.strongActivity(), nil),
			s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("frank")).Return(s.moderateActivity(), nil),
		)

		_, err := s.service.Analyze(s.ctx, "frank", false)
		s.Require().NoError(err)
		score, err := s.service.Analyze(s.ctx, "frank", true)
		s.Require().NoError(err)
		s.Equal(models.StrengthModerate, score.Strength)

		verdict, err := s.verdicts.Verdict(s.ctx, "frank")
		s.Require().NoError(err)
		s.True(verdict.Verified)
	})

	s.Run("strong re-analysis clears an automated suspect", func() {
		gomock.InOrder(
			s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("gina")).Return(s.weakActivity(), nil),
			s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("gina")).Return(s.strongActivity(), nil),
		)

		_, err := s.service.Analyze(s.ctx, "gina", false)
		s.Require().NoError(err)
		_, err = s.service.Analyze(s.ctx, "gina", true)
		s.Require().NoError(err)

		verdict, err := s.verdicts.Verdict(s.ctx, "gina")
		s.Require().NoError(err)
		s.True(verdict.Verified)
		s.Nil(verdict.Suspect)
	})
}

func (s *ServiceSuite) TestAnalyzePartialFailure() {
	s.Run("verdict write failure saves no analysis", func() {
		verdicts := mocks.NewMockVerdictStore(s.ctrl)
		svc, err := New(s.matrices, s.graph, verdicts, s.provider,
			WithConfig(s.cfg),
			WithAuditPublisher(publisher.NewPublisher(s.audits)),
		)
		s.Require().NoError(err)
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("ivan")).Return(s.weakActivity(), nil)
		verdicts.EXPECT().MarkSuspect(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err = svc.Analyze(s.ctx, "ivan", false)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		_, err = s.matrices.GetMatrix(s.ctx, "ivan")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.matrices.GetScore(s.ctx, "ivan")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.Empty(s.auditActions("ivan"))
	})

	s.Run("save failure keeps the verdict and leaves the identity due for analysis", func() {
		matrices := mocks.NewMockMatrixStore(s.ctrl)
		svc, err := New(matrices, s.graph, s.verdicts, s.provider,
			WithConfig(s.cfg),
			WithAuditPublisher(publisher.NewPublisher(s.audits)),
		)
		s.Require().NoError(err)
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("walt")).Return(s.weakActivity(), nil)
		matrices.EXPECT().GetMatrix(gomock.Any(), id.IdentityID("walt")).Return(nil, sentinel.ErrNotFound).Times(2)
		matrices.EXPECT().GetScore(gomock.Any(), id.IdentityID("walt")).Return(nil, sentinel.ErrNotFound)
		matrices.EXPECT().SaveAnalysis(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

		_, err = svc.Analyze(s.ctx, "walt", false)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))

		verdict, err := s.verdicts.Verdict(s.ctx, "walt")
		s.Require().NoError(err)
		s.Require().NotNil(verdict.Suspect)
		s.Empty(s.auditActions("walt"))

		due, err := svc.NeedsAnalysis(s.ctx, "walt", false)
		s.Require().NoError(err)
		s.True(due)
	})
}

func (s *ServiceSuite) TestManualOverridesAreSticky() {
	s.Run("verified human keeps its score through weak re-analysis", func() {
		s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "henry", nil))
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("henry")).Return(s.weakActivity(), nil)

		score, err := s.service.Analyze(s.ctx, "henry", true)
		s.Require().NoError(err)
		s.True(score.ManuallyVerified)
		s.Equal(ManualVerifiedScore, score.Score)

		stored, err := s.matrices.GetMatrix(s.ctx, "henry")
		s.Require().NoError(err)
		s.Less(stored.HumanityScore, 0.2)

		verdict, err := s.verdicts.Verdict(s.ctx, "henry")
		s.Require().NoError(err)
		s.True(verdict.Verified)
		s.Nil(verdict.Suspect)
	})

	s.Run("flagged sybil stays suspect through strong re-analysis", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "ivan", []string{"operator report"}))
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("ivan")).Return(s.strongActivity(), nil)

		score, err := s.service.Analyze(s.ctx, "ivan", true)
		s.Require().NoError(err)
		s.True(score.ManuallyFlagged)

		verdict, err := s.verdicts.Verdict(s.ctx, "ivan")
		s.Require().NoError(err)
		s.False(verdict.Verified)
		s.Require().NotNil(verdict.Suspect)
		s.Equal([]string{"operator report"}, verdict.Suspect.Reasons)
	})
}

// =============================================================================
// VerifyIdentity Tests
// =============================================================================

func (s *ServiceSuite) TestVerifyIdentity() {
	s.Run("unknown identity with failing provider fails safe", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("nobody")).Return(nil, errors.New("down"))

		result, err := s.service.VerifyIdentity(s.ctx, "nobody", models.StrengthWeak)
		s.Require().NoError(err)
		s.False(result.Passed)
		s.Equal(models.StrengthUnknown, result.Strength)
		s.True(result.RequiresAdditionalVerification)
		s.False(result.IsSuspectedSybil)
		s.Equal(s.now, result.Timestamp)
	})

	s.Run("first verification analyzes synchronously", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("alice")).Return(s.strongActivity(), nil)

		result, err := s.service.VerifyIdentity(s.ctx, "alice", models.StrengthStrong)
		s.Require().NoError(err)
		s.True(result.Passed)
		s.Equal(models.StrengthVeryStrong, result.Strength)
		s.False(result.RequiresAdditionalVerification)
		s.Empty(result.SuspicionReasons)
	})

	s.Run("insufficient strength requires additional verification", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("carol")).Return(s.moderateActivity(), nil)

		result, err := s.service.VerifyIdentity(s.ctx, "carol", models.StrengthStrong)
		s.Require().NoError(err)
		s.False(result.Passed)
		s.True(result.RequiresAdditionalVerification)
	})

	s.Run("unknown required strength uses the configured minimum", func() {
		result, err := s.service.VerifyIdentity(s.ctx, "carol", models.StrengthUnknown)
		s.Require().NoError(err)
		s.True(result.Passed)
	})

	s.Run("suspect never passes and carries reasons", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "mallory", []string{"shared funding source"}))
		// a manual flag stores no matrix, so verification analyses on demand
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("mallory")).Return(nil, errors.New("down"))

		result, err := s.service.VerifyIdentity(s.ctx, "mallory", models.StrengthVeryWeak)
		s.Require().NoError(err)
		s.False(result.Passed)
		s.True(result.IsSuspectedSybil)
		s.False(result.RequiresAdditionalVerification)
		s.Equal([]string{"shared funding source"}, result.SuspicionReasons)

		score, err := s.matrices.GetScore(s.ctx, "mallory")
		s.Require().NoError(err)
		s.True(score.ManuallyFlagged)
		verdict, err := s.verdicts.Verdict(s.ctx, "mallory")
		s.Require().NoError(err)
		s.Require().NotNil(verdict.Suspect)
	})

	s.Run("manual flag survives a successful re-analysis", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "trent", []string{"operator report"}))
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("trent")).Return(s.strongActivity(), nil)

		result, err := s.service.VerifyIdentity(s.ctx, "trent", models.StrengthVeryWeak)
		s.Require().NoError(err)
		s.False(result.Passed)
		s.True(result.IsSuspectedSybil)
		s.Equal([]string{"operator report"}, result.SuspicionReasons)
	})

	s.Run("empty identity is invalid input", func() {
		_, err := s.service.VerifyIdentity(s.ctx, "", models.StrengthWeak)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Manual Override Tests
// =============================================================================

func (s *ServiceSuite) TestMarkAsVerifiedHuman() {
	s.Run("removes suspect membership and records the override", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "judy", nil))
		s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "judy", map[string]string{"method": "video_call"}))

		score, err := s.matrices.GetScore(s.ctx, "judy")
		s.Require().NoError(err)
		s.Equal(ManualVerifiedScore, score.Score)
		s.Equal(models.StrengthVeryStrong, score.Strength)
		s.True(score.ManuallyVerified)

		verdict, err := s.verdicts.Verdict(s.ctx, "judy")
		s.Require().NoError(err)
		s.True(verdict.Verified)
		s.Nil(verdict.Suspect)

		events, err := s.audits.ListBySubject(s.ctx, "judy")
		s.Require().NoError(err)
		last := events[len(events)-1]
		s.Equal(string(audit.EventIdentityVerifiedManually), last.Action)
		s.Equal("video_call", last.Metadata["method"])
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "kate", nil))
		s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "kate", nil))

		count, err := s.verdicts.CountVerified(s.ctx)
		s.Require().NoError(err)
		s.Equal(2, count) // judy and kate
	})
}

func (s *ServiceSuite) TestFlagAsSybil() {
	s.Run("removes verified membership with full suspicion", func() {
		s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "leo", nil))
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "leo", []string{" farm ", "farm", ""}))

		score, err := s.matrices.GetScore(s.ctx, "leo")
		s.Require().NoError(err)
		s.Equal(ManualFlaggedScore, score.Score)
		s.True(score.ManuallyFlagged)

		verdict, err := s.verdicts.Verdict(s.ctx, "leo")
		s.Require().NoError(err)
		s.False(verdict.Verified)
		s.Require().NotNil(verdict.Suspect)
		s.Equal(ManualSuspicion, verdict.Suspect.SuspicionScore)
		s.True(verdict.Suspect.ManuallyFlagged)
		s.Equal([]string{"farm"}, verdict.Suspect.Reasons)
	})

	s.Run("repeated flags keep a single entry", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "leo", nil))

		suspects, err := s.verdicts.ListSuspects(s.ctx)
		s.Require().NoError(err)
		s.Len(suspects, 1)
		s.Equal([]string{ReasonManualFlag}, suspects[0].Reasons)
	})
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func (s *ServiceSuite) TestInitialize() {
	s.Run("honeypot runs once when enabled", func() {
		s.cfg.HoneypotEnabled = true
		svc := s.newService()
		s.honeypot.EXPECT().Setup(gomock.Any()).Return(nil).Times(1)

		s.Require().NoError(svc.Initialize(s.ctx))
		s.Require().NoError(svc.Initialize(s.ctx))
		s.Require().NoError(svc.MarkAsVerifiedHuman(s.ctx, "mia", nil))
	})

	s.Run("manual override retries a failed setup once", func() {
		s.cfg.HoneypotEnabled = true
		svc := s.newService()
		gomock.InOrder(
			s.honeypot.EXPECT().Setup(gomock.Any()).Return(errors.New("decoy bucket missing")),
			s.honeypot.EXPECT().Setup(gomock.Any()).Return(nil),
		)

		s.Require().Error(svc.Initialize(s.ctx))
		s.Require().NoError(svc.MarkAsVerifiedHuman(s.ctx, "nina", nil))
		s.Require().NoError(svc.Initialize(s.ctx))
	})

	s.Run("manual override fails when the retry fails too", func() {
		s.cfg.HoneypotEnabled = true
		svc := s.newService()
		s.honeypot.EXPECT().Setup(gomock.Any()).Return(errors.New("decoy bucket missing")).Times(2)

		err := svc.FlagAsSybil(s.ctx, "oscar", nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("disabled honeypot is never called", func() {
		s.cfg.HoneypotEnabled = false
		svc := s.newService()
		s.Require().NoError(svc.Initialize(s.ctx))
	})
}

// =============================================================================
// Relationship Tests
// =============================================================================

func (s *ServiceSuite) TestRegisterRelationship() {
	s.Run("rejects self edges and unknown types", func() {
		err := s.service.RegisterRelationship(s.ctx, "a", "a", models.RelationshipSimilarity, 0.5, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		err = s.service.RegisterRelationship(s.ctx, "a", "b", models.RelationshipType("gossip"), 0.5, nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("registered links are traversed in both directions", func() {
		s.Require().NoError(s.service.RegisterRelationship(s.ctx, "a", "b", models.RelationshipSimilarity, 0.5, map[string]string{"via": "same device"}))
		s.Require().NoError(s.service.RegisterRelationship(s.ctx, "b", "c", models.RelationshipNetwork, 0.9, nil))

		related, err := s.service.FindRelatedAccounts(s.ctx, "c")
		s.Require().NoError(err)
		s.Equal([]id.IdentityID{"c", "b", "a"}, related)
		s.Contains(s.auditActions("a"), string(audit.EventRelationshipRegistered))
	})

	s.Run("sweep reports clusters around suspects", func() {
		s.Require().NoError(s.service.FlagAsSybil(s.ctx, "a", nil))

		clusters, err := s.service.DetectSybilClusters(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(clusters, 1)
		s.Equal([]id.IdentityID{"a", "b", "c"}, clusters[0].Addresses)
		s.Equal(s.now, clusters[0].DetectedAt)
	})
}

// =============================================================================
// Identity and Snapshot Tests
// =============================================================================

func (s *ServiceSuite) TestIdentity() {
	s.Run("unknown identity is not found", func() {
		_, err := s.service.Identity(s.ctx, "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("aggregates matrix score and verdict", func() {
		s.provider.EXPECT().GetAccountActivity(gomock.Any(), id.IdentityID("alice")).Return(s.strongActivity(), nil)
		_, err := s.service.Analyze(s.ctx, "alice", false)
		s.Require().NoError(err)

		details, err := s.service.Identity(s.ctx, "alice")
		s.Require().NoError(err)
		s.NotNil(details.Matrix)
		s.NotNil(details.Score)
		s.True(details.Verified)
		s.Nil(details.Suspect)
	})
}

func (s *ServiceSuite) TestSnapshot() {
	s.Require().NoError(s.service.MarkAsVerifiedHuman(s.ctx, "p", nil))
	s.Require().NoError(s.service.FlagAsSybil(s.ctx, "q", nil))

	stats, err := s.service.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.TotalIdentities)
	s.InDelta(0.5, stats.AverageScore, 1e-9)
	s.Equal(1, stats.ByStrength[models.StrengthVeryStrong])
	s.Equal(1, stats.ByStrength[models.StrengthVeryWeak])
	s.Equal(1, stats.SuspectedCount)
	s.Equal(1, stats.VerifiedCount)
}

package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sybilguard/internal/identity/metrics"
	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	"sybilguard/internal/identity/scoring"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/platform/sentinel"
	"sybilguard/pkg/requestcontext"
)

// Analyze recomputes an identity's score when its matrix is missing, stale or
// force is set. A fresh identity returns its stored score without calling the
// activity provider.
func (s *Service) Analyze(ctx context.Context, identity id.IdentityID, force bool) (*models.IdentityScore, error) {
	ctx, span := s.tracer.Start(ctx, "identity.analyze",
		trace.WithAttributes(
			attribute.String("identity", identity.String()),
			attribute.Bool("force", force),
		),
	)
	defer span.End()

	score, skipped, err := s.analyze(ctx, identity, force)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "analysis failed")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("skipped", skipped))
	return score, nil
}

func (s *Service) analyze(ctx context.Context, identity id.IdentityID, force bool) (*models.IdentityScore, bool, error) {
	needed, err := s.NeedsAnalysis(ctx, identity, force)
	if err != nil {
		return nil, false, err
	}
	if !needed {
		s.metrics.IncrementAnalysis(metrics.OutcomeSkipped)
		score, err := s.currentScore(ctx, identity)
		return score, true, err
	}

	activity, err := s.FetchActivity(ctx, identity)
	if err != nil {
		return nil, false, err
	}
	score, err := s.ApplyActivity(ctx, identity, activity)
	return score, false, err
}

// NeedsAnalysis reports whether the identity has no matrix or a stale one.
func (s *Service) NeedsAnalysis(ctx context.Context, identity id.IdentityID, force bool) (bool, error) {
	if identity.IsNil() {
		return false, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	matrix, err := s.matrices.GetMatrix(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity matrix")
	}
	return s.scorer.IsStale(matrix, requestcontext.Now(ctx), force), nil
}

// FetchActivity calls the activity provider under the configured timeout.
// It touches no engine state, so callers may run it concurrently.
func (s *Service) FetchActivity(ctx context.Context, identity id.IdentityID) (*models.Activity, error) {
	if s.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()
	}

	start := time.Now()
	activity, err := s.provider.GetAccountActivity(ctx, identity)
	s.metrics.ObserveProviderLatency(time.Since(start))

	if err != nil {
		s.metrics.IncrementAnalysis(metrics.OutcomeFailed)
		s.logger.WarnContext(ctx, "activity provider call failed",
			"identity", identity,
			"error", err,
		)
		code := dErrors.CodeUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			code = dErrors.CodeTimeout
		}
		return nil, dErrors.Wrap(err, code, "activity provider failed")
	}
	if activity == nil {
		s.metrics.IncrementAnalysis(metrics.OutcomeFailed)
		return nil, dErrors.New(dErrors.CodeUnavailable, "activity provider returned no data")
	}
	return activity, nil
}

// ApplyActivity scores fresh activity, persists the result and applies the
// outcome policy. Identities under a manual override keep their score and
// verdict; only the matrix is refreshed.
func (s *Service) ApplyActivity(ctx context.Context, identity id.IdentityID, activity *models.Activity) (*models.IdentityScore, error) {
	if identity.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if activity == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "activity is required")
	}
	now := requestcontext.Now(ctx)

	matrix := models.NewMatrixFromActivity(identity, activity)
	humanity, strength := s.scorer.Score(matrix, now)
	matrix.HumanityScore = humanity
	matrix.LastUpdated = now

	current, err := s.currentScore(ctx, identity)
	if err != nil {
		return nil, err
	}
	if current.IsManual() {
		if err := s.matrices.SaveAnalysis(ctx, matrix, nil); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity matrix")
		}
		s.metrics.IncrementAnalysis(metrics.OutcomeOverride)
		s.logger.InfoContext(ctx, "manual override kept, matrix refreshed",
			"identity", identity,
			"computed_score", humanity,
			"manually_verified", current.ManuallyVerified,
			"manually_flagged", current.ManuallyFlagged,
		)
		return current, nil
	}

	record := &models.IdentityScore{
		ID:             identity,
		Score:          humanity,
		Strength:       strength,
		LastCalculated: now,
	}
	// Verdict first: a failed save keeps the previous matrix and score, and the
	// next re-analysis of the identity overwrites them.
	suspect, err := s.applyOutcome(ctx, matrix, record, now)
	if err != nil {
		return nil, err
	}
	if err := s.matrices.SaveAnalysis(ctx, matrix, record); err != nil {
		s.logger.ErrorContext(ctx, "verdict applied but analysis not saved",
			"identity", identity,
			"strength", strength,
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity analysis")
	}
	s.auditOutcome(ctx, record, suspect)

	s.metrics.IncrementAnalysis(metrics.OutcomeScored)
	ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventIdentityAnalyzed),
		"subject", identity,
		"score", humanity,
		"strength", strength,
	)
	return record, nil
}

// applyOutcome moves strong identities to the verified set and very weak
// ones to the suspect set. Tiers in between leave membership untouched. The
// suspect entry is returned when one was written.
func (s *Service) applyOutcome(ctx context.Context, matrix *models.IdentityMatrix, record *models.IdentityScore, now time.Time) (*models.SuspectedSybil, error) {
	switch {
	case record.Strength.AtLeast(models.StrengthStrong):
		if err := s.verdicts.MarkVerified(ctx, record.ID); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark identity verified")
		}

	case record.Strength == models.StrengthVeryWeak:
		entry := models.SuspectedSybil{
			ID:             record.ID,
			SuspicionScore: scoring.Clamp01(1 - record.Score),
			Reasons:        scoring.SuspicionReasons(matrix, now),
			DetectedAt:     now,
		}
		if err := s.verdicts.MarkSuspect(ctx, entry); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark identity suspect")
		}
		return &entry, nil
	}
	return nil, nil
}

func (s *Service) auditOutcome(ctx context.Context, record *models.IdentityScore, suspect *models.SuspectedSybil) {
	switch {
	case record.Strength.AtLeast(models.StrengthStrong):
		ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventIdentityVerified),
			"subject", record.ID,
			"decision", "verified",
			"strength", record.Strength,
		)
	case suspect != nil:
		ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventIdentitySuspected),
			"subject", record.ID,
			"decision", "suspected",
			"suspicion_score", suspect.SuspicionScore,
			"reasons", len(suspect.Reasons),
		)
	}
}

package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sybilguard/internal/identity/metrics"
	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/sentinel"
	"sybilguard/pkg/requestcontext"
)

// VerifyIdentity decides whether an identity meets the required strength.
// A required strength of UNKNOWN means the configured minimum. Missing data
// never passes.
func (s *Service) VerifyIdentity(ctx context.Context, identity id.IdentityID, required models.Strength) (*models.VerificationResult, error) {
	if required == models.StrengthUnknown {
		required = s.cfg.MinimumIdentityStrength
	}
	ctx, span := s.tracer.Start(ctx, "identity.verify",
		trace.WithAttributes(
			attribute.String("identity", identity.String()),
			attribute.String("required_strength", required.String()),
		),
	)
	defer span.End()

	result, err := s.verify(ctx, identity, required)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verification failed")
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("passed", result.Passed),
		attribute.Bool("suspected", result.IsSuspectedSybil),
	)
	return result, nil
}

func (s *Service) verify(ctx context.Context, identity id.IdentityID, required models.Strength) (*models.VerificationResult, error) {
	if identity.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if !required.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown required strength")
	}

	_, err := s.matrices.GetMatrix(ctx, identity)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		if _, err := s.Analyze(ctx, identity, false); err != nil {
			s.logger.WarnContext(ctx, "on-demand analysis failed",
				"identity", identity,
				"error", err,
			)
		}
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity matrix")
	}

	now := requestcontext.Now(ctx)
	score, err := s.currentScore(ctx, identity)
	if err != nil {
		return nil, err
	}
	if score == nil {
		s.metrics.IncrementVerification(metrics.ResultNoData)
		return &models.VerificationResult{
			Address:                        identity,
			Passed:                         false,
			Strength:                       models.StrengthUnknown,
			RequiresAdditionalVerification: true,
			SuspicionReasons:               []string{},
			Timestamp:                      now,
		}, nil
	}

	verdict, err := s.verdicts.Verdict(ctx, identity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load identity verdict")
	}

	result := &models.VerificationResult{
		Address:          identity,
		Score:            score.Score,
		Strength:         score.Strength,
		SuspicionReasons: []string{},
		Timestamp:        now,
	}
	if verdict.Suspect != nil {
		result.IsSuspectedSybil = true
		result.SuspicionReasons = append(result.SuspicionReasons, verdict.Suspect.Reasons...)
	} else {
		result.Passed = score.Strength.AtLeast(required)
	}
	result.RequiresAdditionalVerification = !result.Passed && !result.IsSuspectedSybil

	switch {
	case result.IsSuspectedSybil:
		s.metrics.IncrementVerification(metrics.ResultSuspect)
	case result.Passed:
		s.metrics.IncrementVerification(metrics.ResultPassed)
	default:
		s.metrics.IncrementVerification(metrics.ResultFailed)
	}
	s.logger.DebugContext(ctx, "identity verified",
		"identity", identity,
		"required_strength", required,
		"strength", result.Strength,
		"passed", result.Passed,
		"suspected", result.IsSuspectedSybil,
	)
	return result, nil
}

package service

import (
	"context"
	"sort"

	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	id "sybilguard/pkg/domain"
	dErrors "sybilguard/pkg/domain-errors"
	"sybilguard/pkg/platform/audit"
	"sybilguard/pkg/requestcontext"
)

// MarkAsVerifiedHuman records an operator's human verification. It removes
// any suspect entry and is safe to repeat.
func (s *Service) MarkAsVerifiedHuman(ctx context.Context, identity id.IdentityID, data map[string]string) error {
	if identity.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	now := requestcontext.Now(ctx)

	score := &models.IdentityScore{
		ID:               identity,
		Score:            ManualVerifiedScore,
		Strength:         models.StrengthVeryStrong,
		LastCalculated:   now,
		ManuallyVerified: true,
	}
	if err := s.matrices.SaveScore(ctx, score); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity score")
	}
	if err := s.verdicts.MarkVerified(ctx, identity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark identity verified")
	}

	attrs := []any{"subject", identity, "decision", "verified"}
	attrs = append(attrs, sortedAttrs(data)...)
	ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventIdentityVerifiedManually), attrs...)
	return nil
}

// FlagAsSybil records an operator's sybil flag. It removes verified
// membership; repeating it replaces the entry in place.
func (s *Service) FlagAsSybil(ctx context.Context, identity id.IdentityID, reasons []string) error {
	if identity.IsNil() {
		return dErrors.New(dErrors.CodeInvalidInput, "identity id is required")
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	now := requestcontext.Now(ctx)

	reasons = models.NormalizeReasons(reasons)
	if len(reasons) == 0 {
		reasons = []string{ReasonManualFlag}
	}

	score := &models.IdentityScore{
		ID:              identity,
		Score:           ManualFlaggedScore,
		Strength:        models.StrengthVeryWeak,
		LastCalculated:  now,
		ManuallyFlagged: true,
	}
	if err := s.matrices.SaveScore(ctx, score); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save identity score")
	}
	entry := models.SuspectedSybil{
		ID:              identity,
		SuspicionScore:  ManualSuspicion,
		Reasons:         reasons,
		DetectedAt:      now,
		ManuallyFlagged: true,
	}
	if err := s.verdicts.MarkSuspect(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark identity suspect")
	}

	ports.LogAudit(ctx, s.logger, s.auditPublisher, string(audit.EventIdentityFlaggedManually),
		"subject", identity,
		"decision", "flagged",
		"reason", reasons[0],
		"reason_count", len(reasons),
	)
	return nil
}

func sortedAttrs(data map[string]string) []any {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, data[k])
	}
	return out
}

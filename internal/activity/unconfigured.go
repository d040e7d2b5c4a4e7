package activity

import (
	"context"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

// Unconfigured is the provider used when no activity endpoint is set. Every
// lookup fails with a provider outage, so analyses fail and verification
// reports no data.
type Unconfigured struct{}

func (Unconfigured) GetAccountActivity(_ context.Context, _ id.IdentityID) (*models.Activity, error) {
	return nil, &ProviderError{
		Category: ErrorProviderOutage,
		Provider: "unconfigured",
		Message:  "no activity provider configured",
	}
}

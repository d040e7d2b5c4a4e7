// Package honeypot seeds decoy identities into the suspect set. Accounts
// that build strong relationships with a decoy are pulled into the decoy's
// cluster on the next sweep.
package honeypot

import (
	"context"
	"errors"
	"fmt"

	"sybilguard/internal/identity/models"
	"sybilguard/internal/identity/ports"
	id "sybilguard/pkg/domain"
	"sybilguard/pkg/requestcontext"
)

// ReasonDecoy marks suspect entries created for decoys.
const ReasonDecoy = "honeypot decoy"

// Decoys implements ports.Honeypot.
type Decoys struct {
	verdicts ports.VerdictStore
	decoys   []id.IdentityID
}

// New validates the decoy identifiers.
func New(verdicts ports.VerdictStore, decoys []string) (*Decoys, error) {
	if verdicts == nil {
		return nil, errors.New("verdict store is required")
	}
	parsed := make([]id.IdentityID, 0, len(decoys))
	for _, d := range decoys {
		identity, err := id.ParseIdentityID(d)
		if err != nil {
			return nil, fmt.Errorf("decoy %q: %w", d, err)
		}
		parsed = append(parsed, identity)
	}
	return &Decoys{verdicts: verdicts, decoys: parsed}, nil
}

// Setup marks every decoy as a fully suspected identity.
func (d *Decoys) Setup(ctx context.Context) error {
	now := requestcontext.Now(ctx)
	for _, decoy := range d.decoys {
		err := d.verdicts.MarkSuspect(ctx, models.SuspectedSybil{
			ID:             decoy,
			SuspicionScore: 1.0,
			Reasons:        []string{ReasonDecoy},
			DetectedAt:     now,
		})
		if err != nil {
			return fmt.Errorf("seed decoy %s: %w", decoy, err)
		}
	}
	return nil
}

func (d *Decoys) Count() int {
	return len(d.decoys)
}

// Package verdict stores the mutually exclusive suspect and verified sets.
package verdict

import (
	"context"
	"sync"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

// InMemoryStore guards both sets with one mutex so every transition is atomic.
type InMemoryStore struct {
	mu       sync.RWMutex
	order    []id.IdentityID
	suspects map[id.IdentityID]models.SuspectedSybil
	verified map[id.IdentityID]struct{}
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		suspects: make(map[id.IdentityID]models.SuspectedSybil),
		verified: make(map[id.IdentityID]struct{}),
	}
}

func (s *InMemoryStore) MarkSuspect(_ context.Context, entry models.SuspectedSybil) error {
	entry = copySuspect(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suspects[entry.ID]; !ok {
		s.order = append(s.order, entry.ID)
	}
	s.suspects[entry.ID] = entry
	delete(s.verified, entry.ID)
	return nil
}

func (s *InMemoryStore) MarkVerified(_ context.Context, identity id.IdentityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.suspects[identity]; ok {
		delete(s.suspects, identity)
		for i, existing := range s.order {
			if existing == identity {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
	s.verified[identity] = struct{}{}
	return nil
}

func (s *InMemoryStore) Verdict(_ context.Context, identity id.IdentityID) (*models.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	verdict := &models.Verdict{}
	if _, ok := s.verified[identity]; ok {
		verdict.Verified = true
	}
	if entry, ok := s.suspects[identity]; ok {
		suspect := copySuspect(entry)
		verdict.Suspect = &suspect
	}
	return verdict, nil
}

func (s *InMemoryStore) ListSuspects(_ context.Context) ([]models.SuspectedSybil, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.SuspectedSybil, 0, len(s.order))
	for _, identity := range s.order {
		out = append(out, copySuspect(s.suspects[identity]))
	}
	return out, nil
}

func (s *InMemoryStore) CountVerified(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.verified), nil
}

func copySuspect(entry models.SuspectedSybil) models.SuspectedSybil {
	entry.Reasons = append([]string(nil), entry.Reasons...)
	return entry
}

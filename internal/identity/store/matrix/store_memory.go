// Package matrix stores activity matrices and score records.
package matrix

import (
	"context"
	"sort"
	"sync"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
	"sybilguard/pkg/platform/sentinel"
)

// InMemoryStore keeps matrices and scores in maps guarded by one lock so a
// matrix and its score are always written together.
type InMemoryStore struct {
	mu       sync.RWMutex
	matrices map[id.IdentityID]*models.IdentityMatrix
	scores   map[id.IdentityID]*models.IdentityScore
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		matrices: make(map[id.IdentityID]*models.IdentityMatrix),
		scores:   make(map[id.IdentityID]*models.IdentityScore),
	}
}

func (s *InMemoryStore) GetMatrix(_ context.Context, identity id.IdentityID) (*models.IdentityMatrix, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.matrices[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneMatrix(m), nil
}

func (s *InMemoryStore) GetScore(_ context.Context, identity id.IdentityID) (*models.IdentityScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.scores[identity]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *score
	return &cp, nil
}

func (s *InMemoryStore) SaveAnalysis(_ context.Context, matrix *models.IdentityMatrix, score *models.IdentityScore) error {
	if matrix == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matrices[matrix.ID] = cloneMatrix(matrix)
	if score != nil {
		cp := *score
		s.scores[score.ID] = &cp
	}
	return nil
}

func (s *InMemoryStore) SaveScore(_ context.Context, score *models.IdentityScore) error {
	if score == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *score
	s.scores[score.ID] = &cp
	return nil
}

// ListScores returns copies ordered by identity for stable output.
func (s *InMemoryStore) ListScores(_ context.Context) ([]*models.IdentityScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.IdentityScore, 0, len(s.scores))
	for _, score := range s.scores {
		cp := *score
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func cloneMatrix(m *models.IdentityMatrix) *models.IdentityMatrix {
	cp := *m
	cp.TimingSignature = append([]float64(nil), m.TimingSignature...)
	return &cp
}

// Package graph stores the symmetric relationship graph between identities.
package graph

import (
	"context"
	"sync"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

// InMemoryStore keeps adjacency lists in insertion order.
type InMemoryStore struct {
	mu        sync.RWMutex
	adjacency map[id.IdentityID][]models.RelationshipEdge
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{adjacency: make(map[id.IdentityID][]models.RelationshipEdge)}
}

// AddRelationship stores the edge on its source and the mirror on its target
// under one lock, so readers never observe half an edge.
func (s *InMemoryStore) AddRelationship(_ context.Context, edge models.RelationshipEdge) error {
	mirror := edge.Mirror()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjacency[edge.Source] = append(s.adjacency[edge.Source], edge)
	s.adjacency[mirror.Source] = append(s.adjacency[mirror.Source], mirror)
	return nil
}

func (s *InMemoryStore) Edges(_ context.Context, identity id.IdentityID) ([]models.RelationshipEdge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RelationshipEdge(nil), s.adjacency[identity]...), nil
}

// EdgeCount returns the number of directed adjacency entries.
func (s *InMemoryStore) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, edges := range s.adjacency {
		n += len(edges)
	}
	return n
}

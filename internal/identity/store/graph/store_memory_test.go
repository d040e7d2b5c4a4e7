package graph

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("registering stores the edge on both endpoints", func(t *testing.T) {
		store := NewInMemory()
		edge := models.RelationshipEdge{Source: "a", Target: "b", Type: models.RelationshipSimilarity, Strength: 0.9, Timestamp: now}

		require.NoError(t, store.AddRelationship(ctx, edge))

		fromA, err := store.Edges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, fromA, 1)
		assert.Equal(t, id.IdentityID("b"), fromA[0].Target)

		fromB, err := store.Edges(ctx, "b")
		require.NoError(t, err)
		require.Len(t, fromB, 1)
		assert.Equal(t, id.IdentityID("a"), fromB[0].Target)
		assert.Equal(t, models.RelationshipSimilarity, fromB[0].Type)
		assert.Equal(t, 0.9, fromB[0].Strength)
	})

	t.Run("duplicate registrations append parallel edges in order", func(t *testing.T) {
		store := NewInMemory()
		require.NoError(t, store.AddRelationship(ctx, models.RelationshipEdge{Source: "a", Target: "b", Type: models.RelationshipTiming}))
		require.NoError(t, store.AddRelationship(ctx, models.RelationshipEdge{Source: "a", Target: "b", Type: models.RelationshipBehavioral}))

		edges, err := store.Edges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, edges, 2)
		assert.Equal(t, models.RelationshipTiming, edges[0].Type)
		assert.Equal(t, models.RelationshipBehavioral, edges[1].Type)
		assert.Equal(t, 4, store.EdgeCount())
	})

	t.Run("unknown identity has no edges", func(t *testing.T) {
		edges, err := NewInMemory().Edges(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})

	t.Run("mirror metadata is independent", func(t *testing.T) {
		store := NewInMemory()
		meta := map[string]string{"source": "chain"}
		require.NoError(t, store.AddRelationship(ctx, models.RelationshipEdge{Source: "a", Target: "b", Type: models.RelationshipNetwork, Metadata: meta}))

		fromB, err := store.Edges(ctx, "b")
		require.NoError(t, err)
		fromB[0].Metadata["source"] = "mutated"

		fromA, err := store.Edges(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "chain", fromA[0].Metadata["source"])
	})

	t.Run("concurrent registrations keep both directions", func(t *testing.T) {
		store := NewInMemory()
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = store.AddRelationship(ctx, models.RelationshipEdge{Source: "hub", Target: "spoke", Type: models.RelationshipTransaction})
			}()
		}
		wg.Wait()

		hub, _ := store.Edges(ctx, "hub")
		spoke, _ := store.Edges(ctx, "spoke")
		assert.Len(t, hub, 50)
		assert.Len(t, spoke, 50)
	})
}

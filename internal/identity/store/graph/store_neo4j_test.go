package graph

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

type fakeDriver struct {
	queries []string
	params  []map[string]any
	result  neo4j.EagerResult
	err     error
}

func (f *fakeDriver) ExecuteQuery(_ context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	return f.result, f.err
}

func record(target, relType string, strength float64, metadata string, ts int64) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"target", "type", "strength", "metadata", "ts"},
		Values: []any{target, relType, strength, metadata, ts},
	}
}

func TestNeo4jStore_AddRelationship(t *testing.T) {
	ctx := context.Background()
	ts := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	t.Run("writes both directions in one statement", func(t *testing.T) {
		driver := &fakeDriver{}
		store := NewNeo4j(driver)

		err := store.AddRelationship(ctx, models.RelationshipEdge{
			Source:    "0xaaa",
			Target:    "0xbbb",
			Type:      models.RelationshipNetwork,
			Strength:  0.8,
			Metadata:  map[string]string{"via": "mixer"},
			Timestamp: ts,
		})
		require.NoError(t, err)

		require.Len(t, driver.queries, 1)
		assert.Equal(t, 2, strings.Count(driver.queries[0], "CREATE (")) // edge and mirror
		params := driver.params[0]
		assert.Equal(t, "0xaaa", params["source"])
		assert.Equal(t, "0xbbb", params["target"])
		assert.Equal(t, "network", params["type"])
		assert.Equal(t, 0.8, params["strength"])
		assert.Equal(t, `{"via":"mixer"}`, params["metadata"])
		assert.Equal(t, ts.UnixMilli(), params["ts"])
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		boom := errors.New("connection refused")
		store := NewNeo4j(&fakeDriver{err: boom})

		err := store.AddRelationship(ctx, models.RelationshipEdge{Source: "a", Target: "b", Type: models.RelationshipTiming})
		assert.ErrorIs(t, err, boom)
	})
}

func TestNeo4jStore_Edges(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes records in returned order", func(t *testing.T) {
		ts := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
		driver := &fakeDriver{result: neo4j.EagerResult{Records: []*neo4j.Record{
			record("b", "similarity", 0.5, "", ts.UnixMilli()),
			record("c", "network", 0.9, `{"via":"bridge"}`, ts.UnixMilli()),
		}}}
		store := NewNeo4j(driver)

		edges, err := store.Edges(ctx, "a")
		require.NoError(t, err)
		require.Len(t, edges, 2)

		assert.Equal(t, id.IdentityID("a"), edges[0].Source)
		assert.Equal(t, id.IdentityID("b"), edges[0].Target)
		assert.Equal(t, models.RelationshipSimilarity, edges[0].Type)
		assert.Nil(t, edges[0].Metadata)
		assert.True(t, ts.Equal(edges[0].Timestamp))

		assert.Equal(t, models.RelationshipNetwork, edges[1].Type)
		assert.Equal(t, "bridge", edges[1].Metadata["via"])
		assert.Equal(t, "a", driver.params[0]["id"])
	})

	t.Run("malformed record is an error", func(t *testing.T) {
		driver := &fakeDriver{result: neo4j.EagerResult{Records: []*neo4j.Record{
			{Keys: []string{"target"}, Values: []any{"b"}},
		}}}

		_, err := NewNeo4j(driver).Edges(ctx, "a")
		assert.Error(t, err)
	})

	t.Run("no records yields empty list", func(t *testing.T) {
		edges, err := NewNeo4j(&fakeDriver{}).Edges(ctx, "a")
		require.NoError(t, err)
		assert.Empty(t, edges)
	})
}

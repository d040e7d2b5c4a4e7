package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"sybilguard/internal/identity/models"
	id "sybilguard/pkg/domain"
)

// QueryExecutor runs one Cypher statement in an auto-committed transaction.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
}

// Neo4jStore persists relationships in Neo4j or Memgraph as two directed
// RELATED edges between Identity nodes.
type Neo4jStore struct {
	driver QueryExecutor
	now    func() time.Time
}

func NewNeo4j(driver QueryExecutor) *Neo4jStore {
	return &Neo4jStore{driver: driver, now: time.Now}
}

const addRelationshipQuery = `
MERGE (a:Identity {id: $source})
MERGE (b:Identity {id: $target})
CREATE (a)-[:RELATED {type: $type, strength: $strength, metadata: $metadata, ts: $ts, created: $created}]->(b)
CREATE (b)-[:RELATED {type: $type, strength: $strength, metadata: $metadata, ts: $ts, created: $created}]->(a)
`

const edgesQuery = `
MATCH (a:Identity {id: $id})-[r:RELATED]->(b:Identity)
RETURN b.id AS target, r.type AS type, r.strength AS strength, r.metadata AS metadata, r.ts AS ts
ORDER BY r.created, id(r)
`

// AddRelationship writes both directions in a single statement.
func (s *Neo4jStore) AddRelationship(ctx context.Context, edge models.RelationshipEdge) error {
	metadata := ""
	if len(edge.Metadata) > 0 {
		raw, err := json.Marshal(edge.Metadata)
		if err != nil {
			return fmt.Errorf("encode relationship metadata: %w", err)
		}
		metadata = string(raw)
	}

	params := map[string]any{
		"source":   edge.Source.String(),
		"target":   edge.Target.String(),
		"type":     string(edge.Type),
		"strength": edge.Strength,
		"metadata": metadata,
		"ts":       edge.Timestamp.UnixMilli(),
		"created":  s.now().UnixNano(),
	}
	if _, err := s.driver.ExecuteQuery(ctx, addRelationshipQuery, params); err != nil {
		return fmt.Errorf("add relationship: %w", err)
	}
	return nil
}

func (s *Neo4jStore) Edges(ctx context.Context, identity id.IdentityID) ([]models.RelationshipEdge, error) {
	result, err := s.driver.ExecuteQuery(ctx, edgesQuery, map[string]any{"id": identity.String()})
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}

	edges := make([]models.RelationshipEdge, 0, len(result.Records))
	for _, record := range result.Records {
		edge, err := edgeFromRecord(identity, record)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

func edgeFromRecord(source id.IdentityID, record *neo4j.Record) (models.RelationshipEdge, error) {
	target, _, err := neo4j.GetRecordValue[string](record, "target")
	if err != nil {
		return models.RelationshipEdge{}, fmt.Errorf("decode relationship target: %w", err)
	}
	relType, _, err := neo4j.GetRecordValue[string](record, "type")
	if err != nil {
		return models.RelationshipEdge{}, fmt.Errorf("decode relationship type: %w", err)
	}
	strength, _, err := neo4j.GetRecordValue[float64](record, "strength")
	if err != nil {
		return models.RelationshipEdge{}, fmt.Errorf("decode relationship strength: %w", err)
	}
	ts, _, err := neo4j.GetRecordValue[int64](record, "ts")
	if err != nil {
		return models.RelationshipEdge{}, fmt.Errorf("decode relationship timestamp: %w", err)
	}
	rawMetadata, _, err := neo4j.GetRecordValue[string](record, "metadata")
	if err != nil {
		return models.RelationshipEdge{}, fmt.Errorf("decode relationship metadata: %w", err)
	}

	edge := models.RelationshipEdge{
		Source:    source,
		Target:    id.IdentityID(target),
		Type:      models.RelationshipType(relType),
		Strength:  strength,
		Timestamp: time.UnixMilli(ts).UTC(),
	}
	if rawMetadata != "" {
		if err := json.Unmarshal([]byte(rawMetadata), &edge.Metadata); err != nil {
			return models.RelationshipEdge{}, fmt.Errorf("decode relationship metadata: %w", err)
		}
	}
	return edge, nil
}
